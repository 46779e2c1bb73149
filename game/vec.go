package game

import "math"

// Vec2 is a point or direction in world space
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the length of v
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and o
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// DistSq returns the squared distance between v and o
func (v Vec2) DistSq(o Vec2) float64 {
	dx := o.X - v.X
	dy := o.Y - v.Y
	return dx*dx + dy*dy
}

// Normalize returns v scaled to unit length, or the zero vector
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Angle returns the heading of v in radians
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Rotate turns v by angle radians
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// FromAngle returns a vector of the given length pointing along angle
func FromAngle(angle, length float64) Vec2 {
	return Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}

// NormalizeAngle wraps an angle to [-Pi, Pi]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// stepToward moves from toward target by at most step and reports the new position
// and the heading of travel. A zero-length gap returns from unchanged.
func stepToward(from, target Vec2, step float64) (Vec2, float64, bool) {
	d := target.Sub(from)
	dist := d.Len()
	if dist == 0 {
		return from, 0, false
	}
	if step > dist {
		step = dist
	}
	return from.Add(d.Scale(step / dist)), d.Angle(), true
}
