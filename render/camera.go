package render

import "polarapocalypse/game"

// Camera is the viewport into the world
type Camera struct {
	X, Y   float64 // center in world coordinates
	Zoom   float64
	Width  float64
	Height float64
}

// NewCamera creates an unzoomed camera for a viewport of the given size
func NewCamera(width, height float64) *Camera {
	return &Camera{Zoom: 1, Width: width, Height: height}
}

// Follow centers on p, keeping the view inside the map where the map is larger than the view
func (c *Camera) Follow(p game.Vec2, mapW, mapH float64) {
	halfW := c.Width / 2 / c.Zoom
	halfH := c.Height / 2 / c.Zoom
	c.X = clampAxis(p.X, halfW, mapW)
	c.Y = clampAxis(p.Y, halfH, mapH)
}

func clampAxis(v, half, size float64) float64 {
	if size <= 2*half {
		return size / 2
	}
	return max(half, min(size-half, v))
}

// WorldToScreen converts world coordinates to screen coordinates
func (c *Camera) WorldToScreen(p game.Vec2) (float64, float64) {
	sx := (p.X-c.X)*c.Zoom + c.Width/2
	sy := (p.Y-c.Y)*c.Zoom + c.Height/2
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates
func (c *Camera) ScreenToWorld(sx, sy float64) game.Vec2 {
	return game.Vec2{
		X: (sx-c.Width/2)/c.Zoom + c.X,
		Y: (sy-c.Height/2)/c.Zoom + c.Y,
	}
}

// Visible reports whether a circle at p with radius r touches the viewport
func (c *Camera) Visible(p game.Vec2, r float64) bool {
	sx, sy := c.WorldToScreen(p)
	m := r*c.Zoom + 4
	return sx >= -m && sx <= c.Width+m && sy >= -m && sy <= c.Height+m
}
