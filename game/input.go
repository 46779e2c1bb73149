package game

import "math"

// Input is the normalized intent consumed by one tick
type Input struct {
	// Movement as four directions or an analog stick; the stick wins when deflected
	Up, Down, Left, Right bool
	Stick                 Vec2

	// Aim is a world point the player faces; ignored unless HasAim is set
	Aim    Vec2
	HasAim bool

	// Fire and Missile are held actions, repeating on cooldown
	Fire    bool
	Missile bool

	// Spell casts are edge-triggered
	CastFire  bool
	CastWater bool
	CastIce   bool

	Recruit bool
}

// Direction returns the unit movement vector requested by the input
func (in Input) Direction() Vec2 {
	if in.Stick.Len() > stickDeadZone {
		if in.Stick.Len() > 1 {
			return in.Stick.Normalize()
		}
		return in.Stick
	}
	var d Vec2
	if in.Up {
		d.Y--
	}
	if in.Down {
		d.Y++
	}
	if in.Left {
		d.X--
	}
	if in.Right {
		d.X++
	}
	return d.Normalize()
}

// InputProvider produces the input for the next tick
type InputProvider interface {
	Poll(w *World) Input
}

// Autopilot plays the player unit: it heads for the nearest hostile, leads its
// shots, launches missiles at locked zombies and casts fire into clusters
type Autopilot struct {
	// Engage is the distance the autopilot keeps from its target
	Engage float64

	castFire bool
}

// NewAutopilot creates an autopilot input provider
func NewAutopilot() *Autopilot {
	return &Autopilot{Engage: 220}
}

// Poll implements InputProvider
func (a *Autopilot) Poll(w *World) Input {
	var in Input
	p := w.Player
	if p == nil || !p.Alive() {
		return in
	}

	target := a.pickTarget(w, p)
	if target == nil {
		// Drift back toward home when idle
		if home := w.HomeNation(); home != nil && p.Pos.Dist(home.Pos) > home.Radius {
			in.Stick = home.Pos.Sub(p.Pos).Normalize()
		}
		return in
	}

	dist := p.Pos.Dist(target.Pos)
	switch {
	case dist > a.Engage:
		in.Stick = target.Pos.Sub(p.Pos).Normalize()
	case dist < a.Engage/2:
		in.Stick = p.Pos.Sub(target.Pos).Normalize()
	}

	in.Aim = PredictiveAim(p.Pos, target.Pos, target.Vel, playerBulletSpeed)
	in.HasAim = true
	in.Fire = dist <= p.Attack.Range+target.Radius

	if target.Kind == KindZombie && p.Missiles > 0 && p.Magic >= missileMagicCost+magicCastCost {
		in.Missile = true
	}

	// Cast fire when a cluster sits where the spell lands; release the key in between
	// so the cast stays edge-triggered
	if a.castFire {
		a.castFire = false
	} else if p.Magic >= magicCastCost && a.clusterAt(w, p.Pos.Add(FromAngle(in.Aim.Sub(p.Pos).Angle(), magicCastDistance))) >= 3 {
		in.CastFire = true
		a.castFire = true
	}
	return in
}

// pickTarget returns the nearest live zombie or rival unit, or nil
func (a *Autopilot) pickTarget(w *World, p *Player) *Entity {
	var best *Entity
	bestDist := math.Inf(1)
	consider := func(e *Entity) {
		if !e.Alive() || !Hostile(p.Faction, e.Faction) {
			return
		}
		if d := p.Pos.Dist(e.Pos); d < bestDist {
			best, bestDist = e, d
		}
	}
	for _, z := range w.Zombies {
		consider(&z.Entity)
	}
	for _, n := range w.Nations {
		if n.IsHome() {
			continue
		}
		for _, u := range n.Units {
			consider(&u.Entity)
		}
	}
	return best
}

// clusterAt counts live zombies a fire spell at pos would hit
func (a *Autopilot) clusterAt(w *World, pos Vec2) int {
	radius := GetMagicConfig(MagicFire).Radius
	count := 0
	for _, z := range w.Zombies {
		if z.Alive() && z.Pos.Dist(pos) < radius {
			count++
		}
	}
	return count
}
