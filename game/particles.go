package game

import (
	"image/color"
	"math"
	"math/rand"
)

const (
	ashBurstSize    = 8
	ashSpeedMin     = 20.0
	ashSpeedMax     = 50.0
	ashLifetimeMin  = 0.5
	ashLifetimeMax  = 1.0
	particlePruning = 20
)

var ashColor = color.RGBA{90, 90, 90, 255}

// ParticleSystem emits and ages cosmetic particles
type ParticleSystem struct {
	world *World
	rng   *rand.Rand
}

// NewParticleSystem creates a particle system bound to a world
func NewParticleSystem(world *World, rng *rand.Rand) *ParticleSystem {
	return &ParticleSystem{world: world, rng: rng}
}

// Burst emits n particles radiating from pos. When the world is over the particle
// cap the oldest ones are dropped first.
func (ps *ParticleSystem) Burst(pos Vec2, n int, c color.RGBA) {
	if len(ps.world.Particles) > ps.world.Config.MaxParticles {
		drop := min(particlePruning, len(ps.world.Particles))
		ps.world.Particles = append(ps.world.Particles[:0], ps.world.Particles[drop:]...)
	}

	for i := 0; i < n; i++ {
		angle := ps.rng.Float64() * 2 * math.Pi
		speed := ashSpeedMin + ps.rng.Float64()*(ashSpeedMax-ashSpeedMin)
		life := ashLifetimeMin + ps.rng.Float64()*(ashLifetimeMax-ashLifetimeMin)
		p := &Particle{
			Entity:   newEntity(KindParticle, pos, 2+ps.rng.Float64()*3, FactionNeutral, 1),
			Color:    c,
			Alpha:    1,
			Life:     life,
			LifeLeft: life,
		}
		p.Vel = FromAngle(angle, speed)
		ps.world.AddParticle(p)
	}
}

// Ash emits the standard death burst
func (ps *ParticleSystem) Ash(pos Vec2) {
	ps.Burst(pos, ashBurstSize, ashColor)
}

// Advance moves particles and fades them out over their lifetime
func (ps *ParticleSystem) Advance(dt float64) {
	for _, p := range ps.world.Particles {
		p.LifeLeft -= dt
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		if p.Life > 0 {
			p.Alpha = max(0, p.LifeLeft/p.Life)
		}
	}
}
