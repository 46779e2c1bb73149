package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

const (
	dropDistanceMin = 20.0
	dropDistanceMax = 50.0
	dropRadius      = 30.0
)

// hitOrder ranks target kinds for a projectile touching several at once
var hitOrder = map[Kind]int{
	KindZombie:    0,
	KindEnemyUnit: 1,
	KindPlayer:    2,
	KindAlly:      3,
	KindNation:    4,
}

// CombatResolver handles projectile hits, damage and death side effects
type CombatResolver struct {
	world     *World
	particles *ParticleSystem
	fb        *feedback
	rng       *rand.Rand
	stats     *Stats
	logger    *slog.Logger
}

// NewCombatResolver creates a combat resolver bound to a world
func NewCombatResolver(world *World, particles *ParticleSystem, fb *feedback, rng *rand.Rand, stats *Stats, logger *slog.Logger) *CombatResolver {
	return &CombatResolver{
		world:     world,
		particles: particles,
		fb:        fb,
		rng:       rng,
		stats:     stats,
		logger:    logger,
	}
}

// Resolve tests every live projectile against hostile actors. A projectile hits at
// most one target and is consumed by it.
func (c *CombatResolver) Resolve() {
	grid := c.world.rebuildGrid()

	for _, p := range c.world.Projectiles {
		if p.Dead {
			continue
		}

		var hit Actor
		for _, candidate := range grid.Query(p.Pos, p.Radius) {
			e := candidate.Base()
			if !e.Alive() || e.ID == p.Owner || !Hostile(p.Faction, e.Faction) {
				continue
			}
			if hit == nil || before(e, hit.Base()) {
				hit = candidate
			}
		}
		if hit == nil {
			continue
		}

		p.Dead = true
		c.ApplyDamage(hit, p.Damage)
	}
}

// before orders hit candidates by kind priority, then by id
func before(a, b *Entity) bool {
	if hitOrder[a.Kind] != hitOrder[b.Kind] {
		return hitOrder[a.Kind] < hitOrder[b.Kind]
	}
	return a.ID < b.ID
}

// ApplyDamage hurts target and runs death effects when the hit kills it. Damage
// to a nation is divided by its defense. It reports whether the target died.
func (c *CombatResolver) ApplyDamage(target Actor, amount float64) bool {
	if n, ok := target.(*Nation); ok && n.Defense > 0 {
		amount /= n.Defense
	}
	if !target.Base().Damage(amount) {
		return false
	}
	c.onDeath(target)
	return true
}

// onDeath runs the side effects of a kill
func (c *CombatResolver) onDeath(target Actor) {
	e := target.Base()
	c.particles.Ash(e.Pos)

	switch t := target.(type) {
	case *Zombie:
		t.FadeLeft = c.world.Config.ZombieFadeTime
		t.Target = InvalidEntityID
		c.stats.ZombiesKilled++
		c.dropResources(t)
		c.fb.cue(CueZombie)
	case *EnemyUnit:
		t.Target = InvalidEntityID
		c.stats.UnitsKilled++
	case *AlliedUnit:
		c.fb.notify(fmt.Sprintf("Your %s was destroyed", t.UnitType), ColorWarning)
	case *Player:
		t.RespawnLeft = c.world.Config.RespawnDelay
		c.fb.notify(fmt.Sprintf("You died, respawning in %.0fs", t.RespawnLeft), ColorBad)
		c.fb.cue(CueExplosion)
	case *Nation:
		c.world.ClearNationUnits(t)
		c.fb.cue(CueExplosion)
		if t.IsHome() {
			c.fb.notify("Home base destroyed", ColorBad)
		} else {
			c.stats.NationsDestroyed++
			c.fb.notify(fmt.Sprintf("%s destroyed", t.Name), ColorGood)
		}
		c.logger.Info("nation destroyed", "nation", t.Name, "faction", t.Faction.String())
	}
}

// dropResources scatters pickups around a dead zombie
func (c *CombatResolver) dropResources(z *Zombie) {
	cfg := GetZombieTypeConfig(z.Boss)
	for i := 0; i < cfg.Drops; i++ {
		angle := c.rng.Float64() * 2 * math.Pi
		dist := dropDistanceMin + c.rng.Float64()*(dropDistanceMax-dropDistanceMin)
		amount := cfg.DropMin
		if cfg.DropMax > cfg.DropMin {
			amount += c.rng.Intn(cfg.DropMax - cfg.DropMin + 1)
		}
		item := &ResourceItem{
			Entity:   newEntity(KindResource, c.world.ClampToMap(z.Pos.Add(FromAngle(angle, dist)), 0), dropRadius, FactionNeutral, 1),
			Resource: ResourceKind(c.rng.Intn(int(ResourceKindCount))),
			Amount:   amount,
		}
		c.world.AddResource(item)
	}
}

// CastMagic creates a spell effect at center and damages every live zombie inside its
// radius and every live nation hostile to faction whose edge it reaches. Damage is
// applied once, here.
func (c *CombatResolver) CastMagic(kind MagicType, center Vec2, owner *Entity) *MagicEffect {
	cfg := GetMagicConfig(kind)
	effect := &MagicEffect{
		Entity:   newEntity(KindMagicEffect, center, cfg.Radius, owner.Faction, 1),
		Magic:    kind,
		Damage:   cfg.Damage,
		Duration: cfg.Lifetime,
		LifeLeft: cfg.Lifetime,
	}
	c.world.AddEffect(effect)

	for _, z := range c.world.Zombies {
		if z.Alive() && center.Dist(z.Pos) < cfg.Radius {
			c.ApplyDamage(z, cfg.Damage)
		}
	}
	for _, n := range c.world.HostileNations(owner.Faction) {
		if n.Alive() && center.Dist(n.Pos) < cfg.Radius+n.Radius {
			c.ApplyDamage(n, cfg.Damage)
		}
	}

	c.fb.cue(cfg.Cue)
	return effect
}
