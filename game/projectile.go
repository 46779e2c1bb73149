package game

// ProjectileSystem creates and advances projectiles
type ProjectileSystem struct {
	world *World
	stats *Stats
}

// NewProjectileSystem creates a projectile system bound to a world
func NewProjectileSystem(world *World, stats *Stats) *ProjectileSystem {
	return &ProjectileSystem{world: world, stats: stats}
}

// Fire launches an unguided projectile from the shooter's side
func (ps *ProjectileSystem) Fire(owner *Entity, weapon WeaponType, from Vec2, angle, speed, damage float64) *Projectile {
	cfg := GetWeaponConfig(weapon)
	p := &Projectile{
		Entity:   newEntity(KindProjectile, from, cfg.Radius, owner.Faction, 1),
		Weapon:   weapon,
		Damage:   damage * cfg.DamageFactor,
		Speed:    speed,
		LifeLeft: cfg.Lifetime,
		Owner:    owner.ID,
	}
	p.Rotation = angle
	p.Vel = FromAngle(angle, speed)
	ps.world.AddProjectile(p)
	ps.stats.ProjectilesFired++
	return p
}

// FireMissile launches a homing missile. The target is locked at launch; with nothing
// to lock the missile flies straight along angle.
func (ps *ProjectileSystem) FireMissile(owner *Entity, from Vec2, angle, damage float64) *Projectile {
	p := ps.Fire(owner, WeaponTypeMissile, from, angle, missileSpeed, damage)
	p.Target = ps.AcquireMissileTarget(from, owner.Faction)
	return p
}

// AcquireMissileTarget picks the nearest live zombie inside the lock radius, falling
// back to the nearest live hostile nation whose edge is inside it
func (ps *ProjectileSystem) AcquireMissileTarget(from Vec2, faction Faction) EntityID {
	lock := GetWeaponConfig(WeaponTypeMissile).LockRadius

	best := InvalidEntityID
	bestDist := lock
	for _, z := range ps.world.Zombies {
		if !z.Alive() {
			continue
		}
		if d := from.Dist(z.Pos); d < bestDist {
			best, bestDist = z.ID, d
		}
	}
	if best != InvalidEntityID {
		return best
	}

	bestDist = lock
	for _, n := range ps.world.HostileNations(faction) {
		if !n.Alive() {
			continue
		}
		if d := from.Dist(n.Pos) - n.Radius; d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best
}

// Advance moves every live projectile, steers missiles and expires old or
// out-of-bounds shots
func (ps *ProjectileSystem) Advance(dt float64) {
	for _, p := range ps.world.Projectiles {
		if p.Dead {
			continue
		}

		p.LifeLeft -= dt
		if p.LifeLeft <= 0 {
			p.Dead = true
			continue
		}

		if p.Weapon == WeaponTypeMissile && p.Target != InvalidEntityID {
			ps.steer(p, dt)
		}

		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		if !ps.world.InBounds(p.Pos) {
			p.Dead = true
		}
	}
}

// steer turns a missile toward its target at a bounded rate
func (ps *ProjectileSystem) steer(p *Projectile, dt float64) {
	target := ps.world.LiveTarget(p.Target)
	if target == nil {
		p.Target = InvalidEntityID
		return
	}
	bearing := target.Pos.Sub(p.Pos).Angle()
	p.Rotation = RotateTowards(p.Rotation, bearing, GetWeaponConfig(WeaponTypeMissile).TurnRate, dt)
	p.Vel = FromAngle(p.Rotation, p.Speed)
}
