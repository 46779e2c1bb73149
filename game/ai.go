package game

import (
	"math"
	"math/rand"
)

// AIController runs the zombie and enemy unit state machines and the base turrets
type AIController struct {
	world       *World
	combat      *CombatResolver
	projectiles *ProjectileSystem
	rng         *rand.Rand
}

// NewAIController creates an AI controller bound to a world
func NewAIController(world *World, combat *CombatResolver, projectiles *ProjectileSystem, rng *rand.Rand) *AIController {
	return &AIController{
		world:       world,
		combat:      combat,
		projectiles: projectiles,
		rng:         rng,
	}
}

// nearest returns the candidate closest to from within radius
func nearest(from Vec2, radius float64, candidates []Actor) Actor {
	var best Actor
	bestDist := radius
	for _, a := range candidates {
		if d := from.Dist(a.Base().Pos); d <= bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

// zombieTargets lists what the horde hunts: the player, allies and rival units
func (ai *AIController) zombieTargets() []Actor {
	var targets []Actor
	if p := ai.world.Player; p != nil && p.Alive() {
		targets = append(targets, p)
	}
	for _, a := range ai.world.Allies {
		if a.Alive() {
			targets = append(targets, a)
		}
	}
	for _, n := range ai.world.Nations {
		if n.IsHome() {
			continue
		}
		for _, u := range n.Units {
			if u.Alive() {
				targets = append(targets, u)
			}
		}
	}
	return targets
}

// UpdateZombies advances every zombie one tick
func (ai *AIController) UpdateZombies(dt float64) {
	targets := ai.zombieTargets()
	for _, z := range ai.world.Zombies {
		if z.Dead {
			z.FadeLeft -= dt
			continue
		}
		ai.updateZombie(z, targets, dt)
	}
}

func (ai *AIController) updateZombie(z *Zombie, targets []Actor, dt float64) {
	z.Attack.Tick(dt)

	// Drop a stale reference before doing anything with it
	if ai.world.LiveTarget(z.Target) == nil {
		z.Target = InvalidEntityID
	}

	live := targets[:0:0]
	for _, t := range targets {
		if t.Base().Alive() {
			live = append(live, t)
		}
	}
	found := nearest(z.Pos, z.DetectRadius, live)
	if found == nil {
		z.Target = InvalidEntityID
		ai.wander(z, dt)
		return
	}

	target := found.Base()
	z.Target = target.ID
	z.Rotation = target.Pos.Sub(z.Pos).Angle()

	if z.Pos.Dist(target.Pos) <= z.AttackRadius {
		z.State = ZombieStateAttack
		z.Vel = Vec2{}
		if z.Attack.Ready() {
			ai.combat.ApplyDamage(found, z.Attack.Damage)
			z.Attack.Trigger()
		}
		return
	}

	z.State = ZombieStateChase
	ai.move(&z.Entity, target.Pos, z.ChaseSpeed, dt)
}

// wander walks toward a random destination, choosing a new one on arrival
func (ai *AIController) wander(z *Zombie, dt float64) {
	z.State = ZombieStateWander
	if !z.HasWander || z.Pos.Dist(z.WanderTo) < zombieWanderArrival {
		z.WanderTo = Vec2{
			X: ai.rng.Float64() * ai.world.Config.MapWidth,
			Y: ai.rng.Float64() * ai.world.Config.MapHeight,
		}
		z.HasWander = true
	}
	ai.move(&z.Entity, z.WanderTo, z.WanderSpeed, dt)
}

// move steps e toward target and records velocity and heading
func (ai *AIController) move(e *Entity, target Vec2, speed, dt float64) {
	next, heading, moved := stepToward(e.Pos, target, speed*dt)
	if !moved {
		e.Vel = Vec2{}
		return
	}
	if dt > 0 {
		e.Vel = next.Sub(e.Pos).Scale(1 / dt)
	}
	e.Pos = next
	e.Rotation = heading
}

// enemyTargets lists every live actor an enemy unit may engage
func (ai *AIController) enemyTargets() []Actor {
	targets := ai.zombieTargets()
	for _, z := range ai.world.Zombies {
		if z.Alive() {
			targets = append(targets, z)
		}
	}
	if home := ai.world.HomeNation(); home != nil {
		for _, u := range home.Units {
			if u.Alive() {
				targets = append(targets, u)
			}
		}
	}
	return targets
}

// UpdateEnemyUnits advances the units of every nation one tick. elapsed is the
// simulation time, which drives forager orbits.
func (ai *AIController) UpdateEnemyUnits(dt, elapsed float64) {
	all := ai.enemyTargets()
	for _, n := range ai.world.Nations {
		for _, u := range n.Units {
			if !u.Alive() {
				continue
			}
			if !n.Alive() {
				u.Kill()
				continue
			}
			ai.updateEnemyUnit(u, n, all, dt, elapsed)
		}
	}
}

func (ai *AIController) updateEnemyUnit(u *EnemyUnit, home *Nation, all []Actor, dt, elapsed float64) {
	u.Attack.Tick(dt)

	if u.HateLeft > 0 {
		u.HateLeft -= dt
		if u.HateLeft <= 0 {
			u.HateLeft = 0
			if u.State == EnemyStateCombat {
				u.Target = InvalidEntityID
				u.State = EnemyStateReturn
			}
		}
	}

	target := ai.world.LiveTarget(u.Target)
	if target == nil && u.Target != InvalidEntityID {
		u.Target = InvalidEntityID
		if u.State == EnemyStateCombat {
			u.State = EnemyStateReturn
		}
	}

	var dest Vec2
	var speed float64
	moving := false

	switch u.State {
	case EnemyStatePatrol:
		dest, speed = ai.patrolPoint(u, home, dt, elapsed)
		moving = true
		if found := ai.acquire(u, all); found != nil {
			u.Target = found.Base().ID
			u.HateLeft = u.Role.HateDuration()
			u.State = EnemyStateCombat
		}

	case EnemyStateCombat:
		if u.HP < u.MaxHP*retreatHealthFactor {
			u.Target = InvalidEntityID
			u.State = EnemyStateReturn
			break
		}
		if target == nil {
			u.State = EnemyStateReturn
			break
		}
		dist := u.Pos.Dist(target.Pos)
		if dist <= u.Role.DetectRadius() {
			u.HateLeft = u.Role.HateDuration()
		}
		u.Rotation = target.Pos.Sub(u.Pos).Angle()
		if dist > u.Attack.Range {
			dest, speed, moving = target.Pos, u.Speed, true
		} else {
			u.Vel = Vec2{}
			if u.Attack.Ready() {
				ai.projectiles.Fire(&u.Entity, WeaponTypeBullet, u.Pos, u.Rotation, enemyBulletSpeed, u.Attack.Damage)
				u.Attack.Trigger()
			}
		}

	case EnemyStateReturn:
		if u.Pos.Dist(home.Pos) > home.Radius {
			dest, speed, moving = home.Pos, u.Speed*returnSpeedFactor, true
			break
		}
		u.Vel = Vec2{}
		u.Heal(returnHealRate * dt)
		if u.HP >= u.MaxHP*returnHealThreshold {
			u.State = EnemyStatePatrol
		}
	}

	// The leash replaces movement but not combat
	if u.Pos.Dist(home.Pos) > leashDistance {
		dest, speed, moving = home.Pos, u.Speed, true
	}
	if moving {
		ai.move(&u.Entity, dest, speed, dt)
	}
}

// patrolPoint advances the role's patrol and returns where the unit heads next
func (ai *AIController) patrolPoint(u *EnemyUnit, home *Nation, dt, elapsed float64) (Vec2, float64) {
	switch role := u.Role.(type) {
	case *GuardRole:
		role.PatrolAngle = math.Mod(role.PatrolAngle+guardPatrolTurnRate*dt, 2*math.Pi)
		return home.Pos.Add(FromAngle(role.PatrolAngle, role.PatrolRadius)), u.Speed * guardSpeedFactor
	case *ForagerRole:
		angle := elapsed/2 + role.OrbitPhase
		return home.Pos.Add(FromAngle(angle, foragerOrbitRadius)), u.Speed * foragerSpeedFactor
	default:
		return home.Pos, u.Speed
	}
}

// acquire returns the nearest hostile actor inside the unit's detection radius
func (ai *AIController) acquire(u *EnemyUnit, all []Actor) Actor {
	hostile := make([]Actor, 0, len(all))
	for _, a := range all {
		e := a.Base()
		if e.Alive() && e.ID != u.ID && Hostile(u.Faction, e.Faction) {
			hostile = append(hostile, a)
		}
	}
	return nearest(u.Pos, u.Role.DetectRadius(), hostile)
}

// UpdateTurrets lets every live nation fire at the nearest eligible target in range.
// The home base shoots zombies and rival units; rival bases shoot the player and allies.
func (ai *AIController) UpdateTurrets(dt float64) {
	for _, n := range ai.world.Nations {
		if !n.Alive() {
			continue
		}
		n.Attack.Tick(dt)
		if !n.Attack.Ready() {
			continue
		}

		var candidates []Actor
		if n.IsHome() {
			for _, z := range ai.world.Zombies {
				if z.Alive() {
					candidates = append(candidates, z)
				}
			}
			for _, other := range ai.world.Nations {
				if other.IsHome() || !other.Alive() {
					continue
				}
				for _, u := range other.Units {
					if u.Alive() {
						candidates = append(candidates, u)
					}
				}
			}
		} else {
			if p := ai.world.Player; p != nil && p.Alive() {
				candidates = append(candidates, p)
			}
			for _, a := range ai.world.Allies {
				if a.Alive() {
					candidates = append(candidates, a)
				}
			}
		}

		found := nearest(n.Pos, n.Attack.Range, candidates)
		if found == nil {
			continue
		}
		angle := found.Base().Pos.Sub(n.Pos).Angle()
		muzzle := n.Pos.Add(FromAngle(angle, n.Radius+turretMuzzleGap))
		ai.projectiles.Fire(&n.Entity, WeaponTypeTurret, muzzle, angle, turretBulletSpeed, n.Attack.Damage)
		n.Attack.Trigger()
	}
}
