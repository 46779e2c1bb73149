package game

import "image/color"

// EntityID identifies an entity inside one World. IDs are never reused.
type EntityID uint64

// InvalidEntityID is the zero value, used for "no target"
const InvalidEntityID EntityID = 0

// Kind is the closed set of entity variants
type Kind int

const (
	KindPlayer Kind = iota
	KindAlly
	KindNation
	KindEnemyUnit
	KindZombie
	KindProjectile
	KindMagicEffect
	KindResource
	KindParticle
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindAlly:
		return "ally"
	case KindNation:
		return "nation"
	case KindEnemyUnit:
		return "enemy_unit"
	case KindZombie:
		return "zombie"
	case KindProjectile:
		return "projectile"
	case KindMagicEffect:
		return "magic_effect"
	case KindResource:
		return "resource"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Entity is the shape shared by every simulated object
type Entity struct {
	ID   EntityID
	Kind Kind

	// Position in world coordinates
	Pos Vec2

	// Velocity in world units per second
	Vel Vec2

	// Rotation in radians, 0 points east
	Rotation float64

	// Collision radius
	Radius float64

	Faction Faction

	// Hit points; an entity with HP <= 0 is always Dead
	HP    float64
	MaxHP float64
	Dead  bool

	Level int
}

// Actor is implemented by every entity record through the embedded Entity
type Actor interface {
	Base() *Entity
}

// Base returns the shared entity fields
func (e *Entity) Base() *Entity { return e }

// Alive reports whether the entity takes part in the simulation
func (e *Entity) Alive() bool {
	return !e.Dead && e.HP > 0
}

// Damage subtracts amount from HP and marks the entity dead when it runs out.
// It reports true only on the hit that killed the entity.
func (e *Entity) Damage(amount float64) bool {
	if e.Dead {
		return false
	}
	e.HP -= amount
	if e.HP <= 0 {
		e.HP = 0
		e.Dead = true
		return true
	}
	return false
}

// Kill marks the entity dead without a damage source
func (e *Entity) Kill() {
	e.HP = 0
	e.Dead = true
}

// Heal restores amount HP without exceeding MaxHP
func (e *Entity) Heal(amount float64) {
	e.HP = min(e.MaxHP, e.HP+amount)
}

// HealthFraction returns HP / MaxHP in [0, 1]
func (e *Entity) HealthFraction() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return max(0, min(1, e.HP/e.MaxHP))
}

// IsColliding checks circle overlap with another entity
func (e *Entity) IsColliding(other *Entity) bool {
	r := e.Radius + other.Radius
	return e.Pos.DistSq(other.Pos) < r*r
}

func newEntity(kind Kind, pos Vec2, radius float64, faction Faction, hp float64) Entity {
	return Entity{
		Kind:    kind,
		Pos:     pos,
		Radius:  radius,
		Faction: faction,
		HP:      hp,
		MaxHP:   hp,
		Level:   1,
	}
}

// Attack holds a weapon's damage, reach and cooldown state
type Attack struct {
	Damage       float64
	Range        float64
	Cooldown     float64
	CooldownLeft float64
}

// Ready reports whether the weapon can fire
func (a *Attack) Ready() bool { return a.CooldownLeft <= 0 }

// Tick counts the cooldown down
func (a *Attack) Tick(dt float64) {
	if a.CooldownLeft > 0 {
		a.CooldownLeft -= dt
	}
}

// Trigger starts a full cooldown
func (a *Attack) Trigger() { a.CooldownLeft = a.Cooldown }

// Player is the unit controlled through Input
type Player struct {
	Entity

	UnitType UnitType
	Speed    float64
	Attack   Attack

	// Magic regenerates over time and pays for spells and missiles
	Magic    float64
	MaxMagic float64

	// Missiles are charges reloaded one at a time
	Missiles      int
	MaxMissiles   int
	MissileReload float64

	Inventory Inventory

	// RespawnLeft counts down while the player is dead
	RespawnLeft float64
}

// AlliedUnit is a crafted follower of the player
type AlliedUnit struct {
	Entity

	UnitType UnitType
	Speed    float64
	Attack   Attack

	// LifespanSeconds is the time left before the unit despawns
	LifespanSeconds float64

	// Recruited units follow the player and engage on their own
	Recruited bool

	Target EntityID
}

// Nation is a base: the player's home or a rival
type Nation struct {
	Entity

	Name  string
	Color color.RGBA

	// Defense divides incoming damage
	Defense float64
	Attack  Attack

	// Units are the roaming units this nation owns
	Units []*EnemyUnit

	LastSpawn     float64
	SpawnInterval float64
	MaxUnits      int

	// RocketProgress is 0..100; only the home nation advances it
	RocketProgress float64
}

// IsHome reports whether n is the player's nation
func (n *Nation) IsHome() bool { return n.Faction == FactionPlayer }

// LiveUnits counts owned units that are still alive
func (n *Nation) LiveUnits() int {
	count := 0
	for _, u := range n.Units {
		if u.Alive() {
			count++
		}
	}
	return count
}

// EnemyState is the state of an EnemyUnit's machine
type EnemyState int

const (
	EnemyStatePatrol EnemyState = iota
	EnemyStateCombat
	EnemyStateReturn
)

func (s EnemyState) String() string {
	switch s {
	case EnemyStatePatrol:
		return "patrol"
	case EnemyStateCombat:
		return "combat"
	case EnemyStateReturn:
		return "return"
	default:
		return "unknown"
	}
}

// EnemyRole is either *GuardRole or *ForagerRole
type EnemyRole interface {
	// DetectRadius is how far the unit scans for targets while patrolling
	DetectRadius() float64

	// HateDuration is how long a target is kept once acquired
	HateDuration() float64

	enemyRole()
}

// GuardClass picks the chassis of a home guard
type GuardClass int

const (
	GuardTank GuardClass = iota
	GuardFighter
)

func (c GuardClass) String() string {
	if c == GuardTank {
		return "tank"
	}
	return "fighter"
}

// GuardRole is a permanent defender circling the home nation closely
type GuardRole struct {
	Class        GuardClass
	PatrolAngle  float64
	PatrolRadius float64
}

func (g *GuardRole) DetectRadius() float64 { return g.PatrolRadius + guardDetectBonus }
func (g *GuardRole) HateDuration() float64 { return guardHateDuration }
func (g *GuardRole) enemyRole()            {}

// ForagerRole is a roaming unit orbiting its nation at a wide radius
type ForagerRole struct {
	OrbitPhase float64
}

func (f *ForagerRole) DetectRadius() float64 { return foragerDetectRadius }
func (f *ForagerRole) HateDuration() float64 { return foragerHateDuration }
func (f *ForagerRole) enemyRole()            {}

// EnemyUnit is a unit owned by a nation. Home is a back-reference, not ownership.
type EnemyUnit struct {
	Entity

	Home  EntityID
	Role  EnemyRole
	State EnemyState

	Target   EntityID
	HateLeft float64

	Speed  float64
	Attack Attack
}

// IsGuard reports whether u is a home guard
func (u *EnemyUnit) IsGuard() bool {
	_, ok := u.Role.(*GuardRole)
	return ok
}

// ZombieState is the state of a Zombie's machine
type ZombieState int

const (
	ZombieStateIdle ZombieState = iota
	ZombieStateWander
	ZombieStateChase
	ZombieStateAttack
)

func (s ZombieState) String() string {
	switch s {
	case ZombieStateIdle:
		return "idle"
	case ZombieStateWander:
		return "wander"
	case ZombieStateChase:
		return "chase"
	case ZombieStateAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Zombie is a member of the horde
type Zombie struct {
	Entity

	Boss  bool
	State ZombieState

	Target EntityID

	// WanderTo is the current wander destination, valid when HasWander is set
	WanderTo  Vec2
	HasWander bool

	DetectRadius float64
	AttackRadius float64
	Attack       Attack

	ChaseSpeed  float64
	WanderSpeed float64

	// FadeLeft counts down after death until removal
	FadeLeft float64
}

// Projectile is a bullet, missile or base turret shot
type Projectile struct {
	Entity

	Weapon   WeaponType
	Damage   float64
	Speed    float64
	LifeLeft float64

	// Owner fired the shot
	Owner EntityID

	// Target is the homing target of a missile
	Target EntityID
}

// MagicEffect is a one-shot area damage pulse kept alive for display
type MagicEffect struct {
	Entity

	Magic    MagicType
	Damage   float64
	Duration float64
	LifeLeft float64
}

// ResourceItem is a pickup
type ResourceItem struct {
	Entity

	Resource ResourceKind
	Amount   int
}

// Particle is cosmetic only
type Particle struct {
	Entity

	Color    color.RGBA
	Alpha    float64
	Life     float64
	LifeLeft float64
}
