package game

// WeaponType defines the kinds of projectile
type WeaponType int

const (
	WeaponTypeBullet WeaponType = iota
	WeaponTypeMissile
	WeaponTypeTurret
)

func (w WeaponType) String() string {
	switch w {
	case WeaponTypeMissile:
		return "missile"
	case WeaponTypeTurret:
		return "turret"
	default:
		return "bullet"
	}
}

// WeaponConfig holds configuration for each weapon type
type WeaponConfig struct {
	Type     WeaponType
	Radius   float64
	Lifetime float64 // seconds before the projectile expires

	// DamageFactor scales the shooter's attack damage
	DamageFactor float64

	// Homing configuration, only used by missiles
	TurnRate   float64 // radians per second
	LockRadius float64
}

// GetWeaponConfig returns configuration for a weapon type
func GetWeaponConfig(weaponType WeaponType) WeaponConfig {
	switch weaponType {
	case WeaponTypeMissile:
		return WeaponConfig{
			Type:         WeaponTypeMissile,
			Radius:       10,
			Lifetime:     4,
			DamageFactor: 5,
			TurnRate:     3,
			LockRadius:   600,
		}
	case WeaponTypeTurret:
		return WeaponConfig{
			Type:         WeaponTypeTurret,
			Radius:       8,
			Lifetime:     3,
			DamageFactor: 1,
		}
	default:
		return WeaponConfig{
			Type:         WeaponTypeBullet,
			Radius:       10,
			Lifetime:     2,
			DamageFactor: 1,
		}
	}
}

// Projectile speeds by shooter
const (
	playerBulletSpeed = 600.0
	allyBulletSpeed   = 500.0
	enemyBulletSpeed  = 400.0
	turretBulletSpeed = 400.0
	missileSpeed      = 350.0
	turretMuzzleGap   = 10.0
)

// MagicType is one of the three spell kinds
type MagicType int

const (
	MagicFire MagicType = iota
	MagicWater
	MagicIce
)

func (m MagicType) String() string {
	switch m {
	case MagicWater:
		return "water"
	case MagicIce:
		return "ice"
	default:
		return "fire"
	}
}

// MagicConfig holds configuration for each spell
type MagicConfig struct {
	Type     MagicType
	Radius   float64
	Damage   float64
	Lifetime float64
	Cost     float64
	Cue      Cue
}

// GetMagicConfig returns configuration for a spell
func GetMagicConfig(magicType MagicType) MagicConfig {
	switch magicType {
	case MagicWater:
		return MagicConfig{Type: MagicWater, Radius: 100, Damage: 40, Lifetime: 1.5, Cost: magicCastCost, Cue: CueWater}
	case MagicIce:
		return MagicConfig{Type: MagicIce, Radius: 80, Damage: 60, Lifetime: 1.5, Cost: magicCastCost, Cue: CueIce}
	default:
		return MagicConfig{Type: MagicFire, Radius: 150, Damage: 80, Lifetime: 1.5, Cost: magicCastCost, Cue: CueFire}
	}
}
