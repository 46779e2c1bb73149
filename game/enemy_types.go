package game

// ZombieTypeConfig holds configuration for a zombie variant
type ZombieTypeConfig struct {
	Boss         bool
	Health       float64
	Radius       float64
	DetectRadius float64
	AttackRadius float64
	Damage       float64
	Cooldown     float64
	ChaseSpeed   float64
	WanderSpeed  float64
	Level        int

	// Drops is the number of pickups left on death, each holding DropMin..DropMax units
	Drops   int
	DropMin int
	DropMax int
}

// GetZombieTypeConfig returns configuration for a normal or boss zombie
func GetZombieTypeConfig(boss bool) ZombieTypeConfig {
	if boss {
		return ZombieTypeConfig{
			Boss:         true,
			Health:       500,
			Radius:       40,
			DetectRadius: 400,
			AttackRadius: 60,
			Damage:       30,
			Cooldown:     1.5,
			ChaseSpeed:   40,
			WanderSpeed:  25,
			Level:        5,
			Drops:        5,
			DropMin:      3,
			DropMax:      7,
		}
	}
	return ZombieTypeConfig{
		Health:       80,
		Radius:       20,
		DetectRadius: 200,
		AttackRadius: 30,
		Damage:       10,
		Cooldown:     1.0,
		ChaseSpeed:   25,
		WanderSpeed:  15,
		Level:        1,
		Drops:        1,
		DropMin:      1,
		DropMax:      1,
	}
}

// UnitStats is the chassis of an enemy unit
type UnitStats struct {
	Health   float64
	Speed    float64
	Damage   float64
	Range    float64
	Cooldown float64
	Radius   float64
}

// GetGuardStats returns the chassis of a home guard
func GetGuardStats(class GuardClass) UnitStats {
	switch class {
	case GuardTank:
		return UnitStats{Health: 200, Speed: 80, Damage: 25, Range: 250, Cooldown: 0.8, Radius: 30}
	default:
		return UnitStats{Health: 150, Speed: 120, Damage: 20, Range: 220, Cooldown: 0.5, Radius: 25}
	}
}

// rivalUnitStats is the chassis of every rival forager
var rivalUnitStats = UnitStats{Health: 100, Speed: 100, Damage: 15, Range: 200, Cooldown: 0.5, Radius: 25}

// NationTypeConfig holds the starting stats of a base
type NationTypeConfig struct {
	Health        float64
	Radius        float64
	Damage        float64
	Range         float64
	Cooldown      float64
	Defense       float64
	SpawnInterval float64
	MaxUnits      int
}

// GetNationTypeConfig returns base stats for the home nation or a rival
func GetNationTypeConfig(home bool) NationTypeConfig {
	if home {
		return NationTypeConfig{
			Health:        8000,
			Radius:        100,
			Damage:        15,
			Range:         250,
			Cooldown:      0.8,
			Defense:       1,
			SpawnInterval: 8,
			MaxUnits:      10,
		}
	}
	return NationTypeConfig{
		Health:        6000,
		Radius:        90,
		Damage:        12,
		Range:         220,
		Cooldown:      1.0,
		Defense:       1,
		SpawnInterval: 10,
		MaxUnits:      5,
	}
}

// Enemy unit behaviour constants
const (
	guardPatrolRadius    = 150.0
	guardPatrolTurnRate  = 0.8 // radians per second
	guardSpeedFactor     = 0.8
	guardDetectBonus     = 100.0
	guardHateDuration    = 5.0
	guardSpawnOffset     = 80.0
	guardCheckInterval   = 10.0
	foragerOrbitRadius   = 300.0
	foragerSpeedFactor   = 0.5
	foragerDetectRadius  = 250.0
	foragerHateDuration  = 10.0
	foragerSpawnOffset   = 30.0
	returnSpeedFactor    = 1.5
	returnHealRate       = 15.0 // HP per second inside the home radius
	returnHealThreshold  = 0.8
	retreatHealthFactor  = 0.3
	leashDistance        = 500.0
	zombieWanderArrival  = 10.0
	zombieEdgeOffset     = 50.0
	nationRingFactor     = 0.35
	baseHealInterval     = 10.0
	baseHealFraction     = 0.01
	baseHealNoticePeriod = 30.0
	productionInterval   = 12.0
)
