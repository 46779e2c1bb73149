package game

// UnitType defines the chassis of the player and crafted allies
type UnitType int

const (
	UnitTypeFighter UnitType = iota
	UnitTypeTank
	UnitTypeSoldier
	UnitTypeCount // Total number of unit types
)

func (t UnitType) String() string {
	return GetUnitTypeConfig(t).Name
}

// UnitTypeConfig holds configuration for each unit type
type UnitTypeConfig struct {
	Type     UnitType
	Name     string
	Health   float64
	Speed    float64
	Damage   float64
	Range    float64
	Cooldown float64
	Radius   float64

	// FollowDistance is how far a recruited ally of this type trails the player
	FollowDistance float64

	// CraftCost is the price of an allied unit of this type (nil = not craftable)
	CraftCost Cost
}

// GetUnitTypeConfig returns configuration for a unit type
func GetUnitTypeConfig(unitType UnitType) UnitTypeConfig {
	switch unitType {
	case UnitTypeFighter:
		return UnitTypeConfig{
			Type:           UnitTypeFighter,
			Name:           "fighter",
			Health:         100,
			Speed:          250,
			Damage:         15,
			Range:          300,
			Cooldown:       0.15,
			Radius:         25,
			FollowDistance: 150,
			CraftCost:      Cost{ResourceMetal: 15, ResourceElectronics: 8, ResourceFuel: 5},
		}
	case UnitTypeTank:
		return UnitTypeConfig{
			Type:           UnitTypeTank,
			Name:           "tank",
			Health:         300,
			Speed:          120,
			Damage:         35,
			Range:          250,
			Cooldown:       0.2,
			Radius:         35,
			FollowDistance: 100,
			CraftCost:      Cost{ResourceMetal: 20, ResourceBinder: 10, ResourceElectronics: 8, ResourceFuel: 5},
		}
	case UnitTypeSoldier:
		return UnitTypeConfig{
			Type:           UnitTypeSoldier,
			Name:           "soldier",
			Health:         150,
			Speed:          180,
			Damage:         25,
			Range:          200,
			Cooldown:       0.3,
			Radius:         20,
			FollowDistance: 100,
		}
	default:
		return GetUnitTypeConfig(UnitTypeFighter)
	}
}

const (
	// allySpeedFactor and allyDamageFactor scale crafted allies against the player chassis
	allySpeedFactor       = 0.8
	allyDamageFactor      = 0.7
	// allyFollowSpeedFactor slows allies further while they trail the player
	allyFollowSpeedFactor = 0.8
	recruitRadius         = 200.0
)

// Starting player resources
const (
	playerStartMagic      = 100.0
	playerMagicRegen      = 5.0 // per second
	playerStartMissiles   = 5
	playerMaxMissiles     = 10
	missileReloadTime     = 3.0
	playerHomeHealRate    = 8.0 // HP per second near home
	playerHomeHealMargin  = 50.0
	playerRespawnHealth   = 0.5
	playerMapMargin       = 50.0
	pickupRangeBonus      = 20.0
	stickDeadZone         = 0.1
	weaponMuzzleOffset    = 30.0
	magicCastDistance     = 100.0
	missileMagicCost      = 30.0
	missileLaunchCooldown = 1.5
	magicCastCost         = 25.0
)

// startingInventory is the inventory of a fresh player
func startingInventory() Inventory {
	var inv Inventory
	inv[ResourceMetal] = 20
	inv[ResourceBinder] = 15
	inv[ResourceElectronics] = 10
	inv[ResourceCrystal] = 0
	inv[ResourceFuel] = 10
	inv[ResourceAmmo] = 5
	return inv
}
