package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

var (
	// ErrInsufficientResources is returned when the inventory cannot cover a cost
	ErrInsufficientResources = errors.New("insufficient resources")

	// ErrPopulationCap is returned when crafting would exceed the ally cap
	ErrPopulationCap = errors.New("ally population cap reached")

	// ErrNoHomeNation is returned when the home nation is missing or destroyed
	ErrNoHomeNation = errors.New("home nation unavailable")

	// ErrNotCraftable is returned for unit types that cannot be crafted
	ErrNotCraftable = errors.New("unit type cannot be crafted")

	// ErrNothingToContribute is returned when the inventory holds no rocket materials
	ErrNothingToContribute = errors.New("no rocket materials to contribute")
)

// UpgradeCost is the price of one home base level
var UpgradeCost = Cost{ResourceMetal: 15, ResourceBinder: 10, ResourceElectronics: 8}

// rocketMaterials are the kinds accepted by the rocket
var rocketMaterials = []ResourceKind{ResourceMetal, ResourceBinder, ResourceElectronics, ResourceFuel}

const (
	rocketProgressPerUnit = 0.5
	rocketComplete        = 100.0
	allySpawnSpread       = 50.0
	upgradeHealthFactor   = 1.3
	upgradeDefenseFactor  = 1.2
	upgradeDamageFactor   = 1.3
	upgradeRangeFactor    = 1.15
	upgradeBonusHeal      = 0.2
	baseRadiusStep        = 0.1
	baseRadiusUnit        = 100.0
)

// EconomyManager validates and applies resource costs
type EconomyManager struct {
	world  *World
	fb     *feedback
	rng    *rand.Rand
	logger *slog.Logger

	// onRocketComplete is invoked when a contribution brings progress to 100
	onRocketComplete func()
}

// NewEconomyManager creates an economy manager bound to a world
func NewEconomyManager(world *World, fb *feedback, rng *rand.Rand, logger *slog.Logger, onRocketComplete func()) *EconomyManager {
	return &EconomyManager{
		world:            world,
		fb:               fb,
		rng:              rng,
		logger:           logger,
		onRocketComplete: onRocketComplete,
	}
}

// CanAfford reports whether the player's inventory covers c
func (em *EconomyManager) CanAfford(c Cost) bool {
	p := em.world.Player
	return p != nil && p.Inventory.CanAfford(c)
}

// pay deducts c or reports what is missing. Nothing is deducted on failure.
func (em *EconomyManager) pay(c Cost, action string) error {
	p := em.world.Player
	if p == nil {
		return ErrInsufficientResources
	}
	if missing := p.Inventory.Missing(c); len(missing) > 0 {
		em.fb.notify(fmt.Sprintf("Cannot %s, missing %s", action, missing), ColorBad)
		return fmt.Errorf("%s: %w (missing %s)", action, ErrInsufficientResources, missing)
	}
	p.Inventory.Deduct(c)
	return nil
}

// CraftAlly builds an allied unit of type t next to the home base
func (em *EconomyManager) CraftAlly(t UnitType) (*AlliedUnit, error) {
	cfg := GetUnitTypeConfig(t)
	if cfg.CraftCost == nil {
		return nil, fmt.Errorf("craft %s: %w", cfg.Name, ErrNotCraftable)
	}
	home := em.world.HomeNation()
	if home == nil || !home.Alive() {
		return nil, fmt.Errorf("craft %s: %w", cfg.Name, ErrNoHomeNation)
	}
	if em.world.LiveAllies() >= em.world.Config.AllyCap {
		em.fb.notify(fmt.Sprintf("Ally limit reached (%d)", em.world.Config.AllyCap), ColorWarning)
		return nil, fmt.Errorf("craft %s: %w", cfg.Name, ErrPopulationCap)
	}
	if err := em.pay(cfg.CraftCost, "craft "+cfg.Name); err != nil {
		return nil, err
	}

	offset := Vec2{
		X: (em.rng.Float64()*2 - 1) * allySpawnSpread,
		Y: (em.rng.Float64()*2 - 1) * allySpawnSpread,
	}
	u := &AlliedUnit{
		Entity:   newEntity(KindAlly, home.Pos.Add(offset), cfg.Radius, FactionPlayer, cfg.Health),
		UnitType: t,
		Speed:    cfg.Speed * allySpeedFactor,
		Attack: Attack{
			Damage:   cfg.Damage * allyDamageFactor,
			Range:    cfg.Range,
			Cooldown: cfg.Cooldown,
		},
		LifespanSeconds: em.world.Config.AllyLifespan,
		Recruited:       true,
	}
	em.world.AddAlly(u)
	em.fb.notify(fmt.Sprintf("%s crafted", cfg.Name), ColorGood)
	em.fb.cue(CueClick)
	return u, nil
}

// UpgradeBase raises the home nation one level
func (em *EconomyManager) UpgradeBase() error {
	home := em.world.HomeNation()
	if home == nil || !home.Alive() {
		return fmt.Errorf("upgrade base: %w", ErrNoHomeNation)
	}
	if err := em.pay(UpgradeCost, "upgrade base"); err != nil {
		return err
	}

	fraction := home.HP / home.MaxHP
	home.Level++
	home.MaxHP = math.Floor(home.MaxHP * upgradeHealthFactor)
	home.HP = math.Floor(home.MaxHP * fraction)
	home.HP = min(home.MaxHP, home.HP+math.Floor(home.MaxHP*upgradeBonusHeal))
	home.Defense *= upgradeDefenseFactor
	home.Attack.Damage = math.Floor(home.Attack.Damage * upgradeDamageFactor)
	home.Attack.Range = math.Floor(home.Attack.Range * upgradeRangeFactor)
	home.Radius = math.Floor(baseRadiusUnit * (1 + baseRadiusStep*float64(home.Level)))

	em.fb.notify(fmt.Sprintf("Base upgraded to level %d", home.Level), ColorGood)
	em.fb.cue(CueClick)
	em.logger.Info("base upgraded", "level", home.Level)
	return nil
}

// ContributeRocket consumes every rocket material in the inventory and advances rocket
// progress. It returns the number of units consumed.
func (em *EconomyManager) ContributeRocket() (int, error) {
	home := em.world.HomeNation()
	if home == nil || !home.Alive() {
		return 0, fmt.Errorf("contribute rocket: %w", ErrNoHomeNation)
	}
	if home.RocketProgress >= rocketComplete {
		em.fb.notify("The rocket is complete", ColorGood)
		if em.onRocketComplete != nil {
			em.onRocketComplete()
		}
		return 0, nil
	}

	p := em.world.Player
	consumed := Cost{}
	total := 0
	for _, kind := range rocketMaterials {
		if p.Inventory[kind] > 0 {
			consumed[kind] = p.Inventory[kind]
			total += p.Inventory[kind]
		}
	}
	if total == 0 {
		em.fb.notify("No rocket materials to contribute", ColorWarning)
		return 0, fmt.Errorf("contribute rocket: %w", ErrNothingToContribute)
	}
	p.Inventory.Deduct(consumed)

	home.RocketProgress = min(rocketComplete, home.RocketProgress+float64(total)*rocketProgressPerUnit)
	em.fb.notify(fmt.Sprintf("Rocket %.1f%% (+%d: %s)", home.RocketProgress, total, consumed), ColorMagic)
	if home.RocketProgress >= rocketComplete && em.onRocketComplete != nil {
		em.onRocketComplete()
	}
	return total, nil
}
