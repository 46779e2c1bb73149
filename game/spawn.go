package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

const (
	ambientResourceMargin = 100.0
	ambientResourceRadius = 20.0
	ambientResourceMax    = 3

	// resourceFieldBands is how many times the kind cycle repeats across the noise range
	resourceFieldBands = 4
)

// SpawnDirector times and executes zombie waves, nation unit spawns, guard
// replenishment, passive base healing and production
type SpawnDirector struct {
	world  *World
	rng    *rand.Rand
	fb     *feedback
	stats  *Stats
	logger *slog.Logger
	noise  *perlin.Perlin

	// Wave names the next wave; Countdown is the time until it arrives
	Wave      int
	Countdown float64

	lastGuardCheck float64
	lastProduction float64
	lastHeal       float64
	lastHealNotice float64
}

// NewSpawnDirector creates a spawn director bound to a world
func NewSpawnDirector(world *World, rng *rand.Rand, fb *feedback, stats *Stats, logger *slog.Logger) *SpawnDirector {
	return &SpawnDirector{
		world:          world,
		rng:            rng,
		fb:             fb,
		stats:          stats,
		logger:         logger,
		noise:          perlin.NewPerlin(2, 2, 3, world.Config.Seed),
		Wave:           1,
		Countdown:      world.Config.WaveInterval,
		lastHeal:       -baseHealInterval,
		lastHealNotice: -baseHealNoticePeriod,
	}
}

// WaveSize returns the number of normal zombies and bosses in a wave
func WaveSize(wave int) (zombies, bosses int) {
	return 5 + 2*wave, wave / 3
}

// TickWave counts the wave timer down and spawns the wave when it runs out. It
// reports whether a wave was spawned.
func (sd *SpawnDirector) TickWave(dt float64) bool {
	sd.Countdown -= dt
	if sd.Countdown > 0 {
		return false
	}
	sd.SpawnWave()
	sd.Countdown = sd.world.Config.WaveInterval
	sd.Wave++
	return true
}

// SpawnWave spawns the batch for the current wave at the map edges and returns its size
func (sd *SpawnDirector) SpawnWave() int {
	zombies, bosses := WaveSize(sd.Wave)
	for i := 0; i < zombies; i++ {
		sd.SpawnZombie(sd.edgePoint(), false)
	}
	for i := 0; i < bosses; i++ {
		sd.SpawnZombie(sd.edgePoint(), true)
	}
	sd.stats.WavesSpawned++
	sd.fb.notify(fmt.Sprintf("Wave %d incoming", sd.Wave), ColorBad)
	sd.fb.cue(CueHorde)
	sd.logger.Debug("wave spawned", "wave", sd.Wave, "zombies", zombies, "bosses", bosses)
	return zombies + bosses
}

// edgePoint picks a random point just outside one of the four map edges
func (sd *SpawnDirector) edgePoint() Vec2 {
	w := sd.world.Config.MapWidth
	h := sd.world.Config.MapHeight
	switch sd.rng.Intn(4) {
	case 0:
		return Vec2{X: sd.rng.Float64() * w, Y: -zombieEdgeOffset}
	case 1:
		return Vec2{X: w + zombieEdgeOffset, Y: sd.rng.Float64() * h}
	case 2:
		return Vec2{X: sd.rng.Float64() * w, Y: h + zombieEdgeOffset}
	default:
		return Vec2{X: -zombieEdgeOffset, Y: sd.rng.Float64() * h}
	}
}

// SpawnZombie adds one zombie at pos
func (sd *SpawnDirector) SpawnZombie(pos Vec2, boss bool) *Zombie {
	cfg := GetZombieTypeConfig(boss)
	z := &Zombie{
		Entity:       newEntity(KindZombie, pos, cfg.Radius, FactionZombie, cfg.Health),
		Boss:         boss,
		State:        ZombieStateIdle,
		DetectRadius: cfg.DetectRadius,
		AttackRadius: cfg.AttackRadius,
		Attack:       Attack{Damage: cfg.Damage, Range: cfg.AttackRadius, Cooldown: cfg.Cooldown},
		ChaseSpeed:   cfg.ChaseSpeed,
		WanderSpeed:  cfg.WanderSpeed,
	}
	z.Level = cfg.Level
	sd.world.AddZombie(z)
	return z
}

// SetupNations places the home nation at the center with its guards and the rivals
// on a ring around it
func (sd *SpawnDirector) SetupNations() {
	cfg := sd.world.Config
	center := cfg.Center()

	home := newNation(FactionPlayer, center, GetNationTypeConfig(true))
	sd.world.AddNation(home)
	sd.SpawnGuard(home, GuardTank)
	sd.SpawnGuard(home, GuardFighter)

	ring := math.Min(cfg.MapWidth, cfg.MapHeight) * nationRingFactor
	for i := 0; i < cfg.EnemyNationCount; i++ {
		angle := float64(i) / float64(cfg.EnemyNationCount) * 2 * math.Pi
		n := newNation(RivalFaction(i), center.Add(FromAngle(angle, ring)), GetNationTypeConfig(false))
		n.LastSpawn = -n.SpawnInterval
		sd.world.AddNation(n)
	}
}

func newNation(faction Faction, pos Vec2, cfg NationTypeConfig) *Nation {
	fc := GetFactionConfig(faction)
	return &Nation{
		Entity:        newEntity(KindNation, pos, cfg.Radius, faction, cfg.Health),
		Name:          fc.Name,
		Color:         fc.Color,
		Defense:       cfg.Defense,
		Attack:        Attack{Damage: cfg.Damage, Range: cfg.Range, Cooldown: cfg.Cooldown},
		SpawnInterval: cfg.SpawnInterval,
		MaxUnits:      cfg.MaxUnits,
	}
}

// SpawnGuard adds a guard of the given class to the home nation
func (sd *SpawnDirector) SpawnGuard(home *Nation, class GuardClass) *EnemyUnit {
	stats := GetGuardStats(class)
	angle := sd.rng.Float64() * 2 * math.Pi
	u := newEnemyUnit(home.Pos.Add(FromAngle(angle, home.Radius+guardSpawnOffset)), stats, &GuardRole{
		Class:        class,
		PatrolAngle:  angle,
		PatrolRadius: guardPatrolRadius,
	})
	sd.world.AddEnemyUnit(home, u)
	return u
}

// SpawnForager adds a roaming unit to a rival nation
func (sd *SpawnDirector) SpawnForager(n *Nation) *EnemyUnit {
	angle := sd.rng.Float64() * 2 * math.Pi
	u := newEnemyUnit(n.Pos.Add(FromAngle(angle, n.Radius+foragerSpawnOffset)), rivalUnitStats, &ForagerRole{
		OrbitPhase: sd.rng.Float64() * 2 * math.Pi,
	})
	sd.world.AddEnemyUnit(n, u)
	return u
}

func newEnemyUnit(pos Vec2, stats UnitStats, role EnemyRole) *EnemyUnit {
	return &EnemyUnit{
		Entity: newEntity(KindEnemyUnit, pos, stats.Radius, FactionNeutral, stats.Health),
		Role:   role,
		State:  EnemyStatePatrol,
		Speed:  stats.Speed,
		Attack: Attack{Damage: stats.Damage, Range: stats.Range, Cooldown: stats.Cooldown},
	}
}

// UpdateNations runs the periodic nation effects keyed off simulation time
func (sd *SpawnDirector) UpdateNations(elapsed float64) {
	for _, n := range sd.world.Nations {
		if !n.Alive() {
			continue
		}
		if n.IsHome() {
			sd.updateHome(n, elapsed)
			continue
		}
		if n.LiveUnits() < n.MaxUnits && elapsed-n.LastSpawn >= n.SpawnInterval {
			sd.SpawnForager(n)
			n.LastSpawn = elapsed
			sd.logger.Debug("unit spawned", "nation", n.Name, "units", n.LiveUnits())
		}
	}
}

func (sd *SpawnDirector) updateHome(home *Nation, elapsed float64) {
	if elapsed-sd.lastGuardCheck >= guardCheckInterval {
		sd.ReplenishGuards(home)
		sd.lastGuardCheck = elapsed
	}

	if home.HP < home.MaxHP && elapsed-sd.lastHeal >= baseHealInterval {
		amount := math.Floor(home.MaxHP * baseHealFraction)
		home.Heal(amount)
		sd.lastHeal = elapsed
		if elapsed-sd.lastHealNotice >= baseHealNoticePeriod {
			sd.fb.notify(fmt.Sprintf("Base repaired %.0f HP", amount), ColorGood)
			sd.lastHealNotice = elapsed
		}
	}

	if elapsed-sd.lastProduction >= productionInterval {
		sd.produce()
		sd.lastProduction = elapsed
	}
}

// ReplenishGuards re-creates any guard class that has no live unit
func (sd *SpawnDirector) ReplenishGuards(home *Nation) {
	present := map[GuardClass]bool{}
	for _, u := range home.Units {
		if g, ok := u.Role.(*GuardRole); ok && u.Alive() {
			present[g.Class] = true
		}
	}
	for _, class := range []GuardClass{GuardTank, GuardFighter} {
		if !present[class] {
			sd.SpawnGuard(home, class)
			sd.fb.notify(fmt.Sprintf("New %s guard deployed", class), ColorGood)
		}
	}
}

// produce adds one unit of every manufactured resource to the player
func (sd *SpawnDirector) produce() {
	p := sd.world.Player
	if p == nil {
		return
	}
	for _, kind := range []ResourceKind{ResourceMetal, ResourceBinder, ResourceElectronics, ResourceFuel, ResourceAmmo} {
		p.Inventory[kind]++
	}
	sd.fb.notify("Base produced supplies", ColorGood)
}

// SeedResources scatters n ambient pickups. The kind at a position comes from a noise
// field so kinds cluster in regions.
func (sd *SpawnDirector) SeedResources(n int) {
	cfg := sd.world.Config
	for i := 0; i < n; i++ {
		pos := Vec2{
			X: ambientResourceMargin + sd.rng.Float64()*(cfg.MapWidth-2*ambientResourceMargin),
			Y: ambientResourceMargin + sd.rng.Float64()*(cfg.MapHeight-2*ambientResourceMargin),
		}
		item := &ResourceItem{
			Entity:   newEntity(KindResource, pos, ambientResourceRadius, FactionNeutral, 1),
			Resource: sd.ResourceKindAt(pos),
			Amount:   1 + sd.rng.Intn(ambientResourceMax),
		}
		sd.world.AddResource(item)
	}
}

// ResourceKindAt samples the resource field at pos
func (sd *SpawnDirector) ResourceKindAt(pos Vec2) ResourceKind {
	scale := sd.world.Config.ResourceFieldScale
	if scale <= 0 {
		scale = 1
	}
	// Noise2D is in [-1, 1]; map to [0, 1]
	v := (sd.noise.Noise2D(pos.X/scale, pos.Y/scale) + 1) / 2
	band := int(math.Floor(v * float64(ResourceKindCount) * resourceFieldBands))
	idx := band % int(ResourceKindCount)
	if idx < 0 {
		idx += int(ResourceKindCount)
	}
	return ResourceKind(idx)
}
