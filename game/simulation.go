package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// ErrNotRunning is returned by actions that need a started game
var ErrNotRunning = errors.New("simulation not running")

// Options are the collaborators of a Simulation. Every field is optional.
type Options struct {
	Audio  CuePlayer
	Events Listener
	Saves  SaveSlots
	Logger *slog.Logger

	// Rand drives every random choice; defaults to a source seeded from Config.Seed
	Rand *rand.Rand

	// Now stamps snapshots; defaults to time.Now
	Now func() time.Time
}

// Stats are running counters for the current game
type Stats struct {
	Ticks            uint64 `json:"ticks"`
	ZombiesKilled    int    `json:"zombies_killed"`
	UnitsKilled      int    `json:"units_killed"`
	NationsDestroyed int    `json:"nations_destroyed"`
	ProjectilesFired int    `json:"projectiles_fired"`
	WavesSpawned     int    `json:"waves_spawned"`
}

// Simulation drives one game: it owns the world and runs every system once per tick
// in a fixed order
type Simulation struct {
	config Config
	opts   Options
	logger *slog.Logger
	rng    *rand.Rand
	fb     *feedback

	world       *World
	ai          *AIController
	projectiles *ProjectileSystem
	combat      *CombatResolver
	spawner     *SpawnDirector
	economy     *EconomyManager
	particles   *ParticleSystem
	stats       Stats

	state    State
	elapsed  float64
	unitType UnitType
}

// NewSimulation creates a simulation in the menu state
func NewSimulation(config Config, opts Options) (*Simulation, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(config.Seed))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Simulation{
		config: config,
		opts:   opts,
		logger: opts.Logger,
		rng:    opts.Rand,
		fb: &feedback{
			audio:    opts.Audio,
			listener: opts.Events,
			logger:   opts.Logger,
			lifetime: config.NotificationLifetime,
		},
		state: StateMenu,
	}
	s.build()
	return s, nil
}

// build wires a fresh world and its systems
func (s *Simulation) build() {
	s.stats = Stats{}
	s.world = NewWorld(s.config)
	s.particles = NewParticleSystem(s.world, s.rng)
	s.projectiles = NewProjectileSystem(s.world, &s.stats)
	s.combat = NewCombatResolver(s.world, s.particles, s.fb, s.rng, &s.stats, s.logger)
	s.ai = NewAIController(s.world, s.combat, s.projectiles, s.rng)
	s.spawner = NewSpawnDirector(s.world, s.rng, s.fb, &s.stats, s.logger)
	s.economy = NewEconomyManager(s.world, s.fb, s.rng, s.logger, func() {
		s.triggerVictory("rocket complete")
	})
	s.fb.notifications = s.fb.notifications[:0]
}

// Start begins a new game with the player on the given chassis
func (s *Simulation) Start(unitType UnitType) {
	s.build()
	s.elapsed = 0
	s.unitType = unitType

	s.spawner.SetupNations()
	s.spawner.SeedResources(s.config.InitialResources)

	home := s.world.HomeNation()
	s.world.SetPlayer(newPlayer(unitType, home.Pos))

	s.logger.Info("game started", "unit", unitType.String(), "nations", s.config.EnemyNationCount)
	s.setState(StatePlaying)
}

func newPlayer(unitType UnitType, pos Vec2) *Player {
	cfg := GetUnitTypeConfig(unitType)
	return &Player{
		Entity:      newEntity(KindPlayer, pos, cfg.Radius, FactionPlayer, cfg.Health),
		UnitType:    unitType,
		Speed:       cfg.Speed,
		Attack:      Attack{Damage: cfg.Damage, Range: cfg.Range, Cooldown: cfg.Cooldown},
		Magic:       playerStartMagic,
		MaxMagic:    playerStartMagic,
		Missiles:    playerStartMissiles,
		MaxMissiles: playerMaxMissiles,
		Inventory:   startingInventory(),
	}
}

func (s *Simulation) setState(to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	s.fb.stateChanged(from, to)
}

// Tick advances the game by dt seconds. dt is clamped to Config.MaxDeltaTime.
// Only a playing or won game advances.
func (s *Simulation) Tick(dt float64, in Input) {
	if s.state != StatePlaying && s.state != StateVictory {
		return
	}
	dt = max(0, min(dt, s.config.MaxDeltaTime))
	s.elapsed += dt
	s.stats.Ticks++

	s.updatePlayer(dt, in)
	s.updateAllies(dt)
	s.spawner.TickWave(dt)
	s.ai.UpdateZombies(dt)
	s.ai.UpdateEnemyUnits(dt, s.elapsed)
	s.projectiles.Advance(dt)
	s.updateEffects(dt)
	s.particles.Advance(dt)
	s.ai.UpdateTurrets(dt)
	s.spawner.UpdateNations(s.elapsed)
	s.combat.Resolve()
	s.world.Cleanup()
	s.fb.expire(dt)
	s.checkTerminal()
}

func (s *Simulation) updatePlayer(dt float64, in Input) {
	p := s.world.Player
	if p == nil {
		return
	}
	home := s.world.HomeNation()

	if p.Dead {
		p.RespawnLeft -= dt
		if p.RespawnLeft <= 0 && home != nil && home.Alive() {
			p.Pos = home.Pos
			p.Vel = Vec2{}
			p.Dead = false
			p.HP = p.MaxHP * playerRespawnHealth
			s.fb.notify("Respawned at base", ColorGood)
		}
		return
	}

	dir := in.Direction()
	p.Vel = dir.Scale(p.Speed)
	p.Pos = s.world.ClampToMap(p.Pos.Add(p.Vel.Scale(dt)), playerMapMargin)
	if in.HasAim && in.Aim != p.Pos {
		p.Rotation = in.Aim.Sub(p.Pos).Angle()
	} else if dir != (Vec2{}) {
		p.Rotation = dir.Angle()
	}

	p.Attack.Tick(dt)
	muzzle := p.Pos.Add(FromAngle(p.Rotation, weaponMuzzleOffset))
	switch {
	case in.Missile && p.Attack.Ready() && p.Missiles > 0 && p.Magic >= missileMagicCost:
		s.projectiles.FireMissile(&p.Entity, muzzle, p.Rotation, p.Attack.Damage)
		p.Magic -= missileMagicCost
		p.Missiles--
		p.Attack.CooldownLeft = missileLaunchCooldown
		s.fb.cue(CueMissile)
	case in.Fire && p.Attack.Ready():
		s.projectiles.Fire(&p.Entity, WeaponTypeBullet, muzzle, p.Rotation, playerBulletSpeed, p.Attack.Damage)
		p.Attack.Trigger()
		s.fb.cue(CueShoot)
	}

	for _, cast := range []struct {
		pressed bool
		magic   MagicType
	}{{in.CastFire, MagicFire}, {in.CastWater, MagicWater}, {in.CastIce, MagicIce}} {
		if cast.pressed {
			s.castMagic(p, cast.magic)
		}
	}

	p.Magic = min(p.MaxMagic, p.Magic+playerMagicRegen*dt)
	if p.Missiles < p.MaxMissiles {
		p.MissileReload += dt
		if p.MissileReload >= missileReloadTime {
			p.Missiles++
			p.MissileReload = 0
		}
	} else {
		p.MissileReload = 0
	}

	s.pickUpResources(p)

	if home != nil && home.Alive() && p.Pos.Dist(home.Pos) < home.Radius+playerHomeHealMargin {
		p.Heal(playerHomeHealRate * dt)
	}

	if in.Recruit {
		s.Recruit()
	}
}

func (s *Simulation) castMagic(p *Player, kind MagicType) {
	cfg := GetMagicConfig(kind)
	if p.Magic < cfg.Cost {
		s.fb.notify("Not enough magic", ColorMagic)
		return
	}
	p.Magic -= cfg.Cost
	s.combat.CastMagic(kind, p.Pos.Add(FromAngle(p.Rotation, magicCastDistance)), &p.Entity)
}

func (s *Simulation) pickUpResources(p *Player) {
	for _, r := range s.world.Resources {
		if r.Dead || p.Pos.Dist(r.Pos) >= p.Radius+r.Radius+pickupRangeBonus {
			continue
		}
		p.Inventory[r.Resource] += r.Amount
		r.Dead = true
		s.fb.notify(fmt.Sprintf("+%d %s", r.Amount, r.Resource), ColorGood)
		s.fb.cue(CuePickup)
	}
}

func (s *Simulation) updateAllies(dt float64) {
	p := s.world.Player
	for _, a := range s.world.Allies {
		if !a.Alive() {
			continue
		}
		a.LifespanSeconds -= dt
		if a.LifespanSeconds <= 0 {
			a.Kill()
			s.fb.notify(fmt.Sprintf("%s ran out of fuel", a.UnitType), ColorInfo)
			continue
		}
		a.Attack.Tick(dt)
		if !a.Recruited {
			continue
		}

		if p != nil && p.Alive() {
			follow := GetUnitTypeConfig(a.UnitType).FollowDistance
			if dist := a.Pos.Dist(p.Pos); dist > follow {
				step := min(dist-follow, a.Speed*allyFollowSpeedFactor*dt)
				a.Pos, a.Rotation, _ = stepToward(a.Pos, p.Pos, step)
			}
		}

		target := s.allyTarget(a)
		if target == nil {
			a.Target = InvalidEntityID
			continue
		}
		a.Target = target.ID
		a.Rotation = target.Pos.Sub(a.Pos).Angle()
		if a.Attack.Ready() {
			s.projectiles.Fire(&a.Entity, WeaponTypeBullet, a.Pos, a.Rotation, allyBulletSpeed, a.Attack.Damage)
			a.Attack.Trigger()
		}
	}
}

// allyTarget picks the nearest zombie or rival unit in range, then the nearest
// hostile nation in range
func (s *Simulation) allyTarget(a *AlliedUnit) *Entity {
	var candidates []Actor
	for _, z := range s.world.Zombies {
		if z.Alive() {
			candidates = append(candidates, z)
		}
	}
	for _, n := range s.world.Nations {
		if n.IsHome() {
			continue
		}
		for _, u := range n.Units {
			if u.Alive() {
				candidates = append(candidates, u)
			}
		}
	}
	if found := nearest(a.Pos, a.Attack.Range, candidates); found != nil {
		return found.Base()
	}

	candidates = candidates[:0]
	for _, n := range s.world.HostileNations(a.Faction) {
		if n.Alive() {
			candidates = append(candidates, n)
		}
	}
	if found := nearest(a.Pos, a.Attack.Range, candidates); found != nil {
		return found.Base()
	}
	return nil
}

func (s *Simulation) updateEffects(dt float64) {
	for _, m := range s.world.Effects {
		m.LifeLeft -= dt
		if m.LifeLeft <= 0 {
			m.Dead = true
		}
	}
}

// checkTerminal moves a playing game to game over when the home nation falls, or to
// victory when no hostile nation has HP left
func (s *Simulation) checkTerminal() {
	if s.state != StatePlaying {
		return
	}
	home := s.world.HomeNation()
	if home == nil || home.HP <= 0 {
		s.setState(StateGameOver)
		s.fb.cue(CueGameOver)
		s.fb.notify("Your base has fallen", ColorBad)
		s.logger.Info("game over", "state", s.state.String(), "elapsed", s.elapsed, "wave", s.spawner.Wave)
		return
	}
	if s.world.LiveHostileNations() == 0 {
		s.triggerVictory("all hostile nations destroyed")
	}
}

// triggerVictory moves a playing game to victory. Repeated calls do nothing.
func (s *Simulation) triggerVictory(reason string) {
	if s.state != StatePlaying && s.state != StatePaused {
		return
	}
	s.setState(StateVictory)
	s.fb.cue(CueVictory)
	s.fb.notify("Victory! "+reason, ColorGood)
	s.logger.Info("victory", "reason", reason, "elapsed", s.elapsed)
}

// SetPaused pauses or resumes a running game
func (s *Simulation) SetPaused(paused bool) {
	switch {
	case paused && s.state == StatePlaying:
		s.setState(StatePaused)
	case !paused && s.state == StatePaused:
		s.setState(StatePlaying)
	}
}

// Recruit makes every live ally near the player follow it and returns how many
func (s *Simulation) Recruit() int {
	p := s.world.Player
	if p == nil || !p.Alive() {
		return 0
	}
	count := 0
	for _, a := range s.world.Allies {
		if a.Alive() && a.Pos.Dist(p.Pos) < recruitRadius {
			a.Recruited = true
			count++
		}
	}
	if count > 0 {
		s.fb.notify(fmt.Sprintf("Recruited %d allies", count), ColorGood)
	}
	return count
}

func (s *Simulation) running() bool {
	return s.state == StatePlaying || s.state == StatePaused || s.state == StateVictory
}

// CraftAlly spends resources on an allied unit
func (s *Simulation) CraftAlly(t UnitType) (*AlliedUnit, error) {
	if !s.running() {
		return nil, ErrNotRunning
	}
	return s.economy.CraftAlly(t)
}

// UpgradeBase spends resources on a home base level
func (s *Simulation) UpgradeBase() error {
	if !s.running() {
		return ErrNotRunning
	}
	return s.economy.UpgradeBase()
}

// ContributeRocket feeds rocket materials into the rocket
func (s *Simulation) ContributeRocket() (int, error) {
	if !s.running() {
		return 0, ErrNotRunning
	}
	return s.economy.ContributeRocket()
}

// CanAfford reports whether the player can pay c
func (s *Simulation) CanAfford(c Cost) bool { return s.economy.CanAfford(c) }

// State returns the lifecycle state
func (s *Simulation) State() State { return s.state }

// Elapsed returns the accumulated simulation time in seconds
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// World returns the live world. Callers must not mutate it outside Tick.
func (s *Simulation) World() *World { return s.world }

// Config returns the simulation config
func (s *Simulation) Config() Config { return s.config }

// Wave returns the number of the next wave
func (s *Simulation) Wave() int { return s.spawner.Wave }

// WaveCountdown returns the seconds until the next wave
func (s *Simulation) WaveCountdown() float64 { return s.spawner.Countdown }

// Stats returns the running counters
func (s *Simulation) Stats() Stats { return s.stats }

// Notifications returns the visible notifications, oldest first
func (s *Simulation) Notifications() []Notification {
	return append([]Notification(nil), s.fb.notifications...)
}

// SpawnWave spawns the current wave immediately and restarts the countdown
func (s *Simulation) SpawnWave() int {
	if !s.running() {
		return 0
	}
	s.spawner.Countdown = 0
	before := len(s.world.Zombies)
	s.spawner.TickWave(0)
	return len(s.world.Zombies) - before
}
