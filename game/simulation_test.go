package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimulationRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDeltaTime = 0
	_, err := NewSimulation(cfg, Options{})
	assert.Error(t, err)
}

func TestStartBuildsWorld(t *testing.T) {
	s, rec := newTestSimulation(t, 3)
	w := s.World()

	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, [2]State{StateMenu, StatePlaying}, rec.transitions[0])
	require.NotNil(t, w.Player)
	assert.Equal(t, w.HomeNation().Pos, w.Player.Pos)
	assert.Equal(t, startingInventory(), w.Player.Inventory)
	assert.Equal(t, playerStartMissiles, w.Player.Missiles)
	assert.Len(t, w.Nations, 4)
	assert.Equal(t, 1, s.Wave())
	assert.Equal(t, s.config.WaveInterval, s.WaveCountdown())
}

func TestZeroHostileNationsWinsImmediately(t *testing.T) {
	s, rec := newTestSimulation(t, 0)
	s.Tick(1.0/60, Input{})
	assert.Equal(t, StateVictory, s.State())
	assert.Equal(t, 1, rec.count(StateVictory))
	assert.True(t, rec.hasCue(CueVictory))
}

func TestAllRivalsDestroyedWins(t *testing.T) {
	s, _ := newTestSimulation(t, 2)
	s.Tick(1.0/60, Input{})
	require.Equal(t, StatePlaying, s.State())

	for _, n := range s.World().HostileNations(FactionPlayer) {
		s.combat.ApplyDamage(n, n.HP)
	}
	s.Tick(1.0/60, Input{})
	assert.Equal(t, StateVictory, s.State())
}

func TestHomeDestroyedIsDefeat(t *testing.T) {
	s, rec := newTestSimulation(t, 1)
	home := s.World().HomeNation()
	home.HP = 1

	s.combat.ApplyDamage(home, 5)
	assert.LessOrEqual(t, home.HP, 0.0)
	assert.True(t, home.Dead)

	s.Tick(1.0/60, Input{})
	assert.Equal(t, StateGameOver, s.State())
	assert.Equal(t, 1, rec.count(StateGameOver))
	assert.True(t, rec.hasCue(CueGameOver))

	// Game over halts the simulation
	elapsed := s.Elapsed()
	s.Tick(1.0/60, Input{})
	assert.Equal(t, elapsed, s.Elapsed())
}

func TestTickClampsDelta(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	s.Tick(5, Input{})
	assert.InDelta(t, s.config.MaxDeltaTime, s.Elapsed(), 1e-12)

	s.Tick(-1, Input{})
	assert.InDelta(t, s.config.MaxDeltaTime, s.Elapsed(), 1e-12)
}

func TestPausedSimulationDoesNotTick(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	s.SetPaused(true)
	assert.Equal(t, StatePaused, s.State())
	s.Tick(0.1, Input{})
	assert.Zero(t, s.Elapsed())

	s.SetPaused(false)
	s.Tick(0.1, Input{})
	assert.InDelta(t, 0.1, s.Elapsed(), 1e-12)
}

func TestMenuDoesNotTick(t *testing.T) {
	s, err := NewSimulation(DefaultConfig(), Options{})
	require.NoError(t, err)
	s.Tick(0.1, Input{})
	assert.Zero(t, s.Elapsed())
	assert.Equal(t, StateMenu, s.State())
}

func TestPlayerMovesAndStaysOnMap(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	p := s.World().Player
	start := p.Pos

	s.Tick(0.1, Input{Right: true})
	assert.InDelta(t, start.X+p.Speed*0.1, p.Pos.X, 1e-9)
	assert.InDelta(t, start.Y, p.Pos.Y, 1e-9)

	for i := 0; i < 200; i++ {
		s.Tick(0.1, Input{Up: true, Left: true})
	}
	assert.Equal(t, playerMapMargin, p.Pos.X)
	assert.Equal(t, playerMapMargin, p.Pos.Y)
}

func TestPlayerFiresAndFaces(t *testing.T) {
	s, rec := newTestSimulation(t, 1)
	p := s.World().Player
	aim := p.Pos.Add(Vec2{0, 100})

	s.Tick(0.01, Input{Aim: aim, HasAim: true, Fire: true})
	assert.InDelta(t, aim.Sub(p.Pos).Angle(), p.Rotation, 1e-9)
	assert.Equal(t, 1, s.Stats().ProjectilesFired)
	assert.True(t, rec.hasCue(CueShoot))

	// Held fire repeats only on cooldown
	s.Tick(0.01, Input{Aim: aim, HasAim: true, Fire: true})
	assert.Equal(t, 1, s.Stats().ProjectilesFired)
}

func TestPlayerMissileSpendsMagicAndCharge(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	p := s.World().Player
	magic := p.Magic

	s.Tick(0.01, Input{Missile: true})
	assert.Equal(t, playerStartMissiles-1, p.Missiles)
	assert.InDelta(t, magic-missileMagicCost+playerMagicRegen*0.01, p.Magic, 1e-9)
	assert.InDelta(t, missileLaunchCooldown, p.Attack.CooldownLeft, 1e-9)
}

func TestMissileChargesReload(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	p := s.World().Player
	p.Missiles = 0
	for i := 0; i < 31; i++ {
		s.Tick(0.1, Input{})
	}
	assert.Equal(t, 1, p.Missiles)
}

func TestMagicCastCostsAndNeedsMagic(t *testing.T) {
	s, rec := newTestSimulation(t, 1)
	p := s.World().Player
	p.Magic = 30

	s.Tick(0.01, Input{CastIce: true})
	assert.Len(t, s.World().Effects, 1)
	assert.True(t, rec.hasCue(CueIce))
	assert.InDelta(t, 5+playerMagicRegen*0.01, p.Magic, 1e-9)

	s.Tick(0.01, Input{CastFire: true})
	assert.Len(t, s.World().Effects, 1)
}

func TestPlayerPicksUpResources(t *testing.T) {
	s, rec := newTestSimulation(t, 1)
	p := s.World().Player
	item := &ResourceItem{
		Entity:   newEntity(KindResource, p.Pos.Add(Vec2{40, 0}), 20, FactionNeutral, 1),
		Resource: ResourceCrystal,
		Amount:   3,
	}
	s.World().AddResource(item)

	s.Tick(0.01, Input{})
	assert.Equal(t, 3, p.Inventory[ResourceCrystal])
	assert.NotContains(t, s.World().Resources, item)
	assert.True(t, rec.hasCue(CuePickup))
}

func TestPlayerRespawnsAtHome(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	p := s.World().Player
	home := s.World().HomeNation()
	p.Pos = home.Pos.Add(Vec2{600, 0})
	s.combat.ApplyDamage(p, p.HP)

	for i := 0; i < 29; i++ {
		s.Tick(0.1, Input{})
	}
	assert.True(t, p.Dead)

	for i := 0; i < 2; i++ {
		s.Tick(0.1, Input{})
	}
	assert.False(t, p.Dead)
	assert.Equal(t, home.Pos, p.Pos)
	assert.InDelta(t, p.MaxHP*playerRespawnHealth, p.HP, 1)
}

func TestAllyFollowsAndExpires(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	ally, err := s.CraftAlly(UnitTypeTank)
	require.NoError(t, err)
	p := s.World().Player
	p.Pos = p.Pos.Add(Vec2{0, 500})
	before := ally.Pos.Dist(p.Pos)

	s.Tick(0.1, Input{})
	assert.InDelta(t, before-ally.Speed*allyFollowSpeedFactor*0.1, ally.Pos.Dist(p.Pos), 1e-6)

	ally.LifespanSeconds = 0.05
	s.Tick(0.1, Input{})
	assert.NotContains(t, s.World().Allies, ally)
}

func TestRecruitNearbyAllies(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	for k := range s.World().Player.Inventory {
		s.World().Player.Inventory[k] = 100
	}
	ally, err := s.CraftAlly(UnitTypeFighter)
	require.NoError(t, err)
	ally.Recruited = false
	far, err := s.CraftAlly(UnitTypeFighter)
	require.NoError(t, err)
	far.Recruited = false
	far.Pos = far.Pos.Add(Vec2{800, 0})

	assert.Equal(t, 1, s.Recruit())
	assert.True(t, ally.Recruited)
	assert.False(t, far.Recruited)
}

func TestNotificationsExpire(t *testing.T) {
	s, rec := newTestSimulation(t, 1)
	s.fb.notify("hello", ColorInfo)
	require.NotEmpty(t, s.Notifications())
	assert.Equal(t, "hello", rec.notes[len(rec.notes)-1].Text)

	for i := 0; i < 31; i++ {
		s.Tick(0.1, Input{})
	}
	for _, n := range s.Notifications() {
		assert.NotEqual(t, "hello", n.Text)
	}
}

func TestDeadNationHasNoUnitsAfterTick(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	n := rival(t, s)
	s.Tick(1.0/60, Input{})
	require.NotEmpty(t, n.Units)

	n.HP = 1
	p := s.World().Player
	s.projectiles.Fire(&p.Entity, WeaponTypeBullet, n.Pos, 0, 0, 50)
	s.Tick(1.0/60, Input{})

	assert.True(t, n.Dead)
	assert.Zero(t, n.HP)
	assert.Empty(t, n.Units)
}

func TestInvariantsHoldUnderAutopilot(t *testing.T) {
	s, _ := newTestSimulation(t, 2)
	pilot := NewAutopilot()
	s.SpawnWave()
	s.spawner.SpawnZombie(s.World().Player.Pos.Add(Vec2{150, 0}), false)
	progress := 0.0

	for i := 0; i < 1800; i++ {
		if i%300 == 0 {
			s.World().Player.Inventory[ResourceMetal] += 5
			_, _ = s.ContributeRocket()
			_, _ = s.CraftAlly(UnitTypeFighter)
		}
		s.Tick(1.0/60, pilot.Poll(s.World()))

		w := s.World()
		check := func(e *Entity) {
			if e.HP <= 0 {
				assert.True(t, e.Dead, "%s %d has no HP but is alive", e.Kind, e.ID)
			}
		}
		check(&w.Player.Entity)
		for _, a := range w.Allies {
			check(&a.Entity)
		}
		for _, z := range w.Zombies {
			check(&z.Entity)
		}
		for _, n := range w.Nations {
			check(&n.Entity)
			for _, u := range n.Units {
				check(&u.Entity)
			}
			if n.HP <= 0 {
				assert.Empty(t, n.Units)
			}
		}
		for k := ResourceKind(0); k < ResourceKindCount; k++ {
			assert.GreaterOrEqual(t, w.Player.Inventory[k], 0)
		}
		home := w.HomeNation()
		assert.GreaterOrEqual(t, home.RocketProgress, progress)
		assert.LessOrEqual(t, home.RocketProgress, 100.0)
		progress = home.RocketProgress
	}
	assert.Greater(t, s.Stats().ProjectilesFired, 0)
}
