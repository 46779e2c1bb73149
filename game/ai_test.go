package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZombieChasesNearbyPlayer(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	p := s.World().Player
	z := s.spawner.SpawnZombie(p.Pos.Add(Vec2{150, 0}), false)

	s.ai.UpdateZombies(0.1)
	assert.Equal(t, ZombieStateChase, z.State)
	assert.Equal(t, p.ID, z.Target)
	assert.InDelta(t, 150-z.ChaseSpeed*0.1, z.Pos.Dist(p.Pos), 1e-9)
}

func TestZombieAttacksOnCooldown(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	p := s.World().Player
	z := s.spawner.SpawnZombie(p.Pos.Add(Vec2{25, 0}), false)

	s.ai.UpdateZombies(0.1)
	assert.Equal(t, ZombieStateAttack, z.State)
	assert.Equal(t, p.MaxHP-z.Attack.Damage, p.HP)

	// Still cooling down
	s.ai.UpdateZombies(0.1)
	assert.Equal(t, p.MaxHP-z.Attack.Damage, p.HP)

	s.ai.UpdateZombies(1.0)
	assert.Equal(t, p.MaxHP-2*z.Attack.Damage, p.HP)
}

func TestZombieAttackRangeIsCenterDistance(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	p := s.World().Player
	z := s.spawner.SpawnZombie(p.Pos.Add(Vec2{54, 0}), false)

	s.ai.UpdateZombies(0.1)
	assert.Equal(t, ZombieStateChase, z.State)
	assert.Equal(t, p.MaxHP, p.HP)
}

func TestZombieWandersWithoutTarget(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	z := s.spawner.SpawnZombie(Vec2{100, 100}, false)

	s.ai.UpdateZombies(0.1)
	assert.Equal(t, ZombieStateWander, z.State)
	assert.True(t, z.HasWander)
	assert.Equal(t, InvalidEntityID, z.Target)
}

func TestZombieDropsDeadTarget(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	p := s.World().Player
	z := s.spawner.SpawnZombie(p.Pos.Add(Vec2{150, 0}), false)
	s.ai.UpdateZombies(0.1)
	require.Equal(t, p.ID, z.Target)

	p.Kill()
	s.ai.UpdateZombies(0.1)
	assert.Equal(t, InvalidEntityID, z.Target)
	assert.Equal(t, ZombieStateWander, z.State)
}

func TestZombieHuntsRivalUnits(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	u := s.spawner.SpawnForager(rival(t, s))
	z := s.spawner.SpawnZombie(u.Pos.Add(Vec2{0, 100}), false)

	s.ai.UpdateZombies(0.1)
	assert.Equal(t, u.ID, z.Target)
}

func TestDeadZombieFades(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	z := s.spawner.SpawnZombie(Vec2{100, 100}, false)
	s.combat.ApplyDamage(z, 1000)

	s.ai.UpdateZombies(0.5)
	s.World().Cleanup()
	assert.Contains(t, s.World().Zombies, z)

	s.ai.UpdateZombies(0.6)
	s.World().Cleanup()
	assert.NotContains(t, s.World().Zombies, z)
}

func TestForagerEngagesZombie(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	u := s.spawner.SpawnForager(rival(t, s))
	z := s.spawner.SpawnZombie(u.Pos.Add(Vec2{100, 0}), false)

	s.ai.UpdateEnemyUnits(0.1, 0)
	assert.Equal(t, EnemyStateCombat, u.State)
	assert.Equal(t, z.ID, u.Target)
	assert.Equal(t, foragerHateDuration, u.HateLeft)

	// In range: fires a bullet at the zombie
	s.ai.UpdateEnemyUnits(0.1, 0.1)
	require.NotEmpty(t, s.World().Projectiles)
	shot := s.World().Projectiles[len(s.World().Projectiles)-1]
	assert.Equal(t, u.ID, shot.Owner)
	assert.Equal(t, u.Faction, shot.Faction)
}

func TestEnemyUnitRetreatsWhenHurt(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	u := s.spawner.SpawnForager(rival(t, s))
	s.spawner.SpawnZombie(u.Pos.Add(Vec2{100, 0}), false)
	s.ai.UpdateEnemyUnits(0.1, 0)
	require.Equal(t, EnemyStateCombat, u.State)

	u.HP = u.MaxHP * 0.2
	s.ai.UpdateEnemyUnits(0.1, 0.1)
	assert.Equal(t, EnemyStateReturn, u.State)
	assert.Equal(t, InvalidEntityID, u.Target)
}

func TestEnemyUnitReturnsWhenTargetDies(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	u := s.spawner.SpawnForager(rival(t, s))
	z := s.spawner.SpawnZombie(u.Pos.Add(Vec2{100, 0}), false)
	s.ai.UpdateEnemyUnits(0.1, 0)
	require.Equal(t, z.ID, u.Target)

	z.Kill()
	s.ai.UpdateEnemyUnits(0.1, 0.1)
	assert.Equal(t, InvalidEntityID, u.Target)
	assert.Equal(t, EnemyStateReturn, u.State)
}

func TestEnemyUnitHateExpires(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	u := s.spawner.SpawnForager(rival(t, s))
	z := s.spawner.SpawnZombie(u.Pos.Add(Vec2{100, 0}), false)
	s.ai.UpdateEnemyUnits(0.1, 0)
	require.Equal(t, EnemyStateCombat, u.State)

	// Target slips out of detection range, hate is no longer refreshed
	z.Pos = u.Pos.Add(Vec2{foragerDetectRadius + 200, 0})
	s.ai.UpdateEnemyUnits(foragerHateDuration+0.1, 1)
	assert.Equal(t, EnemyStateReturn, u.State)
	assert.Equal(t, InvalidEntityID, u.Target)
}

func TestEnemyUnitRegeneratesAtHome(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	n := rival(t, s)
	u := s.spawner.SpawnForager(n)
	u.State = EnemyStateReturn
	u.Pos = n.Pos
	u.HP = 70

	s.ai.UpdateEnemyUnits(0.1, 0)
	assert.InDelta(t, 71.5, u.HP, 1e-9)
	assert.Equal(t, EnemyStateReturn, u.State)

	s.ai.UpdateEnemyUnits(1, 0.1)
	assert.InDelta(t, 86.5, u.HP, 1e-9)
	assert.Equal(t, EnemyStatePatrol, u.State)
}

func TestEnemyUnitLeash(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	n := rival(t, s)
	u := s.spawner.SpawnForager(n)
	away := n.Pos.Sub(s.config.Center()).Normalize()
	u.Pos = n.Pos.Add(away.Scale(700))

	s.ai.UpdateEnemyUnits(1, 0)
	assert.InDelta(t, 700-u.Speed, u.Pos.Dist(n.Pos), 1e-6)
	assert.Equal(t, EnemyStatePatrol, u.State)
}

func TestGuardIgnoresPlayerSide(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	home := s.World().HomeNation()
	guard := guardOf(home, GuardFighter)
	require.NotNil(t, guard)
	s.World().Player.Pos = guard.Pos.Add(Vec2{20, 0})

	s.ai.UpdateEnemyUnits(0.1, 0)
	assert.Equal(t, EnemyStatePatrol, guard.State)
	assert.Equal(t, InvalidEntityID, guard.Target)
}

func TestGuardEngagesRivalUnit(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	home := s.World().HomeNation()
	guard := guardOf(home, GuardTank)
	require.NotNil(t, guard)
	u := s.spawner.SpawnForager(rival(t, s))
	u.Pos = guard.Pos.Add(Vec2{100, 0})

	s.ai.UpdateEnemyUnits(0.1, 0)
	assert.Equal(t, EnemyStateCombat, guard.State)
	assert.Equal(t, u.ID, guard.Target)
	assert.Equal(t, guardHateDuration, guard.HateLeft)
}

func TestGuardPatrolsCloseToHome(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	home := s.World().HomeNation()
	guard := guardOf(home, GuardFighter)
	require.NotNil(t, guard)
	role := guard.Role.(*GuardRole)
	angle := role.PatrolAngle

	for i := 0; i < 300; i++ {
		s.ai.UpdateEnemyUnits(1.0/60, float64(i)/60)
	}
	assert.NotEqual(t, angle, role.PatrolAngle)
	assert.Less(t, guard.Pos.Dist(home.Pos), home.Radius+guardSpawnOffset+1)
}

func TestUnitsOfDeadNationDie(t *testing.T) {
	s, _ := newTestSimulation(t, 1)
	n := rival(t, s)
	u := s.spawner.SpawnForager(n)
	n.Kill()

	s.ai.UpdateEnemyUnits(0.1, 0)
	assert.False(t, u.Alive())
}

func TestHomeTurretShootsZombie(t *testing.T) {
	s, _ := newTestSimulation(t, 0)
	home := s.World().HomeNation()
	z := s.spawner.SpawnZombie(home.Pos.Add(Vec2{0, 200}), false)

	s.ai.UpdateTurrets(0.1)
	require.Len(t, s.World().Projectiles, 1)
	shot := s.World().Projectiles[0]
	assert.Equal(t, WeaponTypeTurret, shot.Weapon)
	assert.Equal(t, home.ID, shot.Owner)
	assert.InDelta(t, z.Pos.Sub(home.Pos).Angle(), shot.Rotation, 1e-9)

	// Cooldown holds the next shot
	s.ai.UpdateTurrets(0.1)
	assert.Len(t, s.World().Projectiles, 1)
}
