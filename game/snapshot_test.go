package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSlotEmpty = errors.New("slot empty")

type memorySlots map[int]Snapshot

func (m memorySlots) Save(_ context.Context, slot int, snap Snapshot) error {
	m[slot] = snap
	return nil
}

func (m memorySlots) Load(_ context.Context, slot int) (Snapshot, error) {
	snap, ok := m[slot]
	if !ok {
		return Snapshot{}, errSlotEmpty
	}
	return snap, nil
}

func newSavingSimulation(t *testing.T, slots SaveSlots) (*Simulation, *recorder) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EnemyNationCount = 1
	rec := &recorder{}
	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewSimulation(cfg, Options{
		Events: rec,
		Saves:  slots,
		Rand:   rand.New(rand.NewSource(3)),
		Now:    func() time.Time { return stamp },
	})
	require.NoError(t, err)
	s.Start(UnitTypeTank)
	return s, rec
}

func TestSnapshotCapturesGame(t *testing.T) {
	s, _ := newSavingSimulation(t, nil)
	s.World().HomeNation().RocketProgress = 42

	snap := s.Snapshot("before the storm")
	assert.Equal(t, "before the storm", snap.Name)
	assert.Equal(t, UnitTypeTank, snap.UnitType)
	assert.Equal(t, s.World().Player.Pos, snap.PlayerPosition)
	assert.Equal(t, 42.0, snap.RocketProgress)
	assert.Len(t, snap.Inventory, int(ResourceKindCount))
	assert.Len(t, snap.Nations, 2)
	assert.Equal(t, 2024, snap.Timestamp.Year())
	assert.NotEqual(t, s.Snapshot("other").ID, snap.ID)
}

func TestSaveAndLoadRestoresPlayer(t *testing.T) {
	slots := memorySlots{}
	s, rec := newSavingSimulation(t, slots)
	p := s.World().Player
	home := s.World().HomeNation()
	p.Pos = Vec2{800, 900}
	p.Inventory[ResourceCrystal] = 6
	home.RocketProgress = 30

	require.True(t, s.SaveGame(context.Background(), 4, "slot four"))
	assert.Equal(t, 4, slots[4].Slot)

	p.Pos = Vec2{2000, 2000}
	p.Inventory[ResourceCrystal] = 0
	home.RocketProgress = 55

	require.True(t, s.LoadGame(context.Background(), 4))
	assert.Equal(t, Vec2{800, 900}, p.Pos)
	assert.Equal(t, 6, p.Inventory[ResourceCrystal])
	assert.Equal(t, 30.0, home.RocketProgress)
	assert.Equal(t, "Loaded slot 4", rec.notes[len(rec.notes)-1].Text)
}

func TestLoadMissingSlotNotifies(t *testing.T) {
	s, rec := newSavingSimulation(t, memorySlots{})
	pos := s.World().Player.Pos

	assert.False(t, s.LoadGame(context.Background(), 2))
	assert.Equal(t, pos, s.World().Player.Pos)
	assert.Equal(t, "Could not load slot 2", rec.notes[len(rec.notes)-1].Text)
	assert.Equal(t, StatePlaying, s.State())
}

func TestSaveWithoutBackendFails(t *testing.T) {
	s, rec := newSavingSimulation(t, nil)
	assert.False(t, s.SaveGame(context.Background(), 1, "x"))
	assert.Equal(t, "Could not save slot 1", rec.notes[len(rec.notes)-1].Text)
}

func TestRestoreRejectsBadInventory(t *testing.T) {
	s, _ := newSavingSimulation(t, nil)
	p := s.World().Player
	inv := p.Inventory

	err := s.Restore(Snapshot{Inventory: []int{1, -2}})
	assert.Error(t, err)
	err = s.Restore(Snapshot{Inventory: make([]int, ResourceKindCount+1)})
	assert.Error(t, err)
	assert.Equal(t, inv, p.Inventory)
}

func TestRestoreClampsValues(t *testing.T) {
	s, _ := newSavingSimulation(t, nil)
	require.NoError(t, s.Restore(Snapshot{
		PlayerPosition: Vec2{-100, 99999},
		RocketProgress: 250,
	}))
	p := s.World().Player
	assert.Equal(t, Vec2{playerMapMargin, s.config.MapHeight - playerMapMargin}, p.Pos)
	assert.Equal(t, 100.0, s.World().HomeNation().RocketProgress)
	assert.Equal(t, 1, p.Level)
}

func TestSummary(t *testing.T) {
	s, _ := newTestSimulation(t, 2)
	s.spawner.SpawnZombie(Vec2{100, 100}, false)
	s.Tick(1.0/60, Input{})

	sum := s.Summary()
	assert.Equal(t, "playing", sum.State)
	assert.Equal(t, 1, sum.Zombies)
	assert.Len(t, sum.Nations, 3)
	assert.Equal(t, 2, sum.EnemyUnits)
	require.NotNil(t, sum.Player)
	assert.Equal(t, "fighter", sum.Player.Unit)
	assert.Equal(t, 20, sum.Player.Inventory["metal"])
	assert.Equal(t, uint64(1), sum.Stats.Ticks)
}
