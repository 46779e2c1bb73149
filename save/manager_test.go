package save

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarapocalypse/game"
)

func testSnapshot(name string) game.Snapshot {
	return game.Snapshot{
		ID:             uuid.New(),
		Name:           name,
		Timestamp:      time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC),
		PlayerPosition: game.Vec2{X: 812.5, Y: 1440},
		UnitType:       game.UnitTypeTank,
		Level:          3,
		Inventory:      []int{12, 4, 9, 1, 0, 6},
		RocketProgress: 37.5,
		Wave:           4,
		Elapsed:        241.25,
		Nations: []game.NationRecord{
			{ID: 2, Name: "Home", Faction: game.FactionPlayer, HP: 8000, MaxHP: 8000, Level: 1, Defense: 1},
			{ID: 5, Name: "Red Dominion", Faction: game.RivalFaction(0), HP: 3120, MaxHP: 6000, Level: 1, Defense: 1, Units: 3},
		},
	}
}

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	codec, err := NewCodec()
	require.NoError(t, err)
	m := NewManager(store, codec, nil)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)
	defer codec.Close()

	want := testSnapshot("north gate")
	blob, err := codec.Encode(want)
	require.NoError(t, err)

	got, err := codec.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, want.PlayerPosition, got.PlayerPosition)
	assert.Equal(t, want.Inventory, got.Inventory)
	assert.Equal(t, want.Nations, got.Nations)
	assert.Equal(t, want.UnitType, got.UnitType)
}

func TestCodecRejectsGarbage(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)
	defer codec.Close()

	_, err = codec.Decode([]byte("definitely not zstd"))
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = codec.Decode(codec.enc.EncodeAll([]byte{0xc1}, nil))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func stores(t *testing.T) map[string]Store {
	files, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	db, err := OpenBadger("")
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   files,
		"badger": db,
	}
}

func TestManagerSaveLoad(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := newTestManager(t, store)

			snap := testSnapshot("first")
			require.NoError(t, m.Save(ctx, 3, snap))

			got, err := m.Load(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, snap.ID, got.ID)
			assert.Equal(t, 3, got.Slot)
			assert.Equal(t, snap.RocketProgress, got.RocketProgress)

			// Overwrite keeps a single entry
			require.NoError(t, m.Save(ctx, 3, testSnapshot("second")))
			slots, err := m.Slots(ctx)
			require.NoError(t, err)
			require.Len(t, slots, 1)
			assert.Equal(t, "second", slots[0].Name)
			assert.Positive(t, slots[0].Size)

			require.NoError(t, m.Delete(ctx, 3))
			_, err = m.Load(ctx, 3)
			assert.ErrorIs(t, err, ErrSlotEmpty)
			require.NoError(t, m.Delete(ctx, 3))
		})
	}
}

func TestManagerSlotRange(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewMemoryStore())

	for _, slot := range []int{0, -1, 11} {
		assert.ErrorIs(t, m.Save(ctx, slot, testSnapshot("x")), ErrSlotOutOfRange)
		_, err := m.Load(ctx, slot)
		assert.ErrorIs(t, err, ErrSlotOutOfRange)
		assert.ErrorIs(t, m.Delete(ctx, slot), ErrSlotOutOfRange)
	}
	assert.NoError(t, m.Save(ctx, MinSlot, testSnapshot("low")))
	assert.NoError(t, m.Save(ctx, MaxSlot, testSnapshot("high")))

	slots, err := m.Slots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, MinSlot, slots[0].Slot)
	assert.Equal(t, MaxSlot, slots[1].Slot)
}

func TestManagerCorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := newTestManager(t, store)
	require.NoError(t, store.Put(ctx, blobKey(2), []byte{1, 2, 3}))

	_, err := m.Load(ctx, 2)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSimulationUsesManager(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	cfg := game.DefaultConfig()
	cfg.EnemyNationCount = 1
	s, err := game.NewSimulation(cfg, game.Options{Saves: m})
	require.NoError(t, err)
	s.Start(game.UnitTypeFighter)

	p := s.World().Player
	p.Inventory[game.ResourceCrystal] = 9
	require.True(t, s.SaveGame(context.Background(), 1, "quick"))

	p.Inventory[game.ResourceCrystal] = 0
	require.True(t, s.LoadGame(context.Background(), 1))
	assert.Equal(t, 9, p.Inventory[game.ResourceCrystal])

	assert.False(t, s.LoadGame(context.Background(), 7))
}

func TestRedisStoreNeedsServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{"", BackendMemory, BackendFile, BackendBadger} {
		store, err := Open(ctx, Config{Backend: backend, Dir: dir})
		require.NoError(t, err, backend)
		require.NoError(t, store.Put(ctx, "k", []byte("v")), backend)
		got, err := store.Get(ctx, "k")
		require.NoError(t, err, backend)
		assert.Equal(t, []byte("v"), got, backend)
		_, err = store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound, backend)
		require.NoError(t, store.Close(), backend)
	}

	_, err := Open(ctx, Config{Backend: "floppy"})
	assert.Error(t, err)
}
