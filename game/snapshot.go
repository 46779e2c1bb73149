package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNoSaveSlots is returned when the simulation has no save backend
var ErrNoSaveSlots = errors.New("no save slots configured")

// SaveSlots stores snapshots by slot number
type SaveSlots interface {
	Save(ctx context.Context, slot int, snap Snapshot) error
	Load(ctx context.Context, slot int) (Snapshot, error)
}

// NationRecord is the saved view of one nation
type NationRecord struct {
	ID             EntityID `msgpack:"id" json:"id"`
	Name           string   `msgpack:"name" json:"name"`
	Faction        Faction  `msgpack:"faction" json:"faction"`
	Position       Vec2     `msgpack:"position" json:"position"`
	HP             float64  `msgpack:"hp" json:"hp"`
	MaxHP          float64  `msgpack:"max_hp" json:"max_hp"`
	Level          int      `msgpack:"level" json:"level"`
	Defense        float64  `msgpack:"defense" json:"defense"`
	RocketProgress float64  `msgpack:"rocket_progress" json:"rocket_progress"`
	Units          int      `msgpack:"units" json:"units"`
}

// Snapshot is the serializable save of a game
type Snapshot struct {
	ID        uuid.UUID `msgpack:"id" json:"id"`
	Name      string    `msgpack:"name" json:"name"`
	Slot      int       `msgpack:"slot" json:"slot"`
	Timestamp time.Time `msgpack:"timestamp" json:"timestamp"`

	PlayerPosition Vec2     `msgpack:"player_position" json:"player_position"`
	UnitType       UnitType `msgpack:"unit_type" json:"unit_type"`
	Level          int      `msgpack:"level" json:"level"`
	Inventory      []int    `msgpack:"inventory" json:"inventory"`
	RocketProgress float64  `msgpack:"rocket_progress" json:"rocket_progress"`

	Wave    int            `msgpack:"wave" json:"wave"`
	Elapsed float64        `msgpack:"elapsed" json:"elapsed"`
	Nations []NationRecord `msgpack:"nations" json:"nations"`
}

// Snapshot exports the current game
func (s *Simulation) Snapshot(name string) Snapshot {
	snap := Snapshot{
		ID:        uuid.New(),
		Name:      name,
		Timestamp: s.opts.Now().UTC(),
		UnitType:  s.unitType,
		Wave:      s.spawner.Wave,
		Elapsed:   s.elapsed,
	}
	if p := s.world.Player; p != nil {
		snap.PlayerPosition = p.Pos
		snap.Level = p.Level
		snap.Inventory = append([]int(nil), p.Inventory[:]...)
	}
	if home := s.world.HomeNation(); home != nil {
		snap.RocketProgress = home.RocketProgress
	}
	for _, n := range s.world.Nations {
		snap.Nations = append(snap.Nations, NationRecord{
			ID:             n.ID,
			Name:           n.Name,
			Faction:        n.Faction,
			Position:       n.Pos,
			HP:             n.HP,
			MaxHP:          n.MaxHP,
			Level:          n.Level,
			Defense:        n.Defense,
			RocketProgress: n.RocketProgress,
			Units:          n.LiveUnits(),
		})
	}
	return snap
}

// Restore merges a snapshot into the running game: player position, level,
// inventory and rocket progress. Everything else keeps running as it is.
func (s *Simulation) Restore(snap Snapshot) error {
	p := s.world.Player
	if p == nil {
		return ErrNotRunning
	}
	if len(snap.Inventory) > int(ResourceKindCount) {
		return fmt.Errorf("snapshot has %d resource kinds, want at most %d", len(snap.Inventory), ResourceKindCount)
	}
	for _, v := range snap.Inventory {
		if v < 0 {
			return fmt.Errorf("snapshot has negative inventory %d", v)
		}
	}

	p.Pos = s.world.ClampToMap(snap.PlayerPosition, playerMapMargin)
	if snap.Level > 0 {
		p.Level = snap.Level
	}
	p.Inventory = Inventory{}
	copy(p.Inventory[:], snap.Inventory)

	if home := s.world.HomeNation(); home != nil {
		home.RocketProgress = max(0, min(rocketComplete, snap.RocketProgress))
	}
	return nil
}

// SaveGame writes the current game to a slot. Failures are reported as a
// notification and a false result; they never disturb the running game.
func (s *Simulation) SaveGame(ctx context.Context, slot int, name string) bool {
	if s.opts.Saves == nil {
		s.saveFailed("save", slot, ErrNoSaveSlots)
		return false
	}
	if s.world.Player == nil {
		s.saveFailed("save", slot, ErrNotRunning)
		return false
	}
	snap := s.Snapshot(name)
	snap.Slot = slot
	if err := s.opts.Saves.Save(ctx, slot, snap); err != nil {
		s.saveFailed("save", slot, err)
		return false
	}
	s.fb.notify(fmt.Sprintf("Saved to slot %d", slot), ColorGood)
	s.logger.Info("game saved", "slot", slot, "id", snap.ID.String())
	return true
}

// LoadGame restores a slot into the running game
func (s *Simulation) LoadGame(ctx context.Context, slot int) bool {
	if s.opts.Saves == nil {
		s.saveFailed("load", slot, ErrNoSaveSlots)
		return false
	}
	snap, err := s.opts.Saves.Load(ctx, slot)
	if err != nil {
		s.saveFailed("load", slot, err)
		return false
	}
	if err := s.Restore(snap); err != nil {
		s.saveFailed("load", slot, err)
		return false
	}
	s.fb.notify(fmt.Sprintf("Loaded slot %d", slot), ColorGood)
	s.logger.Info("game loaded", "slot", slot, "id", snap.ID.String())
	return true
}

func (s *Simulation) saveFailed(op string, slot int, err error) {
	s.fb.notify(fmt.Sprintf("Could not %s slot %d", op, slot), ColorBad)
	s.logger.Warn(op+" failed", "slot", slot, "error", err)
}
