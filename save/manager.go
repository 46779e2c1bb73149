// Package save stores game snapshots in numbered slots over a pluggable backend.
package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"polarapocalypse/game"
)

const (
	MinSlot = 1
	MaxSlot = 10
)

// Meta describes a filled slot without decoding its blob
type Meta struct {
	Slot      int       `msgpack:"slot" json:"slot"`
	ID        string    `msgpack:"id" json:"id"`
	Name      string    `msgpack:"name" json:"name"`
	Timestamp time.Time `msgpack:"timestamp" json:"timestamp"`
	Wave      int       `msgpack:"wave" json:"wave"`
	Size      int       `msgpack:"size" json:"size"`
}

// Manager implements game.SaveSlots on top of a Store
type Manager struct {
	store  Store
	codec  *Codec
	logger *slog.Logger
}

var _ game.SaveSlots = (*Manager)(nil)

// NewManager stores slots in store, encoding them with codec
func NewManager(store Store, codec *Codec, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: store, codec: codec, logger: logger}
}

func metaKey(slot int) string { return fmt.Sprintf("slot-%d.meta", slot) }
func blobKey(slot int) string { return fmt.Sprintf("slot-%d.bin", slot) }

func checkSlot(slot int) error {
	if slot < MinSlot || slot > MaxSlot {
		return fmt.Errorf("%w: %d not in %d..%d", ErrSlotOutOfRange, slot, MinSlot, MaxSlot)
	}
	return nil
}

// Save writes the blob first and the metadata last, so a listed slot is always loadable
func (m *Manager) Save(ctx context.Context, slot int, snap game.Snapshot) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	snap.Slot = slot
	blob, err := m.codec.Encode(snap)
	if err != nil {
		return err
	}
	meta, err := msgpack.Marshal(&Meta{
		Slot:      slot,
		ID:        snap.ID.String(),
		Name:      snap.Name,
		Timestamp: snap.Timestamp,
		Wave:      snap.Wave,
		Size:      len(blob),
	})
	if err != nil {
		return fmt.Errorf("marshal slot meta: %w", err)
	}

	if err := m.store.Put(ctx, blobKey(slot), blob); err != nil {
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	if err := m.store.Put(ctx, metaKey(slot), meta); err != nil {
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	m.logger.Debug("slot written", "slot", slot, "bytes", len(blob))
	return nil
}

// Load reads a slot
func (m *Manager) Load(ctx context.Context, slot int) (game.Snapshot, error) {
	if err := checkSlot(slot); err != nil {
		return game.Snapshot{}, err
	}
	blob, err := m.store.Get(ctx, blobKey(slot))
	if errors.Is(err, ErrNotFound) {
		return game.Snapshot{}, fmt.Errorf("load slot %d: %w", slot, ErrSlotEmpty)
	}
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("load slot %d: %w", slot, err)
	}
	snap, err := m.codec.Decode(blob)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("load slot %d: %w", slot, err)
	}
	return snap, nil
}

// Slots lists the filled slots in order
func (m *Manager) Slots(ctx context.Context) ([]Meta, error) {
	var out []Meta
	for slot := MinSlot; slot <= MaxSlot; slot++ {
		raw, err := m.store.Get(ctx, metaKey(slot))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list slots: %w", err)
		}
		var meta Meta
		if err := msgpack.Unmarshal(raw, &meta); err != nil {
			m.logger.Warn("unreadable slot meta", "slot", slot, "error", err)
			continue
		}
		out = append(out, meta)
	}
	return out, nil
}

// Delete empties a slot. Deleting an empty slot is not an error.
func (m *Manager) Delete(ctx context.Context, slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, metaKey(slot)); err != nil {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	if err := m.store.Delete(ctx, blobKey(slot)); err != nil {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	return nil
}

// Close closes the codec and the store
func (m *Manager) Close() error {
	m.codec.Close()
	return m.store.Close()
}
