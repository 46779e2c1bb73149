package save

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"polarapocalypse/game"
)

// Codec turns snapshots into compressed blobs: msgpack, then zstd
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec creates a codec. Close releases the decoder's goroutines.
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Encode serializes a snapshot
func (c *Codec) Encode(snap game.Snapshot) ([]byte, error) {
	raw, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.enc.EncodeAll(raw, nil), nil
}

// Decode parses a blob written by Encode. Any damage is reported as ErrCorrupt.
func (c *Codec) Decode(blob []byte) (game.Snapshot, error) {
	raw, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var snap game.Snapshot
	if err := msgpack.Unmarshal(raw, &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return snap, nil
}

// Close releases the encoder and decoder
func (c *Codec) Close() {
	c.enc.Close()
	c.dec.Close()
}
