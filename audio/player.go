// Package audio plays synthesized sound cues through the system speaker.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"polarapocalypse/game"
)

const sampleRate = beep.SampleRate(48000)

// maxVoices caps how many cues can sound at once
const maxVoices = 16

// Config controls audio output
type Config struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

// Player implements game.CuePlayer. Until Init succeeds every Play is a no-op.
type Player struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	logger      *slog.Logger
	initialized bool
}

var _ game.CuePlayer = (*Player)(nil)

// NewPlayer creates a silent player; Init opens the speaker
func NewPlayer(cfg Config, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{cfg: cfg, mixer: &beep.Mixer{}, logger: logger}
}

// Init opens the speaker. Calling it again is a no-op.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized || !p.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play starts a cue
func (p *Player) Play(cue game.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	s := Sound(cue, sampleRate)
	if s == nil {
		p.logger.Debug("unknown sound cue", "cue", string(cue))
		return
	}
	speaker.Lock()
	if p.mixer.Len() < maxVoices {
		p.mixer.Add(volume(s, p.cfg.Volume))
	}
	speaker.Unlock()
}

// Close silences everything
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}
