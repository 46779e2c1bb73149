package game

import (
	"image/color"
	"log/slog"
)

// Cue names an audio cue
type Cue string

const (
	CueShoot     Cue = "shoot"
	CueMissile   Cue = "missile"
	CueExplosion Cue = "explosion"
	CueZombie    Cue = "zombie"
	CueFire      Cue = "fire"
	CueWater     Cue = "water"
	CueIce       Cue = "ice"
	CuePickup    Cue = "pickup"
	CueHorde     Cue = "horde"
	CueClick     Cue = "click"
	CueVictory   Cue = "victory"
	CueGameOver  Cue = "gameover"
)

// Cues lists every cue the simulation can emit
var Cues = []Cue{
	CueShoot, CueMissile, CueExplosion, CueZombie, CueFire, CueWater,
	CueIce, CuePickup, CueHorde, CueClick, CueVictory, CueGameOver,
}

// State is the lifecycle state of a Simulation
type State int

const (
	StateMenu State = iota
	StatePlaying
	StatePaused
	StateVictory
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateVictory:
		return "victory"
	case StateGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// Notification is a short-lived message for the player
type Notification struct {
	Text      string     `json:"text"`
	Color     color.RGBA `json:"-"`
	Remaining float64    `json:"remaining"`
}

// Notification colors
var (
	ColorInfo    = color.RGBA{255, 255, 255, 255}
	ColorGood    = color.RGBA{0, 255, 0, 255}
	ColorWarning = color.RGBA{255, 170, 0, 255}
	ColorBad     = color.RGBA{255, 0, 0, 255}
	ColorMagic   = color.RGBA{0, 255, 255, 255}
)

// CuePlayer plays audio cues. Play must not block.
type CuePlayer interface {
	Play(cue Cue)
}

// Listener receives the simulation's fire-and-forget outputs
type Listener interface {
	Notify(n Notification)
	Cue(cue Cue)
	StateChanged(from, to State)
}

// feedback collects notifications and forwards cues and events to the collaborators
type feedback struct {
	audio    CuePlayer
	listener Listener
	logger   *slog.Logger
	lifetime float64

	notifications []Notification
}

func (f *feedback) notify(text string, c color.RGBA) {
	n := Notification{Text: text, Color: c, Remaining: f.lifetime}
	f.notifications = append(f.notifications, n)
	if f.listener != nil {
		f.listener.Notify(n)
	}
}

func (f *feedback) cue(c Cue) {
	if f.audio != nil {
		f.audio.Play(c)
	}
	if f.listener != nil {
		f.listener.Cue(c)
	}
}

func (f *feedback) stateChanged(from, to State) {
	if f.listener != nil {
		f.listener.StateChanged(from, to)
	}
}

// expire counts notifications down and drops the finished ones
func (f *feedback) expire(dt float64) {
	kept := f.notifications[:0]
	for _, n := range f.notifications {
		n.Remaining -= dt
		if n.Remaining > 0 {
			kept = append(kept, n)
		}
	}
	f.notifications = kept
}
