package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder captures everything a simulation emits
type recorder struct {
	notes       []Notification
	cues        []Cue
	played      []Cue
	transitions [][2]State
}

func (r *recorder) Notify(n Notification)       { r.notes = append(r.notes, n) }
func (r *recorder) Cue(c Cue)                   { r.cues = append(r.cues, c) }
func (r *recorder) Play(c Cue)                  { r.played = append(r.played, c) }
func (r *recorder) StateChanged(from, to State) { r.transitions = append(r.transitions, [2]State{from, to}) }

func (r *recorder) count(to State) int {
	n := 0
	for _, tr := range r.transitions {
		if tr[1] == to {
			n++
		}
	}
	return n
}

func (r *recorder) hasCue(c Cue) bool {
	for _, got := range r.cues {
		if got == c {
			return true
		}
	}
	return false
}

func newTestSimulation(t *testing.T, nations int) (*Simulation, *recorder) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EnemyNationCount = nations
	cfg.InitialResources = 0
	rec := &recorder{}
	s, err := NewSimulation(cfg, Options{
		Audio:  rec,
		Events: rec,
		Rand:   rand.New(rand.NewSource(7)),
	})
	require.NoError(t, err)
	s.Start(UnitTypeFighter)
	return s, rec
}

func rival(t *testing.T, s *Simulation) *Nation {
	t.Helper()
	for _, n := range s.World().Nations {
		if !n.IsHome() {
			return n
		}
	}
	t.Fatal("no rival nation")
	return nil
}

func guardOf(home *Nation, class GuardClass) *EnemyUnit {
	for _, u := range home.Units {
		if g, ok := u.Role.(*GuardRole); ok && g.Class == class && u.Alive() {
			return u
		}
	}
	return nil
}
