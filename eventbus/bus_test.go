package eventbus

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarapocalypse/game"
)

type message struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	sent []message
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message{subject, data})
	return nil
}

func decode(t *testing.T, m message) Envelope {
	t.Helper()
	var ev Envelope
	require.NoError(t, json.Unmarshal(m.data, &ev))
	return ev
}

func TestBusPublishesEnvelopes(t *testing.T) {
	pub := &fakePublisher{}
	bus := NewBus(pub, "test.events", nil)
	bus.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	bus.Notify(game.Notification{Text: "Wave 3 incoming"})
	bus.Cue(game.CueHorde)
	bus.StateChanged(game.StatePlaying, game.StateVictory)

	require.Len(t, pub.sent, 3)
	assert.Equal(t, "test.events.notification", pub.sent[0].subject)
	assert.Equal(t, "test.events.cue", pub.sent[1].subject)
	assert.Equal(t, "test.events.state", pub.sent[2].subject)

	note := decode(t, pub.sent[0])
	assert.Equal(t, "Wave 3 incoming", note.Text)
	assert.Equal(t, bus.Session(), note.Session)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, 2024, note.Timestamp.Year())

	assert.Equal(t, string(game.CueHorde), decode(t, pub.sent[1]).Cue)
	state := decode(t, pub.sent[2])
	assert.Equal(t, "playing", state.From)
	assert.Equal(t, "victory", state.To)
	assert.Equal(t, Stats{Published: 3}, bus.Stats())
}

func TestBusCountsFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	bus := NewBus(pub, "", nil)

	assert.NotPanics(t, func() { bus.Cue(game.CueShoot) })
	assert.Equal(t, Stats{Dropped: 1}, bus.Stats())
}

func TestBusFollowsSimulation(t *testing.T) {
	pub := &fakePublisher{}
	bus := NewBus(pub, "", nil)
	cfg := game.DefaultConfig()
	cfg.EnemyNationCount = 0
	s, err := game.NewSimulation(cfg, game.Options{Events: bus})
	require.NoError(t, err)

	s.Start(game.UnitTypeFighter)
	s.Tick(0.016, game.Input{})
	assert.Equal(t, game.StateVictory, s.State())

	var states []string
	for _, m := range pub.sent {
		if m.subject == "polar.events.state" {
			states = append(states, decode(t, m).To)
		}
	}
	assert.Equal(t, []string{"playing", "victory"}, states)
}

type counting struct{ notes, cues, states int }

func (c *counting) Notify(game.Notification)     { c.notes++ }
func (c *counting) Cue(game.Cue)                 { c.cues++ }
func (c *counting) StateChanged(_, _ game.State) { c.states++ }

func TestFanout(t *testing.T) {
	a, b := &counting{}, &counting{}
	f := Fanout{a, nil, b}

	f.Notify(game.Notification{Text: "x"})
	f.Cue(game.CueClick)
	f.Cue(game.CueClick)
	f.StateChanged(game.StateMenu, game.StatePlaying)

	for _, c := range []*counting{a, b} {
		assert.Equal(t, counting{notes: 1, cues: 2, states: 1}, *c)
	}
}
