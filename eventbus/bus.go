// Package eventbus publishes simulation events (notifications, sound cues, state
// changes) to NATS so other processes can follow a running game.
package eventbus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"

	"polarapocalypse/game"
)

// Event types, also the last subject token
const (
	TypeNotification = "notification"
	TypeCue          = "cue"
	TypeState        = "state"
)

// Envelope is the JSON body of every published message
type Envelope struct {
	ID        string    `json:"id"`
	Session   string    `json:"session"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Text string `json:"text,omitempty"`
	Cue  string `json:"cue,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Publisher is the part of *nats.Conn the bus needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Stats are the bus counters
type Stats struct {
	Published uint64 `json:"published"`
	Dropped   uint64 `json:"dropped"`
}

// Bus implements game.Listener by publishing to <prefix>.<type>.
// Publish failures are logged and counted; they never reach the simulation.
type Bus struct {
	pub     Publisher
	prefix  string
	session string
	logger  *slog.Logger
	now     func() time.Time

	published atomic.Uint64
	dropped   atomic.Uint64
}

var _ game.Listener = (*Bus)(nil)

// NewBus publishes through pub under prefix, defaulting to polar.events
func NewBus(pub Publisher, prefix string, logger *slog.Logger) *Bus {
	if prefix == "" {
		prefix = "polar.events"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		pub:     pub,
		prefix:  prefix,
		session: uuid.NewString(),
		logger:  logger,
		now:     time.Now,
	}
}

// Connect dials NATS with reconnects enabled
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// Session identifies this game in every envelope
func (b *Bus) Session() string { return b.session }

// Notify publishes a notification envelope
func (b *Bus) Notify(n game.Notification) {
	b.publish(Envelope{Type: TypeNotification, Text: n.Text})
}

// Cue publishes an audio cue envelope
func (b *Bus) Cue(c game.Cue) {
	b.publish(Envelope{Type: TypeCue, Cue: string(c)})
}

// StateChanged publishes a state transition envelope
func (b *Bus) StateChanged(from, to game.State) {
	b.publish(Envelope{Type: TypeState, From: from.String(), To: to.String()})
}

func (b *Bus) publish(ev Envelope) {
	ev.ID = uuid.NewString()
	ev.Session = b.session
	ev.Timestamp = b.now().UTC()

	data, err := json.Marshal(ev)
	if err == nil {
		err = b.pub.Publish(b.prefix+"."+ev.Type, data)
	}
	if err != nil {
		b.dropped.Add(1)
		b.logger.Warn("event publish failed", "type", ev.Type, "error", err)
		return
	}
	b.published.Add(1)
}

// Stats returns the counters
func (b *Bus) Stats() Stats {
	return Stats{Published: b.published.Load(), Dropped: b.dropped.Load()}
}
