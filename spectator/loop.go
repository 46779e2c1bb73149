// Package spectator runs a simulation on its own goroutine and serves it over
// HTTP and WebSocket.
package spectator

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"polarapocalypse/game"
	"polarapocalypse/telemetry"
)

// LoopOptions are the optional parts of a Loop
type LoopOptions struct {
	Interval       time.Duration
	Input          game.InputProvider
	Metrics        *telemetry.Metrics
	Watchdog       *telemetry.Watchdog
	Hub            *Hub
	BroadcastEvery int
	Logger         *slog.Logger
}

type command struct {
	fn   func(*game.Simulation)
	done chan struct{}
}

// Loop owns a simulation. Only the loop goroutine touches it; everyone else goes
// through Do or reads the last Summary.
type Loop struct {
	sim  *game.Simulation
	opts LoopOptions
	cmds chan command

	mu      sync.RWMutex
	summary game.Summary
	ticks   uint64
}

// NewLoop wraps sim; call Run to start ticking
func NewLoop(sim *game.Simulation, opts LoopOptions) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 60
	}
	if opts.BroadcastEvery <= 0 {
		opts.BroadcastEvery = 6
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	l := &Loop{sim: sim, opts: opts, cmds: make(chan command)}
	l.summary = sim.Summary()
	return l
}

// Run ticks the simulation until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.opts.Interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-l.cmds:
			cmd.fn(l.sim)
			l.refresh()
			close(cmd.done)
		case now := <-ticker.C:
			l.step(now.Sub(last))
			last = now
		}
	}
}

func (l *Loop) step(dt time.Duration) {
	var in game.Input
	if l.opts.Input != nil {
		in = l.opts.Input.Poll(l.sim.World())
	}
	start := time.Now()
	l.sim.Tick(dt.Seconds(), in)
	took := time.Since(start)

	sum := l.refresh()
	if l.opts.Metrics != nil {
		l.opts.Metrics.ObserveTick(took, sum)
	}
	if l.opts.Watchdog != nil && l.opts.Watchdog.Observe(took) {
		l.opts.Logger.Warn("tick overrun, capturing profile", "took", took)
	}

	l.mu.Lock()
	l.ticks++
	ticks := l.ticks
	l.mu.Unlock()
	if l.opts.Hub != nil && ticks%uint64(l.opts.BroadcastEvery) == 0 {
		data, err := json.Marshal(sum)
		if err != nil {
			l.opts.Logger.Warn("encode summary", "error", err)
			return
		}
		l.opts.Hub.Publish(data)
	}
}

func (l *Loop) refresh() game.Summary {
	sum := l.sim.Summary()
	l.mu.Lock()
	l.summary = sum
	l.mu.Unlock()
	return sum
}

// Do runs fn on the loop goroutine and waits for it
func (l *Loop) Do(ctx context.Context, fn func(*game.Simulation)) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case l.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Summary returns the state after the last tick or command
func (l *Loop) Summary() game.Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.summary
}

// Ticks returns the number of ticks run
func (l *Loop) Ticks() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ticks
}
