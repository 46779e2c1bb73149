// Command headless runs a simulation without a window. The player is driven by
// the autopilot and the game is exposed over the spectator API.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"polarapocalypse/config"
	"polarapocalypse/eventbus"
	"polarapocalypse/game"
	"polarapocalypse/save"
	"polarapocalypse/spectator"
	"polarapocalypse/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config (or set POLAR_CONFIG)")
	addr := flag.String("addr", "", "Spectator API address (or set POLAR_LISTEN_ADDR)")
	unit := flag.Int("unit", 0, "Player unit: 0 fighter, 1 tank, 2 soldier")
	restart := flag.Bool("restart", true, "Start a new game when one ends")
	seed := flag.Int64("seed", 0, "Random seed (0 uses the config seed)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.ListenAddr = *addr
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	unitType := game.UnitType(*unit)
	if unitType < 0 || unitType >= game.UnitTypeCount {
		log.Fatalf("Unknown unit %d", *unit)
	}

	logger := config.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("starting headless simulation", "gomaxprocs", runtime.GOMAXPROCS(0), "seed", cfg.Game.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, unitType, *restart, logger); err != nil {
		logger.Error("headless simulation failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, unitType game.UnitType, restart bool, logger *slog.Logger) error {
	openCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	store, err := save.Open(openCtx, cfg.Storage)
	cancel()
	if err != nil {
		return err
	}
	codec, err := save.NewCodec()
	if err != nil {
		return err
	}
	saves := save.NewManager(store, codec, logger)
	defer saves.Close()

	var (
		bus       *eventbus.Bus
		listeners eventbus.Fanout
	)
	if url := cfg.EventBus.GetURL(); url != "" {
		nc, err := eventbus.Connect(url, "polarapocalypse-headless")
		if err != nil {
			logger.Warn("event bus unavailable", "url", url, "err", err)
		} else {
			defer nc.Drain()
			bus = eventbus.NewBus(nc, cfg.EventBus.Subject, logger)
			listeners = append(listeners, bus)
			logger.Info("publishing events", "url", url, "session", bus.Session())
		}
	}

	metrics := telemetry.NewMetrics()
	sampler, err := telemetry.NewProcessSampler()
	if err != nil {
		logger.Warn("process sampler disabled", "err", err)
		sampler = nil
	}

	var watchdog *telemetry.Watchdog
	if cfg.Telemetry.ProfileDir != "" {
		profiler, err := telemetry.NewProfiler(cfg.Telemetry.ProfileDir,
			time.Duration(cfg.Telemetry.ProfileSeconds)*time.Second, time.Minute, logger)
		if err != nil {
			logger.Warn("profiler disabled", "err", err)
		} else {
			watchdog = &telemetry.Watchdog{
				Budget:   time.Duration(cfg.Telemetry.FrameBudgetMs) * time.Millisecond,
				Limit:    cfg.Telemetry.OverrunLimit,
				Profiler: profiler,
			}
		}
	}

	sim, err := game.NewSimulation(cfg.Game, game.Options{
		Events: listeners,
		Saves:  saves,
		Logger: logger,
		Rand:   rand.New(rand.NewSource(cfg.Game.Seed)),
	})
	if err != nil {
		return err
	}
	sim.Start(unitType)

	hub := spectator.NewHub(logger)
	loop := spectator.NewLoop(sim, spectator.LoopOptions{
		Interval: cfg.Server.TickInterval(),
		Input:    game.NewAutopilot(),
		Metrics:  metrics,
		Watchdog: watchdog,
		Hub:      hub,
		Logger:   logger,
	})
	server := spectator.NewServer(loop, hub, spectator.ServerOptions{
		Slots:   saves,
		Metrics: metrics,
		Sampler: sampler,
		Bus:     bus,
		Logger:  logger,
	})

	go hub.Run(ctx)
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()
	if restart {
		go restartFinished(ctx, loop, unitType, logger)
	}

	serveErr := server.ListenAndServe(ctx, cfg.Server.GetListenAddr())
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("headless simulation stopped", "ticks", loop.Ticks())
	return nil
}

// restartFinished starts a new game a few seconds after the current one ends
func restartFinished(ctx context.Context, loop *spectator.Loop, unitType game.UnitType, logger *slog.Logger) {
	const grace = 5 * time.Second
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var endedAt time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			state := loop.Summary().State
			if state != game.StateVictory.String() && state != game.StateGameOver.String() {
				endedAt = time.Time{}
				continue
			}
			if endedAt.IsZero() {
				endedAt = now
				continue
			}
			if now.Sub(endedAt) < grace {
				continue
			}
			logger.Info("restarting finished game", "state", state)
			if err := loop.Do(ctx, func(s *game.Simulation) { s.Start(unitType) }); err != nil {
				return
			}
			endedAt = time.Time{}
		}
	}
}
