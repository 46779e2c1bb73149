package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"polarapocalypse/audio"
	"polarapocalypse/config"
	"polarapocalypse/eventbus"
	"polarapocalypse/game"
	"polarapocalypse/save"
	"polarapocalypse/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config (or set POLAR_CONFIG)")
	mute := flag.Bool("mute", false, "Disable audio")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *mute {
		cfg.Audio.Enabled = false
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	store, err := save.Open(ctx, cfg.Storage)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open save store: %v", err)
	}
	codec, err := save.NewCodec()
	if err != nil {
		log.Fatalf("Failed to create save codec: %v", err)
	}
	saves := save.NewManager(store, codec, logger)
	defer saves.Close()

	player := audio.NewPlayer(cfg.Audio, logger)
	if err := player.Init(); err != nil {
		logger.Warn("audio disabled", "err", err)
	}
	defer player.Close()

	var listeners eventbus.Fanout
	if url := cfg.EventBus.GetURL(); url != "" {
		nc, err := eventbus.Connect(url, "polarapocalypse")
		if err != nil {
			logger.Warn("event bus unavailable", "url", url, "err", err)
		} else {
			defer nc.Drain()
			bus := eventbus.NewBus(nc, cfg.EventBus.Subject, logger)
			logger.Info("publishing events", "url", url, "session", bus.Session())
			listeners = append(listeners, bus)
		}
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
		Audio:  player,
		Events: listeners,
		Saves:  saves,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	host := NewHost(sim, cfg.Window.Width, cfg.Window.Height, watchdog, logger)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(host); err != nil {
		log.Fatal(err)
	}
}
