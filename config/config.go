// Package config loads the host configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"polarapocalypse/audio"
	"polarapocalypse/game"
	"polarapocalypse/save"
)

// Config is the root of the configuration file
type Config struct {
	Game      game.Config     `yaml:"game"`
	Window    WindowConfig    `yaml:"window"`
	Audio     audio.Config    `yaml:"audio"`
	Storage   save.Config     `yaml:"storage"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type EventBusConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// GetURL returns the NATS url: config, then POLAR_NATS_URL. Empty disables the bus.
func (e EventBusConfig) GetURL() string {
	return withEnvFallback(e.URL, "POLAR_NATS_URL", "")
}

type ServerConfig struct {
	ListenAddr string  `yaml:"listen_addr"`
	TickRate   float64 `yaml:"tick_rate"`
}

// GetListenAddr returns the spectator address: config, then POLAR_LISTEN_ADDR, then :8088
func (s ServerConfig) GetListenAddr() string {
	return withEnvFallback(s.ListenAddr, "POLAR_LISTEN_ADDR", ":8088")
}

// TickInterval is the wall time between headless ticks
func (s ServerConfig) TickInterval() time.Duration {
	rate := s.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Duration(float64(time.Second) / rate)
}

type TelemetryConfig struct {
	ProfileDir     string `yaml:"profile_dir"`
	FrameBudgetMs  int    `yaml:"frame_budget_ms"`
	OverrunLimit   int    `yaml:"overrun_limit"`
	ProfileSeconds int    `yaml:"profile_seconds"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Game:   game.DefaultConfig(),
		Window: WindowConfig{Width: 1280, Height: 720, Title: "Polar Apocalypse"},
		Audio:  audio.Config{Enabled: true, Volume: 0.8},
		Storage: save.Config{
			Backend: save.BackendFile,
			Dir:     "saves",
			Redis:   save.RedisOptions{Prefix: "polar:"},
		},
		EventBus: EventBusConfig{Subject: "polar.events"},
		Server:   ServerConfig{TickRate: 60},
		Telemetry: TelemetryConfig{
			ProfileDir:     "profiles",
			FrameBudgetMs:  16,
			OverrunLimit:   30,
			ProfileSeconds: 5,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to
// POLAR_CONFIG; when neither is set the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("POLAR_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Game.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Storage.Backend == save.BackendRedis {
		cfg.Storage.Redis.Addr = withEnvFallback(cfg.Storage.Redis.Addr, "POLAR_REDIS_ADDR", "localhost:6379")
	}
	return cfg, nil
}

// withEnvFallback returns value, else the env var, else def
func withEnvFallback(value, env, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}
