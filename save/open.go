package save

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backends accepted by Config.Backend
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Config selects and configures a Store
type Config struct {
	Backend string       `yaml:"backend"`
	Dir     string       `yaml:"dir"`
	Redis   RedisOptions `yaml:"redis"`
}

// Open creates the configured store. An empty backend means memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendBadger:
		return OpenBadger(filepath.Join(cfg.Dir, "badger"))
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown save backend %q", cfg.Backend)
	}
}
