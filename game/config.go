package game

import "fmt"

// Config holds simulation tunables
type Config struct {
	// MapWidth is the width of the playfield in world units
	MapWidth float64 `yaml:"map_width"`

	// MapHeight is the height of the playfield in world units
	MapHeight float64 `yaml:"map_height"`

	// EnemyNationCount is the number of rival nations placed around the center
	EnemyNationCount int `yaml:"enemy_nation_count"`

	// Seed drives every random choice of the simulation (0 picks a fixed default)
	Seed int64 `yaml:"seed"`

	// MaxDeltaTime clamps the per-tick time step in seconds
	MaxDeltaTime float64 `yaml:"max_delta_time"`

	// WaveInterval is the zombie wave countdown in seconds
	WaveInterval float64 `yaml:"wave_interval"`

	// InitialResources is the number of ambient pickups seeded at game start
	InitialResources int `yaml:"initial_resources"`

	// ResourceFieldScale is the world distance covered by one unit of Perlin noise
	ResourceFieldScale float64 `yaml:"resource_field_scale"`

	// AllyCap is the maximum number of crafted allies alive at once
	AllyCap int `yaml:"ally_cap"`

	// AllyLifespan is how long a crafted ally lives, in seconds
	AllyLifespan float64 `yaml:"ally_lifespan"`

	// RespawnDelay is the time a dead player waits before respawning at home
	RespawnDelay float64 `yaml:"respawn_delay"`

	// NotificationLifetime is how long a notification stays visible
	NotificationLifetime float64 `yaml:"notification_lifetime"`

	// ZombieFadeTime is how long a dead zombie stays in the world before removal
	ZombieFadeTime float64 `yaml:"zombie_fade_time"`

	// MaxParticles is the soft cap for cosmetic particles
	MaxParticles int `yaml:"max_particles"`

	// GridCellSize is the size of a collision grid cell
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		MapWidth:             3000,
		MapHeight:            3000,
		EnemyNationCount:     3,
		Seed:                 1,
		MaxDeltaTime:         0.1,
		WaveInterval:         60,
		InitialResources:     40,
		ResourceFieldScale:   600,
		AllyCap:              8,
		AllyLifespan:         120,
		RespawnDelay:         3,
		NotificationLifetime: 3,
		ZombieFadeTime:       1,
		MaxParticles:         100,
		GridCellSize:         250,
	}
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	if c.MapWidth <= 0 || c.MapHeight <= 0 {
		return fmt.Errorf("map size must be positive, got %.0fx%.0f", c.MapWidth, c.MapHeight)
	}
	if c.EnemyNationCount < 0 {
		return fmt.Errorf("enemy nation count must not be negative, got %d", c.EnemyNationCount)
	}
	if c.MaxDeltaTime <= 0 {
		return fmt.Errorf("max delta time must be positive, got %v", c.MaxDeltaTime)
	}
	if c.WaveInterval <= 0 {
		return fmt.Errorf("wave interval must be positive, got %v", c.WaveInterval)
	}
	if c.GridCellSize <= 0 {
		return fmt.Errorf("grid cell size must be positive, got %v", c.GridCellSize)
	}
	return nil
}

// Center returns the middle of the map
func (c Config) Center() Vec2 {
	return Vec2{X: c.MapWidth / 2, Y: c.MapHeight / 2}
}

// GridCountX returns the number of grid cells in the X direction
func (c Config) GridCountX() int {
	return int(c.MapWidth/c.GridCellSize) + 1
}

// GridCountY returns the number of grid cells in the Y direction
func (c Config) GridCountY() int {
	return int(c.MapHeight/c.GridCellSize) + 1
}
