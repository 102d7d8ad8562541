package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Bounds for the global difficulty multiplier.
const (
	MinDifficultyMultiplier = 0.5
	MaxDifficultyMultiplier = 5.0
)

// SpawnGeometry configures position resolution for spawned enemies.
type SpawnGeometry struct {
	// Surrounding-pattern distance band around the player.
	MinPlayerDistance float64 `yaml:"min_player_distance"`
	MaxPlayerDistance float64 `yaml:"max_player_distance"`

	// Planar jitter applied to every resolved position.
	JitterRadius float64 `yaml:"jitter_radius"`

	// Radius for snapping a candidate to a traversable surface.
	SampleRadius float64 `yaml:"sample_radius"`

	// Configured spawn anchors.
	Anchors []Anchor `yaml:"anchors"`
}

// Anchor is one configured spawn point.
type Anchor struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Arena configures the walkable-grid world model used by the reference
// terrain sampler.
type Arena struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
}

// Orchestrator holds all configuration for the encounter orchestrator.
type Orchestrator struct {
	LogLevel string `yaml:"log_level"`

	// Authored data files.
	WavesPath      string `yaml:"waves_path"`
	ArchetypesPath string `yaml:"archetypes_path"`

	// Difficulty.
	InfiniteMode         bool    `yaml:"infinite_mode"`
	DifficultyMultiplier float64 `yaml:"difficulty_multiplier"` // clamped to [0.5, 5.0]
	HealthIncrement      float64 `yaml:"health_increment"`      // per wave beyond the list
	DamageIncrement      float64 `yaml:"damage_increment"`      // per wave beyond the list
	SpawnRateGrowth      float64 `yaml:"spawn_rate_growth"`     // per wave beyond the list
	RewardGrowth         float64 `yaml:"reward_growth"`         // per wave beyond the list

	// Rest window between waves: base + per_wave*(index-1), capped at max.
	RestSeconds        int `yaml:"rest_seconds"`
	RestPerWaveSeconds int `yaml:"rest_per_wave_seconds"`
	RestMaxSeconds     int `yaml:"rest_max_seconds"`

	// Host tick interval for the built-in loop driver.
	TickMillis int `yaml:"tick_millis"`

	// Simulator-only: auto-resolve lifetime for spawned enemies.
	AutoResolveSeconds int `yaml:"auto_resolve_seconds"`

	Spawn SpawnGeometry `yaml:"spawn"`
	Arena Arena         `yaml:"arena"`
}

// DefaultOrchestrator returns Orchestrator config with sensible defaults.
func DefaultOrchestrator() Orchestrator {
	return Orchestrator{
		LogLevel:             "info",
		WavesPath:            "config/waves.yaml",
		ArchetypesPath:       "config/archetypes.yaml",
		InfiniteMode:         false,
		DifficultyMultiplier: 1.0,
		HealthIncrement:      0.1,
		DamageIncrement:      0.1,
		SpawnRateGrowth:      0.05,
		RewardGrowth:         0.1,
		RestSeconds:          10,
		RestPerWaveSeconds:   0,
		RestMaxSeconds:       30,
		TickMillis:           100,
		AutoResolveSeconds:   5,
		Spawn: SpawnGeometry{
			MinPlayerDistance: 15,
			MaxPlayerDistance: 30,
			JitterRadius:      2,
			SampleRadius:      5,
		},
		Arena: Arena{
			Width:    200,
			Height:   200,
			CellSize: 2,
		},
	}
}

// LoadOrchestrator reads config from path. A missing file yields defaults.
func LoadOrchestrator(path string) (Orchestrator, error) {
	cfg := DefaultOrchestrator()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Normalize clamps out-of-bounds values to their allowed ranges.
func (c *Orchestrator) Normalize() {
	if c.DifficultyMultiplier < MinDifficultyMultiplier {
		slog.Warn("difficulty multiplier below minimum, clamping",
			"configured", c.DifficultyMultiplier,
			"min", MinDifficultyMultiplier)
		c.DifficultyMultiplier = MinDifficultyMultiplier
	}
	if c.DifficultyMultiplier > MaxDifficultyMultiplier {
		slog.Warn("difficulty multiplier above maximum, clamping",
			"configured", c.DifficultyMultiplier,
			"max", MaxDifficultyMultiplier)
		c.DifficultyMultiplier = MaxDifficultyMultiplier
	}
	if c.TickMillis <= 0 {
		c.TickMillis = 100
	}
	if c.Spawn.MaxPlayerDistance < c.Spawn.MinPlayerDistance {
		c.Spawn.MaxPlayerDistance = c.Spawn.MinPlayerDistance
	}
}
