package data

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nethrin/wavegate/internal/model"
)

var (
	ErrNoWavesConfigured  = errors.New("wave list is empty")
	ErrNonContiguousWaves = errors.New("wave indices must be 1-based and contiguous")
	ErrUnknownArchetype   = errors.New("unknown enemy archetype")
)

type groupRow struct {
	Archetype         string  `yaml:"archetype"`
	Count             int     `yaml:"count"`
	StartDelaySeconds float64 `yaml:"start_delay_seconds"`
	IntervalSeconds   float64 `yaml:"interval_seconds"`
	GroupDelaySeconds float64 `yaml:"group_delay_seconds"`
	SpawnAllAtOnce    bool    `yaml:"spawn_all_at_once"`
	Pattern           string  `yaml:"pattern"`
}

type bossRow struct {
	Archetype         string  `yaml:"archetype"`
	SpawnDelaySeconds float64 `yaml:"spawn_delay_seconds"`
	Count             int     `yaml:"count"`
}

type rewardRow struct {
	Currency   int64 `yaml:"currency"`
	Premium    int64 `yaml:"premium"`
	Experience int64 `yaml:"experience"`
}

type scalingRow struct {
	Health    float64 `yaml:"health"`
	Damage    float64 `yaml:"damage"`
	SpawnRate float64 `yaml:"spawn_rate"`
	MoveSpeed float64 `yaml:"move_speed"`
}

type waveRow struct {
	Index              int        `yaml:"index"`
	PreparationSeconds float64    `yaml:"preparation_seconds"`
	MaxDurationSeconds float64    `yaml:"max_duration_seconds"`
	Groups             []groupRow `yaml:"groups"`
	Boss               *bossRow   `yaml:"boss"`
	Reward             rewardRow  `yaml:"reward"`
	Scaling            scalingRow `yaml:"scaling"`
}

type waveFile struct {
	Waves []waveRow `yaml:"waves"`
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// LoadWaves reads an ordered wave list from a YAML file and validates it
// against the archetype library. Indices must be 1-based and contiguous;
// every group and boss reference must resolve.
func LoadWaves(path string, lib *ArchetypeLibrary) ([]model.WaveDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading waves %s: %w", path, err)
	}

	var file waveFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing waves %s: %w", path, err)
	}

	waves, err := convertWaves(file.Waves, lib)
	if err != nil {
		return nil, fmt.Errorf("waves %s: %w", path, err)
	}
	return waves, nil
}

func convertWaves(rows []waveRow, lib *ArchetypeLibrary) ([]model.WaveDefinition, error) {
	if len(rows) == 0 {
		return nil, ErrNoWavesConfigured
	}

	waves := make([]model.WaveDefinition, 0, len(rows))
	for i, row := range rows {
		if row.Index != i+1 {
			return nil, fmt.Errorf("position %d has index %d: %w", i+1, row.Index, ErrNonContiguousWaves)
		}

		def := model.WaveDefinition{
			Index:       row.Index,
			Preparation: seconds(row.PreparationSeconds),
			MaxDuration: seconds(row.MaxDurationSeconds),
			Reward: model.Reward{
				Currency:   row.Reward.Currency,
				Premium:    row.Reward.Premium,
				Experience: row.Reward.Experience,
			},
			Scaling: model.ScalingMultipliers{
				Health:    defaultMultiplier(row.Scaling.Health),
				Damage:    defaultMultiplier(row.Scaling.Damage),
				SpawnRate: defaultMultiplier(row.Scaling.SpawnRate),
				MoveSpeed: defaultMultiplier(row.Scaling.MoveSpeed),
			},
		}

		for _, g := range row.Groups {
			pattern := model.SpawnPattern(g.Pattern)
			if g.Pattern == "" {
				pattern = model.PatternRandom
			}
			if _, ok := lib.Get(g.Archetype); !ok && g.Archetype != "" {
				return nil, fmt.Errorf("wave %d: %s: %w", row.Index, g.Archetype, ErrUnknownArchetype)
			}
			def.Groups = append(def.Groups, model.SpawnGroupPlan{
				ArchetypeID:    g.Archetype,
				Count:          g.Count,
				StartDelay:     seconds(g.StartDelaySeconds),
				Interval:       seconds(g.IntervalSeconds),
				GroupDelay:     seconds(g.GroupDelaySeconds),
				SpawnAllAtOnce: g.SpawnAllAtOnce,
				Pattern:        pattern,
			})
		}

		if row.Boss != nil {
			if _, ok := lib.Get(row.Boss.Archetype); !ok {
				return nil, fmt.Errorf("wave %d boss: %s: %w", row.Index, row.Boss.Archetype, ErrUnknownArchetype)
			}
			def.BossArchetypeID = row.Boss.Archetype
			def.BossSpawnDelay = seconds(row.Boss.SpawnDelaySeconds)
			def.BossCount = row.Boss.Count
			if def.BossCount == 0 {
				def.BossCount = 1
			}
		}

		if err := def.Validate(); err != nil {
			return nil, err
		}
		waves = append(waves, def)
	}

	return waves, nil
}

// defaultMultiplier maps an omitted (zero) multiplier to 1.0 so authored
// files only need to state what differs from the baseline.
func defaultMultiplier(v float64) float64 {
	if v == 0 {
		return 1.0
	}
	return v
}
