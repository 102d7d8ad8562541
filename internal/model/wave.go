package model

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors for authored wave data.
var (
	ErrBadWaveIndex         = errors.New("wave index must be >= 1")
	ErrNegativePrep         = errors.New("preparation duration must be >= 0")
	ErrNoGroups             = errors.New("wave has no spawn groups")
	ErrMissingArchetype     = errors.New("spawn group references no enemy archetype")
	ErrBadGroupCount        = errors.New("spawn group count must be >= 1")
	ErrBadGroupInterval     = errors.New("spawn interval must be > 0 unless spawn_all_at_once")
	ErrBadSpawnPattern      = errors.New("unknown spawn pattern")
	ErrBadBossCount         = errors.New("boss count must be >= 1 when a boss archetype is set")
	ErrBadScalingMultiplier = errors.New("scaling multipliers must be > 0")
)

// SpawnPattern selects how spawn positions are chosen for a group.
type SpawnPattern string

const (
	PatternRandom      SpawnPattern = "random"
	PatternSequential  SpawnPattern = "sequential"
	PatternSurrounding SpawnPattern = "surrounding"
	PatternSingle      SpawnPattern = "single"
)

// Valid reports whether the pattern is one of the known values.
func (p SpawnPattern) Valid() bool {
	switch p {
	case PatternRandom, PatternSequential, PatternSurrounding, PatternSingle:
		return true
	}
	return false
}

// SpawnGroupPlan is one batch of same-archetype enemies within a wave.
// Read-only during execution.
type SpawnGroupPlan struct {
	ArchetypeID    string
	Count          int
	StartDelay     time.Duration // wait before the first spawn of the group
	Interval       time.Duration // spacing between spawns within the group
	GroupDelay     time.Duration // trailing wait before the next group starts
	SpawnAllAtOnce bool
	Pattern        SpawnPattern
}

// Validate checks the group invariants.
func (g SpawnGroupPlan) Validate() error {
	if g.ArchetypeID == "" {
		return ErrMissingArchetype
	}
	if g.Count < 1 {
		return fmt.Errorf("archetype %s: %w", g.ArchetypeID, ErrBadGroupCount)
	}
	if !g.SpawnAllAtOnce && g.Interval <= 0 {
		return fmt.Errorf("archetype %s: %w", g.ArchetypeID, ErrBadGroupInterval)
	}
	if !g.Pattern.Valid() {
		return fmt.Errorf("archetype %s: %q: %w", g.ArchetypeID, g.Pattern, ErrBadSpawnPattern)
	}
	return nil
}

// Reward is the payout granted when a wave completes.
type Reward struct {
	Currency   int64
	Premium    int64
	Experience int64
}

// Scale returns the reward multiplied by factor, truncated to whole units.
func (r Reward) Scale(factor float64) Reward {
	return Reward{
		Currency:   int64(float64(r.Currency) * factor),
		Premium:    int64(float64(r.Premium) * factor),
		Experience: int64(float64(r.Experience) * factor),
	}
}

// Add returns the element-wise sum of two rewards.
func (r Reward) Add(other Reward) Reward {
	r.Currency += other.Currency
	r.Premium += other.Premium
	r.Experience += other.Experience
	return r
}

// ScalingMultipliers are the authored per-wave difficulty multipliers.
type ScalingMultipliers struct {
	Health    float64
	Damage    float64
	SpawnRate float64
	MoveSpeed float64
}

// Validate checks that all multipliers are positive.
func (s ScalingMultipliers) Validate() error {
	if s.Health <= 0 || s.Damage <= 0 || s.SpawnRate <= 0 || s.MoveSpeed <= 0 {
		return ErrBadScalingMultiplier
	}
	return nil
}

// WaveDefinition is the immutable description of one authored wave.
// Owned collectively by the ordered wave list; never mutated during play.
type WaveDefinition struct {
	Index       int           // 1-based, contiguous within the list
	Preparation time.Duration // countdown before spawning starts
	MaxDuration time.Duration // soft deadline for the whole wave; 0 disables
	Groups      []SpawnGroupPlan

	BossArchetypeID string        // empty means no boss
	BossSpawnDelay  time.Duration // measured from spawning-phase start
	BossCount       int

	Reward  Reward
	Scaling ScalingMultipliers
}

// HasBoss reports whether the wave spawns a boss.
func (w WaveDefinition) HasBoss() bool {
	return w.BossArchetypeID != ""
}

// TotalCount returns the number of ordinary enemies the wave spawns.
func (w WaveDefinition) TotalCount() int {
	total := 0
	for _, g := range w.Groups {
		total += g.Count
	}
	return total
}

// Validate checks the wave invariants.
func (w WaveDefinition) Validate() error {
	if w.Index < 1 {
		return ErrBadWaveIndex
	}
	if w.Preparation < 0 {
		return fmt.Errorf("wave %d: %w", w.Index, ErrNegativePrep)
	}
	if len(w.Groups) == 0 {
		return fmt.Errorf("wave %d: %w", w.Index, ErrNoGroups)
	}
	for i, g := range w.Groups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("wave %d group %d: %w", w.Index, i, err)
		}
	}
	if w.HasBoss() && w.BossCount < 1 {
		return fmt.Errorf("wave %d: %w", w.Index, ErrBadBossCount)
	}
	if err := w.Scaling.Validate(); err != nil {
		return fmt.Errorf("wave %d: %w", w.Index, err)
	}
	return nil
}
