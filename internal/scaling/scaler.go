// Package scaling computes difficulty multipliers for wave indices, in both
// the authored (finite) regime and the open-ended (infinite) regime.
//
// Both regimes go through ForWave so the seam between them cannot drift:
// evaluating one wave past the end of the authored list with zero increments
// reproduces the last authored wave's values exactly.
package scaling

import (
	"time"

	"github.com/nethrin/wavegate/internal/model"
)

// Config holds the per-wave-beyond-list growth increments used once the
// authored wave list is exhausted in infinite mode.
type Config struct {
	HealthIncrement float64 // added per extra wave (scaled by the global multiplier)
	DamageIncrement float64 // added per extra wave (scaled by the global multiplier)
	SpawnRateGrowth float64 // spawn-rate multiplier grows by this fraction per extra wave
	RewardGrowth    float64 // reward bonus grows by this fraction per extra wave
}

// Profile is the effective multiplier set for one wave index.
// Safe to recompute every frame: ForWave is pure and allocation-free.
type Profile struct {
	Health    float64
	Damage    float64
	SpawnRate float64
	MoveSpeed float64
}

// ForWave returns the effective difficulty profile for waveIndex (1-based).
//
// Within the authored list the wave's explicit multipliers apply, with
// health and damage scaled by the global difficulty multiplier. Beyond the
// list the last authored wave is the baseline and the configured increments
// accumulate linearly per extra wave. At exactly the last authored index
// both paths produce identical values.
//
// waves must be non-empty and ordered; waveIndex must be >= 1.
func ForWave(waves []model.WaveDefinition, waveIndex int, globalMultiplier float64, cfg Config) Profile {
	last := waves[len(waves)-1]
	base := last
	if waveIndex <= len(waves) {
		base = waves[waveIndex-1]
	}

	profile := Profile{
		Health:    base.Scaling.Health * globalMultiplier,
		Damage:    base.Scaling.Damage * globalMultiplier,
		SpawnRate: base.Scaling.SpawnRate,
		MoveSpeed: base.Scaling.MoveSpeed,
	}

	extra := waveIndex - last.Index
	if extra <= 0 {
		return profile
	}

	profile.Health += float64(extra) * cfg.HealthIncrement * globalMultiplier
	profile.Damage += float64(extra) * cfg.DamageIncrement * globalMultiplier
	profile.SpawnRate *= 1 + float64(extra)*cfg.SpawnRateGrowth
	return profile
}

// RewardForWave returns the reward payout for waveIndex. Authored waves pay
// their configured reward as-is; waves beyond the list pay the last authored
// reward scaled by the infinite-mode bonus multiplier.
func RewardForWave(waves []model.WaveDefinition, waveIndex int, cfg Config) model.Reward {
	last := waves[len(waves)-1]
	if waveIndex <= len(waves) {
		return waves[waveIndex-1].Reward
	}
	extra := waveIndex - last.Index
	return last.Reward.Scale(1 + float64(extra)*cfg.RewardGrowth)
}

// Apply builds the concrete spawn profile for one enemy instance by
// multiplying the archetype's base stats with the wave profile.
func Apply(archetype *model.EnemyArchetype, p Profile) model.ScaledProfile {
	return model.ScaledProfile{
		Health:    archetype.Health() * p.Health,
		Damage:    archetype.Damage() * p.Damage,
		MoveSpeed: archetype.MoveSpeed() * p.MoveSpeed,
	}
}

// EffectiveInterval divides a group's authored spawn interval by the wave's
// spawn-rate multiplier. A multiplier of 2 halves the spacing. Non-positive
// multipliers fall back to the authored interval.
func EffectiveInterval(interval time.Duration, spawnRate float64) time.Duration {
	if spawnRate <= 0 {
		return interval
	}
	return time.Duration(float64(interval) / spawnRate)
}
