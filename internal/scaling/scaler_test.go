package scaling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nethrin/wavegate/internal/model"
)

func authoredWaves() []model.WaveDefinition {
	return []model.WaveDefinition{
		{Index: 1, Scaling: model.ScalingMultipliers{Health: 1.0, Damage: 1.0, SpawnRate: 1.0, MoveSpeed: 1.0},
			Reward: model.Reward{Currency: 100, Experience: 50}},
		{Index: 2, Scaling: model.ScalingMultipliers{Health: 1.3, Damage: 1.1, SpawnRate: 1.1, MoveSpeed: 1.0},
			Reward: model.Reward{Currency: 200, Experience: 120}},
		{Index: 3, Scaling: model.ScalingMultipliers{Health: 1.6, Damage: 1.25, SpawnRate: 1.2, MoveSpeed: 1.1},
			Reward: model.Reward{Currency: 350, Premium: 2, Experience: 250}},
	}
}

func TestForWave_AuthoredRegime(t *testing.T) {
	t.Parallel()

	waves := authoredWaves()
	p := ForWave(waves, 2, 2.0, Config{})

	assert.InDelta(t, 2.6, p.Health, 1e-9)
	assert.InDelta(t, 2.2, p.Damage, 1e-9)
	// Spawn rate and move speed are pacing knobs, not difficulty knobs:
	// the global multiplier does not touch them.
	assert.InDelta(t, 1.1, p.SpawnRate, 1e-9)
	assert.InDelta(t, 1.0, p.MoveSpeed, 1e-9)
}

func TestForWave_ContinuityAtSeam(t *testing.T) {
	t.Parallel()

	waves := authoredWaves()
	configs := []Config{
		{},
		{HealthIncrement: 0.1, DamageIncrement: 0.05, SpawnRateGrowth: 0.1},
		{HealthIncrement: 2.5, DamageIncrement: 1.0, SpawnRateGrowth: 0.5},
	}
	multipliers := []float64{0.5, 1.0, 3.7, 5.0}

	for _, cfg := range configs {
		for _, global := range multipliers {
			finite := ForWave(waves, 3, global, Config{})
			atSeam := ForWave(waves, 3, global, cfg)
			// The last authored index evaluates identically whatever the
			// infinite-regime increments are: zero extra waves applied.
			assert.Equal(t, finite, atSeam,
				"seam drift with cfg=%+v global=%v", cfg, global)
		}
	}
}

func TestForWave_InfiniteRegime(t *testing.T) {
	t.Parallel()

	waves := authoredWaves()
	cfg := Config{HealthIncrement: 0.1, DamageIncrement: 0.05, SpawnRateGrowth: 0.1}

	// Two waves past a 3-wave list.
	p := ForWave(waves, 5, 1.0, cfg)
	assert.InDelta(t, 1.6+2*0.1, p.Health, 1e-9)
	assert.InDelta(t, 1.25+2*0.05, p.Damage, 1e-9)
	assert.InDelta(t, 1.2*(1+2*0.1), p.SpawnRate, 1e-9)
	assert.InDelta(t, 1.1, p.MoveSpeed, 1e-9)

	// The increments respect the global difficulty multiplier.
	hard := ForWave(waves, 5, 2.0, cfg)
	assert.InDelta(t, (1.6+2*0.1)*2.0, hard.Health, 1e-9)
}

func TestForWave_MonotonicHealthBeyondList(t *testing.T) {
	t.Parallel()

	waves := authoredWaves()
	cfg := Config{HealthIncrement: 0.07}

	prev := ForWave(waves, 3, 1.0, cfg).Health
	for n := 4; n <= 50; n++ {
		current := ForWave(waves, n, 1.0, cfg).Health
		require.GreaterOrEqual(t, current, prev, "health decreased at wave %d", n)
		prev = current
	}
}

func TestRewardForWave(t *testing.T) {
	t.Parallel()

	waves := authoredWaves()
	cfg := Config{RewardGrowth: 0.1}

	assert.Equal(t, model.Reward{Currency: 200, Experience: 120}, RewardForWave(waves, 2, cfg))
	assert.Equal(t, waves[2].Reward, RewardForWave(waves, 3, cfg))

	// Three waves beyond the list: bonus multiplier 1.3.
	bonus := RewardForWave(waves, 6, cfg)
	assert.Equal(t, int64(455), bonus.Currency)
	assert.Equal(t, int64(2), bonus.Premium)
	assert.Equal(t, int64(325), bonus.Experience)
}

func TestApply(t *testing.T) {
	t.Parallel()

	archetype := model.NewEnemyArchetype("husk", "Husk", 80, 6, 3.0, 10, false)
	profile := Apply(archetype, Profile{Health: 1.5, Damage: 2.0, MoveSpeed: 1.1})

	assert.InDelta(t, 120.0, profile.Health, 1e-9)
	assert.InDelta(t, 12.0, profile.Damage, 1e-9)
	assert.InDelta(t, 3.3, profile.MoveSpeed, 1e-9)
}

func TestEffectiveInterval(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2*time.Second, EffectiveInterval(2*time.Second, 1.0))
	assert.Equal(t, time.Second, EffectiveInterval(2*time.Second, 2.0))
	assert.Equal(t, 2*time.Second, EffectiveInterval(2*time.Second, 0))
}
