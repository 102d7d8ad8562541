package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWave() WaveDefinition {
	return WaveDefinition{
		Index:       1,
		Preparation: 5 * time.Second,
		MaxDuration: 2 * time.Minute,
		Groups: []SpawnGroupPlan{
			{ArchetypeID: "husk", Count: 5, Interval: 2 * time.Second, Pattern: PatternRandom},
		},
		Reward:  Reward{Currency: 100, Experience: 50},
		Scaling: ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}
}

func TestWaveDefinition_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validWave().Validate())

	w := validWave()
	w.Index = 0
	assert.ErrorIs(t, w.Validate(), ErrBadWaveIndex)

	w = validWave()
	w.Preparation = -time.Second
	assert.ErrorIs(t, w.Validate(), ErrNegativePrep)

	w = validWave()
	w.Groups = nil
	assert.ErrorIs(t, w.Validate(), ErrNoGroups)

	w = validWave()
	w.BossArchetypeID = "ravager"
	assert.ErrorIs(t, w.Validate(), ErrBadBossCount)
	w.BossCount = 1
	assert.NoError(t, w.Validate())

	w = validWave()
	w.Scaling.Health = 0
	assert.ErrorIs(t, w.Validate(), ErrBadScalingMultiplier)
}

func TestSpawnGroupPlan_Validate(t *testing.T) {
	t.Parallel()

	g := SpawnGroupPlan{ArchetypeID: "husk", Count: 3, Interval: time.Second, Pattern: PatternSingle}
	require.NoError(t, g.Validate())

	g.ArchetypeID = ""
	assert.ErrorIs(t, g.Validate(), ErrMissingArchetype)

	g = SpawnGroupPlan{ArchetypeID: "husk", Count: 0, Interval: time.Second, Pattern: PatternSingle}
	assert.ErrorIs(t, g.Validate(), ErrBadGroupCount)

	g = SpawnGroupPlan{ArchetypeID: "husk", Count: 3, Pattern: PatternSingle}
	assert.ErrorIs(t, g.Validate(), ErrBadGroupInterval)

	// A zero interval is fine when the whole batch spawns in one tick.
	g.SpawnAllAtOnce = true
	assert.NoError(t, g.Validate())

	g = SpawnGroupPlan{ArchetypeID: "husk", Count: 3, Interval: time.Second, Pattern: "spiral"}
	assert.ErrorIs(t, g.Validate(), ErrBadSpawnPattern)
}

func TestReward_ScaleAndAdd(t *testing.T) {
	t.Parallel()

	r := Reward{Currency: 100, Premium: 3, Experience: 50}

	scaled := r.Scale(1.5)
	assert.Equal(t, Reward{Currency: 150, Premium: 4, Experience: 75}, scaled)

	sum := r.Add(Reward{Currency: 10, Experience: 5})
	assert.Equal(t, Reward{Currency: 110, Premium: 3, Experience: 55}, sum)
}

func TestWaveDefinition_TotalCount(t *testing.T) {
	t.Parallel()

	w := validWave()
	w.Groups = append(w.Groups, SpawnGroupPlan{
		ArchetypeID: "brute", Count: 2, Interval: time.Second, Pattern: PatternSingle,
	})
	assert.Equal(t, 7, w.TotalCount())
}

func TestSpawnPattern_Valid(t *testing.T) {
	t.Parallel()

	for _, p := range []SpawnPattern{PatternRandom, PatternSequential, PatternSurrounding, PatternSingle} {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, SpawnPattern("spiral").Valid())
	assert.False(t, SpawnPattern("").Valid())
}
