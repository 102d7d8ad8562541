package wave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nethrin/wavegate/internal/model"
	"github.com/nethrin/wavegate/internal/scaling"
)

// runnerHarness records hook activity against a virtual clock.
type runnerHarness struct {
	now        time.Duration
	spawnTimes []time.Duration
	spawnIDs   []string
	bossTimes  []time.Duration
	prepTicks  int
	completed  int
	alive      int
}

func (h *runnerHarness) hooks() runnerHooks {
	return runnerHooks{
		spawnGroupEnemy: func(plan model.SpawnGroupPlan) {
			h.spawnTimes = append(h.spawnTimes, h.now)
			h.spawnIDs = append(h.spawnIDs, plan.ArchetypeID)
			h.alive++
		},
		spawnBosses: func(count int) {
			for range count {
				h.bossTimes = append(h.bossTimes, h.now)
				h.alive++
			}
		},
		aliveCount: func() int { return h.alive },
		prepTick:   func(time.Duration) { h.prepTicks++ },
		completed:  func() { h.completed++ },
	}
}

// advance drives the runner in fixed steps for the given span. The leading
// zero-length tick fires anything already due at the current instant.
func (h *runnerHarness) advance(r *Runner, span, step time.Duration) {
	r.Tick(0)
	for elapsed := time.Duration(0); elapsed < span; elapsed += step {
		h.now += step
		r.Tick(step)
	}
}

func baseProfile() scaling.Profile {
	return scaling.Profile{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1}
}

func TestRunner_SpawnCadence(t *testing.T) {
	t.Parallel()

	// Wave 1 of the reference scenario: one group, count 5, 2s interval.
	def := model.WaveDefinition{
		Index:       1,
		Preparation: 3 * time.Second,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "husk", Count: 5, Interval: 2 * time.Second, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())
	require.Equal(t, RunnerPreparing, r.State())

	h.advance(r, 12*time.Second, 100*time.Millisecond)

	require.Len(t, h.spawnTimes, 5)
	expected := []time.Duration{3 * time.Second, 5 * time.Second, 7 * time.Second, 9 * time.Second, 11 * time.Second}
	for i, at := range expected {
		assert.Equal(t, at, h.spawnTimes[i], "spawn %d", i)
	}
	assert.Equal(t, RunnerAwaitingClear, r.State())
}

func TestRunner_GroupOrdering(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index: 1,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 3, Interval: time.Second, GroupDelay: 2 * time.Second, Pattern: model.PatternRandom},
			{ArchetypeID: "b", Count: 2, StartDelay: time.Second, Interval: time.Second, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())
	h.advance(r, 10*time.Second, 50*time.Millisecond)

	require.Equal(t, []string{"a", "a", "a", "b", "b"}, h.spawnIDs)
	// Group a: 0s, 1s, 2s. Gap 2s, then group b's start delay 1s: 5s, 6s.
	expected := []time.Duration{0, time.Second, 2 * time.Second, 5 * time.Second, 6 * time.Second}
	assert.Equal(t, expected, h.spawnTimes)

	// Group 2 never starts before group 1 finished.
	lastA := h.spawnTimes[2]
	firstB := h.spawnTimes[3]
	assert.Greater(t, firstB, lastA)
}

func TestRunner_SpawnAllAtOnce(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index: 1,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 4, StartDelay: time.Second, SpawnAllAtOnce: true, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())
	h.advance(r, 2*time.Second, 100*time.Millisecond)

	require.Len(t, h.spawnTimes, 4)
	for _, at := range h.spawnTimes {
		assert.Equal(t, time.Second, at)
	}
}

func TestRunner_SpawnRateShortensInterval(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index: 1,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 3, Interval: 2 * time.Second, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	profile := baseProfile()
	profile.SpawnRate = 2.0
	r := newRunner(def, profile, h.hooks())
	h.advance(r, 3*time.Second, 100*time.Millisecond)

	// Doubled spawn rate halves the spacing.
	assert.Equal(t, []time.Duration{0, time.Second, 2 * time.Second}, h.spawnTimes)
}

func TestRunner_BossIsTimeAnchored(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index: 1,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 2, Interval: 10 * time.Second, Pattern: model.PatternRandom},
		},
		BossArchetypeID: "ravager",
		BossSpawnDelay:  5 * time.Second,
		BossCount:       2,
		Scaling:         model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())
	h.advance(r, 12*time.Second, 100*time.Millisecond)

	// Ordinary spawns at 0s and 10s; the boss batch lands between them,
	// anchored to wave time rather than group cadence.
	assert.Equal(t, []time.Duration{0, 10 * time.Second}, h.spawnTimes)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, h.bossTimes)
	assert.True(t, r.BossSpawned())
}

func TestRunner_PauseDoesNotLeakTime(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index:       1,
		Preparation: 5 * time.Second,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 1, Interval: time.Second, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())

	h.advance(r, 2*time.Second, 100*time.Millisecond)
	require.Equal(t, RunnerPreparing, r.State())
	require.Equal(t, 3*time.Second, r.PrepRemaining())

	// Paused for longer than the whole remaining wait: nothing progresses.
	r.Pause()
	h.advance(r, 10*time.Second, 100*time.Millisecond)
	assert.Equal(t, RunnerPreparing, r.State())
	assert.Equal(t, 3*time.Second, r.PrepRemaining())
	assert.Empty(t, h.spawnTimes)

	r.Resume()
	h.advance(r, 3*time.Second, 100*time.Millisecond)
	require.Len(t, h.spawnTimes, 1)
	// The spawn lands exactly one full remaining-wait after the resume.
	assert.Equal(t, 15*time.Second, h.spawnTimes[0])
}

func TestRunner_PreparationAnnouncements(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index:       1,
		Preparation: 3 * time.Second,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 1, Interval: time.Second, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())
	h.advance(r, 3*time.Second, 100*time.Millisecond)

	// Coarse countdown: one announcement per whole second (3, 2, 1, 0).
	assert.Equal(t, 4, h.prepTicks)
}

func TestRunner_AwaitsClearThenCompletes(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index: 1,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 2, SpawnAllAtOnce: true, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())
	h.advance(r, 2*time.Second, 100*time.Millisecond)

	require.Equal(t, RunnerAwaitingClear, r.State())
	assert.Zero(t, h.completed)

	// Population empties: completion follows within one poll interval.
	h.alive = 0
	h.advance(r, time.Second, 100*time.Millisecond)
	assert.Equal(t, RunnerCompleted, r.State())
	assert.Equal(t, 1, h.completed)

	// Ticking a terminal runner is a no-op.
	h.advance(r, time.Second, 100*time.Millisecond)
	assert.Equal(t, 1, h.completed)
}

func TestRunner_LargeTickFiresEverythingInOrder(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index:       1,
		Preparation: 2 * time.Second,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 3, Interval: time.Second, GroupDelay: time.Second, Pattern: model.PatternRandom},
			{ArchetypeID: "b", Count: 2, Interval: time.Second, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())

	// One giant tick spanning preparation and the whole spawn script.
	h.now = 20 * time.Second
	r.Tick(20 * time.Second)

	assert.Equal(t, []string{"a", "a", "a", "b", "b"}, h.spawnIDs)
	assert.Equal(t, RunnerAwaitingClear, r.State())
}

func TestRunner_Abort(t *testing.T) {
	t.Parallel()

	def := model.WaveDefinition{
		Index: 1,
		Groups: []model.SpawnGroupPlan{
			{ArchetypeID: "a", Count: 5, Interval: time.Second, Pattern: model.PatternRandom},
		},
		Scaling: model.ScalingMultipliers{Health: 1, Damage: 1, SpawnRate: 1, MoveSpeed: 1},
	}

	h := &runnerHarness{}
	r := newRunner(def, baseProfile(), h.hooks())
	h.advance(r, time.Second+500*time.Millisecond, 100*time.Millisecond)
	require.Len(t, h.spawnTimes, 2)

	r.Abort()
	assert.Equal(t, RunnerAborted, r.State())

	h.advance(r, 10*time.Second, 100*time.Millisecond)
	assert.Len(t, h.spawnTimes, 2)
	assert.Zero(t, h.completed)
}
