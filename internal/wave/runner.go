package wave

import (
	"time"

	"github.com/nethrin/wavegate/internal/model"
	"github.com/nethrin/wavegate/internal/scaling"
)

// RunnerState is the phase of a single wave's lifecycle.
type RunnerState int

const (
	RunnerPreparing RunnerState = iota
	RunnerSpawning
	RunnerAwaitingClear
	RunnerCompleted
	RunnerAborted
)

// String returns a stable name for logging.
func (s RunnerState) String() string {
	switch s {
	case RunnerPreparing:
		return "preparing"
	case RunnerSpawning:
		return "spawning"
	case RunnerAwaitingClear:
		return "awaiting_clear"
	case RunnerCompleted:
		return "completed"
	case RunnerAborted:
		return "aborted"
	}
	return "unknown"
}

// Polling granularity for the coarse waits.
const (
	prepAnnounceEvery = time.Second
	clearPollEvery    = 500 * time.Millisecond
)

// spawnStage tracks where the spawning script is within the current group.
type spawnStage int

const (
	stageStartDelay spawnStage = iota // waiting out the group's start delay
	stageRun                          // spawning one enemy per interval
	stageGap                          // waiting out the trailing group delay
	stageDone                         // all groups exhausted
)

// runnerHooks are the orchestrator-provided callbacks the runner drives.
// Injected to keep the runner free of population bookkeeping and event
// publishing.
type runnerHooks struct {
	spawnGroupEnemy func(plan model.SpawnGroupPlan)
	spawnBosses     func(count int)
	aliveCount      func() int
	prepTick        func(remaining time.Duration)
	completed       func()
}

// Runner sequences one wave: Preparing → Spawning → AwaitingClear →
// Completed, with Aborted as the externally forced terminal state.
//
// All waits are explicit resumable state re-evaluated on each Tick, so the
// runner needs no host event loop and pausing simply stops consuming time.
type Runner struct {
	def     model.WaveDefinition
	profile scaling.Profile
	hooks   runnerHooks

	state  RunnerState
	paused bool

	// Preparing
	prepRemaining time.Duration
	lastAnnounced int // whole seconds, -1 forces the first announcement

	// Spawning script
	stage        spawnStage
	groupIdx     int
	groupSpawned int
	wait         time.Duration // time left until the next script action
	spawnElapsed time.Duration // unpaused time since spawning started; anchors the boss
	bossSpawned  bool

	// AwaitingClear
	pollRemaining time.Duration

	activeElapsed time.Duration // unpaused time since the wave started
}

// newRunner builds a runner for def with the effective difficulty profile.
func newRunner(def model.WaveDefinition, profile scaling.Profile, hooks runnerHooks) *Runner {
	r := &Runner{
		def:           def,
		profile:       profile,
		hooks:         hooks,
		lastAnnounced: -1,
	}
	if def.Preparation > 0 {
		r.state = RunnerPreparing
		r.prepRemaining = def.Preparation
	} else {
		r.state = RunnerSpawning
		r.initSpawning()
	}
	return r
}

func (r *Runner) initSpawning() {
	r.stage = stageStartDelay
	r.groupIdx = 0
	r.groupSpawned = 0
	r.wait = r.def.Groups[0].StartDelay
	r.spawnElapsed = 0
}

// State returns the current phase.
func (r *Runner) State() RunnerState {
	return r.state
}

// Paused reports whether the runner is paused.
func (r *Runner) Paused() bool {
	return r.paused
}

// ActiveElapsed returns the unpaused time since the wave started.
func (r *Runner) ActiveElapsed() time.Duration {
	return r.activeElapsed
}

// PrepRemaining returns the preparation countdown still to run.
func (r *Runner) PrepRemaining() time.Duration {
	return r.prepRemaining
}

// BossSpawned reports whether the boss batch has been emitted.
func (r *Runner) BossSpawned() bool {
	return r.bossSpawned
}

// Pause suspends all time consumption from the next Tick on. Events due
// within the tick that carried the pause have already fired.
func (r *Runner) Pause() {
	r.paused = true
}

// Resume lifts a pause without consuming any of the suspended waits.
func (r *Runner) Resume() {
	r.paused = false
}

// Abort force-transitions to the non-firing terminal state. The caller is
// responsible for despawning the wave's population.
func (r *Runner) Abort() {
	r.state = RunnerAborted
}

func (r *Runner) terminal() bool {
	return r.state == RunnerCompleted || r.state == RunnerAborted
}

// Tick advances the wave by dt of host time. A paused or terminal runner
// consumes nothing. Large dt values are handled exactly: every spawn and
// transition due within the window fires, in order.
func (r *Runner) Tick(dt time.Duration) {
	if r.paused || r.terminal() {
		return
	}
	for {
		prev := r.state
		switch r.state {
		case RunnerPreparing:
			dt = r.tickPreparing(dt)
		case RunnerSpawning:
			dt = r.tickSpawning(dt)
		case RunnerAwaitingClear:
			dt = r.tickAwaitingClear(dt)
		default:
			return
		}
		// A phase transition hands any leftover time (possibly zero) to the
		// next phase so actions due at the boundary instant still fire.
		if r.state == prev {
			return
		}
	}
}

func (r *Runner) tickPreparing(dt time.Duration) time.Duration {
	step := dt
	if r.prepRemaining < step {
		step = r.prepRemaining
	}
	r.prepRemaining -= step
	r.activeElapsed += step
	r.announcePrep()

	if r.prepRemaining > 0 {
		return 0
	}
	r.state = RunnerSpawning
	r.initSpawning()
	return dt - step
}

// announcePrep emits a coarse once-per-second countdown notification.
func (r *Runner) announcePrep() {
	whole := int((r.prepRemaining + prepAnnounceEvery - 1) / prepAnnounceEvery)
	if whole == r.lastAnnounced {
		return
	}
	r.lastAnnounced = whole
	if r.hooks.prepTick != nil {
		r.hooks.prepTick(r.prepRemaining)
	}
}

func (r *Runner) tickSpawning(dt time.Duration) time.Duration {
	for {
		// Fire everything due right now: script actions first (declaration
		// order), then the time-anchored boss batch.
		if r.stage != stageDone && r.wait <= 0 {
			r.advanceScript()
			continue
		}
		if r.bossPending() && r.bossRemaining() <= 0 {
			r.bossSpawned = true
			r.hooks.spawnBosses(r.def.BossCount)
			continue
		}
		if r.stage == stageDone && !r.bossPending() {
			r.state = RunnerAwaitingClear
			r.pollRemaining = 0
			return dt
		}
		if dt <= 0 {
			return 0
		}

		// Advance to the nearest deadline.
		step := dt
		if r.stage != stageDone && r.wait < step {
			step = r.wait
		}
		if r.bossPending() {
			if remaining := r.bossRemaining(); remaining < step {
				step = remaining
			}
		}
		if r.stage != stageDone {
			r.wait -= step
		}
		r.spawnElapsed += step
		r.activeElapsed += step
		dt -= step
	}
}

func (r *Runner) bossPending() bool {
	return r.def.HasBoss() && !r.bossSpawned
}

func (r *Runner) bossRemaining() time.Duration {
	return r.def.BossSpawnDelay - r.spawnElapsed
}

// advanceScript executes the script action whose wait just elapsed.
func (r *Runner) advanceScript() {
	group := r.def.Groups[r.groupIdx]

	switch r.stage {
	case stageStartDelay:
		if group.SpawnAllAtOnce {
			for range group.Count {
				r.hooks.spawnGroupEnemy(group)
			}
			r.endGroup(group)
			return
		}
		r.hooks.spawnGroupEnemy(group)
		r.groupSpawned = 1
		if r.groupSpawned >= group.Count {
			r.endGroup(group)
			return
		}
		r.stage = stageRun
		r.wait = scaling.EffectiveInterval(group.Interval, r.profile.SpawnRate)

	case stageRun:
		r.hooks.spawnGroupEnemy(group)
		r.groupSpawned++
		if r.groupSpawned >= group.Count {
			r.endGroup(group)
			return
		}
		r.wait = scaling.EffectiveInterval(group.Interval, r.profile.SpawnRate)

	case stageGap:
		r.groupIdx++
		r.groupSpawned = 0
		if r.groupIdx >= len(r.def.Groups) {
			r.stage = stageDone
			return
		}
		r.stage = stageStartDelay
		r.wait = r.def.Groups[r.groupIdx].StartDelay
	}
}

func (r *Runner) endGroup(group model.SpawnGroupPlan) {
	r.stage = stageGap
	r.wait = group.GroupDelay
}

func (r *Runner) tickAwaitingClear(dt time.Duration) time.Duration {
	for {
		if r.pollRemaining <= 0 {
			if r.hooks.aliveCount() == 0 {
				r.complete()
				return dt
			}
			r.pollRemaining = clearPollEvery
		}
		if dt <= 0 {
			return 0
		}
		step := dt
		if r.pollRemaining < step {
			step = r.pollRemaining
		}
		r.pollRemaining -= step
		r.activeElapsed += step
		dt -= step
	}
}

// complete transitions to Completed and fires the completion hook exactly
// once. Also used by the orchestrator's max-duration enforcement.
func (r *Runner) complete() {
	if r.terminal() {
		return
	}
	r.state = RunnerCompleted
	if r.hooks.completed != nil {
		r.hooks.completed()
	}
}
