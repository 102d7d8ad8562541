// Package wave contains the encounter orchestration engine: the per-wave
// runner state machine, spawn position resolution, and the root
// orchestrator that sequences waves, tracks population, and drives rewards
// and game-state transitions.
package wave

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nethrin/wavegate/internal/event"
	"github.com/nethrin/wavegate/internal/model"
	"github.com/nethrin/wavegate/internal/scaling"
)

// Phase is the orchestrator's high-level game state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseSpawning
	PhaseAwaitingClear
	PhaseResting
	PhaseAllWavesComplete
	PhaseGameOver
)

// String returns a stable name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreparing:
		return "preparing"
	case PhaseSpawning:
		return "spawning"
	case PhaseAwaitingClear:
		return "awaiting_clear"
	case PhaseResting:
		return "resting"
	case PhaseAllWavesComplete:
		return "all_waves_complete"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// Options configure an Orchestrator.
type Options struct {
	InfiniteMode     bool
	GlobalMultiplier float64 // clamped by config; 0 means 1.0
	Scaling          scaling.Config

	// Rest window between waves: RestDuration + RestPerWave*(index-1),
	// capped at RestMax when RestMax > 0.
	RestDuration time.Duration
	RestPerWave  time.Duration
	RestMax      time.Duration
}

// Stats are the cumulative per-playthrough statistics.
type Stats struct {
	TotalKilled  int
	WavesCleared int
	Earned       model.Reward
	PlayTime     time.Duration
}

// Snapshot is the persisted-state shape exchanged with an external save
// system at wave boundaries. The orchestrator produces and consumes it;
// storing it anywhere is the host's business.
type Snapshot struct {
	CurrentWaveIndex     int
	TotalKilled          int
	TotalPlaySeconds     int64
	InfiniteMode         bool
	DifficultyMultiplier float64
	WavesCleared         int
	Earned               model.Reward
}

// spawnedEnemy is what the orchestrator remembers about a live enemy: just
// enough to decrement counters and detect boss defeat. The enemy itself is
// owned by the lifecycle collaborator.
type spawnedEnemy struct {
	archetypeID string
	boss        bool
}

// Orchestrator owns the wave list, the active runner, population counters,
// and the public control surface. It advances on discrete Tick calls; all
// mutation happens under one mutex so death callbacks arriving from another
// goroutine are serialized with the tick path.
//
// Event handlers subscribed to the bus run after the internal lock is
// released, in publish order.
type Orchestrator struct {
	mu sync.Mutex

	waves      []model.WaveDefinition
	archetypes ArchetypeSource
	spawner    EnemySpawner
	resolver   *PositionResolver
	bus        *event.Bus
	opts       Options

	phase     Phase
	waveIndex int // 0 until the first wave starts
	runner    *Runner

	// Effective values for the wave in flight.
	def     model.WaveDefinition
	profile scaling.Profile
	reward  model.Reward

	// Population counters for the wave in flight.
	spawned   int
	killed    int
	alive     map[model.EnemyHandle]spawnedEnemy
	bossAlive int

	stats         Stats
	restRemaining time.Duration
	lastTick      time.Time

	pending []event.Event // events accumulated under the lock
}

// New creates an orchestrator. All collaborators are injected here; the
// orchestrator never discovers them at runtime.
func New(
	waves []model.WaveDefinition,
	archetypes ArchetypeSource,
	spawner EnemySpawner,
	resolver *PositionResolver,
	bus *event.Bus,
	opts Options,
) *Orchestrator {
	if opts.GlobalMultiplier <= 0 {
		opts.GlobalMultiplier = 1.0
	}
	if bus == nil {
		bus = event.NewBus()
	}
	return &Orchestrator{
		waves:      waves,
		archetypes: archetypes,
		spawner:    spawner,
		resolver:   resolver,
		bus:        bus,
		opts:       opts,
		phase:      PhaseIdle,
		alive:      make(map[model.EnemyHandle]spawnedEnemy),
	}
}

// Bus returns the event bus consumers subscribe to.
func (o *Orchestrator) Bus() *event.Bus {
	return o.bus
}

// Phase returns the current high-level phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// WaveIndex returns the index of the wave in flight (0 before the first).
func (o *Orchestrator) WaveIndex() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.waveIndex
}

// AliveCount returns the number of enemies currently tracked as alive.
func (o *Orchestrator) AliveCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.alive)
}

// SpawnedCount returns the number of enemies spawned this wave.
func (o *Orchestrator) SpawnedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.spawned
}

// KilledCount returns the number of enemies killed this wave.
func (o *Orchestrator) KilledCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.killed
}

// Stats returns the cumulative playthrough statistics.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// Paused reports whether the active wave is paused.
func (o *Orchestrator) Paused() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runner != nil && o.runner.Paused()
}

// runningLocked reports whether a playthrough is in progress.
func (o *Orchestrator) runningLocked() bool {
	switch o.phase {
	case PhasePreparing, PhaseSpawning, PhaseAwaitingClear, PhaseResting:
		return true
	}
	return false
}

// StartGame begins a new playthrough. Valid only when no game is running;
// a second call while running is reported, never silently swallowed, and
// does not reset statistics.
func (o *Orchestrator) StartGame() error {
	o.mu.Lock()

	if o.runningLocked() {
		o.mu.Unlock()
		slog.Warn("StartGame called while a game is already running", "phase", o.phase)
		return ErrAlreadyRunning
	}
	if len(o.waves) == 0 {
		o.mu.Unlock()
		return ErrNoWaves
	}
	if err := o.validateWavesLocked(); err != nil {
		o.mu.Unlock()
		return err
	}

	o.stats = Stats{}
	o.waveIndex = 0
	o.resetWaveCountersLocked()
	slog.Info("game started",
		"waves", len(o.waves),
		"infinite", o.opts.InfiniteMode,
		"difficulty", o.opts.GlobalMultiplier)
	o.advanceLocked()

	evts := o.drainLocked()
	o.mu.Unlock()
	o.publish(evts)
	return nil
}

// validateWavesLocked checks the structural invariants of every wave and
// that every group and boss reference resolves. Ill-formed definitions are
// rejected here, before any wave runs, so a bad list handed straight to New
// surfaces as an error instead of a mid-tick failure.
func (o *Orchestrator) validateWavesLocked() error {
	for _, w := range o.waves {
		if err := w.Validate(); err != nil {
			return err
		}
		for _, g := range w.Groups {
			if _, ok := o.archetypes.Get(g.ArchetypeID); !ok {
				return fmt.Errorf("wave %d: %s: %w", w.Index, g.ArchetypeID, ErrUnknownArchetype)
			}
		}
		if w.HasBoss() {
			if _, ok := o.archetypes.Get(w.BossArchetypeID); !ok {
				return fmt.Errorf("wave %d boss: %s: %w", w.Index, w.BossArchetypeID, ErrUnknownArchetype)
			}
		}
	}
	return nil
}

// advanceLocked moves to the next wave index, either building a runner for
// it or ending the game with a victory when the authored list is exhausted
// and infinite mode is off.
func (o *Orchestrator) advanceLocked() {
	o.waveIndex++

	if !o.opts.InfiniteMode && o.waveIndex > len(o.waves) {
		o.phase = PhaseAllWavesComplete
		o.runner = nil
		slog.Info("all waves completed", "cleared", o.stats.WavesCleared)
		o.emit(event.Event{Kind: event.KindAllWavesCompleted, WaveIndex: o.waveIndex - 1})
		o.emit(event.Event{Kind: event.KindGameOver, Victory: true})
		return
	}

	o.def = o.definitionForLocked(o.waveIndex)
	o.profile = scaling.ForWave(o.waves, o.waveIndex, o.opts.GlobalMultiplier, o.opts.Scaling)
	o.reward = scaling.RewardForWave(o.waves, o.waveIndex, o.opts.Scaling)
	o.resetWaveCountersLocked()

	o.runner = newRunner(o.def, o.profile, runnerHooks{
		spawnGroupEnemy: o.spawnGroupEnemyLocked,
		spawnBosses:     o.spawnBossesLocked,
		aliveCount:      func() int { return len(o.alive) },
		prepTick: func(remaining time.Duration) {
			o.emit(event.Event{
				Kind:      event.KindPreparationTick,
				WaveIndex: o.waveIndex,
				Remaining: remaining,
			})
		},
		completed: o.completeWaveLocked,
	})
	o.syncPhaseLocked()

	slog.Info("wave starting",
		"wave", o.waveIndex,
		"enemies", o.def.TotalCount(),
		"boss", o.def.HasBoss(),
		"healthMultiplier", o.profile.Health,
		"damageMultiplier", o.profile.Damage)
	o.emit(event.Event{Kind: event.KindWaveStarted, WaveIndex: o.waveIndex})
}

// definitionForLocked returns the authored definition, or a virtual one
// extrapolated from the last authored wave when past the list in infinite
// mode. The virtual wave reuses the last wave's groups and boss; its
// effective multipliers and reward come from the scaling package.
func (o *Orchestrator) definitionForLocked(index int) model.WaveDefinition {
	if index <= len(o.waves) {
		return o.waves[index-1]
	}
	def := o.waves[len(o.waves)-1]
	def.Index = index
	return def
}

func (o *Orchestrator) resetWaveCountersLocked() {
	o.spawned = 0
	o.killed = 0
	o.bossAlive = 0
	o.alive = make(map[model.EnemyHandle]spawnedEnemy)
}

// Tick advances the orchestrator by the wall-clock delta since the last
// Tick. The first call establishes the baseline and consumes no time.
func (o *Orchestrator) Tick(now time.Time) {
	o.mu.Lock()

	var dt time.Duration
	if !o.lastTick.IsZero() {
		dt = now.Sub(o.lastTick)
	}
	o.lastTick = now
	if dt < 0 {
		dt = 0
	}

	switch o.phase {
	case PhaseResting:
		o.stats.PlayTime += dt
		o.restRemaining -= dt
		if o.restRemaining <= 0 {
			o.advanceLocked()
		}

	case PhasePreparing, PhaseSpawning, PhaseAwaitingClear:
		if o.runner != nil {
			if !o.runner.Paused() {
				o.stats.PlayTime += dt
			}
			o.runner.Tick(dt)
			o.enforceDeadlineLocked()
			o.syncPhaseLocked()
		}
	}

	evts := o.drainLocked()
	o.mu.Unlock()
	o.publish(evts)
}

// syncPhaseLocked mirrors the runner's non-terminal state onto the
// orchestrator phase. Terminal runner states are handled by their own
// transitions (completion hook, stop paths).
func (o *Orchestrator) syncPhaseLocked() {
	if o.runner == nil {
		return
	}
	switch o.runner.State() {
	case RunnerPreparing:
		o.phase = PhasePreparing
	case RunnerSpawning:
		o.phase = PhaseSpawning
	case RunnerAwaitingClear:
		o.phase = PhaseAwaitingClear
	}
}

// enforceDeadlineLocked force-completes a wave stuck in AwaitingClear past
// its max duration. Stragglers are despawned so the wave ends clean; the
// reward still pays out.
func (o *Orchestrator) enforceDeadlineLocked() {
	if o.runner == nil || o.runner.State() != RunnerAwaitingClear {
		return
	}
	if o.def.MaxDuration <= 0 || o.runner.ActiveElapsed() < o.def.MaxDuration {
		return
	}
	slog.Warn("wave exceeded max duration, force completing",
		"wave", o.waveIndex,
		"alive", len(o.alive),
		"maxDuration", o.def.MaxDuration)
	o.despawnAllLocked()
	o.runner.complete()
}

// spawnGroupEnemyLocked handles one ordinary spawn request from the runner.
// Spawn failures are degraded conditions: logged, never fatal to the wave.
func (o *Orchestrator) spawnGroupEnemyLocked(plan model.SpawnGroupPlan) {
	archetype, ok := o.archetypes.Get(plan.ArchetypeID)
	if !ok {
		slog.Error("spawn group references unknown archetype", "archetype", plan.ArchetypeID)
		return
	}
	o.spawnOneLocked(archetype, plan.Pattern, false)
}

// spawnBossesLocked handles the time-anchored boss batch.
func (o *Orchestrator) spawnBossesLocked(count int) {
	archetype, ok := o.archetypes.Get(o.def.BossArchetypeID)
	if !ok {
		slog.Error("boss references unknown archetype", "archetype", o.def.BossArchetypeID)
		return
	}
	for range count {
		o.spawnOneLocked(archetype, model.PatternRandom, true)
	}
}

func (o *Orchestrator) spawnOneLocked(archetype *model.EnemyArchetype, pattern model.SpawnPattern, boss bool) {
	pos := o.resolver.Resolve(pattern, o.spawned)
	profile := scaling.Apply(archetype, o.profile)

	handle, err := o.spawner.Spawn(archetype, pos, profile)
	if err != nil {
		slog.Error("enemy spawn failed",
			"archetype", archetype.ID(),
			"wave", o.waveIndex,
			"error", err)
		return
	}

	o.alive[handle] = spawnedEnemy{archetypeID: archetype.ID(), boss: boss}
	o.spawned++
	if boss {
		o.bossAlive++
	}

	kind := event.KindEnemySpawned
	if boss {
		kind = event.KindBossSpawned
	}
	o.emit(event.Event{
		Kind:        kind,
		WaveIndex:   o.waveIndex,
		Handle:      handle,
		ArchetypeID: archetype.ID(),
	})
	o.emitPopulationLocked()
}

// completeWaveLocked fires when the runner reaches Completed: pays the
// wave's reward, folds counters into cumulative statistics, and decides the
// next phase.
func (o *Orchestrator) completeWaveLocked() {
	o.stats.WavesCleared++
	o.stats.Earned = o.stats.Earned.Add(o.reward)

	slog.Info("wave completed",
		"wave", o.waveIndex,
		"killed", o.killed,
		"currency", o.reward.Currency,
		"experience", o.reward.Experience)
	o.emit(event.Event{
		Kind:      event.KindWaveCompleted,
		WaveIndex: o.waveIndex,
		Reward:    o.reward,
	})

	o.runner = nil

	if !o.opts.InfiniteMode && o.waveIndex >= len(o.waves) {
		o.phase = PhaseAllWavesComplete
		slog.Info("all waves completed", "cleared", o.stats.WavesCleared)
		o.emit(event.Event{Kind: event.KindAllWavesCompleted, WaveIndex: o.waveIndex})
		o.emit(event.Event{Kind: event.KindGameOver, Victory: true})
		return
	}

	o.phase = PhaseResting
	o.restRemaining = o.restForLocked(o.waveIndex + 1)
}

// restForLocked computes the rest window before wave index.
func (o *Orchestrator) restForLocked(index int) time.Duration {
	rest := o.opts.RestDuration + time.Duration(index-1)*o.opts.RestPerWave
	if o.opts.RestMax > 0 && rest > o.opts.RestMax {
		rest = o.opts.RestMax
	}
	if rest < 0 {
		rest = 0
	}
	return rest
}

// OnEnemyDied is the death report from the enemy-lifecycle collaborator.
// Idempotent per handle: a second report for the same enemy is a no-op,
// logged and reported as ErrUnknownEnemy, never double-counted.
func (o *Orchestrator) OnEnemyDied(handle model.EnemyHandle) error {
	o.mu.Lock()

	info, ok := o.alive[handle]
	if !ok {
		o.mu.Unlock()
		slog.Warn("death report for untracked enemy ignored", "handle", handle)
		return ErrUnknownEnemy
	}

	delete(o.alive, handle)
	o.killed++
	o.stats.TotalKilled++
	o.emitPopulationLocked()

	if info.boss {
		o.bossAlive--
		if o.bossAlive == 0 {
			o.emit(event.Event{Kind: event.KindBossDefeated, WaveIndex: o.waveIndex})
		}
	}

	evts := o.drainLocked()
	o.mu.Unlock()
	o.publish(evts)
	return nil
}

// SkipToWave stops the wave in flight (with full despawn) and rewires the
// sequence so wave index lands next. Administrative operation; the aborted
// wave pays no reward.
func (o *Orchestrator) SkipToWave(index int) error {
	o.mu.Lock()

	if index < 1 {
		o.mu.Unlock()
		return ErrInvalidWaveIndex
	}
	if !o.runningLocked() {
		o.mu.Unlock()
		return ErrNotRunning
	}

	slog.Info("skipping to wave", "from", o.waveIndex, "to", index)
	o.stopCurrentWaveLocked()
	o.waveIndex = index - 1
	o.emit(event.Event{Kind: event.KindWaveSkipped, WaveIndex: index})
	o.advanceLocked()

	evts := o.drainLocked()
	o.mu.Unlock()
	o.publish(evts)
	return nil
}

// StopGame aborts the playthrough and returns to Idle. Despawning the
// tracked population is a guaranteed side effect, not best-effort.
func (o *Orchestrator) StopGame() error {
	o.mu.Lock()

	if !o.runningLocked() {
		o.mu.Unlock()
		return ErrNotRunning
	}

	o.stopCurrentWaveLocked()
	o.phase = PhaseIdle
	o.waveIndex = 0
	slog.Info("game stopped")

	evts := o.drainLocked()
	o.mu.Unlock()
	o.publish(evts)
	return nil
}

// OnPlayerDied is the external defeat signal, reachable from any
// in-progress state.
func (o *Orchestrator) OnPlayerDied() error {
	o.mu.Lock()

	if !o.runningLocked() {
		o.mu.Unlock()
		return ErrNotRunning
	}

	o.stopCurrentWaveLocked()
	o.phase = PhaseGameOver
	slog.Info("game over", "wave", o.waveIndex, "killed", o.stats.TotalKilled)
	o.emit(event.Event{Kind: event.KindGameOver, Victory: false})

	evts := o.drainLocked()
	o.mu.Unlock()
	o.publish(evts)
	return nil
}

// stopCurrentWaveLocked aborts the runner, despawns everything tracked as
// alive, and zeroes the per-wave counters.
func (o *Orchestrator) stopCurrentWaveLocked() {
	if o.runner != nil {
		o.runner.Abort()
		o.runner = nil
	}
	o.despawnAllLocked()
	o.spawned = 0
	o.killed = 0
	o.bossAlive = 0
}

// despawnAllLocked issues despawn requests for every tracked enemy.
func (o *Orchestrator) despawnAllLocked() {
	for handle := range o.alive {
		o.spawner.Despawn(handle)
	}
	if len(o.alive) > 0 {
		o.alive = make(map[model.EnemyHandle]spawnedEnemy)
		o.emitPopulationLocked()
	}
}

// Pause suspends the active wave. Valid only while a wave is in flight.
func (o *Orchestrator) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.runner == nil {
		return ErrNoActiveWave
	}
	if o.runner.Paused() {
		return ErrAlreadyPaused
	}
	o.runner.Pause()
	slog.Info("wave paused", "wave", o.waveIndex)
	return nil
}

// Resume lifts a pause without consuming any suspended wait time.
func (o *Orchestrator) Resume() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.runner == nil {
		return ErrNoActiveWave
	}
	if !o.runner.Paused() {
		return ErrNotPaused
	}
	o.runner.Resume()
	slog.Info("wave resumed", "wave", o.waveIndex)
	return nil
}

// Snapshot produces the persisted-state shape for an external save system.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		CurrentWaveIndex:     o.waveIndex,
		TotalKilled:          o.stats.TotalKilled,
		TotalPlaySeconds:     int64(o.stats.PlayTime.Seconds()),
		InfiniteMode:         o.opts.InfiniteMode,
		DifficultyMultiplier: o.opts.GlobalMultiplier,
		WavesCleared:         o.stats.WavesCleared,
		Earned:               o.stats.Earned,
	}
}

// Restore primes an idle orchestrator from a snapshot taken at a wave
// boundary. The playthrough continues into the wave after the snapshot's
// index on the next ticks, after a regular rest window.
func (o *Orchestrator) Restore(s Snapshot) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.runningLocked() {
		return ErrAlreadyRunning
	}
	if len(o.waves) == 0 {
		return ErrNoWaves
	}
	if err := o.validateWavesLocked(); err != nil {
		return err
	}
	if s.CurrentWaveIndex < 0 {
		return ErrBadSnapshot
	}
	if !o.opts.InfiniteMode && s.CurrentWaveIndex > len(o.waves) {
		return ErrBadSnapshot
	}
	if s.InfiniteMode != o.opts.InfiniteMode {
		return ErrBadSnapshot
	}

	o.stats = Stats{
		TotalKilled:  s.TotalKilled,
		WavesCleared: s.WavesCleared,
		Earned:       s.Earned,
		PlayTime:     time.Duration(s.TotalPlaySeconds) * time.Second,
	}
	o.waveIndex = s.CurrentWaveIndex
	o.resetWaveCountersLocked()
	o.phase = PhaseResting
	o.restRemaining = o.restForLocked(o.waveIndex + 1)
	o.lastTick = time.Time{}
	slog.Info("state restored", "wave", o.waveIndex, "killed", s.TotalKilled)
	return nil
}

func (o *Orchestrator) emitPopulationLocked() {
	o.emit(event.Event{
		Kind:      event.KindPopulationChanged,
		WaveIndex: o.waveIndex,
		Alive:     len(o.alive),
		Spawned:   o.spawned,
	})
}

func (o *Orchestrator) emit(e event.Event) {
	o.pending = append(o.pending, e)
}

func (o *Orchestrator) drainLocked() []event.Event {
	evts := o.pending
	o.pending = nil
	return evts
}

func (o *Orchestrator) publish(evts []event.Event) {
	for _, e := range evts {
		o.bus.Publish(e)
	}
}
