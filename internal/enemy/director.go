// Package enemy is a reference implementation of the enemy-lifecycle
// collaborator. Production hosts bring their own (with real AI and combat);
// this one exists so the simulator runs end to end and integration-style
// tests can exercise the full spawn/death cycle.
package enemy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nethrin/wavegate/internal/model"
)

// Handles start above the reserved range so they never collide with IDs a
// host assigns to players or scenery.
const handleBase = 100000

// Instance is one live enemy owned by the Director.
type Instance struct {
	Handle    model.EnemyHandle
	Archetype *model.EnemyArchetype
	Position  model.Position
	Profile   model.ScaledProfile
	SpawnedAt time.Time
}

// Director owns enemy instances and guarantees each death is reported
// exactly once through the injected callback. It implements
// wave.EnemySpawner.
type Director struct {
	mu     sync.Mutex
	active map[model.EnemyHandle]*Instance

	handleCounter atomic.Uint64

	// onDeath reports a death to the orchestrator. Injected at wiring time
	// to avoid a dependency cycle.
	onDeath func(model.EnemyHandle) error

	// lifetime for auto-resolve mode; 0 disables it.
	lifetime time.Duration
}

// NewDirector creates a director. onDeath is required; lifetime enables
// auto-resolve mode where enemies die on their own after the given
// duration.
func NewDirector(onDeath func(model.EnemyHandle) error, lifetime time.Duration) *Director {
	d := &Director{
		active:   make(map[model.EnemyHandle]*Instance),
		onDeath:  onDeath,
		lifetime: lifetime,
	}
	d.handleCounter.Store(handleBase)
	return d
}

// Spawn instantiates an enemy with the scaled profile.
func (d *Director) Spawn(archetype *model.EnemyArchetype, pos model.Position, profile model.ScaledProfile) (model.EnemyHandle, error) {
	if archetype == nil {
		return 0, fmt.Errorf("spawn with nil archetype")
	}

	handle := model.EnemyHandle(d.handleCounter.Add(1))
	inst := &Instance{
		Handle:    handle,
		Archetype: archetype,
		Position:  pos,
		Profile:   profile,
		SpawnedAt: time.Now(),
	}

	d.mu.Lock()
	d.active[handle] = inst
	d.mu.Unlock()

	slog.Debug("enemy spawned",
		"handle", handle,
		"archetype", archetype.ID(),
		"health", profile.Health,
		"x", pos.X,
		"y", pos.Y)
	return handle, nil
}

// Despawn removes an enemy without a death report. Unknown handles are
// tolerated: despawn races with death during wave cleanup.
func (d *Director) Despawn(handle model.EnemyHandle) {
	d.mu.Lock()
	_, ok := d.active[handle]
	delete(d.active, handle)
	d.mu.Unlock()

	if ok {
		slog.Debug("enemy despawned", "handle", handle)
	}
}

// Kill removes the enemy and reports its death. The removal under lock is
// what makes the exactly-once guarantee: a second Kill for the same handle
// finds nothing and reports nothing.
func (d *Director) Kill(handle model.EnemyHandle, cause string) bool {
	d.mu.Lock()
	inst, ok := d.active[handle]
	delete(d.active, handle)
	d.mu.Unlock()

	if !ok {
		return false
	}

	slog.Debug("enemy died",
		"handle", handle,
		"archetype", inst.Archetype.ID(),
		"cause", cause)
	if err := d.onDeath(handle); err != nil {
		slog.Warn("death report rejected", "handle", handle, "error", err)
	}
	return true
}

// ActiveCount returns the number of live enemies.
func (d *Director) ActiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.active)
}

// Get returns the live instance for handle.
func (d *Director) Get(handle model.EnemyHandle) (*Instance, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	inst, ok := d.active[handle]
	return inst, ok
}

// RunAutoResolve kills enemies that outlive the configured lifetime,
// standing in for a combat model. Blocks until the context is canceled.
func (d *Director) RunAutoResolve(ctx context.Context) error {
	if d.lifetime <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(d.lifetime / 4)
	defer ticker.Stop()

	slog.Info("auto-resolve started", "lifetime", d.lifetime)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			for _, handle := range d.expired(now) {
				d.Kill(handle, "auto-resolve")
			}
		}
	}
}

func (d *Director) expired(now time.Time) []model.EnemyHandle {
	d.mu.Lock()
	defer d.mu.Unlock()

	var due []model.EnemyHandle
	for handle, inst := range d.active {
		if now.Sub(inst.SpawnedAt) >= d.lifetime {
			due = append(due, handle)
		}
	}
	return due
}
