package wave

import "github.com/nethrin/wavegate/internal/model"

// EnemySpawner is the enemy-lifecycle collaborator. Implementations own
// enemy instances entirely; the orchestrator only tracks handles. The
// collaborator must report each enemy's death exactly once through
// Orchestrator.OnEnemyDied or population counters will stall.
type EnemySpawner interface {
	// Spawn instantiates an enemy with the given scaled profile.
	Spawn(archetype *model.EnemyArchetype, pos model.Position, profile model.ScaledProfile) (model.EnemyHandle, error)

	// Despawn removes an enemy without a death report. Called during
	// stop-wave and skip cleanup; must tolerate already-dead handles.
	Despawn(handle model.EnemyHandle)
}

// PlayerLocator reports the player's current world position. The second
// return is false when no player is available; callers degrade to
// anchor-based behavior instead of failing.
type PlayerLocator interface {
	PlayerPosition() (model.Position, bool)
}

// TerrainQuery snaps a candidate position to a traversable surface within
// radius. Absence of a valid result returns false, never an error.
type TerrainQuery interface {
	Sample(pos model.Position, radius float64) (model.Position, bool)
}

// ArchetypeSource resolves archetype references from spawn groups.
// *data.ArchetypeLibrary satisfies this.
type ArchetypeSource interface {
	Get(id string) (*model.EnemyArchetype, bool)
}
