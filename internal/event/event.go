// Package event carries the ordered notification stream the orchestrator
// produces for external consumers (UI, economy, persistence). The core has
// no knowledge of its listeners; consumers subscribe through the Bus.
package event

import (
	"time"

	"github.com/nethrin/wavegate/internal/model"
)

// Kind discriminates event payloads.
type Kind int

const (
	KindWaveStarted Kind = iota
	KindPreparationTick
	KindPopulationChanged
	KindEnemySpawned
	KindBossSpawned
	KindBossDefeated
	KindWaveCompleted
	KindWaveSkipped
	KindAllWavesCompleted
	KindGameOver
)

// String returns a stable name for logging.
func (k Kind) String() string {
	switch k {
	case KindWaveStarted:
		return "wave_started"
	case KindPreparationTick:
		return "preparation_tick"
	case KindPopulationChanged:
		return "population_changed"
	case KindEnemySpawned:
		return "enemy_spawned"
	case KindBossSpawned:
		return "boss_spawned"
	case KindBossDefeated:
		return "boss_defeated"
	case KindWaveCompleted:
		return "wave_completed"
	case KindWaveSkipped:
		return "wave_skipped"
	case KindAllWavesCompleted:
		return "all_waves_completed"
	case KindGameOver:
		return "game_over"
	}
	return "unknown"
}

// Event is one notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind      Kind
	WaveIndex int

	Remaining time.Duration // KindPreparationTick

	Alive   int // KindPopulationChanged
	Spawned int // KindPopulationChanged

	Handle      model.EnemyHandle // KindEnemySpawned, KindBossSpawned
	ArchetypeID string            // KindEnemySpawned, KindBossSpawned

	Reward model.Reward // KindWaveCompleted

	Victory bool // KindGameOver
}
