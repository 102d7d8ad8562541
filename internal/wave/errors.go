package wave

import "errors"

// Sentinel errors for the orchestration control surface.
var (
	ErrAlreadyRunning   = errors.New("game is already running")
	ErrNotRunning       = errors.New("game is not running")
	ErrNoWaves          = errors.New("no waves configured and infinite mode is off")
	ErrInvalidWaveIndex = errors.New("wave index out of range")
	ErrNoActiveWave     = errors.New("no wave is active")
	ErrAlreadyPaused    = errors.New("wave is already paused")
	ErrNotPaused        = errors.New("wave is not paused")
	ErrUnknownArchetype = errors.New("spawn group references unknown archetype")
	ErrUnknownEnemy     = errors.New("enemy handle is not tracked as alive")
	ErrBadSnapshot      = errors.New("snapshot is not valid for this configuration")
)
