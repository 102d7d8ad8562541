package model

// EnemyHandle identifies a live enemy instance owned by the enemy-lifecycle
// collaborator. The orchestrator only ever holds handles, never the enemies.
type EnemyHandle uint64

// EnemyArchetype represents the base stats of an enemy kind.
// Immutable after construction; shared by every instance spawned from it.
type EnemyArchetype struct {
	id         string
	name       string
	health     float64
	damage     float64
	moveSpeed  float64
	experience int64
	boss       bool
}

// NewEnemyArchetype creates a new enemy archetype.
func NewEnemyArchetype(
	id, name string,
	health, damage, moveSpeed float64,
	experience int64,
	boss bool,
) *EnemyArchetype {
	return &EnemyArchetype{
		id:         id,
		name:       name,
		health:     health,
		damage:     damage,
		moveSpeed:  moveSpeed,
		experience: experience,
		boss:       boss,
	}
}

// ID returns the archetype identifier.
func (a *EnemyArchetype) ID() string {
	return a.id
}

// Name returns the display name.
func (a *EnemyArchetype) Name() string {
	return a.name
}

// Health returns base health.
func (a *EnemyArchetype) Health() float64 {
	return a.health
}

// Damage returns base damage.
func (a *EnemyArchetype) Damage() float64 {
	return a.damage
}

// MoveSpeed returns base movement speed.
func (a *EnemyArchetype) MoveSpeed() float64 {
	return a.moveSpeed
}

// Experience returns the experience value granted on kill.
func (a *EnemyArchetype) Experience() int64 {
	return a.experience
}

// IsBoss reports whether this archetype is a boss kind.
func (a *EnemyArchetype) IsBoss() bool {
	return a.boss
}

// ScaledProfile is the concrete health/damage/speed profile an enemy
// instance is constructed with after difficulty scaling is applied.
type ScaledProfile struct {
	Health    float64
	Damage    float64
	MoveSpeed float64
}
