package model

import "math"

// Position represents a point in the game world.
// Value type, passed by value (immutable).
type Position struct {
	X float64
	Y float64
	Z float64
}

// NewPosition creates a Position with the given coordinates.
func NewPosition(x, y, z float64) Position {
	return Position{X: x, Y: y, Z: z}
}

// Offset returns a new Position shifted on the XY plane (immutable pattern).
func (p Position) Offset(dx, dy float64) Position {
	p.X += dx
	p.Y += dy
	return p
}

// WithZ returns a new Position with an updated height (immutable pattern).
func (p Position) WithZ(z float64) Position {
	p.Z = z
	return p
}

// DistanceSquared returns the squared distance to another point (no sqrt for performance).
func (p Position) DistanceSquared(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the distance to another point.
func (p Position) Distance(other Position) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

// PlanarDistance returns the distance to another point ignoring height.
func (p Position) PlanarDistance(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}
