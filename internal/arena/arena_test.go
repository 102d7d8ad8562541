package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nethrin/wavegate/internal/model"
)

func TestArena_SampleWalkable(t *testing.T) {
	t.Parallel()

	a := New(20, 20, 2, nil)

	pos, ok := a.Sample(model.NewPosition(3, 3, 1.5), 4)
	require.True(t, ok)
	// Snapped to the containing cell center, height preserved.
	assert.InDelta(t, 3.0, pos.X, 1e-9)
	assert.InDelta(t, 3.0, pos.Y, 1e-9)
	assert.InDelta(t, 1.5, pos.Z, 1e-9)
}

func TestArena_SampleSnapsToNeighbor(t *testing.T) {
	t.Parallel()

	a := New(20, 20, 2, nil)
	a.SetWalkable(3, 3, false)
	require.False(t, a.IsWalkable(3, 3))

	pos, ok := a.Sample(model.NewPosition(3, 3, 0), 4)
	require.True(t, ok)
	assert.True(t, a.IsWalkable(pos.X, pos.Y))
	assert.LessOrEqual(t, pos.PlanarDistance(model.NewPosition(3, 3, 0)), 4.0)
}

func TestArena_SampleNoSurface(t *testing.T) {
	t.Parallel()

	a := New(8, 8, 2, nil)
	for x := -3.0; x <= 3; x += 2 {
		for y := -3.0; y <= 3; y += 2 {
			a.SetWalkable(x, y, false)
		}
	}

	_, ok := a.Sample(model.NewPosition(0, 0, 0), 10)
	assert.False(t, ok)
}

func TestArena_SampleOutOfBounds(t *testing.T) {
	t.Parallel()

	a := New(20, 20, 2, nil)

	// Far outside the playfield: the search clamps to the border cells.
	pos, ok := a.Sample(model.NewPosition(500, 500, 0), 4)
	require.True(t, ok)
	assert.True(t, a.IsWalkable(pos.X, pos.Y))
}

func TestArena_Anchors(t *testing.T) {
	t.Parallel()

	anchors := []model.Position{model.NewPosition(-5, 0, 0), model.NewPosition(5, 0, 0)}
	a := New(20, 20, 2, anchors)

	assert.Equal(t, anchors, a.Anchors())
	assert.False(t, a.IsWalkable(100, 0))
}
