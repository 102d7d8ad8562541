// Package arena is the spawn-side world model: a rectangular playfield with
// a cell-based walkability grid and the configured spawn anchors. It backs
// the traversable-surface query consumed by the position resolver.
package arena

import (
	"github.com/nethrin/wavegate/internal/model"
)

// Arena holds the walkability grid and spawn anchors. The grid is built
// once at wiring time and read-only afterwards apart from SetWalkable,
// which hosts use while assembling the playfield.
type Arena struct {
	width    float64
	height   float64
	cellSize float64
	cols     int
	rows     int
	walkable []bool

	anchors []model.Position
}

// New creates an arena centered on the world origin. Every cell starts
// walkable. cellSize must be > 0; width and height are rounded up to whole
// cells.
func New(width, height, cellSize float64, anchors []model.Position) *Arena {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(width/cellSize + 0.5)
	rows := int(height/cellSize + 0.5)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	a := &Arena{
		width:    float64(cols) * cellSize,
		height:   float64(rows) * cellSize,
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		walkable: make([]bool, cols*rows),
		anchors:  anchors,
	}
	for i := range a.walkable {
		a.walkable[i] = true
	}
	return a
}

// Anchors returns the configured spawn anchors.
func (a *Arena) Anchors() []model.Position {
	return a.anchors
}

// cellIndex converts world coordinates to grid indices.
// The arena spans [-width/2, width/2) x [-height/2, height/2).
func (a *Arena) cellIndex(x, y float64) (col, row int, ok bool) {
	col = int((x + a.width/2) / a.cellSize)
	row = int((y + a.height/2) / a.cellSize)
	ok = col >= 0 && col < a.cols && row >= 0 && row < a.rows
	return col, row, ok
}

// cellCenter converts grid indices back to the world-space cell center.
func (a *Arena) cellCenter(col, row int) (x, y float64) {
	x = float64(col)*a.cellSize - a.width/2 + a.cellSize/2
	y = float64(row)*a.cellSize - a.height/2 + a.cellSize/2
	return x, y
}

// SetWalkable marks the cell containing (x, y). Out-of-bounds coordinates
// are ignored.
func (a *Arena) SetWalkable(x, y float64, walkable bool) {
	col, row, ok := a.cellIndex(x, y)
	if !ok {
		return
	}
	a.walkable[row*a.cols+col] = walkable
}

// IsWalkable reports whether the cell containing (x, y) is walkable.
// Out-of-bounds positions are not walkable.
func (a *Arena) IsWalkable(x, y float64) bool {
	col, row, ok := a.cellIndex(x, y)
	if !ok {
		return false
	}
	return a.walkable[row*a.cols+col]
}

// Sample snaps pos to the center of the nearest walkable cell within
// radius, searching outward ring by ring. Returns false when no walkable
// cell exists in range; it never fails harder than that.
func (a *Arena) Sample(pos model.Position, radius float64) (model.Position, bool) {
	col, row, ok := a.cellIndex(pos.X, pos.Y)
	if !ok {
		// Clamp the search start to the nearest border cell.
		col = clamp(col, 0, a.cols-1)
		row = clamp(row, 0, a.rows-1)
	}

	maxRing := int(radius/a.cellSize) + 1
	for ring := 0; ring <= maxRing; ring++ {
		if c, r, found := a.scanRing(col, row, ring); found {
			x, y := a.cellCenter(c, r)
			candidate := model.NewPosition(x, y, pos.Z)
			if ring == 0 || candidate.PlanarDistance(pos) <= radius+a.cellSize {
				return candidate, true
			}
			return model.Position{}, false
		}
	}
	return model.Position{}, false
}

// scanRing scans the square ring at Chebyshev distance ring from (col, row)
// and returns the first walkable cell.
func (a *Arena) scanRing(col, row, ring int) (int, int, bool) {
	if ring == 0 {
		if a.walkableAt(col, row) {
			return col, row, true
		}
		return 0, 0, false
	}
	for dc := -ring; dc <= ring; dc++ {
		for dr := -ring; dr <= ring; dr++ {
			if max(abs(dc), abs(dr)) != ring {
				continue
			}
			c, r := col+dc, row+dr
			if a.walkableAt(c, r) {
				return c, r, true
			}
		}
	}
	return 0, 0, false
}

func (a *Arena) walkableAt(col, row int) bool {
	if col < 0 || col >= a.cols || row < 0 || row >= a.rows {
		return false
	}
	return a.walkable[row*a.cols+col]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
