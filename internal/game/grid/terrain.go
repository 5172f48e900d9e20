package grid

import (
	"errors"
	"fmt"
)

// ErrNotRectangular is returned when terrain rows differ in length.
var ErrNotRectangular = errors.New("grid: terrain is not rectangular")

// Cell is the static content of one terrain square.
type Cell uint8

const (
	Wall Cell = iota
	Open
)

// String returns "open" or "wall".
func (c Cell) String() string {
	if c == Open {
		return "open"
	}
	return "wall"
}

// Terrain is an immutable rectangular table of cells.
// Positions outside the table are walls.
type Terrain struct {
	rows  int
	cols  int
	cells []Cell
}

// NewTerrain builds a Terrain from rows of cells. The input is copied.
//
// Precondition: every row has the same length.
// Postcondition: Returns a Terrain or an error wrapping ErrNotRectangular.
func NewTerrain(rows [][]Cell) (*Terrain, error) {
	t := &Terrain{rows: len(rows)}
	if len(rows) > 0 {
		t.cols = len(rows[0])
	}
	t.cells = make([]Cell, 0, t.rows*t.cols)
	for i, row := range rows {
		if len(row) != t.cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), t.cols, ErrNotRectangular)
		}
		t.cells = append(t.cells, row...)
	}
	return t, nil
}

// Rows returns the number of rows.
func (t *Terrain) Rows() int { return t.rows }

// Cols returns the number of columns.
func (t *Terrain) Cols() int { return t.cols }

// Contains reports whether p lies inside the table.
func (t *Terrain) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < t.rows && p.Col >= 0 && p.Col < t.cols
}

// At returns the cell at p; out-of-bounds positions are Wall.
func (t *Terrain) At(p Position) Cell {
	if !t.Contains(p) {
		return Wall
	}
	return t.cells[p.Row*t.cols+p.Col]
}

// IsOpen reports whether p is an open cell.
func (t *Terrain) IsOpen(p Position) bool { return t.At(p) == Open }

// Neighbors returns the four neighbors of p in canonical order: up, left,
// right, down. Blocked neighbors are included; use OpenNeighbors to filter.
func (t *Terrain) Neighbors(p Position) [4]Position { return p.Neighbors() }

// OpenNeighbors returns the open neighbors of p in canonical order.
func (t *Terrain) OpenNeighbors(p Position) []Position {
	out := make([]Position, 0, 4)
	for _, n := range p.Neighbors() {
		if t.IsOpen(n) {
			out = append(out, n)
		}
	}
	return out
}

// Index returns the dense row-major index of p, for per-cell scratch tables.
//
// Precondition: t.Contains(p).
func (t *Terrain) Index(p Position) int { return p.Row*t.cols + p.Col }

// Size returns rows*cols.
func (t *Terrain) Size() int { return len(t.cells) }
