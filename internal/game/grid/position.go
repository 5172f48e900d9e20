// Package grid provides the battlefield geometry: positions, reading order,
// directions and the immutable terrain.
package grid

import (
	"fmt"
	"sort"
)

// Position is a (row, column) cell coordinate.
type Position struct {
	Row int
	Col int
}

// String returns the position as "(row,col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Compare orders positions in reading order: row first, then column.
//
// Postcondition: Returns -1 if p precedes q, 1 if q precedes p, 0 if equal.
func (p Position) Compare(q Position) int {
	switch {
	case p.Row < q.Row:
		return -1
	case p.Row > q.Row:
		return 1
	case p.Col < q.Col:
		return -1
	case p.Col > q.Col:
		return 1
	default:
		return 0
	}
}

// Less reports whether p precedes q in reading order.
func (p Position) Less(q Position) bool { return p.Compare(q) < 0 }

// Step returns the position one cell away from p in direction d.
func (p Position) Step(d Direction) Position {
	dr, dc := d.Offset()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Adjacent reports whether p and q share an edge.
func (p Position) Adjacent(q Position) bool {
	dr := p.Row - q.Row
	dc := p.Col - q.Col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

// Neighbors returns the four edge-sharing positions of p in canonical order:
// up, left, right, down. Positions outside any terrain are included; callers
// filter them through Terrain.IsOpen.
func (p Position) Neighbors() [4]Position {
	var out [4]Position
	for i, d := range Directions {
		out[i] = p.Step(d)
	}
	return out
}

// SortReadingOrder sorts ps in place in reading order.
func SortReadingOrder(ps []Position) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
}

// First returns the reading-order minimum of ps.
//
// Postcondition: ok is false iff ps is empty.
func First(ps []Position) (first Position, ok bool) {
	for i, p := range ps {
		if i == 0 || p.Less(first) {
			first = p
		}
	}
	return first, len(ps) > 0
}
