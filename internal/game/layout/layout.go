// Package layout converts textual battle maps into terrain and unit placements.
package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

var (
	// ErrEmpty is returned for a map with no rows.
	ErrEmpty = errors.New("layout: map is empty")
	// ErrNotRectangular is returned when rows differ in length.
	ErrNotRectangular = errors.New("layout: map is not rectangular")
	// ErrUnknownGlyph is returned for a character outside the legend.
	ErrUnknownGlyph = errors.New("layout: unknown glyph")
)

// Legend maps map characters to cell contents.
type Legend struct {
	Wall byte
	Open byte
	// A and B are the glyphs of faction A and faction B units.
	A byte
	B byte
}

// DefaultLegend uses '#' for walls, '.' for floor, 'E' for faction A and 'G'
// for faction B.
var DefaultLegend = Legend{Wall: '#', Open: '.', A: 'E', B: 'G'}

// Validate checks that the four glyphs are distinct.
func (l Legend) Validate() error {
	glyphs := []byte{l.Wall, l.Open, l.A, l.B}
	for i := range glyphs {
		for j := i + 1; j < len(glyphs); j++ {
			if glyphs[i] == glyphs[j] {
				return fmt.Errorf("layout: legend reuses glyph %q", glyphs[i])
			}
		}
	}
	return nil
}

// Placement is the starting cell of one unit.
type Placement struct {
	Faction roster.Faction
	Pos     grid.Position
}

// Layout is a parsed battle map: immutable terrain plus starting placements
// in reading order. A Layout can populate any number of fresh rosters.
type Layout struct {
	Terrain    *grid.Terrain
	Placements []Placement
}

// Parse reads a battle map. Trailing blank lines and carriage returns are
// ignored; every other line is one row.
//
// Postcondition: Returns a Layout or an error wrapping ErrEmpty,
// ErrNotRectangular or ErrUnknownGlyph.
func Parse(text string, legend Legend) (*Layout, error) {
	if err := legend.Validate(); err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return nil, ErrEmpty
	}

	width := len(lines[0])
	cells := make([][]grid.Cell, len(lines))
	var placements []Placement
	for r, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("row %d has length %d, want %d: %w", r, len(line), width, ErrNotRectangular)
		}
		cells[r] = make([]grid.Cell, width)
		for c := 0; c < width; c++ {
			p := grid.Position{Row: r, Col: c}
			switch line[c] {
			case legend.Wall:
				cells[r][c] = grid.Wall
			case legend.Open:
				cells[r][c] = grid.Open
			case legend.A:
				cells[r][c] = grid.Open
				placements = append(placements, Placement{Faction: roster.FactionA, Pos: p})
			case legend.B:
				cells[r][c] = grid.Open
				placements = append(placements, Placement{Faction: roster.FactionB, Pos: p})
			default:
				return nil, fmt.Errorf("row %d column %d: %q: %w", r, c, line[c], ErrUnknownGlyph)
			}
		}
	}

	terr, err := grid.NewTerrain(cells)
	if err != nil {
		return nil, fmt.Errorf("building terrain: %w", err)
	}
	return &Layout{Terrain: terr, Placements: placements}, nil
}

// MustParse is Parse with DefaultLegend that panics on error. It is meant for
// fixed maps in tests and examples.
func MustParse(text string) *Layout {
	l, err := Parse(text, DefaultLegend)
	if err != nil {
		panic(err)
	}
	return l
}

// Count returns the number of placements of faction f.
func (l *Layout) Count(f roster.Faction) int {
	n := 0
	for _, p := range l.Placements {
		if p.Faction == f {
			n++
		}
	}
	return n
}

// NewRoster places a fresh unit for every placement, using a's stats for
// faction A and b's stats for faction B.
//
// Postcondition: Returns a populated roster or the first placement error.
func (l *Layout) NewRoster(a, b roster.Stats) (*roster.Roster, error) {
	ros := roster.New(l.Terrain)
	for _, p := range l.Placements {
		s := a
		if p.Faction == roster.FactionB {
			s = b
		}
		if _, err := ros.Add(p.Faction, p.Pos, s.HitPoints, s.AttackPower); err != nil {
			return nil, err
		}
	}
	return ros, nil
}
