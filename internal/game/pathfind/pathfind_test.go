package pathfind_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/layout"
	"github.com/cory-johannsen/skirmish/internal/game/pathfind"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

var stats = roster.Stats{HitPoints: 200, AttackPower: 3}

func pos(r, c int) grid.Position { return grid.Position{Row: r, Col: c} }

func build(t *testing.T, text string) *roster.Roster {
	t.Helper()
	ros, err := layout.MustParse(text).NewRoster(stats, stats)
	require.NoError(t, err)
	return ros
}

func unitAt(t *testing.T, ros *roster.Roster, p grid.Position) *roster.Unit {
	t.Helper()
	u, ok := ros.UnitAt(p)
	require.True(t, ok, "no unit at %s", p)
	return u
}

func TestTargets_InRangeCells(t *testing.T) {
	ros := build(t, `
#######
#E..G.#
#...#.#
#.G.#G#
#######
`)
	elf := unitAt(t, ros, pos(1, 1))
	assert.Equal(t, []grid.Position{
		pos(1, 3), pos(1, 5), pos(2, 2), pos(2, 5), pos(3, 1), pos(3, 3),
	}, pathfind.Targets(ros, elf))
}

func TestNextStep_NearestTargetByReadingOrder(t *testing.T) {
	ros := build(t, `
#######
#E..G.#
#...#.#
#.G.#G#
#######
`)
	plan, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(1, 1)))
	require.True(t, ok)
	assert.Equal(t, pos(1, 3), plan.Target)
	assert.Equal(t, 2, plan.Distance)
	assert.Equal(t, pos(1, 2), plan.Step)
}

func TestNextStep_StepTieBrokenByReadingOrder(t *testing.T) {
	ros := build(t, `
#######
#.E...#
#.....#
#...G.#
#######
`)
	plan, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(1, 2)))
	require.True(t, ok)
	assert.Equal(t, pos(2, 4), plan.Target)
	assert.Equal(t, 3, plan.Distance)
	assert.Equal(t, pos(1, 3), plan.Step)
}

func TestNextStep_BranchesAroundWallBlock(t *testing.T) {
	// Two targets at distance 3; the upper one wins on reading order and
	// only the step right leads to it in two moves.
	ros := build(t, `
#####
#E..#
#.#.#
#..G#
#####
`)
	plan, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(1, 1)))
	require.True(t, ok)
	assert.Equal(t, pos(2, 3), plan.Target)
	assert.Equal(t, pos(1, 2), plan.Step)
}

func TestNextStep_FirstStepAmongMinimalNeighborsOnly(t *testing.T) {
	// Up precedes down in reading order but cannot reach the target.
	ros := build(t, `
#####
#...#
#E#.#
#..G#
#####
`)
	plan, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(2, 1)))
	require.True(t, ok)
	assert.Equal(t, pos(3, 2), plan.Target)
	assert.Equal(t, 2, plan.Distance)
	assert.Equal(t, pos(3, 1), plan.Step)
}

func TestNextStep_TargetOrderBeatsStepOrder(t *testing.T) {
	// Both targets are four steps away. The left one is first in reading
	// order even though stepping up is first in reading order.
	ros := build(t, `
#############
#.G..#....G.#
####..E######
#############
`)
	plan, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(2, 6)))
	require.True(t, ok)
	assert.Equal(t, pos(1, 3), plan.Target)
	assert.Equal(t, 4, plan.Distance)
	assert.Equal(t, pos(2, 5), plan.Step)
}

func TestNextStep_UnreachableTargets(t *testing.T) {
	ros := build(t, `
#######
#E.#G.#
#######
`)
	_, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(1, 1)))
	assert.False(t, ok)
}

func TestNextStep_AllTargetsOccupied(t *testing.T) {
	ros := build(t, `
#######
#E.EGE#
#######
`)
	_, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(1, 1)))
	assert.False(t, ok)
}

func TestNextStep_NoEnemies(t *testing.T) {
	ros := build(t, "#####\n#E.E#\n#####")
	_, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(1, 1)))
	assert.False(t, ok)
}

func TestNextStep_BlockedByAllies(t *testing.T) {
	ros := build(t, `
#######
#EE..G#
#E#####
#######
`)
	_, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(2, 1)))
	assert.False(t, ok)

	plan, ok := pathfind.NextStep(ros, unitAt(t, ros, pos(1, 2)))
	require.True(t, ok)
	assert.Equal(t, pos(1, 3), plan.Step)
}

func TestFlood_Distances(t *testing.T) {
	ros := build(t, `
#####
#E..#
#.#.#
#...#
#####
`)
	d := pathfind.Flood(ros, pos(1, 1))
	assert.Equal(t, pos(1, 1), d.Origin())
	n, ok := d.To(pos(3, 3))
	require.True(t, ok)
	assert.Equal(t, 4, n)
	_, ok = d.To(pos(2, 2))
	assert.False(t, ok)
	_, ok = d.To(pos(-1, 0))
	assert.False(t, ok)
}

func TestPath_EndsAtTarget(t *testing.T) {
	ros := build(t, `
#########
#E......#
#.#####.#
#.......#
#######G#
#########
`)
	elf := unitAt(t, ros, pos(1, 1))
	plan, ok := pathfind.NextStep(ros, elf)
	require.True(t, ok)
	path, ok := pathfind.Path(ros, elf)
	require.True(t, ok)
	assert.Len(t, path, plan.Distance)
	assert.Equal(t, plan.Step, path[0])
	assert.Equal(t, plan.Target, path[len(path)-1])
	prev := elf.Position()
	for _, p := range path {
		assert.True(t, prev.Adjacent(p))
		prev = p
	}
}

// randomBattlefield draws a walled grid with open interior cells blocked at
// random, one faction A unit and a small number of faction B units.
func randomBattlefield(rt *rapid.T) string {
	rows := rapid.IntRange(3, 8).Draw(rt, "rows")
	cols := rapid.IntRange(3, 8).Draw(rt, "cols")
	cells := make([][]byte, rows+2)
	for r := range cells {
		cells[r] = []byte(strings.Repeat("#", cols+2))
		if r == 0 || r == rows+1 {
			continue
		}
		for c := 1; c <= cols; c++ {
			if rapid.IntRange(0, 3).Draw(rt, "wall") != 0 {
				cells[r][c] = '.'
			}
		}
	}
	place := func(glyph byte) {
		r := rapid.IntRange(1, rows).Draw(rt, "ur")
		c := rapid.IntRange(1, cols).Draw(rt, "uc")
		cells[r][c] = glyph
	}
	place('E')
	for i, n := 0, rapid.IntRange(1, 3).Draw(rt, "enemies"); i < n; i++ {
		place('G')
	}
	lines := make([]string, len(cells))
	for i, row := range cells {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func TestNextStep_Property_ShortestAndCanonical(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := layout.MustParse(randomBattlefield(rt))
		ros, err := l.NewRoster(stats, stats)
		require.NoError(rt, err)
		var elf *roster.Unit
		for _, u := range ros.UnitsInReadingOrder() {
			if u.Faction() == roster.FactionA {
				elf = u
			}
		}
		if elf == nil {
			rt.Skip("faction A unit was overwritten")
		}

		plan, ok := pathfind.NextStep(ros, elf)
		from := pathfind.Flood(ros, elf.Position())
		best := pathfind.Unreachable
		var bestCells []grid.Position
		for _, target := range pathfind.Targets(ros, elf) {
			n, reached := from.To(target)
			if !reached {
				continue
			}
			if best == pathfind.Unreachable || n < best {
				best, bestCells = n, nil
			}
			if n == best {
				bestCells = append(bestCells, target)
			}
		}
		if best == pathfind.Unreachable {
			assert.False(rt, ok)
			return
		}
		require.True(rt, ok)
		assert.Equal(rt, best, plan.Distance)
		first, _ := grid.First(bestCells)
		assert.Equal(rt, first, plan.Target)

		assert.True(rt, elf.Position().Adjacent(plan.Step))
		assert.True(rt, ros.IsFree(plan.Step))
		back := pathfind.Flood(ros, plan.Target)
		stepDist, reached := back.To(plan.Step)
		require.True(rt, reached)
		assert.Equal(rt, plan.Distance-1, stepDist)
		for _, n := range elf.Position().Neighbors() {
			if d, r := back.To(n); r && ros.IsFree(n) && d == stepDist {
				assert.False(rt, n.Less(plan.Step), "step %s is not first among minimal neighbors (%s)", plan.Step, n)
			}
		}
	})
}
