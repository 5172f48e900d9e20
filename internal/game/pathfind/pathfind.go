// Package pathfind chooses where a unit moves on its turn.
//
// Movement is a two-phase breadth-first search. The first flood, from the
// mover, picks the nearest reachable cell that is adjacent to an enemy, ties
// broken by the reading order of that cell. The second flood, from the chosen
// cell, measures each of the mover's free neighbors; the nearest one is the
// step, ties broken by the reading order of the step cell.
package pathfind

import (
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

// Unreachable is the distance reported for cells the flood did not reach.
const Unreachable = -1

// Plan is the outcome of a successful movement search.
type Plan struct {
	// Target is the enemy-adjacent cell the mover is heading for.
	Target grid.Position
	// Step is the neighbor of the mover it moves into this turn.
	Step grid.Position
	// Distance is the number of steps from the mover to Target.
	Distance int
}

// Distances is a breadth-first distance field over a terrain.
type Distances struct {
	terrain *grid.Terrain
	origin  grid.Position
	dist    []int
}

// Origin returns the cell the flood started from.
func (d Distances) Origin() grid.Position { return d.origin }

// To returns the distance from the origin to p.
//
// Postcondition: ok is false iff p was not reached.
func (d Distances) To(p grid.Position) (n int, ok bool) {
	if !d.terrain.Contains(p) {
		return Unreachable, false
	}
	n = d.dist[d.terrain.Index(p)]
	return n, n != Unreachable
}

// Flood computes shortest distances from start through free cells. The start
// cell is always reached at distance zero, even when a unit stands on it.
//
// Precondition: start lies inside the roster's terrain.
func Flood(ros *roster.Roster, start grid.Position) Distances {
	terr := ros.Terrain()
	d := Distances{terrain: terr, origin: start, dist: make([]int, terr.Size())}
	for i := range d.dist {
		d.dist[i] = Unreachable
	}
	if !terr.Contains(start) {
		return d
	}
	d.dist[terr.Index(start)] = 0
	queue := []grid.Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		next := d.dist[terr.Index(cur)] + 1
		for _, n := range cur.Neighbors() {
			if !ros.IsFree(n) {
				continue
			}
			idx := terr.Index(n)
			if d.dist[idx] != Unreachable {
				continue
			}
			d.dist[idx] = next
			queue = append(queue, n)
		}
	}
	return d
}

// Targets returns every free cell adjacent to a living enemy of mover, in
// reading order and without duplicates.
func Targets(ros *roster.Roster, mover *roster.Unit) []grid.Position {
	seen := make(map[grid.Position]bool)
	var out []grid.Position
	for _, enemy := range ros.EnemiesOf(mover.Faction()) {
		for _, n := range enemy.Position().Neighbors() {
			if seen[n] || !ros.IsFree(n) {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	grid.SortReadingOrder(out)
	return out
}

// ChooseTarget picks the nearest reachable cell in targets, ties broken by
// reading order.
//
// Postcondition: ok is false iff no cell in targets is reachable.
func ChooseTarget(from Distances, targets []grid.Position) (target grid.Position, dist int, ok bool) {
	dist = Unreachable
	for _, t := range targets {
		n, reached := from.To(t)
		if !reached {
			continue
		}
		if !ok || n < dist || (n == dist && t.Less(target)) {
			target, dist, ok = t, n, true
		}
	}
	return target, dist, ok
}

// ChooseStep picks, among the free neighbors of origin, the one nearest to
// the target the flood back started from, ties broken by reading order.
//
// Postcondition: ok is false iff no free neighbor of origin reaches the target.
func ChooseStep(ros *roster.Roster, origin grid.Position, back Distances) (step grid.Position, ok bool) {
	best := Unreachable
	for _, n := range origin.Neighbors() {
		if !ros.IsFree(n) {
			continue
		}
		d, reached := back.To(n)
		if !reached {
			continue
		}
		if !ok || d < best || (d == best && n.Less(step)) {
			step, best, ok = n, d, true
		}
	}
	return step, ok
}

// NextStep plans the mover's move for this turn.
//
// Postcondition: ok is false when no enemy-adjacent cell is free and
// reachable; the mover then stays put.
func NextStep(ros *roster.Roster, mover *roster.Unit) (plan Plan, ok bool) {
	targets := Targets(ros, mover)
	if len(targets) == 0 {
		return Plan{}, false
	}
	target, dist, ok := ChooseTarget(Flood(ros, mover.Position()), targets)
	if !ok {
		return Plan{}, false
	}
	step, ok := ChooseStep(ros, mover.Position(), Flood(ros, target))
	if !ok {
		return Plan{}, false
	}
	return Plan{Target: target, Step: step, Distance: dist}, true
}

// Path returns the full route NextStep would follow from mover's cell to the
// chosen target, assuming nothing else moves. The mover's own cell is not
// included; the last element is the target.
//
// Postcondition: ok is false iff NextStep would report no move.
func Path(ros *roster.Roster, mover *roster.Unit) (path []grid.Position, ok bool) {
	plan, ok := NextStep(ros, mover)
	if !ok {
		return nil, false
	}
	back := Flood(ros, plan.Target)
	path = append(path, plan.Step)
	for cur := plan.Step; cur != plan.Target; {
		next, found := ChooseStep(ros, cur, back)
		if !found {
			return nil, false
		}
		path = append(path, next)
		cur = next
	}
	return path, true
}
