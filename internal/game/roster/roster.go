package roster

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Roster is the set of living units on a terrain.
//
// Invariant: no two living units share a position and every living unit
// stands on an open cell. Operations that would break the invariant panic.
type Roster struct {
	terrain *grid.Terrain
	byPos   map[grid.Position]*Unit
	nextID  int
}

// New creates an empty Roster on terrain.
//
// Precondition: terrain must not be nil.
func New(terrain *grid.Terrain) *Roster {
	return &Roster{terrain: terrain, byPos: make(map[grid.Position]*Unit)}
}

// Terrain returns the terrain the roster is bound to.
func (r *Roster) Terrain() *grid.Terrain { return r.terrain }

// Add places a new unit at pos.
//
// Precondition: pos is open and unoccupied; hitPoints and attackPower are > 0.
// Postcondition: Returns the placed unit or an error describing the violation.
func (r *Roster) Add(f Faction, pos grid.Position, hitPoints, attackPower int) (*Unit, error) {
	if !r.terrain.IsOpen(pos) {
		return nil, fmt.Errorf("placing %s unit at %s: cell is not open", f, pos)
	}
	if other, ok := r.byPos[pos]; ok {
		return nil, fmt.Errorf("placing %s unit at %s: cell is occupied by %s", f, pos, other)
	}
	if hitPoints <= 0 {
		return nil, fmt.Errorf("placing %s unit at %s: hit points must be > 0, got %d", f, pos, hitPoints)
	}
	if attackPower <= 0 {
		return nil, fmt.Errorf("placing %s unit at %s: attack power must be > 0, got %d", f, pos, attackPower)
	}
	u := &Unit{id: r.nextID, faction: f, pos: pos, hitPoints: hitPoints, attackPower: attackPower}
	r.nextID++
	r.byPos[pos] = u
	return u, nil
}

// Len returns the number of living units.
func (r *Roster) Len() int { return len(r.byPos) }

// UnitsInReadingOrder returns a snapshot of the living units sorted by the
// reading order of their positions. Later roster changes do not alter it.
func (r *Roster) UnitsInReadingOrder() []*Unit {
	out := make([]*Unit, 0, len(r.byPos))
	for _, u := range r.byPos {
		out = append(out, u)
	}
	sortUnits(out)
	return out
}

// UnitAt returns the living unit at pos.
//
// Postcondition: ok is false iff pos is unoccupied.
func (r *Roster) UnitAt(pos grid.Position) (u *Unit, ok bool) {
	u, ok = r.byPos[pos]
	return u, ok
}

// IsOccupied reports whether a living unit stands at pos.
func (r *Roster) IsOccupied(pos grid.Position) bool {
	_, ok := r.byPos[pos]
	return ok
}

// IsFree reports whether pos is open terrain with no unit on it.
func (r *Roster) IsFree(pos grid.Position) bool {
	return r.terrain.IsOpen(pos) && !r.IsOccupied(pos)
}

// Contains reports whether u is a living member of this roster.
func (r *Roster) Contains(u *Unit) bool {
	return u != nil && r.byPos[u.pos] == u
}

// Move relocates u to newPos.
//
// Precondition: u is on the roster; newPos is open and unoccupied.
// Violations are programming faults and panic.
func (r *Roster) Move(u *Unit, newPos grid.Position) {
	if !r.Contains(u) {
		panic(fmt.Sprintf("roster: move of unit %s that is not on the roster", u))
	}
	if !r.terrain.IsOpen(newPos) {
		panic(fmt.Sprintf("roster: move of %s onto blocked cell %s", u, newPos))
	}
	if other, ok := r.byPos[newPos]; ok {
		panic(fmt.Sprintf("roster: move of %s onto %s occupied by %s", u, newPos, other))
	}
	delete(r.byPos, u.pos)
	u.pos = newPos
	r.byPos[newPos] = u
}

// Damage subtracts amount from u's hit points and removes u when they reach
// zero or below.
//
// Precondition: u is on the roster; amount >= 0.
// Postcondition: Returns true iff u died and was removed.
func (r *Roster) Damage(u *Unit, amount int) bool {
	if !r.Contains(u) {
		panic(fmt.Sprintf("roster: damage to unit %s that is not on the roster", u))
	}
	if amount < 0 {
		panic(fmt.Sprintf("roster: negative damage %d to %s", amount, u))
	}
	u.hitPoints -= amount
	if u.hitPoints > 0 {
		return false
	}
	delete(r.byPos, u.pos)
	return true
}

// EnemiesOf returns the living units opposing f, in reading order.
func (r *Roster) EnemiesOf(f Faction) []*Unit {
	var out []*Unit
	for _, u := range r.byPos {
		if u.faction != f {
			out = append(out, u)
		}
	}
	sortUnits(out)
	return out
}

// FactionAlive reports whether f has any living member.
func (r *Roster) FactionAlive(f Faction) bool {
	for _, u := range r.byPos {
		if u.faction == f {
			return true
		}
	}
	return false
}

// Count returns the number of living members of f.
func (r *Roster) Count(f Faction) int {
	n := 0
	for _, u := range r.byPos {
		if u.faction == f {
			n++
		}
	}
	return n
}

// TotalHitPoints sums the hit points of every living unit.
func (r *Roster) TotalHitPoints() int {
	sum := 0
	for _, u := range r.byPos {
		sum += u.hitPoints
	}
	return sum
}

// AdjacentEnemies returns the living enemies of u that share an edge with it,
// in reading order.
func (r *Roster) AdjacentEnemies(u *Unit) []*Unit {
	var out []*Unit
	for _, n := range u.pos.Neighbors() {
		if other, ok := r.byPos[n]; ok && u.IsEnemy(other) {
			out = append(out, other)
		}
	}
	return out
}

// CheckInvariants verifies exclusivity and liveness of every unit.
//
// Postcondition: Returns nil iff every living unit has positive hit points,
// stands on an open cell and is indexed under its own position.
func (r *Roster) CheckInvariants() error {
	for pos, u := range r.byPos {
		if u.pos != pos {
			return fmt.Errorf("unit %s indexed under %s", u, pos)
		}
		if !r.terrain.IsOpen(pos) {
			return fmt.Errorf("unit %s stands on a blocked cell", u)
		}
		if u.hitPoints <= 0 {
			return fmt.Errorf("unit %s is on the roster with no hit points", u)
		}
	}
	return nil
}

func sortUnits(us []*Unit) {
	sort.Slice(us, func(i, j int) bool { return us[i].pos.Less(us[j].pos) })
}
