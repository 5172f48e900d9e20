// Package roster tracks the living combat units and their exclusive occupancy
// of open terrain cells.
package roster

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Faction is one of the two opposing sides.
type Faction int

const (
	FactionA Faction = iota
	FactionB
)

// Factions lists both factions.
var Factions = [2]Faction{FactionA, FactionB}

// Opponent returns the opposing faction.
func (f Faction) Opponent() Faction {
	if f == FactionA {
		return FactionB
	}
	return FactionA
}

// String returns "A" or "B".
func (f Faction) String() string {
	switch f {
	case FactionA:
		return "A"
	case FactionB:
		return "B"
	default:
		return fmt.Sprintf("Faction(%d)", int(f))
	}
}

// Unit is one combatant. Its position and hit points change only through the
// Roster that owns it.
type Unit struct {
	id          int
	faction     Faction
	pos         grid.Position
	hitPoints   int
	attackPower int
}

// ID returns the unit's identifier, unique within its roster and assigned in
// placement order.
func (u *Unit) ID() int { return u.id }

// Faction returns the unit's allegiance.
func (u *Unit) Faction() Faction { return u.faction }

// Position returns the unit's current cell.
func (u *Unit) Position() grid.Position { return u.pos }

// HitPoints returns the unit's remaining hit points.
func (u *Unit) HitPoints() int { return u.hitPoints }

// AttackPower returns the damage the unit deals per attack.
func (u *Unit) AttackPower() int { return u.attackPower }

// Alive reports whether the unit has hit points left.
// A unit is removed from its roster in the same step its hit points reach zero.
func (u *Unit) Alive() bool { return u.hitPoints > 0 }

// IsEnemy reports whether other belongs to the opposing faction.
func (u *Unit) IsEnemy(other *Unit) bool { return u.faction != other.faction }

// String returns a short description such as "A#3(2,5) hp=200".
func (u *Unit) String() string {
	return fmt.Sprintf("%s#%d%s hp=%d", u.faction, u.id, u.pos, u.hitPoints)
}

// Stats are the per-faction starting values applied to every unit of a faction.
type Stats struct {
	HitPoints   int
	AttackPower int
}
