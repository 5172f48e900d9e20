package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

// AttackResult holds the outcome of a single attack.
type AttackResult struct {
	// AttackerID is the attacking unit's ID.
	AttackerID int
	// TargetID is the defending unit's ID.
	TargetID int
	// TargetPos is where the defender stood when struck.
	TargetPos grid.Position
	// Damage is the attacker's attack power.
	Damage int
	// Remaining is the defender's hit points after the hit; <= 0 when killed.
	Remaining int
	// Killed is true when the defender was removed from the roster.
	Killed bool
}

// SelectTarget picks the adjacent living enemy of attacker with the fewest
// hit points, ties broken by reading order of the enemy's position.
//
// Postcondition: ok is false iff no enemy is adjacent.
func SelectTarget(ros *roster.Roster, attacker *roster.Unit) (target *roster.Unit, ok bool) {
	for _, e := range ros.AdjacentEnemies(attacker) {
		if target == nil ||
			e.HitPoints() < target.HitPoints() ||
			(e.HitPoints() == target.HitPoints() && e.Position().Less(target.Position())) {
			target = e
		}
	}
	return target, target != nil
}

// ResolveAttack applies attacker's attack power to target. A target reduced
// to zero or fewer hit points leaves the roster immediately, freeing its cell.
//
// Precondition: both units are on ros, opposed and adjacent. Violations panic.
// Postcondition: Returns a fully populated AttackResult.
func ResolveAttack(ros *roster.Roster, attacker, target *roster.Unit) AttackResult {
	if !ros.Contains(attacker) || !ros.Contains(target) {
		panic(fmt.Sprintf("combat: attack between %s and %s with a unit off the roster", attacker, target))
	}
	if !attacker.IsEnemy(target) {
		panic(fmt.Sprintf("combat: %s attacks ally %s", attacker, target))
	}
	if !attacker.Position().Adjacent(target.Position()) {
		panic(fmt.Sprintf("combat: %s attacks non-adjacent %s", attacker, target))
	}
	r := AttackResult{
		AttackerID: attacker.ID(),
		TargetID:   target.ID(),
		TargetPos:  target.Position(),
		Damage:     attacker.AttackPower(),
	}
	r.Killed = ros.Damage(target, r.Damage)
	r.Remaining = target.HitPoints()
	return r
}
