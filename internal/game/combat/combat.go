// Package combat resolves attacks and schedules unit turns within rounds.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

// EventType distinguishes the kinds of Event emitted by a Scheduler.
type EventType int

const (
	// EventMove is a unit stepping into an adjacent cell.
	EventMove EventType = iota
	// EventAttack is a unit striking an adjacent enemy.
	EventAttack
	// EventRoundComplete marks the end of a full round.
	EventRoundComplete
	// EventTerminated marks the turn that found no enemies left.
	EventTerminated
)

// String returns a human-readable event label.
func (t EventType) String() string {
	switch t {
	case EventMove:
		return "move"
	case EventAttack:
		return "attack"
	case EventRoundComplete:
		return "round complete"
	case EventTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Event records one observable step of the battle.
type Event struct {
	Type EventType
	// Round is the 1-based number of the round in progress.
	Round int
	// UnitID and Faction identify the acting unit. Unset for EventRoundComplete.
	UnitID  int
	Faction roster.Faction
	// From and To are set for EventMove.
	From grid.Position
	To   grid.Position
	// Attack is set for EventAttack.
	Attack *AttackResult
}

// String returns a one-line description of the event.
func (e Event) String() string {
	switch e.Type {
	case EventMove:
		return fmt.Sprintf("round %d: %s#%d moves %s -> %s", e.Round, e.Faction, e.UnitID, e.From, e.To)
	case EventAttack:
		a := e.Attack
		verb := "hits"
		if a.Killed {
			verb = "kills"
		}
		return fmt.Sprintf("round %d: %s#%d %s #%d at %s for %d (%d left)", e.Round, e.Faction, e.UnitID, verb, a.TargetID, a.TargetPos, a.Damage, a.Remaining)
	case EventRoundComplete:
		return fmt.Sprintf("round %d complete", e.Round)
	case EventTerminated:
		return fmt.Sprintf("round %d: %s#%d finds no enemies", e.Round, e.Faction, e.UnitID)
	default:
		return "unknown event"
	}
}

// Observer receives events in the order they happen.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans one event out to several observers in order.
type Observers []Observer

// Observe forwards e to every non-nil observer.
func (obs Observers) Observe(e Event) {
	for _, o := range obs {
		if o != nil {
			o.Observe(e)
		}
	}
}
