package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/pathfind"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

// State is the scheduler's position in the round cycle.
type State int

const (
	// StateRoundStart is about to snapshot the turn order.
	StateRoundStart State = iota
	// StateUnitTurn dispatches the next queued unit.
	StateUnitTurn
	// StateTerminated is final: a unit found no living enemies.
	StateTerminated
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateRoundStart:
		return "round start"
	case StateUnitTurn:
		return "unit turn"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Scheduler runs rounds over a roster. Within a round units act once each in
// the reading order of their positions at the round's start; later units see
// the moves and deaths caused by earlier ones.
//
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	ros      *roster.Roster
	observer Observer
	logger   *zap.Logger

	state  State
	queue  []*roster.Unit
	next   int
	rounds int

	winner    roster.Faction
	hasWinner bool

	// acted records whether any move or attack happened in the current round.
	acted bool
	// lastIdle is true when the most recently completed round had no action.
	lastIdle bool
}

// NewScheduler creates a Scheduler in StateRoundStart.
// observer and logger may be nil.
//
// Precondition: ros must not be nil.
func NewScheduler(ros *roster.Roster, observer Observer, logger *zap.Logger) *Scheduler {
	if observer == nil {
		observer = Observers(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{ros: ros, observer: observer, logger: logger}
}

// State returns the current state.
func (s *Scheduler) State() State { return s.state }

// CompletedRounds returns the number of full rounds. The round interrupted by
// termination is not counted.
func (s *Scheduler) CompletedRounds() int { return s.rounds }

// Winner returns the faction whose unit found no enemies.
//
// Postcondition: ok is false until the scheduler has terminated with a winner.
// A roster that starts empty terminates with no winner.
func (s *Scheduler) Winner() (f roster.Faction, ok bool) { return s.winner, s.hasWinner }

// LastRoundIdle reports whether the last completed round had no move and no
// attack. An idle round repeats forever.
func (s *Scheduler) LastRoundIdle() bool { return s.lastIdle }

// Step performs exactly one state transition and returns the new state.
//
// Postcondition: a StateTerminated scheduler stays terminated.
func (s *Scheduler) Step() State {
	switch s.state {
	case StateRoundStart:
		s.startRound()
	case StateUnitTurn:
		s.unitTurn()
	}
	return s.state
}

// RunRound steps until the current round completes or the battle ends.
//
// Postcondition: Returns true iff a full round was completed.
func (s *Scheduler) RunRound() bool {
	if s.state == StateTerminated {
		return false
	}
	before := s.rounds
	for {
		if s.Step() == StateTerminated {
			return false
		}
		if s.state == StateRoundStart && s.rounds > before {
			return true
		}
	}
}

// Run steps until termination. It does not return for a battle that stalls;
// drivers that need a bound use RunRound and LastRoundIdle.
//
// Postcondition: State() == StateTerminated.
func (s *Scheduler) Run() {
	for s.Step() != StateTerminated {
	}
}

func (s *Scheduler) startRound() {
	s.queue = s.ros.UnitsInReadingOrder()
	s.next = 0
	s.acted = false
	if len(s.queue) == 0 {
		s.logger.Debug("empty roster at round start", zap.Int("completed_rounds", s.rounds))
		s.state = StateTerminated
		return
	}
	s.logger.Debug("round start",
		zap.Int("round", s.rounds+1),
		zap.Int("units", len(s.queue)),
	)
	s.state = StateUnitTurn
}

func (s *Scheduler) unitTurn() {
	u := s.queue[s.next]
	s.next++

	switch {
	case !s.ros.Contains(u):
		// Killed earlier this round.
	case !s.ros.FactionAlive(u.Faction().Opponent()):
		s.terminate(u)
		return
	default:
		s.takeTurn(u)
	}

	if s.next == len(s.queue) {
		s.rounds++
		s.lastIdle = !s.acted
		s.observer.Observe(Event{Type: EventRoundComplete, Round: s.rounds})
		s.state = StateRoundStart
	}
}

// takeTurn moves u toward the nearest enemy unless it is already engaged,
// then attacks if an enemy is adjacent.
func (s *Scheduler) takeTurn(u *roster.Unit) {
	if len(s.ros.AdjacentEnemies(u)) == 0 {
		if plan, ok := pathfind.NextStep(s.ros, u); ok {
			from := u.Position()
			s.ros.Move(u, plan.Step)
			s.acted = true
			s.observer.Observe(Event{
				Type:    EventMove,
				Round:   s.rounds + 1,
				UnitID:  u.ID(),
				Faction: u.Faction(),
				From:    from,
				To:      plan.Step,
			})
		}
	}

	target, ok := SelectTarget(s.ros, u)
	if !ok {
		return
	}
	r := ResolveAttack(s.ros, u, target)
	s.acted = true
	s.observer.Observe(Event{
		Type:    EventAttack,
		Round:   s.rounds + 1,
		UnitID:  u.ID(),
		Faction: u.Faction(),
		Attack:  &r,
	})
}

func (s *Scheduler) terminate(u *roster.Unit) {
	s.state = StateTerminated
	s.winner = u.Faction()
	s.hasWinner = true
	s.logger.Debug("no enemies remain",
		zap.Int("unit", u.ID()),
		zap.Stringer("faction", u.Faction()),
		zap.Int("completed_rounds", s.rounds),
	)
	s.observer.Observe(Event{
		Type:    EventTerminated,
		Round:   s.rounds + 1,
		UnitID:  u.ID(),
		Faction: u.Faction(),
	})
}
