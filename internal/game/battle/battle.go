// Package battle drives a full simulation from a layout to its outcome.
package battle

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/layout"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

var (
	// ErrNoUnits is returned for a layout without any unit.
	ErrNoUnits = errors.New("battle: layout has no units")
	// ErrStalemate is returned when a full round passes with no move and no
	// attack while both factions live. Every later round would repeat it.
	ErrStalemate = errors.New("battle: stalemate")
	// ErrRoundLimit is returned when Params.MaxRounds rounds complete with both
	// factions alive.
	ErrRoundLimit = errors.New("battle: round limit reached")
	// ErrAborted is returned when a run is cut short by WithAbortOnLoss.
	ErrAborted = errors.New("battle: aborted")
)

// Default per-unit values.
const (
	DefaultHitPoints   = 200
	DefaultAttackPower = 3
)

// FactionParams configures one faction.
type FactionParams struct {
	Name  string
	Stats roster.Stats
}

// Params configures a simulation.
type Params struct {
	A FactionParams
	B FactionParams
	// MaxRounds bounds the number of completed rounds; zero is unbounded.
	MaxRounds int
}

// DefaultParams returns Elves against Goblins with the default stats.
func DefaultParams() Params {
	s := roster.Stats{HitPoints: DefaultHitPoints, AttackPower: DefaultAttackPower}
	return Params{
		A: FactionParams{Name: "Elves", Stats: s},
		B: FactionParams{Name: "Goblins", Stats: s},
	}
}

// Faction returns the parameters of f.
func (p Params) Faction(f roster.Faction) FactionParams {
	if f == roster.FactionB {
		return p.B
	}
	return p.A
}

// Validate checks that stats are positive and MaxRounds is not negative.
func (p Params) Validate() error {
	for _, f := range roster.Factions {
		fp := p.Faction(f)
		if fp.Stats.HitPoints <= 0 {
			return fmt.Errorf("faction %s hit points must be > 0, got %d", f, fp.Stats.HitPoints)
		}
		if fp.Stats.AttackPower <= 0 {
			return fmt.Errorf("faction %s attack power must be > 0, got %d", f, fp.Stats.AttackPower)
		}
	}
	if p.MaxRounds < 0 {
		return fmt.Errorf("max rounds must be >= 0, got %d", p.MaxRounds)
	}
	return nil
}

// Outcome is the result of a finished simulation.
type Outcome struct {
	// Rounds is the number of completed rounds.
	Rounds int
	// HitPoints is the total remaining hit points of all survivors.
	HitPoints int
	// Score is Rounds * HitPoints.
	Score int
	Winner     roster.Faction
	WinnerName string
	// Survivors and Losses are indexed by roster.Faction.
	Survivors [2]int
	Losses    [2]int
}

// Flawless reports whether the winner lost no units.
func (o Outcome) Flawless() bool { return o.Losses[o.Winner] == 0 }

// String returns "<rounds> rounds x <hp> hit points = <score>, <winner> win".
func (o Outcome) String() string {
	return fmt.Sprintf("%d rounds x %d hit points = %d, %s win", o.Rounds, o.HitPoints, o.Score, o.WinnerName)
}

// Option customizes a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulation) { s.logger = logger }
}

// WithObserver adds an observer of every combat event.
func WithObserver(o combat.Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// WithAbortOnLoss stops the run with ErrAborted at the end of the round in
// which a unit of f dies.
func WithAbortOnLoss(f roster.Faction) Option {
	return func(s *Simulation) {
		s.abortOn = &f
	}
}

// Simulation is one run of a battle. It owns a fresh roster built from the
// layout; the layout itself is never modified.
type Simulation struct {
	RunID uuid.UUID

	layout    *layout.Layout
	params    Params
	roster    *roster.Roster
	sched     *combat.Scheduler
	logger    *zap.Logger
	observers combat.Observers
	abortOn   *roster.Faction
	aborted   bool
}

// New prepares a simulation of l under p.
//
// Postcondition: Returns a Simulation ready to Run or a construction error.
func New(l *layout.Layout, p Params, opts ...Option) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validating params: %w", err)
	}
	if len(l.Placements) == 0 {
		return nil, ErrNoUnits
	}
	ros, err := l.NewRoster(p.A.Stats, p.B.Stats)
	if err != nil {
		return nil, fmt.Errorf("populating roster: %w", err)
	}

	s := &Simulation{
		RunID:  uuid.New(),
		layout: l,
		params: p,
		roster: ros,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("run_id", s.RunID.String()))

	observers := append(combat.Observers{}, s.observers...)
	if s.abortOn != nil {
		watched := *s.abortOn
		observers = append(observers, combat.ObserverFunc(func(e combat.Event) {
			if e.Type == combat.EventAttack && e.Attack.Killed && e.Faction != watched {
				s.aborted = true
			}
		}))
	}
	s.sched = combat.NewScheduler(ros, observers, s.logger)
	return s, nil
}

// Roster returns the live roster of this run.
func (s *Simulation) Roster() *roster.Roster { return s.roster }

// Scheduler returns the turn scheduler of this run.
func (s *Simulation) Scheduler() *combat.Scheduler { return s.sched }

// Run executes rounds until one faction is left.
//
// Postcondition: Returns the Outcome, or ErrStalemate, ErrRoundLimit or
// ErrAborted with a partial Outcome describing the state reached.
func (s *Simulation) Run() (Outcome, error) {
	s.logger.Debug("simulation start",
		zap.Int("rows", s.layout.Terrain.Rows()),
		zap.Int("cols", s.layout.Terrain.Cols()),
		zap.Int("faction_a_units", s.layout.Count(roster.FactionA)),
		zap.Int("faction_b_units", s.layout.Count(roster.FactionB)),
		zap.Int("faction_a_attack_power", s.params.A.Stats.AttackPower),
		zap.Int("faction_b_attack_power", s.params.B.Stats.AttackPower),
	)

	for s.sched.RunRound() {
		both := s.roster.FactionAlive(roster.FactionA) && s.roster.FactionAlive(roster.FactionB)
		switch {
		case s.aborted:
			return s.finish(), ErrAborted
		case both && s.sched.LastRoundIdle():
			return s.finish(), fmt.Errorf("after %d rounds: %w", s.sched.CompletedRounds(), ErrStalemate)
		case both && s.params.MaxRounds > 0 && s.sched.CompletedRounds() >= s.params.MaxRounds:
			return s.finish(), fmt.Errorf("after %d rounds: %w", s.sched.CompletedRounds(), ErrRoundLimit)
		}
	}
	if s.aborted {
		return s.finish(), ErrAborted
	}

	o := s.finish()
	s.logger.Info("simulation complete",
		zap.Int("rounds", o.Rounds),
		zap.Int("hit_points", o.HitPoints),
		zap.Int("score", o.Score),
		zap.String("winner", o.WinnerName),
		zap.Int("winner_losses", o.Losses[o.Winner]),
	)
	return o, nil
}

func (s *Simulation) finish() Outcome {
	o := Outcome{
		Rounds:    s.sched.CompletedRounds(),
		HitPoints: s.roster.TotalHitPoints(),
	}
	o.Score = o.Rounds * o.HitPoints
	for _, f := range roster.Factions {
		o.Survivors[f] = s.roster.Count(f)
		o.Losses[f] = s.layout.Count(f) - o.Survivors[f]
	}
	if w, ok := s.sched.Winner(); ok {
		o.Winner = w
		o.WinnerName = s.params.Faction(w).Name
	}
	return o
}

// Run simulates l under p in one call.
func Run(l *layout.Layout, p Params, opts ...Option) (Outcome, error) {
	s, err := New(l, p, opts...)
	if err != nil {
		return Outcome{}, err
	}
	return s.Run()
}

// WithOverrides returns p with the non-zero per-faction attack power and hit
// point overrides of sc applied.
func (p Params) WithOverrides(sc *layout.Scenario) Params {
	out := p
	if v := sc.AttackPower[roster.FactionA]; v > 0 {
		out.A.Stats.AttackPower = v
	}
	if v := sc.AttackPower[roster.FactionB]; v > 0 {
		out.B.Stats.AttackPower = v
	}
	if v := sc.HitPoints[roster.FactionA]; v > 0 {
		out.A.Stats.HitPoints = v
	}
	if v := sc.HitPoints[roster.FactionB]; v > 0 {
		out.B.Stats.HitPoints = v
	}
	return out
}

// Verify compares o with the expected result of a scenario.
//
// Postcondition: Returns nil iff rounds, hit points and winner name all match.
func Verify(o Outcome, want layout.Expected) error {
	if o.Rounds != want.Rounds || o.HitPoints != want.HitPoints || o.WinnerName != want.Winner {
		return fmt.Errorf("got %d rounds x %d hit points (%s), want %d x %d (%s)",
			o.Rounds, o.HitPoints, o.WinnerName, want.Rounds, want.HitPoints, want.Winner)
	}
	return nil
}
