package battle

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/layout"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

// ErrNoWinningPower is returned when no attack power up to the search bound
// lets faction A win without losses.
var ErrNoWinningPower = errors.New("battle: no attack power wins without losses")

// SearchResult is the outcome of MinimalAttackPower.
type SearchResult struct {
	AttackPower int
	Outcome     Outcome
	// Attempts is the number of simulations run.
	Attempts int
}

// MinimalAttackPower finds the smallest faction A attack power above
// p.A.Stats.AttackPower, up to maxPower, with which faction A wins and loses
// no unit. Each candidate re-runs the whole simulation and stops as soon as a
// faction A unit dies. Outcomes are not monotonic in attack power, so every
// candidate is tried in order.
//
// Precondition: maxPower > p.A.Stats.AttackPower.
// Postcondition: Returns the first flawless power or ErrNoWinningPower.
func MinimalAttackPower(l *layout.Layout, p Params, maxPower int, logger *zap.Logger) (SearchResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var res SearchResult
	for power := p.A.Stats.AttackPower + 1; power <= maxPower; power++ {
		candidate := p
		candidate.A.Stats.AttackPower = power
		res.Attempts++

		o, err := Run(l, candidate, WithLogger(logger), WithAbortOnLoss(roster.FactionA))
		switch {
		case errors.Is(err, ErrAborted), errors.Is(err, ErrStalemate), errors.Is(err, ErrRoundLimit):
			logger.Debug("attack power rejected", zap.Int("attack_power", power), zap.Error(err))
			continue
		case err != nil:
			return res, fmt.Errorf("simulating attack power %d: %w", power, err)
		}
		if o.Winner != roster.FactionA || !o.Flawless() {
			logger.Debug("attack power rejected", zap.Int("attack_power", power), zap.String("winner", o.WinnerName))
			continue
		}
		res.AttackPower = power
		res.Outcome = o
		logger.Info("minimal attack power found",
			zap.Int("attack_power", power),
			zap.Int("attempts", res.Attempts),
			zap.Int("score", o.Score),
		)
		return res, nil
	}
	return res, fmt.Errorf("searched up to %d: %w", maxPower, ErrNoWinningPower)
}
