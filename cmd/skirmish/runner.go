package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/layout"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

// runner executes simulations and prints their results.
type runner struct {
	cfg    config.Config
	logger *zap.Logger
	out    io.Writer
	legend layout.Legend
	params battle.Params

	trace  bool
	search bool
}

func newRunner(cfg config.Config, logger *zap.Logger, out io.Writer) *runner {
	return &runner{
		cfg:    cfg,
		logger: logger,
		out:    out,
		legend: legendFromConfig(cfg.Battle),
		params: paramsFromConfig(cfg.Battle),
	}
}

// legendFromConfig builds the map legend from the faction glyphs.
//
// Precondition: cfg has passed config validation.
func legendFromConfig(cfg config.BattleConfig) layout.Legend {
	l := layout.DefaultLegend
	l.A = cfg.FactionA.Glyph[0]
	l.B = cfg.FactionB.Glyph[0]
	return l
}

func paramsFromConfig(cfg config.BattleConfig) battle.Params {
	return battle.Params{
		A: battle.FactionParams{
			Name:  cfg.FactionA.Name,
			Stats: roster.Stats{HitPoints: cfg.FactionA.HitPoints, AttackPower: cfg.FactionA.AttackPower},
		},
		B: battle.FactionParams{
			Name:  cfg.FactionB.Name,
			Stats: roster.Stats{HitPoints: cfg.FactionB.HitPoints, AttackPower: cfg.FactionB.AttackPower},
		},
		MaxRounds: cfg.MaxRounds,
	}
}

func (r *runner) runLayoutFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading layout %s: %w", path, err)
	}
	l, err := layout.Parse(string(data), r.legend)
	if err != nil {
		return fmt.Errorf("parsing layout %s: %w", path, err)
	}
	return r.run(&layout.Scenario{Name: path, Layout: l})
}

func (r *runner) runScenarioFile(path string) error {
	sc, err := layout.LoadScenarioFromFile(path, r.legend)
	if err != nil {
		return err
	}
	return r.run(sc)
}

// runDir runs every scenario in dir and fails if any does not match its
// expected result.
func (r *runner) runDir(dir string) error {
	scs, err := layout.LoadScenariosFromDir(dir, r.legend)
	if err != nil {
		return err
	}
	var errs []error
	for _, sc := range scs {
		if err := r.run(sc); err != nil {
			errs = append(errs, fmt.Errorf("scenario %q: %w", sc.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *runner) run(sc *layout.Scenario) error {
	params := r.params.WithOverrides(sc)
	opts := []battle.Option{battle.WithLogger(r.logger.With(zap.String("scenario", sc.Name)))}
	if r.trace {
		opts = append(opts, battle.WithObserver(battle.NewLoggedObserver(r.logger, params)))
	}

	o, err := battle.Run(sc.Layout, params, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s\n", sc.Name)
	fmt.Fprintf(r.out, "  completed rounds: %d\n", o.Rounds)
	fmt.Fprintf(r.out, "  hit points left:  %d\n", o.HitPoints)
	fmt.Fprintf(r.out, "  outcome:          %d\n", o.Score)
	fmt.Fprintf(r.out, "  winner:           %s\n", o.WinnerName)

	var verr error
	if sc.Expect != nil {
		if verr = battle.Verify(o, *sc.Expect); verr != nil {
			fmt.Fprintf(r.out, "  MISMATCH: %v\n", verr)
		}
	}

	if r.search {
		res, err := battle.MinimalAttackPower(sc.Layout, params, r.cfg.Search.MaxAttackPower, r.logger)
		if err != nil {
			return errors.Join(verr, err)
		}
		fmt.Fprintf(r.out, "  minimal %s attack power: %d (%s)\n", params.A.Name, res.AttackPower, res.Outcome)
		if sc.Expect != nil && sc.Expect.MinAttackPower != 0 && sc.Expect.MinAttackPower != res.AttackPower {
			err := fmt.Errorf("minimal attack power %d, want %d", res.AttackPower, sc.Expect.MinAttackPower)
			fmt.Fprintf(r.out, "  MISMATCH: %v\n", err)
			verr = errors.Join(verr, err)
		}
	}
	return verr
}
