package battle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/layout"
	"github.com/cory-johannsen/skirmish/internal/game/roster"
)

const scenarioDir = "../../../content/scenarios"

func loadScenarios(t *testing.T) []*layout.Scenario {
	t.Helper()
	scs, err := layout.LoadScenariosFromDir(scenarioDir, layout.DefaultLegend)
	require.NoError(t, err)
	return scs
}

func TestRun_ReferenceScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			require.NotNil(t, sc.Expect)
			o, err := battle.Run(sc.Layout, battle.DefaultParams().WithOverrides(sc), battle.WithLogger(zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))))
			require.NoError(t, err)
			assert.NoError(t, battle.Verify(o, *sc.Expect))
			assert.Equal(t, sc.Expect.Score(), o.Score)
		})
	}
}

func TestRun_SampleOutcome(t *testing.T) {
	l := layout.MustParse(`
#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######
`)
	o, err := battle.Run(l, battle.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 47, o.Rounds)
	assert.Equal(t, 590, o.HitPoints)
	assert.Equal(t, 27730, o.Score)
	assert.Equal(t, roster.FactionB, o.Winner)
	assert.Equal(t, "Goblins", o.WinnerName)
	assert.Equal(t, [2]int{0, 4}, o.Survivors)
	assert.Equal(t, [2]int{2, 0}, o.Losses)
	assert.True(t, o.Flawless())
	assert.Equal(t, "47 rounds x 590 hit points = 27730, Goblins win", o.String())
}

func TestRun_Deterministic(t *testing.T) {
	l := layout.MustParse(`
#########
#G......#
#.E.#...#
#..##..G#
#...##..#
#...#...#
#.G...G.#
#.....G.#
#########
`)
	var first, second battle.Recorder
	o1, err := battle.Run(l, battle.DefaultParams(), battle.WithObserver(&first))
	require.NoError(t, err)
	o2, err := battle.Run(l, battle.DefaultParams(), battle.WithObserver(&second))
	require.NoError(t, err)
	assert.Equal(t, o1, o2)
	assert.Equal(t, first.Events(), second.Events())
	assert.NotEmpty(t, first.Lines())
}

func TestRun_Stalemate(t *testing.T) {
	l := layout.MustParse("#######\n#E.#.G#\n#######")
	_, err := battle.Run(l, battle.DefaultParams())
	assert.ErrorIs(t, err, battle.ErrStalemate)
}

func TestRun_RoundLimit(t *testing.T) {
	p := battle.DefaultParams()
	p.MaxRounds = 10
	l := layout.MustParse("#######\n#E...G#\n#######")
	o, err := battle.Run(l, p)
	assert.ErrorIs(t, err, battle.ErrRoundLimit)
	assert.Equal(t, 10, o.Rounds)
}

func TestRun_RoundLimitAllowsFinalDetection(t *testing.T) {
	p := battle.DefaultParams()
	p.A.Stats = roster.Stats{HitPoints: 20, AttackPower: 5}
	p.B.Stats = roster.Stats{HitPoints: 20, AttackPower: 3}
	p.MaxRounds = 5
	o, err := battle.Run(layout.MustParse("#######\n#E...G#\n#######"), p)
	require.NoError(t, err)
	assert.Equal(t, 5, o.Rounds)
	assert.Equal(t, 55, o.Score)
}

func TestRun_SingleFaction(t *testing.T) {
	o, err := battle.Run(layout.MustParse("#####\n#E.E#\n#####"), battle.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 0, o.Rounds)
	assert.Equal(t, 0, o.Score)
	assert.Equal(t, "Elves", o.WinnerName)
}

func TestNew_Rejects(t *testing.T) {
	_, err := battle.New(layout.MustParse("#####\n#...#\n#####"), battle.DefaultParams())
	assert.ErrorIs(t, err, battle.ErrNoUnits)

	p := battle.DefaultParams()
	p.B.Stats.AttackPower = 0
	_, err = battle.New(layout.MustParse("####\n#EG#\n####"), p)
	assert.Error(t, err)

	p = battle.DefaultParams()
	p.MaxRounds = -1
	_, err = battle.New(layout.MustParse("####\n#EG#\n####"), p)
	assert.Error(t, err)
}

func TestRun_AbortOnLoss(t *testing.T) {
	sc := loadScenarios(t)[0]
	o, err := battle.Run(sc.Layout, battle.DefaultParams(), battle.WithAbortOnLoss(roster.FactionA))
	assert.ErrorIs(t, err, battle.ErrAborted)
	assert.GreaterOrEqual(t, o.Losses[roster.FactionA], 1)
}

func TestWithOverrides(t *testing.T) {
	sc := &layout.Scenario{AttackPower: [2]int{7, 0}, HitPoints: [2]int{0, 50}}
	p := battle.DefaultParams().WithOverrides(sc)
	assert.Equal(t, roster.Stats{HitPoints: 200, AttackPower: 7}, p.A.Stats)
	assert.Equal(t, roster.Stats{HitPoints: 50, AttackPower: 3}, p.B.Stats)
}

func TestVerify(t *testing.T) {
	o := battle.Outcome{Rounds: 2, HitPoints: 9, WinnerName: "Elves"}
	assert.NoError(t, battle.Verify(o, layout.Expected{Rounds: 2, HitPoints: 9, Winner: "Elves"}))
	assert.Error(t, battle.Verify(o, layout.Expected{Rounds: 3, HitPoints: 9, Winner: "Elves"}))
	assert.Error(t, battle.Verify(o, layout.Expected{Rounds: 2, HitPoints: 9, Winner: "Goblins"}))
}

func TestLoggedObserver_LogsEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	p := battle.DefaultParams()
	_, err := battle.Run(layout.MustParse("#####\n#E.G#\n#####"), p,
		battle.WithLogger(logger),
		battle.WithObserver(battle.NewLoggedObserver(logger, p)),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("move").Len())
	assert.NotZero(t, logs.FilterMessage("attack").Len())
	assert.Equal(t, 1, logs.FilterMessage("terminated").Len())
	complete := logs.FilterMessage("simulation complete").All()
	require.Len(t, complete, 1)
	assert.Equal(t, "Elves", complete[0].ContextMap()["winner"])
	assert.NotEmpty(t, complete[0].ContextMap()["run_id"])
}

// randomLayout draws a small walled map with random walls and units.
func randomLayout(rt *rapid.T) string {
	rows := rapid.IntRange(2, 6).Draw(rt, "rows")
	cols := rapid.IntRange(2, 7).Draw(rt, "cols")
	glyphs := []byte{'.', '.', '.', '#', 'E', 'G'}
	lines := []string{strings.Repeat("#", cols+2)}
	for r := 0; r < rows; r++ {
		row := []byte{'#'}
		for c := 0; c < cols; c++ {
			row = append(row, glyphs[rapid.IntRange(0, len(glyphs)-1).Draw(rt, "cell")])
		}
		lines = append(lines, string(append(row, '#')))
	}
	lines = append(lines, strings.Repeat("#", cols+2))
	return strings.Join(lines, "\n")
}

func TestRun_Property_InvariantsHoldAtEveryEvent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := layout.MustParse(randomLayout(rt))
		if len(l.Placements) == 0 {
			rt.Skip("no units")
		}
		p := battle.DefaultParams()
		p.A.Stats = roster.Stats{HitPoints: rapid.IntRange(1, 30).Draw(rt, "hp_a"), AttackPower: rapid.IntRange(1, 10).Draw(rt, "ap_a")}
		p.B.Stats = roster.Stats{HitPoints: rapid.IntRange(1, 30).Draw(rt, "hp_b"), AttackPower: rapid.IntRange(1, 10).Draw(rt, "ap_b")}
		p.MaxRounds = 200

		var ros *roster.Roster
		var rec battle.Recorder
		check := combat.ObserverFunc(func(e combat.Event) {
			require.NoError(rt, ros.CheckInvariants(), "after %s", e)
			if e.Type == combat.EventAttack && e.Attack.Killed {
				_, occupied := ros.UnitAt(e.Attack.TargetPos)
				assert.False(rt, occupied, "dead unit still occupies %s", e.Attack.TargetPos)
			}
		})
		sim, err := battle.New(l, p, battle.WithObserver(check), battle.WithObserver(&rec))
		require.NoError(rt, err)
		ros = sim.Roster()
		o, err := sim.Run()

		var again battle.Recorder
		o2, err2 := battle.Run(l, p, battle.WithObserver(&again))
		assert.Equal(rt, err == nil, err2 == nil)
		assert.Equal(rt, o, o2)
		assert.Equal(rt, rec.Events(), again.Events())

		if err != nil {
			return
		}
		assert.Equal(rt, o.Rounds*o.HitPoints, o.Score)
		assert.Equal(rt, 0, o.Survivors[o.Winner.Opponent()])
		assert.Equal(rt, o.HitPoints, ros.TotalHitPoints())
	})
}
