package battle

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Recorder keeps every event of a run, for replay and comparison.
type Recorder struct {
	events []combat.Event
}

// Observe appends e.
func (r *Recorder) Observe(e combat.Event) { r.events = append(r.events, e) }

// Events returns the recorded events in order.
func (r *Recorder) Events() []combat.Event { return r.events }

// Lines returns one String line per recorded event.
func (r *Recorder) Lines() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.String()
	}
	return out
}

// LoggedObserver logs every event at debug level.
type LoggedObserver struct {
	logger *zap.Logger
	params Params
}

// NewLoggedObserver creates a LoggedObserver naming factions after params.
//
// Precondition: logger must be non-nil.
func NewLoggedObserver(logger *zap.Logger, params Params) *LoggedObserver {
	return &LoggedObserver{logger: logger, params: params}
}

// Observe logs e.
func (o *LoggedObserver) Observe(e combat.Event) {
	if ce := o.logger.Check(zap.DebugLevel, e.Type.String()); ce != nil {
		fields := []zap.Field{zap.Int("round", e.Round)}
		switch e.Type {
		case combat.EventMove:
			fields = append(fields,
				zap.Int("unit", e.UnitID),
				zap.String("faction", o.params.Faction(e.Faction).Name),
				zap.Stringer("from", e.From),
				zap.Stringer("to", e.To),
			)
		case combat.EventAttack:
			fields = append(fields,
				zap.Int("unit", e.UnitID),
				zap.String("faction", o.params.Faction(e.Faction).Name),
				zap.Int("target", e.Attack.TargetID),
				zap.Stringer("target_pos", e.Attack.TargetPos),
				zap.Int("damage", e.Attack.Damage),
				zap.Int("remaining", e.Attack.Remaining),
				zap.Bool("killed", e.Attack.Killed),
			)
		case combat.EventTerminated:
			fields = append(fields,
				zap.Int("unit", e.UnitID),
				zap.String("faction", o.params.Faction(e.Faction).Name),
			)
		}
		ce.Write(fields...)
	}
}
