package systems

import (
	"go.uber.org/zap"

	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
)

// OutcomeSystem grows the population, advances victory progress and
// decides when the round is over. It runs after collisions so the tick's
// damage is already in the state.
type OutcomeSystem struct {
	Tuning   *config.Tuning
	Factory  *Factory
	State    *core.GameState
	EventBus *core.EventBus
	Logger   *zap.Logger
}

func (s *OutcomeSystem) Priority() int { return 40 }

func (s *OutcomeSystem) Update(w *core.World, _ float64) {
	st := s.State
	if st.Outcome.Terminal() {
		return
	}

	st.Population *= s.Tuning.GrowthFactor
	st.Progress += s.Tuning.ProgressPerTick()
	st.Clamp()

	s.warn(w)

	switch {
	case st.Population <= 0:
		s.finish(w, core.OutcomeEveryoneDead, core.EvtEveryoneDead, s.Tuning.PlanetPos)
	case st.Health <= 0:
		pos := core.Vec2{}
		if id, ok := w.Ship(); ok {
			if ship, err := w.Get(id); err == nil {
				pos = ship.Transform.Pos
			}
			w.Remove(id)
		}
		s.finish(w, core.OutcomeShipDestroyed, core.EvtShipDestroyed, pos)
	case st.Population >= s.Tuning.OverPopulationLimit:
		s.finish(w, core.OutcomeOverPopulation, core.EvtOverpopulation, s.Tuning.PlanetPos)
	case st.Progress >= 1:
		s.finish(w, core.OutcomeVictory, core.EvtVictory, s.Tuning.PlanetPos)
	}
}

func (s *OutcomeSystem) finish(w *core.World, o core.Outcome, evt core.EventType, pos core.Vec2) {
	if !s.State.Finish(o) {
		return
	}
	if s.EventBus != nil {
		s.EventBus.Emit(core.Event{Type: evt, Tick: w.TickCount, Pos: pos, Value: s.State.Population})
	}
	if s.Logger != nil {
		s.Logger.Info("round over",
			zap.Stringer("outcome", o),
			zap.Uint64("tick", w.TickCount),
			zap.Float64("population", s.State.Population),
			zap.Float64("health", s.State.Health),
			zap.Float64("progress", s.State.Progress),
		)
	}
}

// warn raises the overpopulation warning while population is above the
// threshold. The first warning of a round fires at once, later ones wait
// out the interval since the previous one, even across dips below the
// threshold.
func (s *OutcomeSystem) warn(w *core.World) {
	st := s.State
	if st.Population <= s.Tuning.WarningThreshold {
		return
	}
	if st.Warned && w.TickCount-st.LastWarningTick < uint64(s.Tuning.WarningIntervalTick) {
		return
	}
	st.Warned = true
	st.LastWarningTick = w.TickCount

	pos := s.Tuning.PlanetPos.Sub(core.Vec2{X: 0.15, Y: s.Tuning.PlanetRadius + 0.05})
	w.Queue(s.Factory.Text(pos, "OVERPOPULATION WARNING", s.Tuning.WarningTextTTL, WarningColor))
	if s.EventBus != nil {
		s.EventBus.Emit(core.Event{Type: core.EvtOverpopulationWarning, Tick: w.TickCount, Value: st.Population})
	}
	if s.Logger != nil {
		s.Logger.Warn("overpopulation warning", zap.Float64("population", st.Population))
	}
}
