package systems

import (
	"math"

	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
)

// ControlSystem applies the tick's intents to the player craft: it shapes
// acceleration from the held directions and fires while shoot is held
type ControlSystem struct {
	Tuning   *config.Tuning
	Factory  *Factory
	EventBus *core.EventBus
	Intents  core.Intents

	cooldown int
}

func (s *ControlSystem) Priority() int { return 5 }

func (s *ControlSystem) Update(w *core.World, _ float64) {
	if s.cooldown > 0 {
		s.cooldown--
	}

	id, ok := w.Ship()
	if !ok {
		return
	}
	ship, err := w.GetMut(id)
	if err != nil {
		return
	}

	dx, dy := s.Intents.Direction()
	acc := &ship.Transform.Acc
	acc.X = Steer(acc.X, dx, s.Tuning.AccelStep, s.Tuning.MaxAccel)
	acc.Y = Steer(acc.Y, dy, s.Tuning.AccelStep, s.Tuning.MaxAccel)

	if s.Intents.Shoot && s.cooldown == 0 {
		if pos, ok := FireProjectile(w, s.Factory, ship, s.Intents.Aim); ok {
			s.cooldown = s.Tuning.ShotCooldownTicks
			if s.EventBus != nil {
				s.EventBus.Emit(core.Event{Type: core.EvtProjectileFired, Tick: w.TickCount, Pos: pos})
			}
		}
	}
}

// Steer nudges one acceleration axis toward the commanded direction by
// step, or toward zero by step when dir is 0 without crossing it, then
// clamps the magnitude to limit
func Steer(acc, dir, step, limit float64) float64 {
	switch {
	case dir != 0:
		acc += dir * step
	case acc > 0:
		acc = math.Max(0, acc-step)
	case acc < 0:
		acc = math.Min(0, acc+step)
	}
	return math.Max(-limit, math.Min(limit, acc))
}
