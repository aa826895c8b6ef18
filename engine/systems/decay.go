package systems

import (
	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
)

// DecaySystem counts down time-to-live and shrinks meteors. Expired
// entities and meteors under the destroy radius are removed when the
// world flushes after this system.
type DecaySystem struct {
	Tuning *config.Tuning
}

func (s *DecaySystem) Priority() int { return 15 }

func (s *DecaySystem) Update(w *core.World, _ float64) {
	w.Each(func(e *core.Entity) {
		if e.Expires {
			e.TTL--
			if e.TTL <= 0 {
				w.Destroy(e.ID)
				return
			}
		}
		if e.Kind != core.KindMeteor {
			return
		}
		c := e.Circle()
		if c == nil {
			return
		}
		c.Radius -= s.Tuning.MeteorDecay
		if c.Radius < s.Tuning.MeteorDestroyRadius {
			w.Destroy(e.ID)
		}
	})
}
