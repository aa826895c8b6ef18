package sim

import "github.com/gajop/pinkskins/engine/core"

// Snapshot is a copy of everything a renderer needs after a tick
type Snapshot struct {
	Tick     uint64
	State    core.GameState
	Entities []core.Entity
}

// Snapshot copies the current round out of the simulation
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:     s.world.TickCount,
		State:    *s.state,
		Entities: make([]core.Entity, 0, s.world.EntityCount()),
	}
	s.world.Each(func(e *core.Entity) {
		c := *e
		switch sh := e.Shape.(type) {
		case *core.Circle:
			cp := *sh
			c.Shape = &cp
		case *core.Text:
			cp := *sh
			c.Shape = &cp
		}
		snap.Entities = append(snap.Entities, c)
	})
	return snap
}
