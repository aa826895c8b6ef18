package systems

import (
	"github.com/gajop/pinkskins/engine/core"
)

// wrapMarginFactor scales a circle's radius into the off-screen band an
// entity may travel through before it wraps
const wrapMarginFactor = 1.1

// MovementSystem integrates every entity one fixed tick
type MovementSystem struct{}

func (s *MovementSystem) Priority() int { return 10 }

func (s *MovementSystem) Update(w *core.World, _ float64) {
	w.Each(Integrate)
}

// Integrate advances velocity from acceleration, position from velocity,
// then wraps the entity around the screen edges
func Integrate(e *core.Entity) {
	t := &e.Transform
	t.Vel = t.Vel.Add(t.Acc)
	if e.MaxSpeed > 0 {
		t.Vel = t.Vel.ClampAbs(e.MaxSpeed)
	}
	t.Pos = t.Pos.Add(t.Vel)
	Wrap(e)
}

// Wrap moves an entity that left [-margin, 1+margin] to just inside the
// opposite edge. The result is always inside the band, so wrapping the
// same entity again is a no-op.
func Wrap(e *core.Entity) {
	size := e.Radius()
	margin := size * wrapMarginFactor
	e.Transform.Pos.X = wrapAxis(e.Transform.Pos.X, size, margin)
	e.Transform.Pos.Y = wrapAxis(e.Transform.Pos.Y, size, margin)
}

func wrapAxis(p, size, margin float64) float64 {
	switch {
	case p > 1+margin:
		return -size
	case p < -margin:
		return 1 + size
	}
	return p
}
