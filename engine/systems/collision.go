package systems

import (
	"github.com/gajop/pinkskins/engine/core"
)

// Pair is an unordered colliding pair, stored with A < B
type Pair struct {
	A, B core.EntityID
}

// Detect returns every pair of collidable circles that overlap. Each
// unordered pair appears once. Full O(n²) scan; live counts stay in the
// low hundreds.
func Detect(w *core.World) []Pair {
	var bodies []*core.Entity
	w.Each(func(e *core.Entity) {
		if e.Collidable && e.Circle() != nil {
			bodies = append(bodies, e)
		}
	})

	var pairs []Pair
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if Overlaps(bodies[i], bodies[j]) {
				pairs = append(pairs, Pair{A: bodies[i].ID, B: bodies[j].ID})
			}
		}
	}
	return pairs
}

// Overlaps tests two circles: center distance minus summed radii <= 0.
// Non-circular shapes never overlap.
func Overlaps(a, b *core.Entity) bool {
	ca, cb := a.Circle(), b.Circle()
	if ca == nil || cb == nil {
		return false
	}
	return a.Transform.Pos.DistanceTo(b.Transform.Pos)-(ca.Radius+cb.Radius) <= 0
}
