package systems

import (
	"fmt"
	"math/rand/v2"

	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
)

// ShipDamage is the hull damage of a meteor impact, proportional to its area
func ShipDamage(t *config.Tuning, radius float64) float64 {
	return radius * radius * t.ShipDamageScale
}

// PlanetDamage is the population lost to a meteor impact. Scales like
// ShipDamage with a larger constant.
func PlanetDamage(t *config.Tuning, radius float64) float64 {
	return radius * radius * t.PlanetDamageScale
}

// Batch accumulates the effects of one tick's collisions. Nothing touches
// the world until the batch is applied.
type Batch struct {
	ShipDamage       float64
	PopulationDamage float64
	Destroy          map[core.EntityID]struct{}
	Spawned          []*core.Entity
	Events           []core.Event
}

func newBatch() *Batch {
	return &Batch{Destroy: make(map[core.EntityID]struct{})}
}

// destroy marks id and reports whether it was newly marked
func (b *Batch) destroy(id core.EntityID) bool {
	if _, ok := b.Destroy[id]; ok {
		return false
	}
	b.Destroy[id] = struct{}{}
	return true
}

func (b *Batch) emit(t core.EventType, pos core.Vec2, v float64) {
	b.Events = append(b.Events, core.Event{Type: t, Pos: pos, Value: v})
}

// Resolver turns colliding pairs into a Batch
type Resolver struct {
	Tuning  *config.Tuning
	Factory *Factory
	Rand    *rand.Rand
}

// Resolve dispatches every pair on its kinds. Destruction is
// deduplicated and damage is additive, so pair order only changes which
// random numbers each split consumes.
func (r *Resolver) Resolve(w *core.World, pairs []Pair) (*Batch, error) {
	b := newBatch()
	for _, p := range pairs {
		a, err := w.GetMut(p.A)
		if err != nil {
			return nil, fmt.Errorf("resolve pair %d-%d: %w", p.A, p.B, err)
		}
		c, err := w.GetMut(p.B)
		if err != nil {
			return nil, fmt.Errorf("resolve pair %d-%d: %w", p.A, p.B, err)
		}
		r.resolvePair(b, a, c)
	}
	return b, nil
}

func (r *Resolver) resolvePair(b *Batch, a, c *core.Entity) {
	// Order the pair by kind so each rule is matched once
	if a.Kind > c.Kind {
		a, c = c, a
	}
	t := r.Tuning

	switch {
	case a.Kind == core.KindShip && c.Kind == core.KindPlanet:
		b.ShipDamage += t.ShipPlanetDamage
		b.emit(core.EvtShipHit, a.Transform.Pos, t.ShipPlanetDamage)

	case a.Kind == core.KindShip && c.Kind == core.KindMeteor:
		dmg := ShipDamage(t, c.Radius())
		b.ShipDamage += dmg
		b.emit(core.EvtShipHit, c.Transform.Pos, dmg)
		r.destroyMeteor(b, c)

	case a.Kind == core.KindPlanet && c.Kind == core.KindMeteor:
		dmg := PlanetDamage(t, c.Radius())
		b.PopulationDamage += dmg
		b.emit(core.EvtPlanetStruck, c.Transform.Pos, dmg)
		b.Spawned = append(b.Spawned, r.Factory.Text(c.Transform.Pos, fmt.Sprintf("-%.0f", dmg), t.DamageTextTTL, DamageColor))
		r.destroyMeteor(b, c)

	case a.Kind == core.KindPlanet && c.Kind == core.KindProjectile:
		b.destroy(c.ID)

	case a.Kind == core.KindMeteor && c.Kind == core.KindProjectile:
		r.destroyMeteor(b, a)
		b.destroy(c.ID)
		ratio := t.SplitMinRatio + r.Rand.Float64()*(t.SplitMaxRatio-t.SplitMinRatio)
		if child := r.splitChild(a, ratio); r.childAllowed(child) {
			b.Spawned = append(b.Spawned, child)
		}

	case a.Kind == core.KindMeteor && c.Kind == core.KindMeteor:
		r.destroyMeteor(b, a)
		r.destroyMeteor(b, c)
		first, second := r.mergeChildren(a, c)
		// Only the first child is checked; the second always spawns
		if r.childAllowed(first) {
			b.Spawned = append(b.Spawned, first)
		}
		b.Spawned = append(b.Spawned, second)
	}
}

func (r *Resolver) destroyMeteor(b *Batch, m *core.Entity) {
	if b.destroy(m.ID) {
		b.emit(core.EvtMeteorDestroyed, m.Transform.Pos, m.Radius())
	}
}

// splitChild builds the fragment left when a projectile breaks a meteor.
// Velocity components are swapped and scaled by the inverse ratio, then
// capped.
func (r *Resolver) splitChild(parent *core.Entity, ratio float64) *core.Entity {
	v := parent.Transform.Vel
	vel := core.Vec2{X: v.Y, Y: v.X}.Scale(1 / ratio).ClampAbs(r.Tuning.MaxMeteorSpeed)
	return r.Factory.Meteor(parent.Transform.Pos, vel, parent.Radius()*ratio)
}

// mergeChildren builds one fragment per parent after two meteors collide.
// Each fragment takes the other parent's velocity weighted by the mixing
// ratio and recoils from its own.
func (r *Resolver) mergeChildren(a, c *core.Entity) (*core.Entity, *core.Entity) {
	t := r.Tuning
	ra, rc := a.Radius(), c.Radius()
	ma := 0.5
	if sum := ra + rc; sum > 0 {
		ma = ra / sum
	}
	mc := 1 - ma
	va, vc := a.Transform.Vel, c.Transform.Vel

	velA := vc.Scale(1 - ma).Sub(va.Scale(ma)).Scale(1 / t.MergeRatio).ClampAbs(t.MaxMeteorSpeed)
	velC := va.Scale(1 - mc).Sub(vc.Scale(mc)).Scale(1 / t.MergeRatio).ClampAbs(t.MaxMeteorSpeed)

	first := r.Factory.Meteor(a.Transform.Pos, velA, ra*t.MergeRatio)
	second := r.Factory.Meteor(c.Transform.Pos, velC, rc*t.MergeRatio)
	return first, second
}

// childAllowed rejects fragments that would vanish at once or sit in the
// border band, where they would wrap straight back into play
func (r *Resolver) childAllowed(child *core.Entity) bool {
	t := r.Tuning
	if child.Radius() < t.MeteorDestroyRadius {
		return false
	}
	p := child.Transform.Pos
	lo, hi := t.BorderMargin, 1-t.BorderMargin
	return p.X >= lo && p.X <= hi && p.Y >= lo && p.Y <= hi
}

// CollisionSystem detects overlaps, resolves them and applies the batch:
// marked entities are removed first, then fragments and texts are created
// when the world flushes. Damage goes straight into the game state.
type CollisionSystem struct {
	Resolver *Resolver
	State    *core.GameState
	EventBus *core.EventBus
}

func (s *CollisionSystem) Priority() int { return 20 }

func (s *CollisionSystem) Update(w *core.World, _ float64) {
	pairs := Detect(w)
	if len(pairs) == 0 {
		return
	}
	b, err := s.Resolver.Resolve(w, pairs)
	if err != nil {
		// Pairs come from the live store a moment earlier; a miss means
		// the store is corrupt and the tick cannot continue
		panic(err)
	}
	s.Apply(w, b)
}

// Apply hands the batch to the world and the game state
func (s *CollisionSystem) Apply(w *core.World, b *Batch) {
	for id := range b.Destroy {
		w.Destroy(id)
	}
	for _, e := range b.Spawned {
		w.Queue(e)
	}
	s.State.ApplyShipDamage(b.ShipDamage)
	s.State.ApplyPopulationDamage(b.PopulationDamage)

	if s.EventBus == nil {
		return
	}
	for _, e := range b.Events {
		e.Tick = w.TickCount
		s.EventBus.Emit(e)
	}
}
