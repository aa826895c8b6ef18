package core

import (
	"fmt"
	"sort"
)

// EntityID is a unique identifier for game entities. Zero means no entity.
type EntityID uint64

// System processes entities each tick
type System interface {
	Update(w *World, dt float64)
	Priority() int
}

// World is the entity store. It owns every simulated object keyed by id
// and tracks the craft and planet singletons by back-reference.
type World struct {
	entities map[EntityID]*Entity
	order    []EntityID // ascending, ids are handed out monotonically
	nextID   EntityID

	ship   EntityID
	planet EntityID

	systems  []System
	toRemove map[EntityID]struct{}
	toSpawn  []*Entity

	TickCount uint64
	TickRate  float64 // ticks per second
}

// NewWorld creates an empty entity store
func NewWorld(tickRate float64) *World {
	return &World{
		entities: make(map[EntityID]*Entity),
		toRemove: make(map[EntityID]struct{}),
		TickRate: tickRate,
	}
}

// Create assigns the next id to e and inserts it
func (w *World) Create(e *Entity) EntityID {
	w.nextID++
	e.ID = w.nextID
	w.entities[e.ID] = e
	w.order = append(w.order, e.ID)
	return e.ID
}

// Get returns a copy of the entity
func (w *World) Get(id EntityID) (Entity, error) {
	e, ok := w.entities[id]
	if !ok {
		return Entity{}, fmt.Errorf("entity %d: %w", id, ErrNotFound)
	}
	return *e, nil
}

// GetMut returns the stored entity for in-place mutation
func (w *World) GetMut(id EntityID) (*Entity, error) {
	e, ok := w.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %d: %w", id, ErrNotFound)
	}
	return e, nil
}

// Has checks if an entity is alive
func (w *World) Has(id EntityID) bool {
	_, ok := w.entities[id]
	return ok
}

// Remove deletes an entity immediately and clears any singleton
// reference that points at it. Returns false if it was not alive.
func (w *World) Remove(id EntityID) bool {
	if _, ok := w.entities[id]; !ok {
		return false
	}
	delete(w.entities, id)
	i := sort.Search(len(w.order), func(i int) bool { return w.order[i] >= id })
	if i < len(w.order) && w.order[i] == id {
		w.order = append(w.order[:i], w.order[i+1:]...)
	}
	if w.ship == id {
		w.ship = 0
	}
	if w.planet == id {
		w.planet = 0
	}
	return true
}

// Destroy marks an entity for removal at the next flush.
// Marking the same id twice removes it once.
func (w *World) Destroy(id EntityID) {
	w.toRemove[id] = struct{}{}
}

// Queue schedules an entity for creation at the next flush
func (w *World) Queue(e *Entity) {
	w.toSpawn = append(w.toSpawn, e)
}

// Flush applies pending changes: every marked entity is removed first,
// then every queued entity is created.
func (w *World) Flush() (removed int, created []EntityID) {
	if len(w.toRemove) > 0 {
		ids := make([]EntityID, 0, len(w.toRemove))
		for id := range w.toRemove {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			if w.Remove(id) {
				removed++
			}
		}
		clear(w.toRemove)
	}
	for _, e := range w.toSpawn {
		created = append(created, w.Create(e))
	}
	w.toSpawn = w.toSpawn[:0]
	return removed, created
}

// Each calls fn for every live entity in id order. Entities removed
// while iterating are skipped.
func (w *World) Each(fn func(e *Entity)) {
	ids := make([]EntityID, len(w.order))
	copy(ids, w.order)
	for _, id := range ids {
		if e, ok := w.entities[id]; ok {
			fn(e)
		}
	}
}

// Query returns all entity IDs of the given kinds, or every id when
// no kind is passed
func (w *World) Query(kinds ...Kind) []EntityID {
	var result []EntityID
	for _, id := range w.order {
		if len(kinds) == 0 {
			result = append(result, id)
			continue
		}
		k := w.entities[id].Kind
		for _, want := range kinds {
			if k == want {
				result = append(result, id)
				break
			}
		}
	}
	return result
}

// SetShip designates the player craft
func (w *World) SetShip(id EntityID) { w.ship = id }

// Ship returns the player craft id if one is alive
func (w *World) Ship() (EntityID, bool) { return w.ship, w.ship != 0 }

// SetPlanet designates the planet
func (w *World) SetPlanet(id EntityID) { w.planet = id }

// Planet returns the planet id if one is alive
func (w *World) Planet() (EntityID, bool) { return w.planet, w.planet != 0 }

// AddSystem registers a system
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	// Sort by priority (simple insertion)
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i].Priority() < w.systems[i-1].Priority() {
			w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
		}
	}
}

// Tick runs all systems once. Pending changes are flushed after each
// system so the next stage sees a consistent store.
func (w *World) Tick(dt float64) {
	for _, s := range w.systems {
		s.Update(w, dt)
		w.Flush()
	}
	w.TickCount++
}

// Elapsed returns logical time in seconds
func (w *World) Elapsed() float64 {
	if w.TickRate <= 0 {
		return 0
	}
	return float64(w.TickCount) / w.TickRate
}

// EntityCount returns the number of alive entities
func (w *World) EntityCount() int {
	return len(w.entities)
}
