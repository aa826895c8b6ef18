package core

// Event represents a game event
type Event struct {
	Type  EventType
	Tick  uint64
	Pos   Vec2    // where it happened, if anywhere
	Value float64 // damage dealt, population, etc.
}

type EventType uint16

const (
	EvtShipHit EventType = iota
	EvtShipDestroyed
	EvtPlanetStruck
	EvtMeteorDestroyed
	EvtProjectileFired
	EvtOverpopulationWarning
	EvtOverpopulation
	EvtEveryoneDead
	EvtVictory
	EvtRestart
)

// EventBus dispatches events to listeners. Systems only Emit; the host
// calls Dispatch between ticks so side effects never run mid-tick.
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch processes all queued events
func (eb *EventBus) Dispatch() {
	for _, e := range eb.queue {
		if handlers, ok := eb.listeners[e.Type]; ok {
			for _, h := range handlers {
				h(e)
			}
		}
	}
	eb.queue = eb.queue[:0]
}
