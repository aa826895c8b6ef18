package sim

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
	"github.com/gajop/pinkskins/engine/systems"
)

// Simulation owns one game: the entity store, the game state, the single
// seeded random source and the ordered systems that advance them
type Simulation struct {
	tuning *config.Tuning
	seed   int64
	rng    *rand.Rand
	logger *zap.Logger
	bus    *core.EventBus

	factory *systems.Factory
	world   *core.World
	state   *core.GameState
	control *systems.ControlSystem
	round   int
}

// Option configures a Simulation
type Option func(*Simulation)

// WithSeed fixes the random source; equal seeds and equal intents give
// equal games
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.seed = seed }
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithEventBus routes simulation events to bus
func WithEventBus(bus *core.EventBus) Option {
	return func(s *Simulation) { s.bus = bus }
}

// New creates a simulation and seeds the first round
func New(t *config.Tuning, opts ...Option) *Simulation {
	s := &Simulation{
		tuning: t,
		seed:   1,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = core.NewEventBus()
	}
	s.rng = rand.New(rand.NewPCG(uint64(s.seed), uint64(s.seed)^0x9e3779b97f4a7c15))
	s.factory = &systems.Factory{Tuning: t}
	s.state = core.NewGameState(t.InitialPopulation, t.ShipHealth)
	s.reset()
	return s
}

// reset builds a fresh store and the systems bound to it
func (s *Simulation) reset() {
	t := s.tuning
	s.round++
	s.world = core.NewWorld(t.TickRate)
	s.state.Reset(t.InitialPopulation, t.ShipHealth)

	stars := seedBackground(s.world, s.factory, s.rng)
	s.factory.SpawnPlanet(s.world)
	s.factory.SpawnShip(s.world)

	s.control = &systems.ControlSystem{Tuning: t, Factory: s.factory, EventBus: s.bus}
	resolver := &systems.Resolver{Tuning: t, Factory: s.factory, Rand: s.rng}

	s.world.AddSystem(s.control)
	s.world.AddSystem(&systems.MovementSystem{})
	s.world.AddSystem(&systems.DecaySystem{Tuning: t})
	s.world.AddSystem(&systems.CollisionSystem{Resolver: resolver, State: s.state, EventBus: s.bus})
	s.world.AddSystem(systems.NewSpawnSystem(t, s.factory, s.state, s.rng))
	s.world.AddSystem(&systems.OutcomeSystem{Tuning: t, Factory: s.factory, State: s.state, EventBus: s.bus, Logger: s.logger})

	s.logger.Info("round started",
		zap.Int("round", s.round),
		zap.Int64("seed", s.seed),
		zap.Int("stars", stars),
		zap.Float64("population", s.state.Population),
	)
}

// Tick advances the game one fixed step. A restart request is honored
// only once the round is over, and replaces the step.
func (s *Simulation) Tick(in core.Intents) {
	if in.Restart && s.state.Outcome.Terminal() {
		s.Restart()
		return
	}
	s.control.Intents = in
	s.world.Tick(s.tuning.TickSeconds())
}

// Restart discards the round and seeds a new one
func (s *Simulation) Restart() {
	prev := s.state.Outcome
	s.reset()
	s.bus.Emit(core.Event{Type: core.EvtRestart})
	s.logger.Info("round restarted", zap.Stringer("previous", prev))
}

// State returns a copy of the game state
func (s *Simulation) State() core.GameState { return *s.state }

// World exposes the live store
func (s *Simulation) World() *core.World { return s.world }

// Factory exposes the entity builders bound to this simulation's tuning
func (s *Simulation) Factory() *systems.Factory { return s.factory }

// EventBus returns the bus events are emitted on
func (s *Simulation) EventBus() *core.EventBus { return s.bus }

// Seed returns the seed the random source was built from
func (s *Simulation) Seed() int64 { return s.seed }

// Round counts rounds started, the first one included
func (s *Simulation) Round() int { return s.round }
