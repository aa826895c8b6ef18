package systems

import (
	"math/rand/v2"

	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
)

type edge uint8

const (
	edgeUp edge = iota
	edgeDown
	edgeLeft
	edgeRight
)

// SpawnSystem releases meteors from the screen edges on a deadline that
// tightens as victory progress grows. After a stall it catches up by
// spawning every meteor that came due instead of dropping them.
type SpawnSystem struct {
	Tuning  *config.Tuning
	Factory *Factory
	State   *core.GameState
	Rand    *rand.Rand

	NextSpawn float64 // logical seconds
}

// NewSpawnSystem schedules the first meteor one interval in
func NewSpawnSystem(t *config.Tuning, f *Factory, st *core.GameState, rng *rand.Rand) *SpawnSystem {
	s := &SpawnSystem{Tuning: t, Factory: f, State: st, Rand: rng}
	s.NextSpawn = s.Interval()
	return s
}

func (s *SpawnSystem) Priority() int { return 30 }

func (s *SpawnSystem) Update(w *core.World, _ float64) {
	if s.State.Outcome.Terminal() {
		return
	}
	now := w.Elapsed()
	for now >= s.NextSpawn {
		w.Queue(s.NewMeteor())
		s.NextSpawn += s.Interval()
	}
}

// Difficulty grows linearly with victory progress
func (s *SpawnSystem) Difficulty() float64 {
	return 1 + s.State.Progress*s.Tuning.DifficultyScale
}

// Interval is the current time between spawns in seconds
func (s *SpawnSystem) Interval() float64 {
	return s.Tuning.SpawnInterval / s.Difficulty()
}

// NewMeteor builds a meteor just outside a random edge, heading inward
func (s *SpawnSystem) NewMeteor() *core.Entity {
	t := s.Tuning
	d := s.Difficulty()
	radius := s.uniform(t.MeteorMinRadius, t.MeteorMaxRadius) * d
	along := s.Rand.Float64()

	var pos, vel core.Vec2
	switch edge(s.Rand.IntN(4)) {
	case edgeUp:
		pos = core.Vec2{X: along, Y: -radius}
		vel = core.Vec2{X: s.sign() * s.speed(), Y: s.speed()}
	case edgeDown:
		pos = core.Vec2{X: along, Y: 1 + radius}
		vel = core.Vec2{X: s.sign() * s.speed(), Y: -s.speed()}
	case edgeLeft:
		pos = core.Vec2{X: -radius, Y: along}
		vel = core.Vec2{X: s.speed(), Y: s.sign() * s.speed()}
	case edgeRight:
		pos = core.Vec2{X: 1 + radius, Y: along}
		vel = core.Vec2{X: -s.speed(), Y: s.sign() * s.speed()}
	}
	return s.Factory.Meteor(pos, vel, radius)
}

func (s *SpawnSystem) uniform(lo, hi float64) float64 {
	return lo + s.Rand.Float64()*(hi-lo)
}

func (s *SpawnSystem) speed() float64 {
	return s.uniform(s.Tuning.MeteorMinSpeed, s.Tuning.MeteorMaxSpeed)
}

func (s *SpawnSystem) sign() float64 {
	if s.Rand.IntN(2) == 0 {
		return -1
	}
	return 1
}
