package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
)

type fixture struct {
	tuning  *config.Tuning
	factory *Factory
	world   *core.World
	state   *core.GameState
	bus     *core.EventBus
	rng     *rand.Rand
}

func newFixture() *fixture {
	t := config.Default()
	t.GrowthFactor = 1
	t.MeteorDecay = 0
	return &fixture{
		tuning:  t,
		factory: &Factory{Tuning: t},
		world:   core.NewWorld(t.TickRate),
		state:   core.NewGameState(t.InitialPopulation, t.ShipHealth),
		bus:     core.NewEventBus(),
		rng:     rand.New(rand.NewPCG(1, 2)),
	}
}

func (f *fixture) resolver() *Resolver {
	return &Resolver{Tuning: f.tuning, Factory: f.factory, Rand: f.rng}
}

func (f *fixture) events() []core.Event {
	var got []core.Event
	for t := core.EvtShipHit; t <= core.EvtRestart; t++ {
		f.bus.On(t, func(e core.Event) { got = append(got, e) })
	}
	f.bus.Dispatch()
	return got
}

func kinds(evts []core.Event) []core.EventType {
	out := make([]core.EventType, len(evts))
	for i, e := range evts {
		out[i] = e.Type
	}
	return out
}

func (f *fixture) meteors() []core.Entity {
	var out []core.Entity
	for _, id := range f.world.Query(core.KindMeteor) {
		e, _ := f.world.Get(id)
		out = append(out, e)
	}
	return out
}

// ---- movement ----

func TestWrap_MovesToOppositeEdgeAndIsIdempotent(t *testing.T) {
	f := newFixture()
	e := f.factory.Meteor(core.Vec2{X: 1.2, Y: -0.2}, core.Vec2{}, 0.01)

	Wrap(e)
	assert.InDelta(t, -0.01, e.Transform.Pos.X, 1e-12)
	assert.InDelta(t, 1.01, e.Transform.Pos.Y, 1e-12)

	before := e.Transform.Pos
	Wrap(e)
	assert.Equal(t, before, e.Transform.Pos)
}

func TestWrap_LeavesEntitiesInsideTheBand(t *testing.T) {
	f := newFixture()
	e := f.factory.Meteor(core.Vec2{X: 1.005, Y: -0.005}, core.Vec2{}, 0.01)
	Wrap(e)
	assert.Equal(t, core.Vec2{X: 1.005, Y: -0.005}, e.Transform.Pos)
}

func TestIntegrate_ClampsCraftSpeed(t *testing.T) {
	f := newFixture()
	ship := f.factory.Ship(core.Vec2{X: 0.5, Y: 0.5})
	ship.Transform.Vel = core.Vec2{X: f.tuning.MaxShipSpeed}
	ship.Transform.Acc = core.Vec2{X: 0.001, Y: 0.001}

	Integrate(ship)
	assert.Equal(t, f.tuning.MaxShipSpeed, ship.Transform.Vel.X)
	assert.Equal(t, 0.001, ship.Transform.Vel.Y)
	assert.InDelta(t, 0.5+f.tuning.MaxShipSpeed, ship.Transform.Pos.X, 1e-12)
}

func TestSteer(t *testing.T) {
	assert.InDelta(t, 0.3, Steer(0.2, 1, 0.1, 1), 1e-12)
	assert.Equal(t, 1.0, Steer(0.95, 1, 0.1, 1), "clamped to the limit")
	assert.Equal(t, 0.0, Steer(0.05, 0, 0.1, 1), "decays toward zero without crossing it")
	assert.Equal(t, 0.0, Steer(-0.05, 0, 0.1, 1))
	assert.InDelta(t, -0.1, Steer(0, -1, 0.1, 1), 1e-12)
}

// ---- control ----

func TestControl_AcceleratesAndFires(t *testing.T) {
	f := newFixture()
	id := f.factory.SpawnShip(f.world)
	ctl := &ControlSystem{Tuning: f.tuning, Factory: f.factory, EventBus: f.bus}
	ctl.Intents = core.Intents{Right: true, Shoot: true, Aim: core.Vec2{X: 0.9, Y: 0.7}}

	ctl.Update(f.world, 0)
	f.world.Flush()

	ship, err := f.world.Get(id)
	require.NoError(t, err)
	assert.Equal(t, f.tuning.AccelStep, ship.Transform.Acc.X)
	assert.Zero(t, ship.Transform.Acc.Y)

	shots := f.world.Query(core.KindProjectile)
	require.Len(t, shots, 1)
	shot, _ := f.world.Get(shots[0])
	assert.InDelta(t, f.tuning.ProjectileSpeed, shot.Transform.Vel.X, 1e-12)
	assert.InDelta(t, 0, shot.Transform.Vel.Y, 1e-12)
	assert.Greater(t, shot.Transform.Pos.X, ship.Transform.Pos.X+ship.Radius(), "shot spawns clear of the hull")

	// Cooldown holds the next shot back
	ctl.Update(f.world, 0)
	f.world.Flush()
	assert.Len(t, f.world.Query(core.KindProjectile), 1)
	assert.Equal(t, []core.EventType{core.EvtProjectileFired}, kinds(f.events()))
}

func TestFireProjectile_AimOnShooterFiresNothing(t *testing.T) {
	f := newFixture()
	ship := f.factory.Ship(core.Vec2{X: 0.5, Y: 0.5})
	_, ok := FireProjectile(f.world, f.factory, ship, ship.Transform.Pos)
	assert.False(t, ok)
}

// ---- decay ----

func TestDecay_ExpiresAndShrinks(t *testing.T) {
	f := newFixture()
	f.tuning.MeteorDecay = 0.001
	shot := f.world.Create(f.factory.Projectile(core.Vec2{X: 0.5, Y: 0.5}, core.Vec2{}))
	tiny := f.world.Create(f.factory.Meteor(core.Vec2{X: 0.2, Y: 0.2}, core.Vec2{}, f.tuning.MeteorDestroyRadius+0.0005))
	big := f.world.Create(f.factory.Meteor(core.Vec2{X: 0.8, Y: 0.8}, core.Vec2{}, 0.02))
	planet := f.factory.SpawnPlanet(f.world)

	e, _ := f.world.GetMut(shot)
	e.TTL = 1

	(&DecaySystem{Tuning: f.tuning}).Update(f.world, 0)
	f.world.Flush()

	assert.False(t, f.world.Has(shot))
	assert.False(t, f.world.Has(tiny))
	assert.True(t, f.world.Has(planet), "non-expiring entities stay")
	m, err := f.world.Get(big)
	require.NoError(t, err)
	assert.InDelta(t, 0.019, m.Radius(), 1e-12)
}

// ---- detection ----

func TestDetect_FindsEachOverlapOnce(t *testing.T) {
	f := newFixture()
	a := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.2, Y: 0.2}, core.Vec2{}, 0.01)
	b := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.215, Y: 0.2}, core.Vec2{}, 0.01)
	f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.7, Y: 0.7}, core.Vec2{}, 0.01)
	f.world.Create(f.factory.Star(core.Vec2{X: 0.2, Y: 0.2}, 0.01, 1))
	f.factory.SpawnText(f.world, core.Vec2{X: 0.2, Y: 0.2}, "x", 10, DamageColor)

	assert.Equal(t, []Pair{{A: a, B: b}}, Detect(f.world))
}

func TestOverlaps_IgnoresText(t *testing.T) {
	f := newFixture()
	m := f.factory.Meteor(core.Vec2{X: 0.5, Y: 0.5}, core.Vec2{}, 0.1)
	label := f.factory.Text(core.Vec2{X: 0.5, Y: 0.5}, "x", 10, DamageColor)
	assert.False(t, Overlaps(m, label))
}

// ---- damage ----

func TestDamage_GrowsWithRadiusAndHitsThePlanetHarder(t *testing.T) {
	tu := config.Default()
	radii := []float64{
		tu.MeteorDestroyRadius, tu.MeteorMinRadius, 0.01, 0.015,
		0.02, 0.025, tu.MeteorMaxRadius, 0.05,
	}

	prevShip, prevPlanet := 0.0, 0.0
	for _, r := range radii {
		ship, planet := ShipDamage(tu, r), PlanetDamage(tu, r)
		assert.Greater(t, ship, prevShip, "ship damage at r=%g", r)
		assert.Greater(t, planet, prevPlanet, "planet damage at r=%g", r)
		assert.Greater(t, planet, ship, "r=%g", r)
		prevShip, prevPlanet = ship, planet
	}
}

// ---- resolution ----

func TestResolve_ShipPlanet(t *testing.T) {
	f := newFixture()
	ship := f.factory.SpawnShip(f.world)
	planet := f.factory.SpawnPlanet(f.world)

	b, err := f.resolver().Resolve(f.world, []Pair{{A: ship, B: planet}})
	require.NoError(t, err)
	assert.Equal(t, f.tuning.ShipPlanetDamage, b.ShipDamage)
	assert.Empty(t, b.Destroy)
}

func TestResolve_ShipMeteor(t *testing.T) {
	f := newFixture()
	m := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.3, Y: 0.3}, core.Vec2{}, 0.01)
	ship := f.factory.SpawnShip(f.world)

	b, err := f.resolver().Resolve(f.world, []Pair{{A: m, B: ship}})
	require.NoError(t, err)
	assert.InDelta(t, 0.01*0.01*f.tuning.ShipDamageScale, b.ShipDamage, 1e-9)
	assert.Contains(t, b.Destroy, m)
	assert.Empty(t, b.Spawned)
}

func TestResolve_PlanetMeteorAddsDamageText(t *testing.T) {
	f := newFixture()
	planet := f.factory.SpawnPlanet(f.world)
	m := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.5, Y: 0.39}, core.Vec2{}, 0.02)

	b, err := f.resolver().Resolve(f.world, []Pair{{A: planet, B: m}})
	require.NoError(t, err)
	assert.InDelta(t, PlanetDamage(f.tuning, 0.02), b.PopulationDamage, 1e-9)
	assert.Contains(t, b.Destroy, m)
	require.Len(t, b.Spawned, 1)
	label, ok := b.Spawned[0].Shape.(*core.Text)
	require.True(t, ok)
	assert.Equal(t, "-300", label.Text)
	assert.False(t, b.Spawned[0].Collidable)
}

func TestResolve_PlanetProjectile(t *testing.T) {
	f := newFixture()
	planet := f.factory.SpawnPlanet(f.world)
	shot := f.factory.SpawnProjectile(f.world, core.Vec2{X: 0.5, Y: 0.4}, core.Vec2{})

	b, err := f.resolver().Resolve(f.world, []Pair{{A: planet, B: shot}})
	require.NoError(t, err)
	assert.Equal(t, map[core.EntityID]struct{}{shot: {}}, b.Destroy)
	assert.Zero(t, b.PopulationDamage)
}

func TestResolve_ProjectileSplitsMeteor(t *testing.T) {
	f := newFixture()
	m := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.5, Y: 0.3}, core.Vec2{X: 0.001, Y: 0.002}, 0.02)
	shot := f.factory.SpawnProjectile(f.world, core.Vec2{X: 0.5, Y: 0.31}, core.Vec2{})

	b, err := f.resolver().Resolve(f.world, []Pair{{A: m, B: shot}})
	require.NoError(t, err)
	assert.Contains(t, b.Destroy, m)
	assert.Contains(t, b.Destroy, shot)

	require.Len(t, b.Spawned, 1)
	child := b.Spawned[0]
	ratio := child.Radius() / 0.02
	assert.GreaterOrEqual(t, ratio, f.tuning.SplitMinRatio-1e-12)
	assert.LessOrEqual(t, ratio, f.tuning.SplitMaxRatio+1e-12)
	assert.InDelta(t, min(f.tuning.MaxMeteorSpeed, 0.002/ratio), child.Transform.Vel.X, 1e-12)
	assert.InDelta(t, min(f.tuning.MaxMeteorSpeed, 0.001/ratio), child.Transform.Vel.Y, 1e-12)
	assert.Equal(t, core.KindMeteor, child.Kind)
}

func TestResolve_SplitNearBorderSpawnsNothing(t *testing.T) {
	f := newFixture()
	m := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.02, Y: 0.5}, core.Vec2{}, 0.02)
	shot := f.factory.SpawnProjectile(f.world, core.Vec2{X: 0.02, Y: 0.5}, core.Vec2{})

	b, err := f.resolver().Resolve(f.world, []Pair{{A: m, B: shot}})
	require.NoError(t, err)
	assert.Len(t, b.Destroy, 2)
	assert.Empty(t, b.Spawned)
}

func TestResolve_MeteorsMerge(t *testing.T) {
	f := newFixture()
	a := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.3, Y: 0.5}, core.Vec2{X: 0.001}, 0.01)
	c := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.315, Y: 0.5}, core.Vec2{X: -0.001}, 0.01)

	b, err := f.resolver().Resolve(f.world, []Pair{{A: a, B: c}})
	require.NoError(t, err)
	assert.Len(t, b.Destroy, 2)
	require.Len(t, b.Spawned, 2)

	first, second := b.Spawned[0], b.Spawned[1]
	assert.InDelta(t, 0.007, first.Radius(), 1e-12)
	assert.InDelta(t, 0.007, second.Radius(), 1e-12)
	assert.InDelta(t, -0.001/0.7, first.Transform.Vel.X, 1e-12)
	assert.InDelta(t, 0.001/0.7, second.Transform.Vel.X, 1e-12)
	assert.Equal(t, core.Vec2{X: 0.3, Y: 0.5}, first.Transform.Pos)
}

func TestResolve_MergeChecksOnlyFirstChild(t *testing.T) {
	f := newFixture()
	edge := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.01, Y: 0.5}, core.Vec2{}, 0.01)
	inner := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.025, Y: 0.5}, core.Vec2{}, 0.01)

	b, err := f.resolver().Resolve(f.world, []Pair{{A: edge, B: inner}})
	require.NoError(t, err)
	require.Len(t, b.Spawned, 1, "border child is dropped, the other always spawns")
	assert.Equal(t, core.Vec2{X: 0.025, Y: 0.5}, b.Spawned[0].Transform.Pos)
}

func TestResolve_DestroysOnceAcrossPairs(t *testing.T) {
	f := newFixture()
	m := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.5, Y: 0.3}, core.Vec2{}, 0.02)
	s1 := f.factory.SpawnProjectile(f.world, core.Vec2{X: 0.49, Y: 0.3}, core.Vec2{})
	s2 := f.factory.SpawnProjectile(f.world, core.Vec2{X: 0.51, Y: 0.3}, core.Vec2{})

	b, err := f.resolver().Resolve(f.world, []Pair{{A: m, B: s1}, {A: m, B: s2}})
	require.NoError(t, err)
	assert.Len(t, b.Destroy, 3)

	destroyed := 0
	for _, e := range b.Events {
		if e.Type == core.EvtMeteorDestroyed {
			destroyed++
		}
	}
	assert.Equal(t, 1, destroyed)
}

func TestResolve_MissingEntity(t *testing.T) {
	f := newFixture()
	m := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.5, Y: 0.3}, core.Vec2{}, 0.02)
	_, err := f.resolver().Resolve(f.world, []Pair{{A: m, B: 999}})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCollisionSystem_AppliesBatch(t *testing.T) {
	f := newFixture()
	f.factory.SpawnPlanet(f.world)
	m := f.factory.SpawnMeteor(f.world, core.Vec2{X: 0.5, Y: 0.39}, core.Vec2{}, 0.02)
	sys := &CollisionSystem{Resolver: f.resolver(), State: f.state, EventBus: f.bus}

	sys.Update(f.world, 0)
	f.world.Flush()

	assert.False(t, f.world.Has(m))
	assert.InDelta(t, f.tuning.InitialPopulation-PlanetDamage(f.tuning, 0.02), f.state.Population, 1e-9)
	assert.Len(t, f.world.Query(core.KindUI), 1)
	assert.Equal(t, []core.EventType{core.EvtPlanetStruck, core.EvtMeteorDestroyed}, kinds(f.events()))
}

// ---- spawning ----

func TestSpawner_CatchesUpAfterStall(t *testing.T) {
	f := newFixture()
	f.tuning.SpawnInterval = 1
	f.tuning.DifficultyScale = 0
	s := NewSpawnSystem(f.tuning, f.factory, f.state, f.rng)
	s.NextSpawn = 0
	f.world.TickCount = 600

	s.Update(f.world, 0)
	f.world.Flush()
	assert.Len(t, f.meteors(), 11)
	assert.Equal(t, 11.0, s.NextSpawn)
}

func TestSpawner_StopsWhenRoundIsOver(t *testing.T) {
	f := newFixture()
	s := NewSpawnSystem(f.tuning, f.factory, f.state, f.rng)
	f.world.TickCount = 6000
	f.state.Finish(core.OutcomeVictory)

	s.Update(f.world, 0)
	f.world.Flush()
	assert.Empty(t, f.meteors())
}

func TestSpawner_IntervalShrinksWithProgress(t *testing.T) {
	f := newFixture()
	s := NewSpawnSystem(f.tuning, f.factory, f.state, f.rng)
	assert.Equal(t, f.tuning.SpawnInterval, s.Interval())

	f.state.Progress = 0.5
	assert.InDelta(t, f.tuning.SpawnInterval/2, s.Interval(), 1e-12)
}

func TestSpawner_MeteorsEnterFromOutside(t *testing.T) {
	f := newFixture()
	s := NewSpawnSystem(f.tuning, f.factory, f.state, f.rng)

	for range 200 {
		m := s.NewMeteor()
		p, v, r := m.Transform.Pos, m.Transform.Vel, m.Radius()
		assert.GreaterOrEqual(t, r, f.tuning.MeteorMinRadius)
		assert.LessOrEqual(t, r, f.tuning.MeteorMaxRadius)

		switch {
		case p.Y < 0:
			assert.Positive(t, v.Y)
		case p.Y > 1:
			assert.Negative(t, v.Y)
		case p.X < 0:
			assert.Positive(t, v.X)
		case p.X > 1:
			assert.Negative(t, v.X)
		default:
			t.Fatalf("meteor spawned on screen at %+v", p)
		}
	}
}

// ---- outcome ----

func (f *fixture) outcome() *OutcomeSystem {
	return &OutcomeSystem{Tuning: f.tuning, Factory: f.factory, State: f.state, EventBus: f.bus}
}

func TestOutcome_PriorityOrder(t *testing.T) {
	f := newFixture()
	f.factory.SpawnShip(f.world)
	f.state.Population = 0
	f.state.Health = 0

	f.outcome().Update(f.world, 0)
	assert.Equal(t, core.OutcomeEveryoneDead, f.state.Outcome)
	_, ok := f.world.Ship()
	assert.True(t, ok, "craft survives when the population outcome wins")
}

func TestOutcome_ShipDestroyedRemovesCraft(t *testing.T) {
	f := newFixture()
	id := f.factory.SpawnShip(f.world)
	f.state.Health = 0

	f.outcome().Update(f.world, 0)
	assert.Equal(t, core.OutcomeShipDestroyed, f.state.Outcome)
	assert.False(t, f.world.Has(id))
	assert.Equal(t, []core.EventType{core.EvtShipDestroyed}, kinds(f.events()))
}

func TestOutcome_OverpopulationAndVictory(t *testing.T) {
	f := newFixture()
	f.state.Population = f.tuning.OverPopulationLimit
	f.state.Progress = 1
	f.outcome().Update(f.world, 0)
	assert.Equal(t, core.OutcomeOverPopulation, f.state.Outcome)

	g := newFixture()
	g.state.Progress = 1 - g.tuning.ProgressPerTick()/2
	g.outcome().Update(g.world, 0)
	assert.Equal(t, core.OutcomeVictory, g.state.Outcome)
	assert.Equal(t, 1.0, g.state.Progress)
}

func TestOutcome_TerminalIsFrozen(t *testing.T) {
	f := newFixture()
	f.tuning.GrowthFactor = 2
	f.state.Finish(core.OutcomeVictory)
	before := *f.state

	f.state.Health = 0
	f.outcome().Update(f.world, 0)
	assert.Equal(t, core.OutcomeVictory, f.state.Outcome)
	assert.Equal(t, before.Population, f.state.Population)
}

func TestOutcome_WarningIsRateLimited(t *testing.T) {
	f := newFixture()
	sys := f.outcome()
	interval := uint64(f.tuning.WarningIntervalTick)
	above, below := f.tuning.WarningThreshold+1, f.tuning.WarningThreshold-2

	f.state.Population = above
	sys.Update(f.world, 0)
	f.world.TickCount = 1
	sys.Update(f.world, 0)
	f.world.Flush()
	assert.Len(t, f.world.Query(core.KindUI), 1, "second tick inside the interval stays quiet")

	// A dip under the threshold and a quick regrowth do not reset the interval
	f.world.TickCount = 10
	f.state.Population = below
	sys.Update(f.world, 0)
	f.world.TickCount = 18
	f.state.Population = above
	sys.Update(f.world, 0)
	f.world.TickCount = interval - 1
	sys.Update(f.world, 0)
	f.world.Flush()
	assert.Len(t, f.world.Query(core.KindUI), 1)

	f.world.TickCount = interval
	sys.Update(f.world, 0)
	f.world.Flush()
	assert.Len(t, f.world.Query(core.KindUI), 2)
	assert.Equal(t, interval, f.state.LastWarningTick)

	assert.Equal(t, []core.EventType{
		core.EvtOverpopulationWarning, core.EvtOverpopulationWarning,
	}, kinds(f.events()))
}

func TestOutcome_WarningQuietBelowThreshold(t *testing.T) {
	f := newFixture()
	f.state.Population = f.tuning.WarningThreshold
	f.world.TickCount = 500
	f.outcome().Update(f.world, 0)
	f.world.Flush()
	assert.Empty(t, f.world.Query(core.KindUI))
	assert.False(t, f.state.Warned)
}
