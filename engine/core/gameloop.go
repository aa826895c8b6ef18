package core

import "time"

// maxFrameTime caps a single frame to avoid a spiral of death after a stall
const maxFrameTime = 0.25

// GameLoop runs a step function at a fixed tick rate regardless of how
// often the host renders. Each Update may run zero, one or several steps.
type GameLoop struct {
	TickRate    float64 // fixed ticks per second
	step        func()
	accumulator float64
	lastTime    time.Time
	now         func() time.Time
}

// NewGameLoop creates a game loop with fixed tick rate
func NewGameLoop(tickRate float64, step func()) *GameLoop {
	gl := &GameLoop{
		TickRate: tickRate,
		step:     step,
		now:      time.Now,
	}
	gl.lastTime = gl.now()
	return gl
}

// SetClock replaces the wall clock, used by tests and replays
func (gl *GameLoop) SetClock(now func() time.Time) {
	gl.now = now
	gl.lastTime = now()
}

// Update should be called every render frame. Returns the number of
// steps run and the interpolation alpha for smooth rendering.
func (gl *GameLoop) Update() (int, float64) {
	now := gl.now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now
	return gl.Advance(frameTime)
}

// Advance feeds frameTime seconds into the accumulator and drains it in
// fixed increments
func (gl *GameLoop) Advance(frameTime float64) (int, float64) {
	if frameTime > maxFrameTime {
		frameTime = maxFrameTime
	}
	if frameTime < 0 {
		frameTime = 0
	}

	dt := 1.0 / gl.TickRate
	gl.accumulator += frameTime

	steps := 0
	for gl.accumulator >= dt {
		gl.step()
		gl.accumulator -= dt
		steps++
	}

	return steps, gl.accumulator / dt
}

// Reset drops any accumulated time, e.g. after a pause
func (gl *GameLoop) Reset() {
	gl.accumulator = 0
	gl.lastTime = gl.now()
}
