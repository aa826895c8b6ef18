package replay

import (
	"github.com/gajop/pinkskins/engine/core"
)

// FormatVersion is bumped whenever Header or Frame change shape
const FormatVersion = 1

// Header opens every recording. A replay only reproduces the game when it
// runs with the same seed and tick rate.
type Header struct {
	Version  int     `msgpack:"v"`
	Seed     int64   `msgpack:"seed"`
	TickRate float64 `msgpack:"rate"`
	RunID    string  `msgpack:"run"`
}

// Frame is the intents in effect from Tick until the next frame
type Frame struct {
	Tick    uint64  `msgpack:"t"`
	Up      bool    `msgpack:"u,omitempty"`
	Down    bool    `msgpack:"d,omitempty"`
	Left    bool    `msgpack:"l,omitempty"`
	Right   bool    `msgpack:"r,omitempty"`
	Shoot   bool    `msgpack:"s,omitempty"`
	Restart bool    `msgpack:"x,omitempty"`
	AimX    float64 `msgpack:"ax,omitempty"`
	AimY    float64 `msgpack:"ay,omitempty"`
}

// FrameOf captures intents at a tick
func FrameOf(tick uint64, in core.Intents) Frame {
	return Frame{
		Tick:    tick,
		Up:      in.Up,
		Down:    in.Down,
		Left:    in.Left,
		Right:   in.Right,
		Shoot:   in.Shoot,
		Restart: in.Restart,
		AimX:    in.Aim.X,
		AimY:    in.Aim.Y,
	}
}

// Intents converts the frame back
func (f Frame) Intents() core.Intents {
	return core.Intents{
		Up:      f.Up,
		Down:    f.Down,
		Left:    f.Left,
		Right:   f.Right,
		Shoot:   f.Shoot,
		Restart: f.Restart,
		Aim:     core.Vec2{X: f.AimX, Y: f.AimY},
	}
}

// sameInput compares everything but the tick
func (f Frame) sameInput(o Frame) bool {
	f.Tick = o.Tick
	return f == o
}
