package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gajop/pinkskins/engine/core"
)

// Projector maps a screen pixel to a world position
type Projector interface {
	ScreenToWorld(sx, sy int) core.Vec2
}

// Bindings lists the keys for each intent; any key in a group counts
type Bindings struct {
	Up, Down, Left, Right []ebiten.Key
	Shoot                 []ebiten.Key
	Restart               []ebiten.Key
	Mute                  []ebiten.Key
}

// DefaultBindings are arrows and WASD, space or the left mouse button to
// shoot, R or Enter to restart
func DefaultBindings() Bindings {
	return Bindings{
		Up:      []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW},
		Down:    []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS},
		Left:    []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA},
		Right:   []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD},
		Shoot:   []ebiten.Key{ebiten.KeySpace},
		Restart: []ebiten.Key{ebiten.KeyR, ebiten.KeyEnter},
		Mute:    []ebiten.Key{ebiten.KeyM},
	}
}

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	Bindings Bindings

	// Mouse
	MouseX, MouseY  int
	LeftPressed     bool
	LeftJustPressed bool

	// Edge-triggered requests, held until consumed
	restart bool
	mute    bool

	// Aim falls back to the last cursor position when it leaves the window
	lastAim core.Vec2
}

func NewInputState() *InputState {
	return &InputState{Bindings: DefaultBindings()}
}

// Update should be called every frame
func (s *InputState) Update() {
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.LeftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	if anyJustPressed(s.Bindings.Restart) {
		s.restart = true
	}
	if anyJustPressed(s.Bindings.Mute) {
		s.mute = true
	}
}

// Intents samples the held controls. Restart is reported once per key
// press; the host clears it with ConsumeRestart after the first tick of
// the frame.
func (s *InputState) Intents(p Projector) core.Intents {
	in := core.Intents{
		Up:      anyPressed(s.Bindings.Up),
		Down:    anyPressed(s.Bindings.Down),
		Left:    anyPressed(s.Bindings.Left),
		Right:   anyPressed(s.Bindings.Right),
		Shoot:   s.LeftPressed || anyPressed(s.Bindings.Shoot),
		Restart: s.restart,
	}
	if p != nil {
		s.lastAim = p.ScreenToWorld(s.MouseX, s.MouseY)
	}
	in.Aim = s.lastAim
	return in
}

// ConsumeRestart clears a pending restart request
func (s *InputState) ConsumeRestart() { s.restart = false }

// ConsumeMute reports and clears a pending mute toggle
func (s *InputState) ConsumeMute() bool {
	m := s.mute
	s.mute = false
	return m
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
