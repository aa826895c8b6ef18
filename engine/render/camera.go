package render

import (
	"math"

	"github.com/gajop/pinkskins/engine/core"
)

// Camera maps the unit-square world onto the window. The square is scaled
// to the shorter window side and centered, leaving letterbox bars on the
// longer one.
type Camera struct {
	ScreenW int // viewport width in pixels
	ScreenH int // viewport height in pixels

	Scale            float64 // pixels per world unit
	OffsetX, OffsetY float64 // top-left of the play area in pixels
}

// NewCamera creates a camera fitted to the screen
func NewCamera(screenW, screenH int) *Camera {
	c := &Camera{}
	c.Resize(screenW, screenH)
	return c
}

// Resize refits the play area after the window changes size
func (c *Camera) Resize(screenW, screenH int) {
	c.ScreenW, c.ScreenH = screenW, screenH
	c.Scale = math.Min(float64(screenW), float64(screenH))
	c.OffsetX = (float64(screenW) - c.Scale) / 2
	c.OffsetY = (float64(screenH) - c.Scale) / 2
}

// WorldToScreen converts a world position to screen pixels
func (c *Camera) WorldToScreen(p core.Vec2) (float32, float32) {
	return float32(c.OffsetX + p.X*c.Scale), float32(c.OffsetY + p.Y*c.Scale)
}

// ScreenToWorld converts a screen pixel to a world position. Points in
// the letterbox map outside [0,1].
func (c *Camera) ScreenToWorld(sx, sy int) core.Vec2 {
	if c.Scale == 0 {
		return core.Vec2{}
	}
	return core.Vec2{
		X: (float64(sx) - c.OffsetX) / c.Scale,
		Y: (float64(sy) - c.OffsetY) / c.Scale,
	}
}

// Length converts a world distance to pixels
func (c *Camera) Length(d float64) float32 {
	return float32(d * c.Scale)
}
