package core

import (
	"image/color"
	"math"
)

// ---- Vectors & Transform ----

// Vec2 is a 2D vector in normalized world space ([0,1] on both axes)
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) DistanceTo(o Vec2) float64 { return v.Sub(o).Len() }

// ClampAbs limits each axis independently to [-limit, limit]
func (v Vec2) ClampAbs(limit float64) Vec2 {
	return Vec2{clampAbs(v.X, limit), clampAbs(v.Y, limit)}
}

func clampAbs(x, limit float64) float64 {
	if x > limit {
		return limit
	}
	if x < -limit {
		return -limit
	}
	return x
}

// Transform is position, velocity and acceleration, all per tick
type Transform struct {
	Pos Vec2
	Vel Vec2
	Acc Vec2
}

// ---- Kind ----

// Kind decides collision policy and despawn rules
type Kind uint8

const (
	KindShip Kind = iota
	KindPlanet
	KindMeteor
	KindProjectile
	KindUI
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindPlanet:
		return "planet"
	case KindMeteor:
		return "meteor"
	case KindProjectile:
		return "projectile"
	case KindUI:
		return "ui"
	}
	return "unknown"
}

// ---- Shape ----

// Shape is either *Circle or *Text
type Shape interface {
	isShape()
}

// Circle is a filled disc
type Circle struct {
	Radius float64
	Color  color.RGBA
}

// Text is a label; Size is the glyph height in world units
type Text struct {
	Text  string
	Size  float64
	Color color.RGBA
}

func (*Circle) isShape() {}
func (*Text) isShape() {}

// ---- Entity ----

// Entity is any simulated object
type Entity struct {
	ID        EntityID
	Kind      Kind
	Transform Transform
	Shape     Shape

	TTL     int  // remaining ticks, only meaningful when Expires is set
	Expires bool // entity is removed once TTL reaches zero

	Collidable bool
	MaxSpeed   float64 // per-axis velocity limit, 0 = unlimited
}

// Circle returns the circle shape, or nil for other shapes
func (e *Entity) Circle() *Circle {
	c, _ := e.Shape.(*Circle)
	return c
}

// Radius returns the circle radius, 0 for non-circular shapes
func (e *Entity) Radius() float64 {
	if c := e.Circle(); c != nil {
		return c.Radius
	}
	return 0
}
