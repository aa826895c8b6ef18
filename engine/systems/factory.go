package systems

import (
	"image/color"

	"github.com/gajop/pinkskins/engine/config"
	"github.com/gajop/pinkskins/engine/core"
)

var (
	ShipColor       = color.RGBA{128, 128, 178, 255}
	PlanetColor     = color.RGBA{77, 178, 77, 255}
	MeteorColor     = color.RGBA{150, 115, 90, 255}
	ProjectileColor = color.RGBA{255, 220, 120, 255}
	DamageColor     = color.RGBA{255, 80, 80, 255}
	WarningColor    = color.RGBA{255, 170, 40, 255}
)

// Factory builds fully populated entities from the tuning
type Factory struct {
	Tuning *config.Tuning
}

// Ship builds the player craft
func (f *Factory) Ship(pos core.Vec2) *core.Entity {
	return &core.Entity{
		Kind:       core.KindShip,
		Transform:  core.Transform{Pos: pos},
		Shape:      &core.Circle{Radius: f.Tuning.ShipRadius, Color: ShipColor},
		Collidable: true,
		MaxSpeed:   f.Tuning.MaxShipSpeed,
	}
}

// Planet builds the planet
func (f *Factory) Planet(pos core.Vec2) *core.Entity {
	return &core.Entity{
		Kind:       core.KindPlanet,
		Transform:  core.Transform{Pos: pos},
		Shape:      &core.Circle{Radius: f.Tuning.PlanetRadius, Color: PlanetColor},
		Collidable: true,
	}
}

// Meteor builds a meteor
func (f *Factory) Meteor(pos, vel core.Vec2, radius float64) *core.Entity {
	return &core.Entity{
		Kind:       core.KindMeteor,
		Transform:  core.Transform{Pos: pos, Vel: vel},
		Shape:      &core.Circle{Radius: radius, Color: MeteorColor},
		Collidable: true,
	}
}

// Projectile builds a shot
func (f *Factory) Projectile(pos, vel core.Vec2) *core.Entity {
	return &core.Entity{
		Kind:       core.KindProjectile,
		Transform:  core.Transform{Pos: pos, Vel: vel},
		Shape:      &core.Circle{Radius: f.Tuning.ProjectileRadius, Color: ProjectileColor},
		TTL:        f.Tuning.ProjectileTTL,
		Expires:    true,
		Collidable: true,
	}
}

// Text builds a floating label that drifts upward and expires
func (f *Factory) Text(pos core.Vec2, s string, ttl int, c color.RGBA) *core.Entity {
	return &core.Entity{
		Kind:      core.KindUI,
		Transform: core.Transform{Pos: pos, Vel: core.Vec2{Y: -f.Tuning.TextDrift}},
		Shape:     &core.Text{Text: s, Size: f.Tuning.TextSize, Color: c},
		TTL:       ttl,
		Expires:   true,
	}
}

// Star builds a decorative background dot
func (f *Factory) Star(pos core.Vec2, radius, brightness float64) *core.Entity {
	v := uint8(255 * brightness)
	return &core.Entity{
		Kind:      core.KindUI,
		Transform: core.Transform{Pos: pos},
		Shape:     &core.Circle{Radius: radius, Color: color.RGBA{v, v, v, 255}},
	}
}

// SpawnShip inserts the craft and designates it
func (f *Factory) SpawnShip(w *core.World) core.EntityID {
	id := w.Create(f.Ship(f.Tuning.ShipStart))
	w.SetShip(id)
	return id
}

// SpawnPlanet inserts the planet and designates it
func (f *Factory) SpawnPlanet(w *core.World) core.EntityID {
	id := w.Create(f.Planet(f.Tuning.PlanetPos))
	w.SetPlanet(id)
	return id
}

// SpawnMeteor inserts a meteor
func (f *Factory) SpawnMeteor(w *core.World, pos, vel core.Vec2, radius float64) core.EntityID {
	return w.Create(f.Meteor(pos, vel, radius))
}

// SpawnProjectile inserts a shot
func (f *Factory) SpawnProjectile(w *core.World, pos, vel core.Vec2) core.EntityID {
	return w.Create(f.Projectile(pos, vel))
}

// SpawnText inserts a floating label
func (f *Factory) SpawnText(w *core.World, pos core.Vec2, s string, ttl int, c color.RGBA) core.EntityID {
	return w.Create(f.Text(pos, s, ttl, c))
}
