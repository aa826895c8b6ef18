package systems

import (
	"github.com/gajop/pinkskins/engine/core"
)

// minAimDistance below which a shot has no direction and is skipped
const minAimDistance = 1e-9

// FireProjectile queues a projectile from the shooter toward aim at the
// configured speed. The projectile starts just outside the shooter's hull.
// Returns false, firing nothing, when aim sits on the shooter's center.
func FireProjectile(w *core.World, f *Factory, shooter *core.Entity, aim core.Vec2) (core.Vec2, bool) {
	from := shooter.Transform.Pos
	dir := aim.Sub(from)
	dist := dir.Len()
	if dist <= minAimDistance {
		return core.Vec2{}, false
	}
	unit := dir.Scale(1 / dist)

	offset := (shooter.Radius() + f.Tuning.ProjectileRadius) * 1.2
	pos := from.Add(unit.Scale(offset))
	w.Queue(f.Projectile(pos, unit.Scale(f.Tuning.ProjectileSpeed)))
	return pos, true
}
