package sim

import (
	"math/rand/v2"

	"github.com/aquilax/go-perlin"

	"github.com/gajop/pinkskins/engine/core"
	"github.com/gajop/pinkskins/engine/systems"
)

// Perlin parameters for the starfield: smoothness, frequency falloff,
// octaves
const (
	starAlpha   = 2.0
	starBeta    = 2.0
	starOctaves = 3
	starScale   = 4.0
)

// seedBackground scatters decorative stars. Candidate positions are
// uniform; perlin noise decides which survive and how bright they are,
// so the sky clusters instead of looking like static.
func seedBackground(w *core.World, f *systems.Factory, rng *rand.Rand) int {
	t := f.Tuning
	noise := perlin.NewPerlin(starAlpha, starBeta, starOctaves, rng.Int64())

	placed := 0
	for range t.StarCount {
		pos := core.Vec2{X: rng.Float64(), Y: rng.Float64()}
		n := noise.Noise2D(pos.X*starScale, pos.Y*starScale)
		if n < t.StarThreshold {
			continue
		}
		brightness := 0.35 + 0.65*min(1, (n+1)/2)
		w.Create(f.Star(pos, 0.001+0.002*brightness, brightness))
		placed++
	}
	return placed
}
