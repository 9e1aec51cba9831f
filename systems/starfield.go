package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
)

// Stream selectors for the two star-field definitions.
const (
	fieldStream   uint64 = 0x5f
	fieldHDStream uint64 = 0x6d
)

// EnsureField generates the galaxy's normal star-field cloud on first use.
// Later calls return the cached cloud unchanged.
func (g *Generator) EnsureField(gal *components.Galaxy) *components.StarField {
	if !gal.Field.Initialized {
		n := g.cfg.Galaxy.FieldStars[config.ClassIndex(gal.Class)]
		fillField(&gal.Field, gal, n, fieldStream^g.cfg.Universe.Seed)
	}
	return &gal.Field
}

// EnsureFieldHD generates the galaxy's high-definition star-field cloud on
// first use.
func (g *Generator) EnsureFieldHD(gal *components.Galaxy) *components.StarField {
	if !gal.FieldHD.Initialized {
		n := g.cfg.Galaxy.FieldStars[config.ClassIndex(gal.Class)] * max(1, g.cfg.Galaxy.FieldHDFactor)
		fillField(&gal.FieldHD, gal, n, fieldHDStream^g.cfg.Universe.Seed)
	}
	return &gal.FieldHD
}

// fillField draws up to n points with an exponential radial falloff.
// Draws landing outside the galaxy radius are discarded, so Count may be
// less than n.
func fillField(f *components.StarField, gal *components.Galaxy, n int, stream uint64) {
	rng := rand.New(rand.NewPCG(Hash64(gal.Point), stream))
	f.Points = make([]components.Point, n)
	f.Count = 0
	for range n {
		r := gal.Radius * rng.ExpFloat64() / 3
		theta := rng.Float64() * 2 * math.Pi
		if r > gal.Radius {
			continue
		}
		f.Points[f.Count] = components.Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
		f.Count++
	}
	f.Initialized = true
}
