package systems

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
)

// Per-class palettes. Class 1 is the densest and smallest.
var (
	galaxyPalette = [config.NumClasses]color.RGBA{
		{255, 214, 170, 255},
		{255, 236, 200, 255},
		{236, 236, 255, 255},
		{200, 214, 255, 255},
		{180, 190, 255, 255},
		{170, 160, 255, 255},
	}
	starPalette = [config.NumClasses]color.RGBA{
		{255, 120, 90, 255},  // red dwarf
		{255, 170, 100, 255}, // orange
		{255, 230, 150, 255}, // yellow
		{255, 250, 235, 255}, // white
		{190, 210, 255, 255}, // blue-white
		{150, 180, 255, 255}, // blue giant
	}
	planetPalette = [config.NumClasses]color.RGBA{
		{150, 140, 130, 255},
		{190, 120, 90, 255},
		{110, 160, 110, 255},
		{90, 140, 200, 255},
		{210, 180, 130, 255},
		{170, 200, 220, 255},
	}
	moonColor = color.RGBA{180, 180, 180, 255}
)

// Generator materializes galaxies and stars from their coordinates.
// It holds no per-entity state; every call reseeds from position.
type Generator struct {
	cfg *config.Config
}

// NewGenerator creates a generator for the given configuration.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// Config returns the generator's configuration.
func (g *Generator) Config() *config.Config {
	return g.cfg
}

// UniverseProbe returns the nearest-neighbor probe for universe sections.
func (g *Generator) UniverseProbe() Probe {
	return Probe{
		Section:  g.cfg.Universe.SectionSize,
		Sequence: g.cfg.Universe.Seed,
		Density:  FlatDensity(g.cfg.Universe.DensityPerMille),
	}
}

// GalaxyProbe returns the nearest-neighbor probe for star sections inside a
// galaxy with the given universe-scale radius and sequence.
func (g *Generator) GalaxyProbe(radius float64, sequence uint64) Probe {
	return Probe{
		Section:  g.cfg.Galaxy.SectionSize,
		Sequence: sequence,
		Density:  GalaxyDensity(g.cfg.Galaxy.DensityPerMille, radius*g.cfg.Galaxy.Scale),
	}
}

// HasGalaxy reports whether a galaxy exists at the universe point p.
func (g *Generator) HasGalaxy(p components.Point) bool {
	return Present(p, g.cfg.Universe.Seed, g.cfg.Universe.DensityPerMille)
}

// Galaxy generates the galaxy at universe point p. The caller is expected
// to have checked HasGalaxy.
func (g *Generator) Galaxy(p components.Point) *components.Galaxy {
	p = components.Canonical(p)
	ucfg := &g.cfg.Universe

	dist := g.UniverseProbe().NearestSiblingDistance(p)
	class := Classify(dist, ucfg.SectionSize, ucfg.ClassThresholds)
	ci := config.ClassIndex(class)

	rng := SeedRNG(p, ucfg.Seed)
	rng.Uint32() // presence draw

	radius := uniform(rng, ucfg.RadiusMin[ci], ucfg.RadiusMin[ci]+ucfg.RadiusSpan[ci])

	return &components.Galaxy{
		Point:  p,
		Class:  class,
		Radius: radius,
		Cutoff: ucfg.SectionSize * float64(class) / 2,
		Color:  jitter(rng, galaxyPalette[ci], 24),
	}
}

// HasStar reports whether a star exists at galaxy-local point p.
func (g *Generator) HasStar(p components.Point, probe Probe) bool {
	return Present(p, probe.Sequence, probe.Density(p))
}

// Star generates the star at galaxy-local point p using the galaxy probe.
func (g *Generator) Star(p components.Point, probe Probe) *components.Star {
	p = components.Canonical(p)
	scfg := &g.cfg.Star

	dist := probe.NearestSiblingDistance(p)
	class := Classify(dist, probe.Section, scfg.ClassThresholds)
	ci := config.ClassIndex(class)

	rng := SeedRNG(p, probe.Sequence)
	rng.Uint32() // presence draw

	radius := uniform(rng, scfg.RadiusMin[ci], scfg.RadiusMax[ci])
	cutoff := probe.Section * float64(class) / 2

	return components.NewStar(p, class, radius, cutoff, jitter(rng, starPalette[ci], 16))
}

// OrbitalVelocity returns the circular-orbit velocity for a body placed at
// distance d and angle degrees around a parent of radius parentRadius.
// Rotation is clockwise.
func OrbitalVelocity(d, angle, parentRadius float64, phys *config.PhysicsConfig) components.Point {
	if d <= 0 {
		return components.Point{}
	}
	v := phys.CosmicConstant * math.Sqrt(phys.GravitationalConstant*parentRadius*parentRadius/d)
	rad := angle * math.Pi / 180
	return components.Point{X: -v * math.Sin(rad), Y: v * math.Cos(rad)}
}

// jitter perturbs each color channel by up to ±amount.
func jitter(rng *rand.Rand, c color.RGBA, amount int) color.RGBA {
	ch := func(v uint8) uint8 {
		n := int(v) + rng.IntN(2*amount+1) - amount
		return uint8(max(0, min(255, n)))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}
