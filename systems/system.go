package systems

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
)

// systemRNG returns the stream used to populate a star's planets. It is
// seeded with Hash64 so it never overlaps the star's own presence stream.
func systemRNG(star *components.Star, sequence uint64) *rand.Rand {
	return rand.New(rand.NewPCG(Hash64(star.Point), sequence))
}

// moonRNG returns the stream used to populate one planet's moons.
func moonRNG(star *components.Star, planet components.BodyID, sequence uint64) *rand.Rand {
	return rand.New(rand.NewPCG(Hash64(star.Point)+uint64(planet)+1, sequence))
}

// Populate fills a star's planetary system, including every planet's moons.
// It is a no-op for an already populated star. If the arena limit would be
// exceeded the star is left unpopulated and ErrResourceExhausted is returned.
func (g *Generator) Populate(star *components.Star, sequence uint64) error {
	if star.Initialized() {
		return nil
	}

	pcfg := &g.cfg.Planet
	ci := config.ClassIndex(star.Class)
	rng := systemRNG(star, sequence)
	limit := star.Cutoff - 2*star.Radius

	total := 0.0
	for g.cfg.Star.MaxPlanets <= 0 || len(star.Planets()) < g.cfg.Star.MaxPlanets {
		prev := total
		for total <= prev {
			total += uniform(rng, pcfg.OrbitMin[ci], pcfg.OrbitMax[ci])
		}
		if total > limit {
			break
		}
		width := total - prev

		radius := math.Max(pcfg.RadiusMin, math.Mod(width, pcfg.RadiusMax[ci]))
		angle := rng.Float64() * 360
		dist := star.Radius + prev + width/2
		class := Classify(width, 1, pcfg.ClassThresholds)

		id := star.AddBody(components.RootBody, components.Body{
			Level:      components.LevelPlanet,
			Class:      class,
			Radius:     radius,
			Cutoff:     width / 2,
			Color:      jitter(rng, planetPalette[config.ClassIndex(class)], 20),
			Pos:        polar(star.Point, dist, angle),
			Vel:        OrbitalVelocity(dist, angle, star.Radius, &g.cfg.Physics),
			Angle:      angle,
			OrbitTotal: total,
		})

		if err := g.PopulateMoons(star, id, sequence); err != nil {
			g.reset(star)
			return err
		}
		if err := g.checkArena(star); err != nil {
			g.reset(star)
			return err
		}
	}

	star.Root().Initialized = true
	return nil
}

// PopulateMoons fills one planet's moons. It is a no-op for a populated
// planet and for any body that is not a planet.
func (g *Generator) PopulateMoons(star *components.Star, planet components.BodyID, sequence uint64) error {
	p := star.Body(planet)
	if p.Initialized || p.Level != components.LevelPlanet {
		return nil
	}

	mcfg := &g.cfg.Moon
	ci := config.ClassIndex(p.Class)
	rng := moonRNG(star, planet, sequence)

	floor := p.Cutoff / 2
	if p.Class <= 3 {
		floor = p.Cutoff / 3
	}
	floor = math.Max(floor, 2*p.Radius)
	limit := p.Cutoff - 2*p.Radius
	maxMoons := int(p.Cutoff) % mcfg.CountBound[ci]

	// Copy planet state; AddBody may reallocate the arena.
	center, radius, class := p.Pos, p.Radius, p.Class

	total := floor
	moons := 0
	for moons < maxMoons {
		prev := total
		for total <= prev {
			total += uniform(rng, mcfg.OrbitMin[ci], mcfg.OrbitMax[ci])
		}
		if total > limit {
			break
		}
		width := total - prev

		mr := math.Max(mcfg.RadiusMin, math.Mod(width, mcfg.RadiusMax[ci]))
		angle := rng.Float64() * 360
		dist := prev + width/2

		star.AddBody(planet, components.Body{
			Level:       components.LevelMoon,
			Class:       class,
			Radius:      mr,
			Cutoff:      width / 2,
			Color:       jitter(rng, moonColor, 30),
			Pos:         polar(center, dist, angle),
			Vel:         OrbitalVelocity(dist, angle, radius, &g.cfg.Physics),
			Angle:       angle,
			OrbitTotal:  total,
			Initialized: true, // moons never have children
		})
		moons++
	}

	star.Body(planet).Initialized = true
	return g.checkArena(star)
}

func (g *Generator) checkArena(star *components.Star) error {
	if limit := g.cfg.Star.MaxBodies; limit > 0 && len(star.Bodies) > limit {
		return fmt.Errorf("populating star at (%g, %g): %d bodies over limit %d: %w",
			star.Point.X, star.Point.Y, len(star.Bodies), limit, ErrResourceExhausted)
	}
	return nil
}

// reset discards a partially populated system.
func (g *Generator) reset(star *components.Star) {
	root := star.Bodies[components.RootBody]
	root.Children = nil
	root.Initialized = false
	star.Bodies = []components.Body{root}
}

// polar returns center offset by dist at angle degrees.
func polar(center components.Point, dist, angle float64) components.Point {
	rad := angle * math.Pi / 180
	return components.Point{
		X: center.X + dist*math.Cos(rad),
		Y: center.Y + dist*math.Sin(rad),
	}
}
