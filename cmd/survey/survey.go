package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/systems"
)

// GoldenRow is one presence sample. Draw is the first raw PCG output of
// the point's stream, so a reimplementation can compare at the draw level.
type GoldenRow struct {
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Sequence uint64  `csv:"sequence"`
	PerMille float64 `csv:"per_mille"`
	Hash64   uint64  `csv:"hash64"`
	Hash64B  uint64  `csv:"hash64_b"`
	Draw     uint32  `csv:"draw"`
	Present  bool    `csv:"present"`
}

// GoldenTable samples presence along the positive x axis at multiples of
// section, starting at the origin.
func GoldenTable(cells int, section, perMille float64, sequence uint64) []GoldenRow {
	rows := make([]GoldenRow, 0, cells)
	for i := range cells {
		p := systems.GridPoint(int64(i), 0, section)
		rows = append(rows, GoldenRow{
			X:        p.X,
			Y:        p.Y,
			Sequence: sequence,
			PerMille: perMille,
			Hash64:   systems.Hash64(p),
			Hash64B:  systems.Hash64B(p),
			Draw:     systems.SeedRNG(p, sequence).Uint32(),
			Present:  systems.Present(p, sequence, perMille),
		})
	}
	return rows
}

// GalaxyStats summarizes the stars around one galaxy's center.
type GalaxyStats struct {
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	Class      int     `csv:"class"`
	Radius     float64 `csv:"radius"`
	Stars      int     `csv:"stars"`
	StarClass1 int     `csv:"star_class_1"`
	StarClass6 int     `csv:"star_class_6"`
	Planets    float64 `csv:"planets_mean"`
	Moons      float64 `csv:"moons_mean"`
	OrbitMax   float64 `csv:"orbit_total_max"`
	Failed     int     `csv:"populate_failed"`
}

// SurveyRegion generates every galaxy in the universe region around center
// and surveys each one. Galaxies are independent, so each runs in its own
// goroutine with its own table.
func SurveyRegion(ctx context.Context, cfg *config.Config, center components.Point, workers int, logger *slog.Logger) ([]GalaxyStats, error) {
	gen := systems.NewGenerator(cfg)
	universe := systems.Streamer{Section: cfg.Universe.SectionSize, RegionSize: cfg.Universe.RegionSize}

	var galaxies []*components.Galaxy
	for cell := range universe.Cells(universe.CrossPoint(center)) {
		if gen.HasGalaxy(cell) {
			galaxies = append(galaxies, gen.Galaxy(cell))
		}
	}

	results := make([]GalaxyStats, len(galaxies))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i, gal := range galaxies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := surveyGalaxy(cfg, gal, logger)
			if err != nil {
				return fmt.Errorf("galaxy (%g, %g): %w", gal.Point.X, gal.Point.Y, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// surveyGalaxy streams the star region at the galaxy center the same way
// navigation does and populates every star found.
func surveyGalaxy(cfg *config.Config, gal *components.Galaxy, logger *slog.Logger) (GalaxyStats, error) {
	gen := systems.NewGenerator(cfg)
	table := systems.NewSpatialTable[*components.Star](cfg.Galaxy.RegionSize, systems.KindStar, 0)
	seq := systems.Sequence(gal.Point)
	res := systems.NewStarStreamer(gen, table, logger).Scan(components.Point{}, gal, seq, nil)

	s := GalaxyStats{X: gal.Point.X, Y: gal.Point.Y, Class: gal.Class, Radius: gal.Radius}
	if res.Skipped > 0 {
		return s, fmt.Errorf("%d stars skipped: %w", res.Skipped, systems.ErrResourceExhausted)
	}

	var planets, moons []float64
	for _, star := range table.All() {
		s.Stars++
		switch star.Class {
		case 1:
			s.StarClass1++
		case 6:
			s.StarClass6++
		}

		if err := gen.Populate(star, seq); err != nil {
			s.Failed++
			continue
		}
		ps := star.Planets()
		planets = append(planets, float64(len(ps)))
		moons = append(moons, float64(len(star.Bodies)-1-len(ps)))
		if n := len(ps); n > 0 {
			s.OrbitMax = math.Max(s.OrbitMax, star.Body(ps[n-1]).OrbitTotal)
		}
	}

	if len(planets) > 0 {
		s.Planets = stat.Mean(planets, nil)
		s.Moons = stat.Mean(moons, nil)
	}
	return s, nil
}
