package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/systems"
)

// Targets are the desired average occupancies of one streaming region.
type Targets struct {
	StarsPerRegion    float64
	GalaxiesPerRegion float64
}

// FitnessEvaluator samples generated content and scores it against targets.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	targets    Targets
	samples    int // universe regions per evaluation

	mu          sync.Mutex
	lastMetrics Metrics
}

// Metrics are the measured occupancies of one evaluation.
type Metrics struct {
	StarsPerRegion    float64
	StarsStd          float64
	GalaxiesPerRegion float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, targets Targets, samples int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		targets:    targets,
		samples:    max(1, samples),
	}
}

// LastMetrics returns the metrics from the most recent evaluation.
func (fe *FitnessEvaluator) LastMetrics() Metrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// the sum of squared relative errors against the targets.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, raw)

	m := fe.measure(&cfg)

	fe.mu.Lock()
	fe.lastMetrics = m
	fe.mu.Unlock()

	relErr := func(got, want float64) float64 {
		if want == 0 {
			return got * got
		}
		d := (got - want) / want
		return d * d
	}
	return relErr(m.StarsPerRegion, fe.targets.StarsPerRegion) +
		relErr(m.GalaxiesPerRegion, fe.targets.GalaxiesPerRegion)
}

// measure walks sample universe regions along the x axis, counting
// galaxies, and counts the stars in a region at the center of each galaxy.
// Regions are evaluated in parallel; each worker owns its generator.
func (fe *FitnessEvaluator) measure(cfg *config.Config) Metrics {
	type regionResult struct {
		galaxies int
		stars    []float64
	}
	results := make([]regionResult, fe.samples)

	var wg sync.WaitGroup
	for i := range fe.samples {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gen := systems.NewGenerator(cfg)
			universe := systems.Streamer{Section: cfg.Universe.SectionSize, RegionSize: cfg.Universe.RegionSize}

			center := components.Point{X: float64(i*cfg.Universe.RegionSize) * cfg.Universe.SectionSize}
			var r regionResult
			for cell := range universe.Cells(center) {
				if !gen.HasGalaxy(cell) {
					continue
				}
				r.galaxies++
				r.stars = append(r.stars, float64(starsAtCenter(gen, gen.Galaxy(cell))))
			}
			results[i] = r
		}(i)
	}
	wg.Wait()

	var galaxies []float64
	var stars []float64
	for _, r := range results {
		galaxies = append(galaxies, float64(r.galaxies))
		stars = append(stars, r.stars...)
	}

	m := Metrics{GalaxiesPerRegion: stat.Mean(galaxies, nil)}
	if len(stars) > 0 {
		m.StarsPerRegion, m.StarsStd = stat.MeanStdDev(stars, nil)
	}
	if math.IsNaN(m.StarsStd) {
		m.StarsStd = 0
	}
	return m
}

// starsAtCenter counts the stars navigation would stream into the region at
// the center of g. Stars beyond the scaled galaxy radius are not counted.
func starsAtCenter(gen *systems.Generator, g *components.Galaxy) int {
	table := systems.NewSpatialTable[*components.Star](gen.Config().Galaxy.RegionSize, systems.KindStar, 0)
	streamer := systems.NewStarStreamer(gen, table, slog.New(slog.DiscardHandler))
	streamer.Scan(components.Point{}, g, systems.Sequence(g.Point), nil)
	return table.Len()
}
