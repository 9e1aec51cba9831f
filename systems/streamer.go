package systems

import (
	"errors"
	"iter"
	"log/slog"
	"math"

	"github.com/pthm-cable/starfield/components"
)

// ScanResult summarizes one streaming pass.
type ScanResult struct {
	Scanned   bool // false when the cross point was unchanged
	Center    components.Point
	Generated int
	Evicted   int
	Skipped   int // cells that could not be inserted this pass
}

// Streamer tracks the section-aligned cross point of an observer at one
// scale and decides when a region must be rescanned.
type Streamer struct {
	Section    float64
	RegionSize int

	cross   components.Point
	started bool
}

// GridIndex returns the index of the section line nearest to v.
func GridIndex(v, section float64) int64 {
	return int64(math.Round(v / section))
}

// GridPoint returns the grid point with section indices (i, j). Every grid
// key is built here so a cell has the same bits however it is reached.
func GridPoint(i, j int64, section float64) components.Point {
	return components.Canonical(components.Point{
		X: float64(i) * section,
		Y: float64(j) * section,
	})
}

// CrossPoint returns the section-aligned point nearest to p.
func (s *Streamer) CrossPoint(p components.Point) components.Point {
	return GridPoint(GridIndex(p.X, s.Section), GridIndex(p.Y, s.Section), s.Section)
}

// Advance updates the remembered cross point. It reports false when the
// observer has not crossed a section line since the previous call.
func (s *Streamer) Advance(observer components.Point) (components.Point, bool) {
	c := s.CrossPoint(observer)
	if s.started && c == s.cross {
		return c, false
	}
	s.cross = c
	s.started = true
	return c, true
}

// Reset forces the next Advance to rescan.
func (s *Streamer) Reset() {
	s.started = false
}

// Center returns the last cross point.
func (s *Streamer) Center() components.Point {
	return s.cross
}

// CoverRadius is the radius of the circle covering the whole region.
func (s *Streamer) CoverRadius() float64 {
	return math.Sqrt2 * float64(s.RegionSize) / 2 * s.Section
}

// Cells iterates the RegionSize x RegionSize section points around center.
func (s *Streamer) Cells(center components.Point) iter.Seq[components.Point] {
	half := int64(s.RegionSize / 2)
	n := int64(s.RegionSize)
	ci, cj := GridIndex(center.X, s.Section), GridIndex(center.Y, s.Section)
	return func(yield func(components.Point) bool) {
		for i := -half; i < n-half; i++ {
			for j := -half; j < n-half; j++ {
				if !yield(GridPoint(ci+i, cj+j, s.Section)) {
					return
				}
			}
		}
	}
}

// within reports whether p lies inside the covering circle around center.
func (s *Streamer) within(p, center components.Point) bool {
	return math.Hypot(p.X-center.X, p.Y-center.Y) <= s.CoverRadius()
}

// StarStreamer keeps the star table populated around an observer in
// galaxy-local coordinates.
type StarStreamer struct {
	Streamer
	Table  *SpatialTable[*components.Star]
	gen    *Generator
	logger *slog.Logger
}

// NewStarStreamer creates a star streamer over table.
func NewStarStreamer(gen *Generator, table *SpatialTable[*components.Star], logger *slog.Logger) *StarStreamer {
	cfg := gen.Config()
	return &StarStreamer{
		Streamer: Streamer{Section: cfg.Galaxy.SectionSize, RegionSize: cfg.Galaxy.RegionSize},
		Table:    table,
		gen:      gen,
		logger:   logger.With("component", "star_streamer"),
	}
}

// Scan regenerates stars around observer inside galaxy and evicts stars
// outside the region. protect, when non-nil, is never evicted.
func (s *StarStreamer) Scan(observer components.Point, galaxy *components.Galaxy, sequence uint64, protect *components.Point) ScanResult {
	center, changed := s.Advance(observer)
	if !changed {
		return ScanResult{Center: center}
	}
	res := ScanResult{Scanned: true, Center: center}

	probe := s.gen.GalaxyProbe(galaxy.Radius, sequence)
	bound := galaxy.Radius * s.gen.Config().Galaxy.Scale

	for cell := range s.Cells(center) {
		if math.Hypot(cell.X, cell.Y) > bound || s.Table.Exists(cell) {
			continue
		}
		if !s.gen.HasStar(cell, probe) {
			continue
		}
		star := s.gen.Star(cell, probe)
		if err := s.Table.Insert(cell, star); err != nil {
			if errors.Is(err, ErrResourceExhausted) {
				res.Skipped++
				s.logger.Debug("star insert skipped", "x", cell.X, "y", cell.Y, "error", err)
				continue
			}
			s.logger.Warn("star insert failed", "x", cell.X, "y", cell.Y, "error", err)
			continue
		}
		res.Generated++
	}

	res.Evicted = s.Table.Evict(func(p components.Point, _ *components.Star) bool {
		return (protect != nil && p == *protect) || s.within(p, center)
	})

	s.logger.Debug("star region scanned",
		"center_x", center.X, "center_y", center.Y,
		"generated", res.Generated, "evicted", res.Evicted, "stored", s.Table.Len())
	return res
}

// GalaxyStreamer keeps the galaxy table populated around an observer in
// universe coordinates.
type GalaxyStreamer struct {
	Streamer
	Table  *SpatialTable[*components.Galaxy]
	gen    *Generator
	logger *slog.Logger
}

// NewGalaxyStreamer creates a galaxy streamer over table.
func NewGalaxyStreamer(gen *Generator, table *SpatialTable[*components.Galaxy], logger *slog.Logger) *GalaxyStreamer {
	cfg := gen.Config()
	return &GalaxyStreamer{
		Streamer: Streamer{Section: cfg.Universe.SectionSize, RegionSize: cfg.Universe.RegionSize},
		Table:    table,
		gen:      gen,
		logger:   logger.With("component", "galaxy_streamer"),
	}
}

// Scan regenerates galaxies around observer and evicts those outside the
// region. protect, when non-nil, is never evicted.
func (s *GalaxyStreamer) Scan(observer components.Point, protect *components.Point) ScanResult {
	center, changed := s.Advance(observer)
	if !changed {
		return ScanResult{Center: center}
	}
	res := ScanResult{Scanned: true, Center: center}

	for cell := range s.Cells(center) {
		if s.Table.Exists(cell) || !s.gen.HasGalaxy(cell) {
			continue
		}
		if err := s.Table.Insert(cell, s.gen.Galaxy(cell)); err != nil {
			res.Skipped++
			s.logger.Debug("galaxy insert skipped", "x", cell.X, "y", cell.Y, "error", err)
			continue
		}
		res.Generated++
	}

	res.Evicted = s.Table.Evict(func(p components.Point, _ *components.Galaxy) bool {
		return (protect != nil && p == *protect) || s.within(p, center)
	})

	s.logger.Debug("galaxy region scanned",
		"center_x", center.X, "center_y", center.Y,
		"generated", res.Generated, "evicted", res.Evicted, "stored", s.Table.Len())
	return res
}

// NearestGalaxy returns the stored galaxy whose circumference is closest to
// p (distance to center minus radius). When exclude is non-nil, the galaxy
// at that point is skipped.
func NearestGalaxy(table *SpatialTable[*components.Galaxy], p components.Point, exclude *components.Point) (*components.Galaxy, float64, bool) {
	var best *components.Galaxy
	bestDist := math.Inf(1)
	for key, g := range table.All() {
		if exclude != nil && key == *exclude {
			continue
		}
		d := math.Hypot(p.X-g.Point.X, p.Y-g.Point.Y) - g.Radius
		if d < bestDist {
			best, bestDist = g, d
		}
	}
	return best, bestDist, best != nil
}
