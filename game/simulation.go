// Package game owns the navigation context and drives one simulation tick.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/starfield/camera"
	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/systems"
	"github.com/pthm-cable/starfield/telemetry"
)

// ErrNoGalaxy is returned when no galaxy can be found near a point.
var ErrNoGalaxy = errors.New("no galaxy found")

// Offsets records the observer position in each mode. Navigate and Map
// are in the current galaxy's frame; Universe is in universe coordinates.
type Offsets struct {
	Navigate components.Point
	Map      components.Point
	Universe components.Point
}

// Simulation is the single owner of all streaming and navigation state.
type Simulation struct {
	cfg    *config.Config
	logger *slog.Logger

	gen      *systems.Generator
	galaxies *systems.GalaxyStreamer
	stars    *systems.StarStreamer
	orbits   *systems.OrbitSystem
	ships    *systems.ShipSystem

	world   *ecs.World
	shipMap *ecs.Map3[components.Position, components.Velocity, components.Thrust]
	ship    ecs.Entity

	camera *camera.Camera

	// Galaxy snapshots. buffer is the galaxy the ship occupies.
	current  components.Galaxy
	buffer   components.Galaxy
	previous components.Galaxy

	sequence   uint64
	background *systems.Background
	active     *components.Star

	// The buffer galaxy's star table and active star, held while another
	// galaxy is previewed on the map.
	parked       *systems.SpatialTable[*components.Star]
	parkedActive *components.Star

	offsets   Offsets
	mode      Mode
	residency Residency

	tick int32

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
}

// NewSimulation creates a simulation with the ship at the center of the
// galaxy nearest opts.Start.
func NewSimulation(cfg *config.Config, opts Options) (*Simulation, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = ScreenWidth, ScreenHeight
	}

	gen := systems.NewGenerator(cfg)
	galaxyTable := systems.NewSpatialTable[*components.Galaxy](cfg.Universe.RegionSize, systems.KindGalaxy, cfg.Table.MaxEntries)
	starTable := systems.NewSpatialTable[*components.Star](cfg.Galaxy.RegionSize, systems.KindStar, cfg.Table.MaxEntries)

	w := ecs.NewWorld()

	s := &Simulation{
		cfg:       cfg,
		logger:    logger,
		gen:       gen,
		galaxies:  systems.NewGalaxyStreamer(gen, galaxyTable, logger),
		stars:     systems.NewStarStreamer(gen, starTable, logger),
		orbits:    systems.NewOrbitSystem(cfg),
		ships:     systems.NewShipSystem(w, cfg),
		world:     w,
		shipMap:   ecs.NewMap3[components.Position, components.Velocity, components.Thrust](w),
		camera:    camera.New(opts.Width, opts.Height, MinZoom, MaxZoom),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT),
		output:    opts.Output,
		logStats:  opts.LogStats,
	}

	start, err := s.findStartGalaxy(opts.Start)
	if err != nil {
		return nil, err
	}
	s.galaxies.Scan(start.Point, &start.Point)
	s.setCurrent(start.Snapshot())
	s.buffer = s.current
	s.ship = s.spawnShip(components.Point{})

	s.logger.Info("simulation started",
		"galaxy_x", start.Point.X, "galaxy_y", start.Point.Y,
		"class", start.Class, "radius", start.Radius)
	return s, nil
}

// findStartGalaxy walks universe sections outward from p in square rings
// and returns the first galaxy present.
func (s *Simulation) findStartGalaxy(p components.Point) (*components.Galaxy, error) {
	section := s.cfg.Universe.SectionSize
	ci, cj := systems.GridIndex(p.X, section), systems.GridIndex(p.Y, section)
	for ring := 0; ring <= maxStartRings; ring++ {
		for i := -ring; i <= ring; i++ {
			for j := -ring; j <= ring; j++ {
				if max(abs(i), abs(j)) != ring {
					continue
				}
				cell := systems.GridPoint(ci+int64(i), cj+int64(j), section)
				if s.gen.HasGalaxy(cell) {
					return s.gen.Galaxy(cell), nil
				}
			}
		}
	}
	return nil, fmt.Errorf("searching %d rings around (%g, %g): %w", maxStartRings, p.X, p.Y, ErrNoGalaxy)
}

// Update runs one simulation tick.
func (s *Simulation) Update(in Input) {
	s.perf.StartTick()

	s.handleInput(in)
	switch s.mode {
	case ModeNavigate:
		s.stepNavigate(in)
	case ModeMap:
		s.stepMap(in)
	case ModeUniverse:
		s.stepUniverse(in)
	}

	s.tick++
	s.perf.EndTick()
	s.flushTelemetry()
}

// stepNavigate streams around the ship, advances the active system and
// flies the ship.
func (s *Simulation) stepNavigate(in Input) {
	s.perf.StartPhase(telemetry.PhaseStreamUniverse)
	s.scanGalaxies(s.toUniverse(s.offsets.Navigate))

	s.perf.StartPhase(telemetry.PhaseResidency)
	local, _ := s.checkResidency(s.offsets.Navigate, true)

	s.perf.StartPhase(telemetry.PhaseStreamStars)
	s.scanStars(local)

	s.perf.StartPhase(telemetry.PhasePopulate)
	s.activate(local)

	s.perf.StartPhase(telemetry.PhaseOrbits)
	if s.active != nil {
		s.orbits.Update(s.active)
	}

	s.perf.StartPhase(telemetry.PhaseShips)
	_, _, thrust := s.shipMap.Get(s.ship)
	thrust.T = unit(in.Thrust)
	s.ships.Update(systems.ShipContext{
		Star:         s.active,
		GalaxyRadius: s.current.Radius * s.cfg.Galaxy.Scale,
	})
	s.offsets.Navigate, _ = s.Ship()

	s.camera.CenterOn(s.offsets.Navigate)
	if s.active != nil {
		systems.Zoom(s.active, components.RootBody, s.camera.Zoom, s.camera.Origin())
	}
}

// stepMap moves the map cursor and streams around it. The ship and the
// active system are paused.
func (s *Simulation) stepMap(in Input) {
	step := s.cfg.Galaxy.CursorSpeed * s.cfg.Derived.DT
	s.offsets.Map = r2.Add(s.offsets.Map, r2.Scale(step, unit(in.Cursor)))

	s.perf.StartPhase(telemetry.PhaseStreamUniverse)
	s.scanGalaxies(s.toUniverse(s.offsets.Map))

	s.perf.StartPhase(telemetry.PhaseResidency)
	s.offsets.Map, _ = s.checkResidency(s.offsets.Map, false)

	s.perf.StartPhase(telemetry.PhaseStreamStars)
	s.scanStars(s.offsets.Map)

	s.camera.CenterOn(s.offsets.Map)
}

// stepUniverse moves the universe cursor and streams galaxies around it.
func (s *Simulation) stepUniverse(in Input) {
	step := s.cfg.Universe.CursorSpeed * s.cfg.Derived.DT
	s.offsets.Universe = r2.Add(s.offsets.Universe, r2.Scale(step, unit(in.Cursor)))

	s.perf.StartPhase(telemetry.PhaseStreamUniverse)
	s.scanGalaxies(s.offsets.Universe)

	s.camera.CenterOn(s.offsets.Universe)
}

func (s *Simulation) scanGalaxies(observer components.Point) {
	res := s.galaxies.Scan(observer, &s.current.Point)
	if res.Scanned {
		s.collector.RecordScan(telemetry.ScanGalaxies, res.Generated, res.Evicted, res.Skipped)
	}
}

func (s *Simulation) scanStars(observer components.Point) {
	var protect *components.Point
	if s.active != nil {
		protect = &s.active.Point
	}
	res := s.stars.Scan(observer, &s.current, s.sequence, protect)
	if res.Scanned {
		s.collector.RecordScan(telemetry.ScanStars, res.Generated, res.Evicted, res.Skipped)
	}
}

// activate makes the nearest star whose cutoff contains p the active
// system, populating it on first activation. A star that fails to
// populate is retried on the next tick.
func (s *Simulation) activate(p components.Point) {
	var best *components.Star
	bestDist := math.Inf(1)
	for _, star := range s.stars.Table.All() {
		d := r2.Norm(r2.Sub(star.Point, p))
		if d <= star.Cutoff && d < bestDist {
			best, bestDist = star, d
		}
	}

	if best == s.active {
		return
	}
	if best == nil {
		s.active = nil
		return
	}

	if err := s.gen.Populate(best, s.sequence); err != nil {
		s.logger.Warn("populate failed", "x", best.Point.X, "y", best.Point.Y, "error", err)
		s.collector.RecordEvent(telemetry.Event{Type: telemetry.EventPopulateFailed, Tick: s.tick, X: best.Point.X, Y: best.Point.Y})
		s.active = nil
		return
	}
	s.active = best
	s.collector.RecordEvent(telemetry.NewStarActivatedEvent(s.tick, best.Point.X, best.Point.Y))
	s.logger.Debug("star activated",
		"x", best.Point.X, "y", best.Point.Y,
		"class", best.Class, "bodies", len(best.Bodies))
}

// setCurrent makes g the current galaxy. Everything keyed to the old
// galaxy's frame is discarded.
func (s *Simulation) setCurrent(g components.Galaxy) {
	s.current = g
	s.sequence = systems.Sequence(g.Point)
	s.stars.Table.Clear()
	s.stars.Reset()
	s.active = nil
	s.background = systems.NewBackground(s.sequence, s.cfg.Background)
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Mode returns the active mode.
func (s *Simulation) Mode() Mode {
	return s.mode
}

// Offsets returns the observer position in each mode.
func (s *Simulation) Offsets() Offsets {
	return s.offsets
}

// Current returns a snapshot of the current galaxy.
func (s *Simulation) Current() components.Galaxy {
	return s.current
}

// Buffer returns a snapshot of the galaxy the ship occupies.
func (s *Simulation) Buffer() components.Galaxy {
	return s.buffer
}

// Previous returns a snapshot of the galaxy current replaced last.
func (s *Simulation) Previous() components.Galaxy {
	return s.previous
}

// Sequence returns the current galaxy's generation sequence.
func (s *Simulation) Sequence() uint64 {
	return s.sequence
}

// ActiveStar returns the active star system, or nil.
func (s *Simulation) ActiveStar() *components.Star {
	return s.active
}

// Stars returns the star table for read-only iteration.
func (s *Simulation) Stars() *systems.SpatialTable[*components.Star] {
	return s.stars.Table
}

// Galaxies returns the galaxy table for read-only iteration.
func (s *Simulation) Galaxies() *systems.SpatialTable[*components.Galaxy] {
	return s.galaxies.Table
}

// Background returns the current galaxy's nebula field.
func (s *Simulation) Background() *systems.Background {
	return s.background
}

// Camera returns the navigation camera.
func (s *Simulation) Camera() *camera.Camera {
	return s.camera
}

// Field returns the current galaxy's star-field cloud, generating it on
// first use.
func (s *Simulation) Field(hd bool) *components.StarField {
	if hd {
		return s.gen.EnsureFieldHD(&s.current)
	}
	return s.gen.EnsureField(&s.current)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
