package game

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/systems"
	"github.com/pthm-cable/starfield/telemetry"
)

// Residency is the observer's relation to the current galaxy.
type Residency uint8

const (
	InGalaxy Residency = iota
	// SameGalaxyReentry means the observer left the cutoff but the current
	// galaxy is still the nearest.
	SameGalaxyReentry
	// SwitchedGalaxy means a strictly different galaxy became current.
	SwitchedGalaxy
)

func (r Residency) String() string {
	switch r {
	case InGalaxy:
		return "in_galaxy"
	case SameGalaxyReentry:
		return "same_galaxy_reentry"
	case SwitchedGalaxy:
		return "switched_galaxy"
	}
	return "unknown"
}

// checkResidency tests the observer at local against the current galaxy's
// cutoff and switches galaxy when a different one is nearer. It returns
// the observer position in the (possibly new) current frame. Only commit
// updates the buffer galaxy and moves the ship. The nearest-galaxy search
// runs inside the call, so leaving the cutoff resolves in the same tick.
func (s *Simulation) checkResidency(local components.Point, commit bool) (components.Point, Residency) {
	if r2.Norm(local) <= s.current.Cutoff*s.cfg.Galaxy.Scale {
		s.residency = InGalaxy
		return local, InGalaxy
	}

	universe := s.toUniverse(local)
	g, _, ok := systems.NearestGalaxy(s.galaxies.Table, universe, nil)
	if !ok || g.Point == s.current.Point {
		s.residency = SameGalaxyReentry
		return local, SameGalaxyReentry
	}

	local = s.switchGalaxy(g, universe, commit)
	s.residency = SwitchedGalaxy
	return local, SwitchedGalaxy
}

// switchGalaxy makes g current and returns the observer's universe
// position projected into g's frame.
func (s *Simulation) switchGalaxy(g *components.Galaxy, universe components.Point, commit bool) components.Point {
	s.previous = s.current
	if !commit {
		s.park()
	}
	s.setCurrent(g.Snapshot())
	if g.Point == s.buffer.Point {
		s.unpark()
	} else if commit {
		s.dropParked()
	}
	local := project(universe, g.Point, s.cfg.Galaxy.Scale)

	if commit {
		s.buffer = s.current
		s.offsets.Navigate = local
		s.moveShip(local)
	} else {
		s.offsets.Map = local
	}

	s.collector.RecordEvent(telemetry.NewGalaxySwitchEvent(s.tick, g.Point.X, g.Point.Y, commit))
	s.logger.Info("galaxy switched",
		"from_x", s.previous.Point.X, "from_y", s.previous.Point.Y,
		"to_x", g.Point.X, "to_y", g.Point.Y,
		"class", g.Class, "committed", commit)
	return local
}

// restoreBuffer returns to the galaxy the ship occupies after a preview.
func (s *Simulation) restoreBuffer() {
	if s.current.Point == s.buffer.Point {
		return
	}
	s.previous = s.current
	s.setCurrent(s.buffer)
	s.unpark()
	s.galaxies.Reset()
	s.logger.Debug("preview discarded", "galaxy_x", s.buffer.Point.X, "galaxy_y", s.buffer.Point.Y)
}

// park sets the buffer galaxy's stars aside before a preview replaces the
// current galaxy, so the active system keeps its orbital state.
func (s *Simulation) park() {
	if s.parked != nil || s.current.Point != s.buffer.Point {
		return
	}
	s.parked, s.parkedActive = s.stars.Table, s.active
	s.stars.Table = systems.NewSpatialTable[*components.Star](s.cfg.Galaxy.RegionSize, systems.KindStar, s.cfg.Table.MaxEntries)
}

// unpark reinstates the parked stars. The buffer galaxy must be current.
func (s *Simulation) unpark() {
	if s.parked == nil {
		return
	}
	s.stars.Table, s.active = s.parked, s.parkedActive
	s.stars.Reset()
	s.dropParked()
}

func (s *Simulation) dropParked() {
	s.parked, s.parkedActive = nil, nil
}

// setMode switches observer, carrying the observer position across frames.
func (s *Simulation) setMode(m Mode) {
	if m == s.mode {
		return
	}
	from := s.mode
	s.mode = m

	switch m {
	case ModeNavigate:
		s.restoreBuffer()
		s.stars.Reset()
	case ModeMap:
		if from == ModeUniverse {
			s.enterFromUniverse()
		} else {
			s.offsets.Map = s.offsets.Navigate
		}
		s.stars.Reset()
	case ModeUniverse:
		observer := s.offsets.Navigate
		if from == ModeMap {
			observer = s.offsets.Map
		}
		s.offsets.Universe = s.toUniverse(observer)
	}
	s.logger.Debug("mode changed", "from", from.String(), "to", m.String())
}

// enterFromUniverse places the map cursor at the universe cursor, previewing
// the nearest galaxy if it is not current.
func (s *Simulation) enterFromUniverse() {
	cursor := s.offsets.Universe
	g, _, ok := systems.NearestGalaxy(s.galaxies.Table, cursor, nil)
	if !ok || g.Point == s.current.Point {
		s.offsets.Map = project(cursor, s.current.Point, s.cfg.Galaxy.Scale)
		return
	}
	s.switchGalaxy(g, cursor, false)
}

// Relocate moves the ship to a universe point and commits the nearest
// galaxy as both current and buffer. The ship stops and navigation resumes.
func (s *Simulation) Relocate(universe components.Point) error {
	s.scanGalaxies(universe)
	g, _, ok := systems.NearestGalaxy(s.galaxies.Table, universe, nil)
	if !ok {
		return fmt.Errorf("relocating to (%g, %g): %w", universe.X, universe.Y, ErrNoGalaxy)
	}

	if g.Point == s.current.Point {
		local := project(universe, g.Point, s.cfg.Galaxy.Scale)
		s.dropParked()
		s.buffer = s.current
		s.offsets.Navigate = local
		s.moveShip(local)
	} else {
		s.switchGalaxy(g, universe, true)
	}

	s.stopShip()
	s.mode = ModeNavigate
	s.stars.Reset()
	s.collector.RecordEvent(telemetry.Event{Type: telemetry.EventRelocate, Tick: s.tick, X: universe.X, Y: universe.Y})
	return nil
}

// NearestGalaxy returns a snapshot of the stored galaxy whose circumference
// is closest to the universe point p, and the distance to it.
func (s *Simulation) NearestGalaxy(p components.Point, excludeCurrent bool) (components.Galaxy, float64, bool) {
	var exclude *components.Point
	if excludeCurrent {
		exclude = &s.current.Point
	}
	g, d, ok := systems.NearestGalaxy(s.galaxies.Table, p, exclude)
	if !ok {
		return components.Galaxy{}, 0, false
	}
	return g.Snapshot(), d, true
}

// Residency returns the outcome of the most recent residency check.
func (s *Simulation) Residency() Residency {
	return s.residency
}
