package game

import (
	"math"

	"github.com/pthm-cable/starfield/components"
)

// toUniverse converts a point in the current galaxy's frame to universe
// coordinates.
func (s *Simulation) toUniverse(local components.Point) components.Point {
	scale := s.cfg.Galaxy.Scale
	return components.Point{
		X: s.current.Point.X + local.X/scale,
		Y: s.current.Point.Y + local.Y/scale,
	}
}

// project re-expresses a universe point in the frame of the galaxy at
// center by polar decomposition.
func project(universe, center components.Point, scale float64) components.Point {
	dx, dy := universe.X-center.X, universe.Y-center.Y
	angle := math.Atan2(dy, dx)
	dist := math.Hypot(dx, dy) * scale
	return components.Point{X: dist * math.Cos(angle), Y: dist * math.Sin(angle)}
}
