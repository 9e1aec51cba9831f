package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/starfield/components"
)

// Mode selects which observer drives streaming.
type Mode uint8

const (
	// ModeNavigate flies the ship in the current galaxy.
	ModeNavigate Mode = iota
	// ModeMap moves a cursor over the current galaxy. Crossing into
	// another galaxy is a preview and commits nothing.
	ModeMap
	// ModeUniverse moves a cursor over the universe grid.
	ModeUniverse
)

func (m Mode) String() string {
	switch m {
	case ModeNavigate:
		return "navigate"
	case ModeMap:
		return "map"
	case ModeUniverse:
		return "universe"
	}
	return "unknown"
}

// Input is one tick of external control.
type Input struct {
	Mode Mode

	// Thrust direction for the ship; clamped to unit length.
	Thrust components.Point

	// Cursor direction for map and universe modes; clamped to unit length.
	Cursor components.Point

	// Zoom multiplies the camera zoom when non-zero.
	Zoom float64
}

// unit clamps v to at most unit length.
func unit(v components.Point) components.Point {
	if n := r2.Norm(v); n > 1 {
		return r2.Scale(1/n, v)
	}
	return v
}

// handleInput applies mode changes and camera zoom.
func (s *Simulation) handleInput(in Input) {
	s.setMode(in.Mode)
	if in.Zoom != 0 {
		s.camera.ZoomBy(in.Zoom)
	}
}
