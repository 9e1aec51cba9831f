package components

import "image/color"

// Level tags a body's place in a star system hierarchy.
type Level uint8

const (
	LevelStar Level = iota
	LevelPlanet
	LevelMoon
)

func (l Level) String() string {
	switch l {
	case LevelStar:
		return "star"
	case LevelPlanet:
		return "planet"
	case LevelMoon:
		return "moon"
	}
	return "unknown"
}

// BodyID indexes a Body within its Star's arena.
type BodyID int32

// NoBody is the parent of the root star body.
const NoBody BodyID = -1

// RootBody is the arena index of the star itself.
const RootBody BodyID = 0

// Body is a node in a star system: the star, a planet or a moon.
// Position and velocity are galaxy-local.
type Body struct {
	Level  Level
	Class  int
	Radius float64
	Cutoff float64 // activation radius; half the orbit width for planets
	Color  color.RGBA

	Pos   Point
	Vel   Point // units per second
	Delta Point // displacement applied last tick, inherited by children

	Angle      float64 // placement angle in degrees
	OrbitTotal float64 // accumulated orbit width at placement

	Parent      BodyID
	Children    []BodyID
	Initialized bool // children populated

	Rect Rect
}
