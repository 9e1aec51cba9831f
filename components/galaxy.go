package components

import "image/color"

// StarField is a lazily generated cloud of decorative star positions,
// relative to the galaxy center in universe units. Count is the number of
// valid entries in Points.
type StarField struct {
	Points      []Point
	Count       int
	Initialized bool
}

// Galaxy is a universe-scale entity. Its identity is its Point.
type Galaxy struct {
	Point  Point // universe coordinates of the center
	Class  int
	Radius float64 // universe units
	Cutoff float64 // universe units
	Color  color.RGBA

	Field   StarField
	FieldHD StarField
}

// Snapshot returns a value copy safe to hold across table mutation.
// Star-field slices are copied so the snapshot shares no storage with
// the table entry.
func (g *Galaxy) Snapshot() Galaxy {
	s := *g
	s.Field.Points = append([]Point(nil), g.Field.Points...)
	s.FieldHD.Points = append([]Point(nil), g.FieldHD.Points...)
	return s
}

// Valid reports whether the snapshot refers to a generated galaxy.
func (g *Galaxy) Valid() bool {
	return g.Class > 0
}
