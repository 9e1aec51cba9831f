package components

import "gonum.org/v1/gonum/spatial/r2"

// Point is a 2D coordinate. The same type is used at universe scale,
// galaxy-local scale and body-local scale.
type Point = r2.Vec

// Canonical returns p with negative zeros replaced by positive zeros so that
// equal keys always share the same bit pattern.
func Canonical(p Point) Point {
	if p.X == 0 {
		p.X = 0
	}
	if p.Y == 0 {
		p.Y = 0
	}
	return p
}

// Position represents a ship's galaxy-local position.
type Position struct {
	P Point
}

// Velocity represents a ship's velocity in local units per second.
type Velocity struct {
	V Point
}

// Thrust is the throttle vector applied to a ship this tick, in [-1, 1] per axis.
type Thrust struct {
	T Point
}

// Rect is a screen-space rectangle recomputed by the zoom hook.
type Rect struct {
	X, Y, W, H float64
}
