package systems

import (
	"math"

	"github.com/pthm-cable/starfield/components"
)

// ProbeRings is the number of square rings searched around a point.
const ProbeRings = 6

// maxVisited bounds the dedupe set for ProbeRings rings.
const maxVisited = 196

// DensityFunc returns the per-mille presence density at a point.
type DensityFunc func(p components.Point) float64

// FlatDensity returns a constant density field.
func FlatDensity(perMille float64) DensityFunc {
	return func(components.Point) float64 { return perMille }
}

// GalaxyDensity returns base / (1 + d/halfRadius)^6, where d is the distance
// from the galaxy center at the local origin.
func GalaxyDensity(base, scaledRadius float64) DensityFunc {
	half := scaledRadius / 2
	return func(p components.Point) float64 {
		if half <= 0 {
			return 0
		}
		f := 1 + math.Hypot(p.X, p.Y)/half
		f2 := f * f
		return base / (f2 * f2 * f2)
	}
}

// Probe answers nearest-sibling queries against a procedural density field.
type Probe struct {
	Section  float64
	Sequence uint64
	Density  DensityFunc
}

// NearestSiblingDistance searches rings 1..ProbeRings around p for the first
// grid point whose presence trial succeeds and returns its distance. If none
// does, it returns (ProbeRings+1) * Section.
func (pr Probe) NearestSiblingDistance(p components.Point) float64 {
	p = components.Canonical(p)
	var visitedBuf [maxVisited]components.Point
	visited := visitedBuf[:0]

	seen := func(q components.Point) bool {
		for _, v := range visited {
			if v == q {
				return true
			}
		}
		return false
	}

	pi, pj := GridIndex(p.X, pr.Section), GridIndex(p.Y, pr.Section)
	check := func(dx, dy int) (float64, bool) {
		q := GridPoint(pi+int64(dx), pj+int64(dy), pr.Section)
		if q == p || seen(q) {
			return 0, false
		}
		if len(visited) < maxVisited {
			visited = append(visited, q)
		}
		if Present(q, pr.Sequence, pr.Density(q)) {
			return math.Hypot(q.X-p.X, q.Y-p.Y), true
		}
		return 0, false
	}

	for i := 1; i <= ProbeRings; i++ {
		// Top and bottom edges, corners included
		for dx := -i; dx <= i; dx++ {
			if d, ok := check(dx, -i); ok {
				return d
			}
			if d, ok := check(dx, i); ok {
				return d
			}
		}
		// Left and right edges, corners excluded
		for dy := -i + 1; dy <= i-1; dy++ {
			if d, ok := check(-i, dy); ok {
				return d
			}
			if d, ok := check(i, dy); ok {
				return d
			}
		}
	}
	return float64(ProbeRings+1) * pr.Section
}

// Classify maps a nearest-sibling distance to a class in 1..6 using
// ascending thresholds expressed in sections. A distance exactly on a
// threshold belongs to the larger class.
func Classify(distance, section float64, thresholds []float64) int {
	class := 1
	for _, t := range thresholds {
		if distance >= t*section {
			class++
		}
	}
	return class
}
