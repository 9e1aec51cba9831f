package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/starfield/components"
)

func TestNearestSiblingDistance_Full(t *testing.T) {
	pr := Probe{Section: 100000, Sequence: 1, Density: FlatDensity(1000)}
	got := pr.NearestSiblingDistance(components.Point{X: 500000, Y: 300000})
	// The first ring-1 candidate is a corner
	want := math.Sqrt2 * 100000
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("distance = %v, want %v", got, want)
	}
}

func TestNearestSiblingDistance_Empty(t *testing.T) {
	pr := Probe{Section: 100000, Sequence: 1, Density: FlatDensity(0)}
	got := pr.NearestSiblingDistance(components.Point{})
	if got != 7*100000 {
		t.Errorf("distance = %v, want %v", got, 7*100000.0)
	}
}

func TestNearestSiblingDistance_OnGrid(t *testing.T) {
	pr := Probe{Section: 1000, Sequence: 9, Density: FlatDensity(30)}
	for i := range 50 {
		p := components.Point{X: float64(i) * 1000, Y: -3000}
		d := pr.NearestSiblingDistance(p)
		if d == 7000 {
			continue
		}
		// Hits are grid offsets within six rings
		ring := d / 1000
		if ring < 1 || ring > 6*math.Sqrt2+1e-9 {
			t.Errorf("distance %v outside probed rings", d)
		}
		if d != pr.NearestSiblingDistance(p) {
			t.Errorf("probe at %v not deterministic", p)
		}
	}
}

func TestNearestSiblingDistance_VisitedBound(t *testing.T) {
	visited := 0
	for i := 1; i <= ProbeRings; i++ {
		visited += 8 * i
	}
	if visited > maxVisited {
		t.Errorf("%d perimeter points exceed visited bound %d", visited, maxVisited)
	}
}

func TestGalaxyDensity_Falloff(t *testing.T) {
	d := GalaxyDensity(100, 2000)
	if got := d(components.Point{}); got != 100 {
		t.Errorf("center density = %v, want 100", got)
	}
	if got := d(components.Point{X: 1000}); math.Abs(got-100.0/64) > 1e-12 {
		t.Errorf("density at half radius = %v, want %v", got, 100.0/64)
	}
	if d(components.Point{X: 5000}) >= d(components.Point{X: 4000}) {
		t.Error("density not decreasing with distance")
	}
	if got := GalaxyDensity(100, 0)(components.Point{}); got != 0 {
		t.Errorf("zero-radius density = %v, want 0", got)
	}
}

func TestClassify(t *testing.T) {
	thresholds := []float64{2, 3, 4, 5, 6}
	const s = 100000.0
	tests := []struct {
		dist float64
		want int
	}{
		{math.Sqrt2 * s, 1},
		{1.999 * s, 1},
		{2 * s, 2},
		{2.5 * s, 2},
		{3 * s, 3},
		{5.999 * s, 5},
		{6 * s, 6},
		{7 * s, 6},
	}
	for _, tt := range tests {
		if got := Classify(tt.dist, s, thresholds); got != tt.want {
			t.Errorf("Classify(%v) = %d, want %d", tt.dist/s, got, tt.want)
		}
	}
}
