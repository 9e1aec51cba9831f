package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/starfield/components"
)

// neighbor returns the galaxy one universe section east of the current one.
func neighbor(t *testing.T, sim *Simulation) components.Galaxy {
	t.Helper()
	p := sim.Current().Point
	p.X += sim.cfg.Universe.SectionSize
	g, ok := sim.Galaxies().Get(p)
	if !ok {
		t.Fatalf("expected a galaxy at %v", p)
	}
	return g.Snapshot()
}

func TestResidency_InsideCutoff(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	local, r := sim.checkResidency(components.Point{X: 1000}, true)
	if r != InGalaxy || local != (components.Point{X: 1000}) {
		t.Errorf("expected in_galaxy at the same point, got %v at %v", r, local)
	}
}

func TestResidency_CommitSwitch(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	start := sim.Current()
	other := neighbor(t, sim)

	local := components.Point{X: sim.cfg.Universe.SectionSize * sim.cfg.Galaxy.Scale}
	got, r := sim.checkResidency(local, true)
	if r != SwitchedGalaxy {
		t.Fatalf("expected switched_galaxy, got %v", r)
	}
	if math.Hypot(got.X, got.Y) > 1e-3 {
		t.Errorf("expected observer at the new galaxy center, got %v", got)
	}
	if sim.Current().Point != other.Point || sim.Buffer().Point != other.Point {
		t.Errorf("expected current and buffer %v, got %v and %v", other.Point, sim.Current().Point, sim.Buffer().Point)
	}
	if sim.Previous().Point != start.Point {
		t.Errorf("expected previous %v, got %v", start.Point, sim.Previous().Point)
	}
	if pos, _ := sim.Ship(); pos != got {
		t.Errorf("expected ship moved to %v, got %v", got, pos)
	}
	if sim.Sequence() == 0 || sim.Stars().Len() != 0 {
		t.Error("star frame not reset for the new galaxy")
	}
	if sim.Residency() != SwitchedGalaxy {
		t.Errorf("expected stored residency switched_galaxy, got %v", sim.Residency())
	}

	// The next check inside the new cutoff settles back to in_galaxy.
	sim.checkResidency(got, true)
	if sim.Residency() != InGalaxy {
		t.Errorf("expected in_galaxy after settling, got %v", sim.Residency())
	}
}

func TestResidency_SameGalaxyReentry(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	cur := sim.Current().Point
	sim.Galaxies().Evict(func(p components.Point, _ *components.Galaxy) bool { return p == cur })

	outside := components.Point{X: 2 * sim.Current().Cutoff * sim.cfg.Galaxy.Scale}
	local, r := sim.checkResidency(outside, false)
	if r != SameGalaxyReentry {
		t.Errorf("expected same_galaxy_reentry, got %v", r)
	}
	if local != outside || sim.Current().Point != cur {
		t.Error("reentry changed the frame")
	}
	if sim.Residency() != SameGalaxyReentry {
		t.Errorf("expected stored residency same_galaxy_reentry, got %v", sim.Residency())
	}
}

func TestResidency_String(t *testing.T) {
	cases := map[Residency]string{
		InGalaxy:          "in_galaxy",
		SameGalaxyReentry: "same_galaxy_reentry",
		SwitchedGalaxy:    "switched_galaxy",
		Residency(9):      "unknown",
	}
	for r, want := range cases {
		if r.String() != want {
			t.Errorf("expected %q, got %q", want, r.String())
		}
	}
}

func TestMapPreview_DoesNotCommit(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	start := sim.Current()
	other := neighbor(t, sim)
	shipBefore, _ := sim.Ship()

	// Walk the universe cursor one section east
	east := Input{Mode: ModeUniverse, Cursor: components.Point{X: 1}}
	for range 30 {
		sim.Update(east)
	}
	if sim.Mode() != ModeUniverse {
		t.Fatalf("expected universe mode, got %v", sim.Mode())
	}
	if d := sim.Offsets().Universe.X - other.Point.X; math.Abs(d) > 1 {
		t.Fatalf("expected cursor near %v, got %v", other.Point, sim.Offsets().Universe)
	}

	sim.Update(Input{Mode: ModeMap})
	if sim.Current().Point != other.Point {
		t.Errorf("expected preview of %v, got %v", other.Point, sim.Current().Point)
	}
	if sim.Buffer().Point != start.Point {
		t.Errorf("preview changed the buffer to %v", sim.Buffer().Point)
	}
	if pos, _ := sim.Ship(); pos != shipBefore {
		t.Errorf("preview moved the ship to %v", pos)
	}

	sim.Update(Input{Mode: ModeNavigate})
	if sim.Current().Point != start.Point {
		t.Errorf("expected buffer %v restored, got %v", start.Point, sim.Current().Point)
	}
	if sim.Previous().Point != other.Point {
		t.Errorf("expected previous %v, got %v", other.Point, sim.Previous().Point)
	}
}

func TestMapPreview_KeepsActiveSystem(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	for range 5 {
		sim.Update(Input{Mode: ModeNavigate})
	}
	active := sim.ActiveStar()
	if active == nil {
		t.Fatal("expected the central star to be active")
	}
	before := sim.Stars().Len()

	east := Input{Mode: ModeUniverse, Cursor: components.Point{X: 1}}
	for range 30 {
		sim.Update(east)
	}
	sim.Update(Input{Mode: ModeMap})
	if sim.Current().Point == sim.Buffer().Point {
		t.Fatal("expected a preview of another galaxy")
	}
	if sim.ActiveStar() != nil {
		t.Error("expected no active system while previewing")
	}

	sim.Update(Input{Mode: ModeNavigate})
	if sim.ActiveStar() != active {
		t.Errorf("expected the same active star after the preview, got %p want %p", sim.ActiveStar(), active)
	}
	if !sim.Stars().Exists(active.Point) {
		t.Error("active star missing from the restored table")
	}
	if sim.Stars().Len() < before {
		t.Errorf("expected at least %d restored stars, got %d", before, sim.Stars().Len())
	}
}

func TestRelocate_DropsParkedStars(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	sim.Update(Input{Mode: ModeNavigate})
	other := neighbor(t, sim)

	sim.Update(Input{Mode: ModeMap})
	g, ok := sim.Galaxies().Get(other.Point)
	if !ok {
		t.Fatalf("expected a galaxy at %v", other.Point)
	}
	sim.switchGalaxy(g, other.Point, false)
	if sim.parked == nil {
		t.Fatal("expected the buffer stars parked during the preview")
	}

	if err := sim.Relocate(other.Point); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if sim.parked != nil || sim.parkedActive != nil {
		t.Error("expected parked stars dropped after a commit")
	}
	if sim.Buffer().Point != other.Point {
		t.Errorf("expected buffer %v, got %v", other.Point, sim.Buffer().Point)
	}
}

func TestMapMode_PausesShip(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	sim.Update(Input{Thrust: components.Point{X: 1}})
	pos, vel := sim.Ship()

	for range 10 {
		sim.Update(Input{Mode: ModeMap, Thrust: components.Point{X: 1}, Cursor: components.Point{Y: 1}})
	}
	if p, v := sim.Ship(); p != pos || v != vel {
		t.Errorf("ship moved in map mode: %v %v", p, v)
	}
	if sim.Offsets().Map.Y <= pos.Y {
		t.Errorf("expected map cursor moving along +y, got %v", sim.Offsets().Map)
	}
}

func TestRelocate_Commits(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	sim.Update(Input{Thrust: components.Point{X: 1}})

	section := sim.cfg.Universe.SectionSize
	target := sim.Current().Point
	target.X += 2 * section
	target.Y += 300

	if err := sim.Relocate(target); err != nil {
		t.Fatalf("Relocate: %v", err)
	}

	want := components.Point{X: target.X, Y: target.Y - 300}
	if sim.Current().Point != want || sim.Buffer().Point != want {
		t.Errorf("expected current and buffer %v, got %v and %v", want, sim.Current().Point, sim.Buffer().Point)
	}
	pos, vel := sim.Ship()
	if vel != (components.Point{}) {
		t.Errorf("expected ship stopped, got velocity %v", vel)
	}
	if math.Abs(pos.X) > 1e-3 || math.Abs(pos.Y-300*sim.cfg.Galaxy.Scale) > 1e-3 {
		t.Errorf("expected ship at (0, %v), got %v", 300*sim.cfg.Galaxy.Scale, pos)
	}
	if sim.Mode() != ModeNavigate {
		t.Errorf("expected navigate mode, got %v", sim.Mode())
	}
}

func TestNearestGalaxy_ExcludeCurrent(t *testing.T) {
	sim := newTestSim(t, denseConfig())
	cur := sim.Current()

	g, d, ok := sim.NearestGalaxy(cur.Point, false)
	if !ok || g.Point != cur.Point || d != -cur.Radius {
		t.Errorf("expected current galaxy at %v, got %v at %v", -cur.Radius, g.Point, d)
	}

	g, _, ok = sim.NearestGalaxy(cur.Point, true)
	if !ok || g.Point == cur.Point {
		t.Errorf("expected a different galaxy, got %v", g.Point)
	}
}

func TestProject_Roundtrip(t *testing.T) {
	center := components.Point{X: 10000, Y: -20000}
	local := project(components.Point{X: 10003, Y: -19996}, center, 1000)
	if math.Abs(local.X-3000) > 1e-6 || math.Abs(local.Y-4000) > 1e-6 {
		t.Errorf("expected (3000, 4000), got %v", local)
	}
}
