package game

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/telemetry"
)

func init() {
	config.MustInit("")
}

// denseConfig fills every universe section with a galaxy and every star
// section near a galaxy center with a star.
func denseConfig() *config.Config {
	cfg := *config.Cfg()
	cfg.Universe.DensityPerMille = 1000
	cfg.Galaxy.DensityPerMille = 1000
	return &cfg
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func newTestSim(t *testing.T, cfg *config.Config) *Simulation {
	t.Helper()
	sim, err := NewSimulation(cfg, testOptions())
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return sim
}

func TestNewSimulation_StartsInGalaxy(t *testing.T) {
	sim := newTestSim(t, config.Cfg())

	cur := sim.Current()
	if !cur.Valid() {
		t.Fatal("expected a valid starting galaxy")
	}
	if sim.Buffer().Point != cur.Point {
		t.Errorf("expected buffer %v, got %v", cur.Point, sim.Buffer().Point)
	}
	if !sim.Galaxies().Exists(cur.Point) {
		t.Error("starting galaxy missing from the galaxy table")
	}
	if pos, vel := sim.Ship(); pos != (components.Point{}) || vel != (components.Point{}) {
		t.Errorf("expected ship at rest at the galaxy center, got %v %v", pos, vel)
	}
	if sim.Mode() != ModeNavigate {
		t.Errorf("expected navigate mode, got %v", sim.Mode())
	}
	if sim.Background() == nil || sim.Background().Sequence != sim.Sequence() {
		t.Error("background not built for the current galaxy")
	}
}

func TestNewSimulation_NoGalaxy(t *testing.T) {
	cfg := *config.Cfg()
	cfg.Universe.DensityPerMille = 0

	_, err := NewSimulation(&cfg, testOptions())
	if !errors.Is(err, ErrNoGalaxy) {
		t.Errorf("expected ErrNoGalaxy, got %v", err)
	}
}

func TestUpdate_NavigateActivatesAndFlies(t *testing.T) {
	sim := newTestSim(t, denseConfig())

	sim.Update(Input{Mode: ModeNavigate, Thrust: components.Point{X: 1}})

	if sim.Tick() != 1 {
		t.Errorf("expected tick 1, got %d", sim.Tick())
	}
	star := sim.ActiveStar()
	if star == nil {
		t.Fatal("expected the central star to be active")
	}
	if star.Point != (components.Point{}) || !star.Initialized() {
		t.Errorf("expected populated star at the origin, got %v initialized=%v", star.Point, star.Initialized())
	}
	if sim.Stars().Len() == 0 {
		t.Error("expected streamed stars")
	}

	pos, vel := sim.Ship()
	if pos.X <= 0 || vel.X <= 0 {
		t.Errorf("expected ship moving along +x, got pos %v vel %v", pos, vel)
	}
	if sim.Offsets().Navigate != pos {
		t.Errorf("navigate offset %v does not follow ship %v", sim.Offsets().Navigate, pos)
	}
	if cam := sim.Camera(); cam.X != pos.X || cam.Y != pos.Y {
		t.Errorf("camera not centered on ship: (%v, %v)", cam.X, cam.Y)
	}
	if sim.Residency() != InGalaxy {
		t.Errorf("expected in_galaxy, got %v", sim.Residency())
	}
}

func TestUpdate_ThrustClampedToUnit(t *testing.T) {
	cfg := denseConfig()
	a := newTestSim(t, cfg)
	b := newTestSim(t, cfg)

	a.Update(Input{Thrust: components.Point{X: 1}})
	b.Update(Input{Thrust: components.Point{X: 50}})

	_, va := a.Ship()
	_, vb := b.Ship()
	if va != vb {
		t.Errorf("expected thrust clamped to unit length: %v vs %v", va, vb)
	}
}

func TestUpdate_Deterministic(t *testing.T) {
	cfg := denseConfig()
	a := newTestSim(t, cfg)
	b := newTestSim(t, cfg)

	in := Input{Thrust: components.Point{X: 0.6, Y: 0.8}}
	for range 120 {
		a.Update(in)
		b.Update(in)
	}

	pa, _ := a.Ship()
	pb, _ := b.Ship()
	if pa != pb {
		t.Errorf("ship positions differ: %v vs %v", pa, pb)
	}
	if a.Stars().Len() != b.Stars().Len() {
		t.Errorf("star counts differ: %d vs %d", a.Stars().Len(), b.Stars().Len())
	}
	if (a.ActiveStar() == nil) != (b.ActiveStar() == nil) {
		t.Fatal("active star presence differs")
	}
	if a.ActiveStar() != nil && a.ActiveStar().Point != b.ActiveStar().Point {
		t.Errorf("active stars differ: %v vs %v", a.ActiveStar().Point, b.ActiveStar().Point)
	}
}

func TestUpdate_ZoomInput(t *testing.T) {
	sim := newTestSim(t, config.Cfg())
	before := sim.Camera().Zoom
	sim.Update(Input{Zoom: 0.5})
	if got := sim.Camera().Zoom; got != before*0.5 {
		t.Errorf("expected zoom %v, got %v", before*0.5, got)
	}
}

func TestField_GeneratedOnce(t *testing.T) {
	sim := newTestSim(t, config.Cfg())
	f := sim.Field(false)
	if !f.Initialized || f.Count == 0 {
		t.Fatalf("expected an initialized field, got count %d", f.Count)
	}
	if sim.Field(false) != f {
		t.Error("expected the cached field")
	}
	if hd := sim.Field(true); len(hd.Points) <= len(f.Points) {
		t.Errorf("expected a denser HD field, got %d slots vs %d", len(hd.Points), len(f.Points))
	}
}

func TestTelemetry_WritesCSV(t *testing.T) {
	cfg := denseConfig()
	cfg.Telemetry.StatsWindow = 0.05

	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.Output = out
	sim, err := NewSimulation(cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	for range 6 {
		sim.Update(Input{})
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	streams, err := os.ReadFile(filepath.Join(dir, "streams.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(streams)), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header and two windows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("unexpected header %q", lines[0])
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(events, []byte("star_activated")) {
		t.Errorf("expected a star activation event, got %q", events)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: "warn", JSON: true})

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record passed a warn-level logger")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON warn record, got %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
