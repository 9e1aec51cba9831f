// Package config provides configuration loading and access for the universe.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// NumClasses is the number of size classes for galaxies, stars, planets and moons.
const NumClasses = 6

// Allowed range for Galaxy.Scale.
const (
	MinGalaxyScale = 1.0
	MaxGalaxyScale = 1e6
)

// ErrInvalid is returned by Validate when a configuration value is unusable.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all generation, streaming and physics parameters.
type Config struct {
	Universe   UniverseConfig   `yaml:"universe"`
	Galaxy     GalaxyConfig     `yaml:"galaxy"`
	Star       StarConfig       `yaml:"star"`
	Planet     PlanetConfig     `yaml:"planet"`
	Moon       MoonConfig       `yaml:"moon"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Ship       ShipConfig       `yaml:"ship"`
	Table      TableConfig      `yaml:"table"`
	Background BackgroundConfig `yaml:"background"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// UniverseConfig holds universe-scale generation parameters.
// Galaxies live on a grid of SectionSize universe units.
type UniverseConfig struct {
	Seed            uint64    `yaml:"seed"`              // Sequence salt for universe-level draws
	SectionSize     float64   `yaml:"section_size"`      // Universe units per section
	RegionSize      int       `yaml:"region_size"`       // Sections per region edge
	DensityPerMille float64   `yaml:"density_per_mille"` // Flat galaxy density
	ClassThresholds []float64 `yaml:"class_thresholds"`  // Nearest-neighbor distance thresholds in sections
	RadiusMin       []float64 `yaml:"radius_min"`        // Per-class galaxy radius lower bound (universe units)
	RadiusSpan      []float64 `yaml:"radius_span"`       // Per-class galaxy radius span
	CursorSpeed     float64   `yaml:"cursor_speed"`      // Universe cursor speed (units per second)
}

// GalaxyConfig holds galaxy-local generation parameters.
type GalaxyConfig struct {
	Scale           float64 `yaml:"scale"`             // Galaxy-local units per universe unit
	SectionSize     float64 `yaml:"section_size"`      // Galaxy-local units per section
	RegionSize      int     `yaml:"region_size"`       // Sections per region edge
	DensityPerMille float64 `yaml:"density_per_mille"` // Star density at the galaxy center
	FieldStars      []int   `yaml:"field_stars"`       // Per-class star-field cloud size
	FieldHDFactor   int     `yaml:"field_hd_factor"`   // HD cloud size = FieldStars * this
	CursorSpeed     float64 `yaml:"cursor_speed"`      // Map cursor speed (local units per second)
}

// StarConfig holds star classification and sizing parameters.
type StarConfig struct {
	ClassThresholds []float64 `yaml:"class_thresholds"` // Nearest-neighbor distance thresholds in sections
	RadiusMin       []float64 `yaml:"radius_min"`
	RadiusMax       []float64 `yaml:"radius_max"`
	MaxPlanets      int       `yaml:"max_planets"`
	MaxBodies       int       `yaml:"max_bodies"` // Arena limit per system, 0 = unlimited
}

// PlanetConfig holds planet orbit and sizing parameters, indexed by star class.
type PlanetConfig struct {
	OrbitMin        []float64 `yaml:"orbit_min"`
	OrbitMax        []float64 `yaml:"orbit_max"`
	RadiusMax       []float64 `yaml:"radius_max"`
	RadiusMin       float64   `yaml:"radius_min"`
	ClassThresholds []float64 `yaml:"class_thresholds"` // Orbit width thresholds
}

// MoonConfig holds moon orbit and sizing parameters, indexed by planet class.
type MoonConfig struct {
	OrbitMin   []float64 `yaml:"orbit_min"`
	OrbitMax   []float64 `yaml:"orbit_max"`
	RadiusMax  []float64 `yaml:"radius_max"`
	RadiusMin  float64   `yaml:"radius_min"`
	CountBound []int     `yaml:"count_bound"` // Moon cap = int(planet cutoff) % bound
}

// PhysicsConfig holds integrator parameters.
type PhysicsConfig struct {
	TickRate              float64 `yaml:"tick_rate"`              // Ticks per second
	CosmicConstant        float64 `yaml:"cosmic_constant"`        // k1 in v = k1*sqrt(k2*R^2/d)
	GravitationalConstant float64 `yaml:"gravitational_constant"` // k2, also G in g = G*R^2/d^2
	GalaxySpeedLimit      float64 `yaml:"galaxy_speed_limit"`
	UniverseSpeedLimit    float64 `yaml:"universe_speed_limit"`
}

// ShipConfig holds player ship parameters.
type ShipConfig struct {
	Radius float64 `yaml:"radius"`
	Thrust float64 `yaml:"thrust"`
}

// TableConfig holds spatial table limits.
type TableConfig struct {
	MaxEntries int `yaml:"max_entries"` // 0 = unlimited
}

// BackgroundConfig holds background nebula noise parameters.
type BackgroundConfig struct {
	Frequency float64 `yaml:"frequency"`
	Octaves   int     `yaml:"octaves"`
	Threshold float64 `yaml:"threshold"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// LoggingConfig holds slog handler settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT                float64 // 1 / TickRate
	StarCoverRadius   float64 // sqrt(2) * region/2 * section, galaxy-local
	GalaxyCoverRadius float64 // sqrt(2) * region/2 * section, universe
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks that every parameter is usable. Errors wrap ErrInvalid.
func (c *Config) Validate() error {
	if c.Galaxy.Scale < MinGalaxyScale || c.Galaxy.Scale > MaxGalaxyScale {
		return fmt.Errorf("%w: galaxy.scale %g outside [%g, %g]", ErrInvalid, c.Galaxy.Scale, MinGalaxyScale, MaxGalaxyScale)
	}
	if c.Universe.SectionSize <= 0 || c.Galaxy.SectionSize <= 0 {
		return fmt.Errorf("%w: section sizes must be positive", ErrInvalid)
	}
	if c.Universe.RegionSize < 2 || c.Galaxy.RegionSize < 2 {
		return fmt.Errorf("%w: region sizes must be at least 2", ErrInvalid)
	}
	for name, d := range map[string]float64{
		"universe.density_per_mille": c.Universe.DensityPerMille,
		"galaxy.density_per_mille":   c.Galaxy.DensityPerMille,
	} {
		if d < 0 || d > 1000 {
			return fmt.Errorf("%w: %s %g outside [0, 1000]", ErrInvalid, name, d)
		}
	}
	if c.Physics.TickRate <= 0 {
		return fmt.Errorf("%w: physics.tick_rate must be positive", ErrInvalid)
	}

	perClass := map[string]int{
		"universe.radius_min":  len(c.Universe.RadiusMin),
		"universe.radius_span": len(c.Universe.RadiusSpan),
		"galaxy.field_stars":   len(c.Galaxy.FieldStars),
		"star.radius_min":      len(c.Star.RadiusMin),
		"star.radius_max":      len(c.Star.RadiusMax),
		"planet.orbit_min":     len(c.Planet.OrbitMin),
		"planet.orbit_max":     len(c.Planet.OrbitMax),
		"planet.radius_max":    len(c.Planet.RadiusMax),
		"moon.orbit_min":       len(c.Moon.OrbitMin),
		"moon.orbit_max":       len(c.Moon.OrbitMax),
		"moon.radius_max":      len(c.Moon.RadiusMax),
		"moon.count_bound":     len(c.Moon.CountBound),
	}
	for name, n := range perClass {
		if n != NumClasses {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrInvalid, name, n, NumClasses)
		}
	}
	thresholds := map[string][]float64{
		"universe.class_thresholds": c.Universe.ClassThresholds,
		"star.class_thresholds":     c.Star.ClassThresholds,
		"planet.class_thresholds":   c.Planet.ClassThresholds,
	}
	for name, t := range thresholds {
		if len(t) != NumClasses-1 {
			return fmt.Errorf("%w: %s has %d entries, want %d", ErrInvalid, name, len(t), NumClasses-1)
		}
		for i := 1; i < len(t); i++ {
			if t[i] <= t[i-1] {
				return fmt.Errorf("%w: %s must be strictly ascending", ErrInvalid, name)
			}
		}
	}

	for i := 0; i < NumClasses; i++ {
		if c.Planet.OrbitMin[i] <= 0 || c.Planet.OrbitMax[i] <= c.Planet.OrbitMin[i] {
			return fmt.Errorf("%w: planet orbit range for class %d", ErrInvalid, i+1)
		}
		if c.Moon.OrbitMin[i] <= 0 || c.Moon.OrbitMax[i] <= c.Moon.OrbitMin[i] {
			return fmt.Errorf("%w: moon orbit range for class %d", ErrInvalid, i+1)
		}
		if c.Star.RadiusMax[i] < c.Star.RadiusMin[i] {
			return fmt.Errorf("%w: star radius range for class %d", ErrInvalid, i+1)
		}
		if c.Moon.CountBound[i] <= 0 || c.Planet.RadiusMax[i] <= 0 || c.Moon.RadiusMax[i] <= 0 {
			return fmt.Errorf("%w: non-positive planet/moon bound for class %d", ErrInvalid, i+1)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = 1.0 / c.Physics.TickRate
	c.Derived.StarCoverRadius = math.Sqrt2 * float64(c.Galaxy.RegionSize) / 2 * c.Galaxy.SectionSize
	c.Derived.GalaxyCoverRadius = math.Sqrt2 * float64(c.Universe.RegionSize) / 2 * c.Universe.SectionSize
}

// ClassIndex clamps a 1-based class to a valid slice index.
func ClassIndex(class int) int {
	if class < 1 {
		return 0
	}
	if class > NumClasses {
		return NumClasses - 1
	}
	return class - 1
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
