package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated streaming statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Table occupancy at window end
	Stars    int `csv:"stars"`
	Galaxies int `csv:"galaxies"`

	// Streaming activity during window
	StarScans         int `csv:"star_scans"`
	StarsGenerated    int `csv:"stars_generated"`
	StarsEvicted      int `csv:"stars_evicted"`
	GalaxyScans       int `csv:"galaxy_scans"`
	GalaxiesGenerated int `csv:"galaxies_generated"`
	GalaxiesEvicted   int `csv:"galaxies_evicted"`
	Skipped           int `csv:"skipped"`

	// Navigation
	GalaxySwitches  int `csv:"galaxy_switches"`
	GalaxyPreviews  int `csv:"galaxy_previews"`
	StarActivations int `csv:"star_activations"`
	PopulateFailed  int `csv:"populate_failed"`

	// Star table chain lengths at window end
	ChainMean float64 `csv:"chain_mean"`
	ChainStd  float64 `csv:"chain_std"`
	ChainMax  float64 `csv:"chain_max"`
	ChainP90  float64 `csv:"chain_p90"`
}

// ChainStats summarizes hash-table chain lengths.
type ChainStats struct {
	Mean, Std, Max, P90 float64
}

// ComputeChainStats calculates mean, std, max and 90th percentile of chain lengths.
func ComputeChainStats(lengths []float64) ChainStats {
	if len(lengths) == 0 {
		return ChainStats{}
	}
	sorted := slices.Clone(lengths)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	return ChainStats{
		Mean: mean,
		Std:  std,
		Max:  sorted[len(sorted)-1],
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("stars", s.Stars),
		slog.Int("galaxies", s.Galaxies),
		slog.Int("star_scans", s.StarScans),
		slog.Int("stars_generated", s.StarsGenerated),
		slog.Int("stars_evicted", s.StarsEvicted),
		slog.Int("galaxy_scans", s.GalaxyScans),
		slog.Int("galaxies_generated", s.GalaxiesGenerated),
		slog.Int("galaxies_evicted", s.GalaxiesEvicted),
		slog.Int("skipped", s.Skipped),
		slog.Int("galaxy_switches", s.GalaxySwitches),
		slog.Int("star_activations", s.StarActivations),
		slog.Float64("chain_mean", s.ChainMean),
		slog.Float64("chain_max", s.ChainMax),
	)
}

// LogStats logs the window stats.
func (s WindowStats) LogStats(logger *slog.Logger) {
	logger.Info("stats", "window", s)
}
