// Package main surveys generated content: it writes a golden presence table
// for compatibility checks and per-galaxy statistics for a universe region.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output", "survey", "Output directory")
	goldenCells := flag.Int("golden-cells", 16, "Cells along x in the golden presence table")
	goldenSection := flag.Float64("golden-section", 100000, "Section size of the golden presence table")
	goldenDensity := flag.Float64("golden-density", 20, "Per-mille density of the golden presence table")
	goldenSequence := flag.Uint64("golden-sequence", 1, "Sequence of the golden presence table")
	centerX := flag.Float64("x", 0, "Universe x of the surveyed region center")
	centerY := flag.Float64("y", 0, "Universe y of the surveyed region center")
	workers := flag.Int("workers", runtime.NumCPU(), "Parallel galaxy workers")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := config.Init(*configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	golden := GoldenTable(*goldenCells, *goldenSection, *goldenDensity, *goldenSequence)
	if err := writeCSV(filepath.Join(*outputDir, "golden.csv"), golden); err != nil {
		logger.Error("failed to write golden table", "error", err)
		os.Exit(1)
	}

	center := components.Point{X: *centerX, Y: *centerY}
	stats, err := SurveyRegion(context.Background(), cfg, center, *workers, logger)
	if err != nil {
		logger.Error("survey failed", "error", err)
		os.Exit(1)
	}
	if err := writeCSV(filepath.Join(*outputDir, "galaxies.csv"), stats); err != nil {
		logger.Error("failed to write galaxy stats", "error", err)
		os.Exit(1)
	}

	logger.Info("survey complete",
		"golden_rows", len(golden),
		"galaxies", len(stats),
		"output", *outputDir)
}

func writeCSV[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
