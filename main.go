package main

import (
	"flag"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/game"
	"github.com/pthm-cable/starfield/telemetry"
)

// getEnv returns the environment value for key, or fallback when unset.
func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func main() {
	// .env values become flag defaults
	envErr := godotenv.Load()

	// CLI flags
	configPath := flag.String("config", getEnv("STARFIELD_CONFIG", ""), "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", getEnv("STARFIELD_OUTPUT_DIR", ""), "Output directory for CSV logs and config snapshot")
	logLevel := flag.String("log-level", getEnv("STARFIELD_LOG_LEVEL", ""), "Log level override (debug|info|warn|error)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	maxTicks := flag.Int("max-ticks", 3600, "Stop after N ticks (0 = unlimited)")
	heading := flag.Float64("heading", getEnvFloat("STARFIELD_HEADING", 0), "Ship heading in degrees")
	throttle := flag.Float64("throttle", getEnvFloat("STARFIELD_THROTTLE", 1), "Ship throttle in [0, 1]")
	startX := flag.Float64("start-x", 0, "Universe x to start searching for a galaxy")
	startY := flag.Float64("start-y", 0, "Universe y to start searching for a galaxy")
	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger := game.NewLogger(os.Stdout, cfg.Logging)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file found, using flags and environment")
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		logger.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config snapshot", "error", err)
	}

	opts := game.DefaultOptions()
	opts.Logger = logger
	opts.Start = components.Point{X: *startX, Y: *startY}
	opts.Output = output
	opts.LogStats = *logStats

	sim, err := game.NewSimulation(cfg, opts)
	if err != nil {
		logger.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	rad := *heading * math.Pi / 180
	in := game.Input{
		Mode:   game.ModeNavigate,
		Thrust: components.Point{X: *throttle * math.Cos(rad), Y: *throttle * math.Sin(rad)},
	}

	logger.Info("starting headless simulation",
		"max_ticks", *maxTicks,
		"heading", *heading,
		"throttle", *throttle,
		"output_dir", output.Dir(),
	)

	for {
		sim.Update(in)

		if *maxTicks > 0 && int(sim.Tick()) >= *maxTicks {
			pos, vel := sim.Ship()
			cur := sim.Current()
			logger.Info("max ticks reached",
				"tick", sim.Tick(),
				"galaxy_x", cur.Point.X, "galaxy_y", cur.Point.Y,
				"ship_x", pos.X, "ship_y", pos.Y,
				"speed", math.Hypot(vel.X, vel.Y),
			)
			return
		}
	}
}
