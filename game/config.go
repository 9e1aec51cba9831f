package game

import (
	"log/slog"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/telemetry"
)

// Default viewport dimensions
const (
	ScreenWidth  = 1280
	ScreenHeight = 800
)

// Zoom range of the navigation camera, in screen pixels per local unit.
const (
	MinZoom = 1e-7
	MaxZoom = 4.0
)

// maxStartRings bounds the spiral search for a starting galaxy.
const maxStartRings = 64

// Options holds configuration for simulation initialization.
type Options struct {
	Logger *slog.Logger

	// Start is the universe point the spiral search for a starting galaxy
	// begins from.
	Start components.Point

	// Output receives telemetry rows; nil disables CSV output.
	Output *telemetry.OutputManager

	// LogStats logs every flushed telemetry window.
	LogStats bool

	Width, Height float64
}

// DefaultOptions returns the default simulation options.
func DefaultOptions() Options {
	return Options{
		Logger: slog.Default(),
		Width:  ScreenWidth,
		Height: ScreenHeight,
	}
}
