package game

import (
	"io"
	"log/slog"

	"github.com/pthm-cable/starfield/config"
)

// NewLogger builds the process logger from the logging section.
func NewLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// logSystemState logs the active navigation context.
func (s *Simulation) logSystemState() {
	args := []any{
		"tick", s.tick,
		"mode", s.mode.String(),
		"galaxy_x", s.current.Point.X,
		"galaxy_y", s.current.Point.Y,
		"galaxy_class", s.current.Class,
		"stars", s.stars.Table.Len(),
		"galaxies", s.galaxies.Table.Len(),
	}
	if s.active != nil {
		args = append(args, "active_star_bodies", len(s.active.Bodies))
	}
	s.logger.Info("state", args...)
}
