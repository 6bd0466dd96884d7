package config

import (
	"io"
	"log/slog"

	"github.com/jpalmerr/liveplot"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The logger is passed through unchanged; use [NewLogger] to build one from
// the config's log section.
func BuildOptions(cfg *Config, logger *slog.Logger) []liveplot.Option {
	opts := []liveplot.Option{
		liveplot.WithPort(cfg.Port),
		liveplot.WithCapacity(cfg.Capacity),
		liveplot.WithTickInterval(cfg.TickInterval.Duration()),
		liveplot.WithMessage(cfg.Message),
	}

	if cfg.Title != "" {
		opts = append(opts, liveplot.WithTitle(cfg.Title))
	}
	if cfg.Seed != nil {
		opts = append(opts, liveplot.WithSeed(*cfg.Seed))
	}
	if logger != nil {
		opts = append(opts, liveplot.WithLogger(logger))
	}

	return opts
}

// NewLogger creates a logger writing to w according to the log section.
//
// Unknown levels fall back to info and unknown formats to JSON; [Parse]
// rejects both, so this only matters for hand-built configs.
func NewLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}
