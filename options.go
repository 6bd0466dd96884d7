package liveplot

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// lpConfig holds mutable state during LivePlot construction.
type lpConfig struct {
	title           string
	capacity        int
	tickInterval    time.Duration
	port            int
	message         string
	seed            *uint64
	logger          *slog.Logger
	registry        *prometheus.Registry
	sampleCallbacks []func(Sample)
}

// Option is a function that configures a [LivePlot] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*lpConfig) error

// WithCapacity sets how many samples the store retains.
//
// Once the store is full, every new sample evicts the oldest one.
// Defaults to 30 if not specified.
//
// Returns an error wrapping [ErrInvalidCapacity] if n is zero or negative.
func WithCapacity(n int) Option {
	return func(cfg *lpConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w, got %d", ErrInvalidCapacity, n)
		}
		cfg.capacity = n
		return nil
	}
}

// WithTickInterval sets how often the producer commits a sample.
//
// The first sample is committed as soon as [LivePlot.Start] runs.
// Defaults to 2 seconds if not specified.
//
// Example:
//
//	lp, err := liveplot.New(
//	    liveplot.WithTickInterval(500 * time.Millisecond),
//	)
//
// Returns an error wrapping [ErrInvalidInterval] if d is zero or negative.
func WithTickInterval(d time.Duration) Option {
	return func(cfg *lpConfig) error {
		if d <= 0 {
			return fmt.Errorf("%w, got %s", ErrInvalidInterval, d)
		}
		cfg.tickInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// The dashboard UI and API will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *lpConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "LivePlot".
func WithTitle(title string) Option {
	return func(cfg *lpConfig) error {
		cfg.title = title
		return nil
	}
}

// WithMessage sets the initial banner shown under the clock.
//
// The message can be changed at runtime from the settings page.
// Defaults to "Hello from the server!".
func WithMessage(msg string) Option {
	return func(cfg *lpConfig) error {
		cfg.message = msg
		return nil
	}
}

// WithSeed makes the random walk reproducible across runs.
func WithSeed(seed uint64) Option {
	return func(cfg *lpConfig) error {
		cfg.seed = &seed
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the LivePlot instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *lpConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithRegistry registers the LivePlot collectors on reg and serves reg at
// /metrics.
//
// If not specified, a private registry is used. A registry must not be
// shared between LivePlot instances; the second registration panics.
//
// Returns an error if reg is nil.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(cfg *lpConfig) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithSampleCallback registers a function to be called after every commit.
//
// Multiple callbacks may be registered; they execute in registration order
// on the producer goroutine, so they must not block. Panics within
// callbacks are recovered and logged; they do not stop the producer.
//
// Example:
//
//	lp, err := liveplot.New(
//	    liveplot.WithSampleCallback(func(s liveplot.Sample) {
//	        if s.ValueA > 20 {
//	            log.Printf("walk is high: %d", s.ValueA)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithSampleCallback(cb func(Sample)) Option {
	return func(cfg *lpConfig) error {
		if cb == nil {
			return nil
		}
		cfg.sampleCallbacks = append(cfg.sampleCallbacks, cb)
		return nil
	}
}
