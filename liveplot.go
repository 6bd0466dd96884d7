package liveplot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jpalmerr/liveplot/dashboard"
	"github.com/jpalmerr/liveplot/internal/message"
	"github.com/jpalmerr/liveplot/internal/metrics"
	"github.com/jpalmerr/liveplot/internal/producer"
	"github.com/jpalmerr/liveplot/internal/server"
	"github.com/jpalmerr/liveplot/internal/store"
)

const (
	// DefaultCapacity is the number of samples retained when no capacity is set.
	DefaultCapacity = 30

	// DefaultTickInterval is the producer cadence when no interval is set.
	DefaultTickInterval = 2 * time.Second

	// DefaultPort is the dashboard port when no port is set.
	DefaultPort = 8080
)

var (
	// ErrInvalidCapacity is returned for a zero or negative capacity.
	ErrInvalidCapacity = store.ErrInvalidCapacity

	// ErrInvalidInterval is returned for a zero or negative tick interval.
	ErrInvalidInterval = producer.ErrInvalidInterval

	// ErrCommitRejected is returned by [LivePlot.Start] when the store did not
	// accept a sample. The producer does not retry.
	ErrCommitRejected = producer.ErrCommitRejected
)

// LivePlot is the main orchestrator for sample production and dashboard serving.
//
// LivePlot owns one bounded time-series store, one producer appending to it
// on a fixed cadence, and an HTTP server whose handlers only ever read
// snapshots of it. It is created using [New] with functional options and
// started with [LivePlot.Start].
//
// The typical lifecycle is:
//
//	lp, err := liveplot.New(liveplot.WithCapacity(60))
//	if err != nil {
//	    slog.Error("failed to create liveplot", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	lp.Start(ctx) // blocks until context cancelled
type LivePlot struct {
	title           string
	capacity        int
	tickInterval    time.Duration
	port            int
	message         string
	seed            *uint64
	logger          *slog.Logger
	registry        *prometheus.Registry
	metrics         *metrics.Metrics
	sampleCallbacks []func(Sample)
}

// New creates a new [LivePlot] instance with the given options.
//
// Options have sensible defaults:
//   - Capacity: 30 samples
//   - Tick interval: 2 seconds
//   - Port: 8080
//   - Message: "Hello from the server!"
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*LivePlot, error) {
	cfg := &lpConfig{
		capacity:     DefaultCapacity,
		tickInterval: DefaultTickInterval,
		port:         DefaultPort,
		message:      message.DefaultMessage,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := cfg.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &LivePlot{
		title:           cfg.title,
		capacity:        cfg.capacity,
		tickInterval:    cfg.tickInterval,
		port:            cfg.port,
		message:         cfg.message,
		seed:            cfg.seed,
		logger:          logger,
		registry:        registry,
		metrics:         metrics.New(registry),
		sampleCallbacks: cfg.sampleCallbacks,
	}, nil
}

// Start begins producing samples and serving the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled
// or the producer fails. During execution:
//
//   - A fresh store with the configured capacity is created
//   - The HTTP server starts on the configured port
//   - One sample is committed immediately, then one per tick interval
//
// Every Start builds a new, empty store; nothing survives a restart.
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start, or an error wrapping [ErrCommitRejected] if a commit fails.
func (lp *LivePlot) Start(ctx context.Context) error {
	lp.logger.Info("liveplot starting", "capacity", lp.capacity)
	lp.logger.Info("producer configured", "interval", lp.tickInterval.String())
	lp.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", lp.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	samples, err := store.NewMemoryStore(lp.capacity)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := server.NewServer(server.Config{
		Store:    samples,
		Messages: message.NewStore(lp.message),
		Metrics:  lp.metrics,
		Gatherer: lp.registry,
		Port:     lp.port,
		Assets:   dashboard.Assets,
		Title:    lp.title,
		Logger:   lp.logger,
	})
	if err := httpServer.Start(runCtx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	prod, err := producer.NewProducer(samples, lp.tickInterval, lp.logger, lp.producerOptions(samples)...)
	if err != nil {
		return err
	}
	prod.Start(runCtx)

	select {
	case <-ctx.Done():
		prod.Stop()
		lp.logger.Info("liveplot stopped")
		return nil
	case <-prod.Done():
		if err := prod.Err(); err != nil {
			lp.metrics.RecordProducerFailure()
			return fmt.Errorf("producer stopped: %w", err)
		}
		// loop exited because ctx was cancelled between the two checks
		return nil
	}
}

// producerOptions wires metrics and sample callbacks into the producer.
func (lp *LivePlot) producerOptions(samples *store.MemoryStore) []producer.Option {
	opts := []producer.Option{
		producer.WithOnSample(func(s store.Sample, elapsed time.Duration) {
			lp.metrics.ObserveCommit(s.Index, s.ValueA, s.ValueB, samples.Len(), elapsed.Seconds())
			lp.logger.Debug("sample committed",
				"index", s.Index,
				"value_a", s.ValueA,
				"value_b", s.ValueB,
			)
		}),
	}
	if lp.seed != nil {
		opts = append(opts, producer.WithSeed(*lp.seed))
	}
	for _, cb := range lp.sampleCallbacks {
		opts = append(opts, producer.WithOnSample(func(s store.Sample, elapsed time.Duration) {
			cb(Sample{
				Index:   s.Index,
				ValueA:  s.ValueA,
				ValueB:  s.ValueB,
				Elapsed: elapsed,
			})
		}))
	}
	return opts
}

// Capacity returns the configured store capacity.
func (lp *LivePlot) Capacity() int {
	return lp.capacity
}

// TickInterval returns the configured interval between commits.
func (lp *LivePlot) TickInterval() time.Duration {
	return lp.tickInterval
}

// Port returns the configured HTTP port for the dashboard server.
func (lp *LivePlot) Port() int {
	return lp.port
}

// Registry returns the Prometheus registry the collectors are registered on.
func (lp *LivePlot) Registry() *prometheus.Registry {
	return lp.registry
}
