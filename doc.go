// Package liveplot serves a live-updating numeric time series to any number
// of concurrent viewers while one background producer appends a sample on a
// fixed cadence.
//
// LivePlot is an SDK-first library: the store, the producer and the HTTP
// server are wired together by [New] and run by [LivePlot.Start]. The
// cmd/liveplot binary is a thin YAML front end over the same options.
//
// # Quick Start
//
//	lp, _ := liveplot.New(liveplot.WithPort(9090))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	lp.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
//	lp, err := liveplot.New(
//	    liveplot.WithCapacity(60),
//	    liveplot.WithTickInterval(time.Second),
//	    liveplot.WithTitle("Lab Sensors"),
//	    liveplot.WithSeed(42),
//	)
//
// # Series
//
// Every tick commits one [Sample] with two values:
//
//   - Series A: a random walk. The first value is uniform in [0, 5]; each
//     next value adds a step from {-1, 0, +1} and is floored at zero.
//   - Series B: 5 + 2*sin(0.3*index), where index counts ticks from 1.
//
// Only the newest capacity samples are kept; older ones are evicted.
//
// # Architecture
//
// LivePlot consists of several internal packages (under internal/):
//
//   - internal/store: Bounded in-memory series with pub/sub for live updates
//   - internal/producer: Ticker-driven sample producer
//   - internal/render: PNG rendering of a snapshot
//   - internal/message: Editable banner message
//   - internal/metrics: Prometheus collectors
//   - internal/server: HTTP server with pages, JSON, SSE and WebSocket feeds
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package liveplot
