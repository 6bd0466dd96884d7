package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/liveplot"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// fast ticks and a wider window than the defaults
	lp, err := liveplot.New(
		liveplot.WithCapacity(60),
		liveplot.WithTickInterval(500*time.Millisecond),
		liveplot.WithPort(8080),
		liveplot.WithTitle("LivePlot Demo"),
		liveplot.WithMessage("Edit me on the settings page"),
		liveplot.WithLogger(logger),
		liveplot.WithSampleCallback(func(s liveplot.Sample) {
			if s.ValueA >= 10 {
				logger.Warn("walk is high", "index", s.Index, "value_a", s.ValueA)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create liveplot", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  LivePlot Demo")
	fmt.Println()
	fmt.Println("  Dashboard:  http://localhost:8080")
	fmt.Println("  JSON:       http://localhost:8080/api/series")
	fmt.Println("  SSE:        http://localhost:8080/api/sse")
	fmt.Println("  Metrics:    http://localhost:8080/metrics")
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := lp.Start(ctx); err != nil {
		slog.Error("liveplot stopped", "error", err)
		os.Exit(1)
	}
}
