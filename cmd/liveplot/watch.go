package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/liveplot/internal/client"
)

// watchCmd follows a running LivePlot instance from the terminal.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print new samples from a running server",
	Long: `Poll a running LivePlot server and print each new sample.

Only samples newer than the last one printed are shown, so polling faster
than the server's tick interval prints nothing extra. Samples evicted
between two polls are reported as a gap.

Example:
  liveplot watch --url http://localhost:8080
  liveplot watch --url http://plots.internal:9090 --interval 500ms`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("url", "http://localhost:8080", "base URL of the LivePlot server")
	watchCmd.Flags().Duration("interval", 2*time.Second, "time between polls")
	watchCmd.Flags().Duration("timeout", 5*time.Second, "per-request timeout")
}

func runWatch(cmd *cobra.Command, args []string) error {
	baseURL, _ := cmd.Flags().GetString("url")
	interval, _ := cmd.Flags().GetDuration("interval")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.NewClient(baseURL, timeout)
	defer c.Close()

	return watch(ctx, c, interval, cmd.OutOrStdout())
}

// watch polls until ctx is cancelled. The first poll happens immediately.
func watch(ctx context.Context, c *client.Client, interval time.Duration, out io.Writer) error {
	var lastIndex int64

	poll := func() error {
		series, err := c.Series(ctx)
		if err != nil {
			return err
		}
		for i, idx := range series.Indices {
			if idx <= lastIndex {
				continue
			}
			if lastIndex > 0 && i == 0 && idx > lastIndex+1 {
				fmt.Fprintf(out, "  ... %d samples evicted before they were seen\n", idx-lastIndex-1)
			}
			fmt.Fprintf(out, "#%-6d a=%-4d b=%.3f\n", idx, series.SeriesA[i], series.SeriesB[i])
			lastIndex = idx
		}
		return nil
	}

	if err := poll(); err != nil {
		return fmt.Errorf("failed to read series: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := poll(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("failed to read series: %w", err)
			}
		}
	}
}
