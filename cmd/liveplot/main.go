// Package main is the entry point for the liveplot CLI.
//
// LivePlot can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	liveplot serve -c config.yaml    # Start the dashboard
//	liveplot validate -c config.yaml # Validate configuration
//	liveplot version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "liveplot",
	Short: "A live-updating time series dashboard",
	Long: `LivePlot serves a live-updating numeric time series.

A background producer appends one sample per tick to a bounded in-memory
store; the dashboard shows a clock, an editable message and a plot of the
retained window. JSON, Server-Sent Events and WebSocket feeds expose the
same data.

Quick start:
  1. Create a config file (liveplot.yaml)
  2. Run: liveplot serve -c liveplot.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  capacity: 30
  tick_interval: 2s
  message: Hello from the server!`,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this liveplot binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "liveplot %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
