package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/liveplot/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a LivePlot configuration file without starting the server.

This command parses the YAML, expands environment variables, applies
defaults and validates all fields. It's useful for CI/CD pipelines or
pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  liveplot validate -c config.yaml
  liveplot validate --config /etc/liveplot/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seed := "random"
	if cfg.Seed != nil {
		seed = fmt.Sprintf("%d", *cfg.Seed)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:          %d\n", cfg.Port)
	fmt.Fprintf(out, "  Capacity:      %d\n", cfg.Capacity)
	fmt.Fprintf(out, "  Tick interval: %s\n", cfg.TickInterval.Duration())
	fmt.Fprintf(out, "  Seed:          %s\n", seed)
	fmt.Fprintf(out, "  Log:           %s/%s\n", cfg.Log.Level, cfg.Log.Format)

	return nil
}
