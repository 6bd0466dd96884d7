package config

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/liveplot"
)

func TestBuildOptions_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	lp, err := liveplot.New(BuildOptions(cfg, nil)...)
	if err != nil {
		t.Fatalf("liveplot.New() error = %v", err)
	}

	if lp.Port() != 8080 {
		t.Errorf("Port() = %d, want 8080", lp.Port())
	}
	if lp.Capacity() != 30 {
		t.Errorf("Capacity() = %d, want 30", lp.Capacity())
	}
	if lp.TickInterval() != 2*time.Second {
		t.Errorf("TickInterval() = %v, want 2s", lp.TickInterval())
	}
}

func TestBuildOptions_AllFields(t *testing.T) {
	cfg, err := Parse([]byte(`
title: Lab
port: 9191
capacity: 12
tick_interval: 250ms
seed: 3
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := BuildOptions(cfg, slog.Default())
	// port, capacity, interval, message, title, seed, logger
	if len(opts) != 7 {
		t.Errorf("len(opts) = %d, want 7", len(opts))
	}

	lp, err := liveplot.New(opts...)
	if err != nil {
		t.Fatalf("liveplot.New() error = %v", err)
	}
	if lp.Port() != 9191 || lp.Capacity() != 12 || lp.TickInterval() != 250*time.Millisecond {
		t.Errorf("got port %d capacity %d interval %v", lp.Port(), lp.Capacity(), lp.TickInterval())
	}
}

func TestBuildOptions_OptionalFieldsOmitted(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// port, capacity, interval, message
	if got := len(BuildOptions(cfg, nil)); got != 4 {
		t.Errorf("len(opts) = %d, want 4", got)
	}
}

func TestNewLogger_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"text", "msg=hello"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(LogConfig{Level: "info", Format: tt.format}, &buf)
			logger.Info("hello")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level      string
		enabled    slog.Level
		notEnabled slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(LogConfig{Level: tt.level}, &bytes.Buffer{})
			if !logger.Enabled(context.TODO(), tt.enabled) {
				t.Errorf("level %q: %v should be enabled", tt.level, tt.enabled)
			}
			if logger.Enabled(context.TODO(), tt.notEnabled) {
				t.Errorf("level %q: %v should not be enabled", tt.level, tt.notEnabled)
			}
		})
	}
}
