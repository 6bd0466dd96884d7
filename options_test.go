package liveplot

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew_Defaults(t *testing.T) {
	lp, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if lp.Port() != 8080 {
		t.Errorf("Port() = %v, want %v", lp.Port(), 8080)
	}
	if lp.Capacity() != 30 {
		t.Errorf("Capacity() = %v, want %v", lp.Capacity(), 30)
	}
	if lp.TickInterval() != 2*time.Second {
		t.Errorf("TickInterval() = %v, want %v", lp.TickInterval(), 2*time.Second)
	}
	if lp.message != "Hello from the server!" {
		t.Errorf("message = %q, want %q", lp.message, "Hello from the server!")
	}
	if lp.Registry() == nil {
		t.Error("Registry() = nil, want private registry")
	}
}

func TestWithCapacity(t *testing.T) {
	lp, err := New(WithCapacity(120))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if lp.Capacity() != 120 {
		t.Errorf("Capacity() = %v, want %v", lp.Capacity(), 120)
	}
}

func TestWithCapacity_Invalid(t *testing.T) {
	for _, n := range []int{0, -1, -30} {
		_, err := New(WithCapacity(n))
		if err == nil {
			t.Errorf("New() expected error for capacity %d, got nil", n)
			continue
		}
		if !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("New() error = %v, want ErrInvalidCapacity", err)
		}
	}
}

func TestWithTickInterval(t *testing.T) {
	lp, err := New(WithTickInterval(500 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if lp.TickInterval() != 500*time.Millisecond {
		t.Errorf("TickInterval() = %v, want %v", lp.TickInterval(), 500*time.Millisecond)
	}
}

func TestWithTickInterval_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
	}{
		{"zero", 0},
		{"negative", -1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithTickInterval(tt.interval))
			if err == nil {
				t.Fatalf("New() expected error for interval %v, got nil", tt.interval)
			}
			if !errors.Is(err, ErrInvalidInterval) {
				t.Errorf("New() error = %v, want ErrInvalidInterval", err)
			}
		})
	}
}

func TestWithPort(t *testing.T) {
	lp, err := New(WithPort(9090))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if lp.Port() != 9090 {
		t.Errorf("Port() = %v, want %v", lp.Port(), 9090)
	}
}

func TestWithPort_Invalid(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"zero", 0},
		{"negative", -1},
		{"too high", 65536},
		{"way too high", 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithPort(tt.port))
			if err == nil {
				t.Errorf("New() expected error for port %v, got nil", tt.port)
			}
		})
	}
}

func TestWithPort_ValidEdgeCases(t *testing.T) {
	for _, port := range []int{1, 80, 443, 8080, 65535} {
		lp, err := New(WithPort(port))
		if err != nil {
			t.Errorf("New() error for port %d: %v", port, err)
			continue
		}
		if lp.Port() != port {
			t.Errorf("Port() = %v, want %v", lp.Port(), port)
		}
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	lp, err := New(WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if lp.logger != logger {
		t.Error("logger was not set correctly")
	}
}

func TestWithLogger_Nil(t *testing.T) {
	_, err := New(WithLogger(nil))
	if err == nil {
		t.Error("New() expected error for nil logger, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "logger cannot be nil") {
		t.Errorf("New() error = %v, want error containing 'logger cannot be nil'", err)
	}
}

func TestWithLogger_DefaultsToSlogDefault(t *testing.T) {
	lp, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if lp.logger != slog.Default() {
		t.Error("logger should default to slog.Default()")
	}
}

func TestWithTitle(t *testing.T) {
	lp, err := New(WithTitle("Lab Sensors"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if lp.title != "Lab Sensors" {
		t.Errorf("title = %q, want %q", lp.title, "Lab Sensors")
	}
}

func TestWithTitle_DefaultsToEmpty(t *testing.T) {
	lp, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// empty title means the server falls back to "LivePlot"
	if lp.title != "" {
		t.Errorf("title = %q, want empty string", lp.title)
	}
}

func TestWithMessage(t *testing.T) {
	lp, err := New(WithMessage("deploy at 5pm"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if lp.message != "deploy at 5pm" {
		t.Errorf("message = %q, want %q", lp.message, "deploy at 5pm")
	}
}

func TestWithSeed(t *testing.T) {
	lp, err := New(WithSeed(42))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if lp.seed == nil || *lp.seed != 42 {
		t.Errorf("seed = %v, want 42", lp.seed)
	}
}

func TestWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	lp, err := New(WithRegistry(reg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if lp.Registry() != reg {
		t.Error("Registry() did not return the supplied registry")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("collectors were not registered on the supplied registry")
	}
}

func TestWithRegistry_Nil(t *testing.T) {
	if _, err := New(WithRegistry(nil)); err == nil {
		t.Error("New() expected error for nil registry, got nil")
	}
}

func TestNew_FirstInvalidOptionWins(t *testing.T) {
	_, err := New(
		WithCapacity(0),
		WithTickInterval(0),
	)
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("New() error = %v, want ErrInvalidCapacity", err)
	}
}
