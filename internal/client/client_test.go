package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"testing"
	"time"

	"github.com/jpalmerr/liveplot/internal/message"
	"github.com/jpalmerr/liveplot/internal/server"
	"github.com/jpalmerr/liveplot/internal/store"
)

// newLiveServer runs the real LivePlot handler over a store with n samples.
func newLiveServer(t *testing.T, capacity, n int) (*httptest.Server, *message.Store) {
	t.Helper()
	st, err := store.NewMemoryStore(capacity)
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	for i := 0; i < n; i++ {
		st.Append(i%4, float64(i)/2)
	}
	msgs := message.NewStore(message.DefaultMessage)
	srv := server.NewServer(server.Config{
		Store:    st,
		Messages: msgs,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, msgs
}

func TestClient_Series(t *testing.T) {
	ts, _ := newLiveServer(t, 30, 31)
	c := NewClient(ts.URL+"/", time.Second)
	defer c.Close()

	s, err := c.Series(context.Background())
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}

	if s.Capacity != 30 || s.Len() != 30 {
		t.Fatalf("Series() capacity %d len %d, want 30/30", s.Capacity, s.Len())
	}
	if s.Indices[0] != 2 {
		t.Errorf("oldest index = %d, want 2", s.Indices[0])
	}

	index, valueA, valueB, ok := s.Latest()
	if !ok {
		t.Fatal("Latest() ok = false on non-empty series")
	}
	if index != 31 || valueA != 30%4 || valueB != 15 {
		t.Errorf("Latest() = %d/%d/%v, want 31/%d/15", index, valueA, valueB, 30%4)
	}
}

func TestClient_SeriesEmpty(t *testing.T) {
	ts, _ := newLiveServer(t, 5, 0)
	c := NewClient(ts.URL, time.Second)

	s, err := c.Series(context.Background())
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	if _, _, _, ok := s.Latest(); ok {
		t.Error("Latest() ok = true on empty series")
	}
}

func TestClient_Message(t *testing.T) {
	ts, msgs := newLiveServer(t, 5, 0)
	c := NewClient(ts.URL, time.Second)

	got, err := c.Message(context.Background())
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if got != message.DefaultMessage {
		t.Errorf("Message() = %q, want %q", got, message.DefaultMessage)
	}

	stored, err := c.SetMessage(context.Background(), "rolling restart")
	if err != nil {
		t.Fatalf("SetMessage() error = %v", err)
	}
	if stored != "rolling restart" || msgs.Get() != "rolling restart" {
		t.Errorf("SetMessage() stored %q, server has %q", stored, msgs.Get())
	}
}

func TestClient_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, time.Second).Series(context.Background())
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Series() error = %v, want ErrUnexpectedStatus", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer ts.Close()

	start := time.Now()
	_, err := NewClient(ts.URL, 50*time.Millisecond).Series(context.Background())
	if err == nil {
		t.Fatal("Series() expected timeout error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Series() took %v, want the 50ms timeout to apply", elapsed)
	}
}

// TestClient_ConnectionReuse verifies sequential requests reuse pooled
// connections.
func TestClient_ConnectionReuse(t *testing.T) {
	ts, _ := newLiveServer(t, 5, 3)
	c := NewClient(ts.URL, time.Second)

	var reusedCount int
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				reusedCount++
			}
		},
	}

	const numRequests = 5
	for i := 0; i < numRequests; i++ {
		ctx := httptrace.WithClientTrace(context.Background(), trace)
		if _, err := c.Series(ctx); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}

	expectedMinReuse := numRequests - 2 // allow some tolerance
	if reusedCount < expectedMinReuse {
		t.Errorf("expected at least %d reused connections, got %d out of %d requests",
			expectedMinReuse, reusedCount, numRequests)
	}
}

// TestClient_Close verifies that Close() is safe to call and idempotent.
func TestClient_Close(t *testing.T) {
	c := NewClient("http://localhost:0", 0)
	c.Close()
	c.Close()

	var nilClient *Client
	nilClient.Close()
}
