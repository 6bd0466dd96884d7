package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpalmerr/liveplot/internal/message"
	"github.com/jpalmerr/liveplot/internal/metrics"
	"github.com/jpalmerr/liveplot/internal/render"
	"github.com/jpalmerr/liveplot/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "LivePlot"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"

	// clockFormat is the layout of the server time on the clock page.
	clockFormat = "2006-01-02 15:04:05"

	// maxFormBytes caps the settings form and message API bodies.
	maxFormBytes = 64 << 10
)

// Config holds the collaborators and settings for a [Server].
type Config struct {
	// Store is the time-series store read by every data route. Required.
	Store store.Store

	// Messages holds the clock-page banner. Nil creates a store with the
	// default message.
	Messages *message.Store

	// Metrics receives snapshot and stream-client counts. Nil disables them.
	Metrics *metrics.Metrics

	// Gatherer is served at /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	// Port is the TCP port to listen on. 0 picks a free port.
	Port int

	// Assets contains the dashboard pages (may be nil).
	Assets fs.FS

	// Title is the dashboard title (defaults to "LivePlot" if empty).
	Title string

	// Logger for server events. Nil falls back to slog.Default().
	Logger *slog.Logger

	// Now returns the time shown on the clock page. Nil uses time.Now.
	Now func() time.Time
}

// Server handles HTTP requests for the LivePlot dashboard and API.
//
// Every handler that reads series data takes one [store.Snapshot] up front
// and then encodes, renders or streams from that copy, so no handler ever
// holds the store's lock while doing I/O.
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	store      store.Store
	messages   *message.Store
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	port       int
	httpServer *http.Server
	assets     fs.FS
	pages      *template.Template
	title      string
	logger     *slog.Logger
	now        func() time.Time

	mu   sync.Mutex
	addr net.Addr
}

// NewServer creates a new HTTP [Server].
//
// The server is not started until [Server.Start] is called. Page templates
// are parsed from cfg.Assets up front; a parse failure is logged and the
// affected pages answer 500.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	messages := cfg.Messages
	if messages == nil {
		messages = message.NewStore(message.DefaultMessage)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		store:    cfg.Store,
		messages: messages,
		metrics:  cfg.Metrics,
		gatherer: cfg.Gatherer,
		port:     cfg.Port,
		assets:   cfg.Assets,
		title:    cfg.Title,
		logger:   logger,
		now:      now,
	}

	if s.assets != nil {
		pages, err := template.ParseFS(s.assets, "assets/clock_content.html", "assets/settings.html")
		if err != nil {
			logger.Error("failed to parse dashboard templates", "error", err)
		} else {
			s.pages = pages
		}
	}

	return s
}

// Handler returns the router with every LivePlot route registered.
//
// Routes:
//   - GET /: redirects to /clock
//   - GET /clock: dashboard page
//   - GET /clock_content: self-refreshing clock and message
//   - GET /plot_content: self-refreshing plot
//   - GET /plot_image: PNG chart of the current snapshot
//   - GET, POST /settings: message edit form
//   - GET /api/series: current snapshot as JSON
//   - GET, POST /api/message: current message as JSON
//   - GET /api/sse: Server-Sent Events feed
//   - GET /api/ws: WebSocket feed
//   - GET /metrics: Prometheus exposition (when a gatherer is set)
//   - GET /healthz: liveness probe
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API routes
	mux.Handle("/api/series", gzhttp.GzipHandler(http.HandlerFunc(s.handleSeries)))
	mux.Handle("/api/message", gzhttp.GzipHandler(http.HandlerFunc(s.handleMessage)))
	mux.HandleFunc("/api/sse", s.handleSSE)
	mux.HandleFunc("/api/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// pages
	mux.HandleFunc("/", s.handleRoot)
	mux.Handle("/clock", gzhttp.GzipHandler(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("/clock_content", gzhttp.GzipHandler(http.HandlerFunc(s.handleClockContent)))
	mux.Handle("/plot_content", gzhttp.GzipHandler(http.HandlerFunc(s.handlePlotContent)))
	mux.Handle("/settings", gzhttp.GzipHandler(http.HandlerFunc(s.handleSettings)))
	mux.HandleFunc("/plot_image", s.handlePlotImage)

	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Addr returns the address the server is listening on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// seriesResponse is the JSON shape of a snapshot.
type seriesResponse struct {
	Capacity int `json:"capacity"`
	store.Snapshot
}

// snapshot takes a copy of the store and counts it against consumer.
func (s *Server) snapshot(consumer string) store.Snapshot {
	snap := s.store.Snapshot()
	if s.metrics != nil {
		s.metrics.RecordSnapshot(consumer)
	}
	return snap
}

func (s *Server) seriesPayload(consumer string) seriesResponse {
	return seriesResponse{
		Capacity: s.store.Capacity(),
		Snapshot: s.snapshot(consumer),
	}
}

// handleRoot redirects the bare root to the clock page.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/clock", http.StatusFound)
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleClockContent renders the server time and the current message.
func (s *Server) handleClockContent(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "clock_content.html", map[string]string{
		"Now":     s.now().Format(clockFormat),
		"Message": s.messages.Get(),
	})
}

// handlePlotContent serves the page that embeds the plot image.
func (s *Server) handlePlotContent(w http.ResponseWriter, r *http.Request) {
	if s.assets == nil {
		http.Error(w, "Page not found", http.StatusInternalServerError)
		return
	}
	content, err := fs.ReadFile(s.assets, "assets/plot_content.html")
	if err != nil {
		http.Error(w, "Page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(content); err != nil {
		s.logger.Error("failed to write plot page", "error", err)
	}
}

// handleSettings shows the message form and applies submitted changes.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.renderPage(w, "settings.html", map[string]string{"Message": s.messages.Get()})

	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		s.messages.Set(r.PostForm.Get("message"))
		s.logger.Info("message updated", "length", len(s.messages.Get()))
		http.Redirect(w, r, "/settings", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// renderPage executes a parsed page template.
func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	if s.pages == nil {
		http.Error(w, "Page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render page", "page", name, "error", err)
	}
}

// handlePlotImage renders the current snapshot as a PNG.
//
// The snapshot is taken first; rendering happens on the private copy.
func (s *Server) handlePlotImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.snapshot("render")

	var buf bytes.Buffer
	if err := render.PNG(&buf, snap, render.DefaultOptions()); err != nil {
		s.logger.Error("failed to render plot", "error", err)
		http.Error(w, "Failed to render plot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("failed to write plot response", "error", err)
	}
}

// handleSeries returns the current snapshot as JSON.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload := s.seriesPayload("api")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode series response", "error", err)
	}
}

type messagePayload struct {
	Message string `json:"message"`
}

// handleMessage reads or replaces the banner message as JSON.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost, http.MethodPut:
		var in messagePayload
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes))
		if err := dec.Decode(&in); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		s.messages.Set(in.Message)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(messagePayload{Message: s.messages.Get()}); err != nil {
		s.logger.Error("failed to encode message response", "error", err)
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleSSE streams the series via Server-Sent Events.
//
// The first event is a "snapshot" of the whole window; each committed sample
// follows as a "sample" event. Samples a slow client misses are dropped by
// the store, not queued.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	// check if flushing is supported
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// ResponseController provides deadline-aware write and flush operations.
	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	writeAndFlush := func(event string, data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				// deadline not supported by underlying connection, continue without
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}

		// ResponseController.Flush respects the write deadline
		return rc.Flush()
	}

	// set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// subscribe before the snapshot so no sample falls between the two
	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	if s.metrics != nil {
		s.metrics.StreamConnected("sse")
		defer s.metrics.StreamDisconnected("sse")
	}

	initial, err := json.Marshal(s.seriesPayload("sse"))
	if err != nil {
		s.logger.Error("failed to encode sse snapshot", "error", err)
		return
	}
	if err := writeAndFlush("snapshot", initial); err != nil {
		return
	}

	// stream samples
	for {
		select {
		case sample, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(sample)
			if err != nil {
				continue
			}
			if err := writeAndFlush("sample", data); err != nil {
				return
			}

		case <-r.Context().Done():
			// request context is derived from server context via BaseContext,
			// so this fires on both client disconnect AND server shutdown
			return
		}
	}
}
