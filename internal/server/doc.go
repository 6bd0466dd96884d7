// Package server provides the HTTP server for the LivePlot dashboard and API.
//
// This package is internal to LivePlot and handles all HTTP concerns:
//
//   - Pages: clock and plot widgets, settings form (embedded HTML)
//   - Plot image: PNG chart of the current snapshot at "/plot_image"
//   - REST API: JSON snapshot at "/api/series", message at "/api/message"
//   - Live feeds: Server-Sent Events at "/api/sse", WebSocket at "/api/ws"
//   - Operations: Prometheus metrics at "/metrics", liveness at "/healthz"
//
// HTML and JSON responses are gzip-compressed for clients that accept it.
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the liveplot library should not need to interact with this
// package directly. The server is started automatically by LivePlot.Start.
package server
