// Package dashboard provides the embedded web UI assets for LivePlot.
//
// This package uses Go's embed directive to include the dashboard HTML at
// compile time. This enables single-binary deployment without external
// asset files.
//
// The embedded assets are served by the server package. Users of the
// liveplot library should not need to interact with this package directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html          - Main page: menu, clock widget and plot widget
//	  clock_content.html  - Self-refreshing clock and message (template)
//	  plot_content.html   - Self-refreshing plot image
//	  settings.html       - Message edit form (template)
//
//go:embed assets/*
var Assets embed.FS
