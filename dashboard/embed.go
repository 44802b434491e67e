// Package dashboard provides the embedded web UI assets for electionboard.
//
// The page is a single HTML file with inline CSS and JavaScript, embedded at
// compile time for single-binary deployment. It loads the latest view from
// /api/results, follows /api/sse for updates and shows the charts rendered
// at /charts/seats.svg and /charts/votes.svg.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Main dashboard page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
