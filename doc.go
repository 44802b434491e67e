// Package electionboard provides an embeddable live election-results
// dashboard.
//
// A [Board] polls a results feed, turns each payload into party standings,
// overview counters, two proportion charts (seats and votes by party) and a
// per-riding detail view, and serves them to browsers over HTTP.
//
// # Quick Start
//
// Poll the default feed and serve the dashboard with graceful shutdown:
//
//	b, _ := electionboard.New()
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	b.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Board uses the functional options pattern for configuration:
//
//	f, err := electionboard.NewFeed(
//	    "https://dgeq.org/resultats.js",
//	    "https://dgeq.org/doc/gen7-4-2014/resultats.js",
//	    electionboard.WithPollClose(pollClose),
//	    electionboard.WithTimeout(5 * time.Second),
//	)
//
//	b, err := electionboard.New(
//	    electionboard.WithFeed(f),
//	    electionboard.WithRefreshInterval(5 * time.Second),
//	    electionboard.WithPort(9090),
//	    electionboard.WithTotalSeats(125),
//	)
//
// # Polling
//
// One request is in flight at a time. Once it settles, successfully or not,
// the next poll is scheduled after the refresh interval. The interval never
// grows and polling never stops before the context is cancelled; a failed
// poll leaves the last rendered view on screen.
//
// Before the poll-close cutoff the archive URL is polled, strictly after it
// the live URL. Each request carries a cache-busting "_" query parameter.
//
// # Payload Decoders
//
// Decoders turn a feed body into [results.Results]:
//
//   - [JSONPDecoder]: Unwraps a `callback({...});` script (the default)
//   - [JSONDecoder]: Decodes a plain JSON body
//   - [AutoDecoder]: Picks one of the two from the first byte of the body
//
// # Architecture
//
// Board consists of several internal packages (under internal/):
//
//   - internal/feed: Self-scheduling HTTP poll loop
//   - internal/present: Turns payloads into views and holds the riding selection
//   - internal/format: Locale-aware number, percentage and date formatting
//   - internal/chart: SVG doughnut charts
//   - internal/store: Latest view with pub/sub for real-time updates
//   - internal/server: HTTP server with JSON API, charts and Server-Sent Events
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package electionboard
