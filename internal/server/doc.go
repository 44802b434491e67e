// Package server provides the HTTP server for the election dashboard and API.
//
// This package is internal to electionboard and handles all HTTP concerns:
//
//   - Dashboard serving: Serves the embedded HTML/CSS/JS dashboard at "/"
//   - REST API: the latest view at "/api/results" and riding selection at
//     "/api/ridings/{id}/select"
//   - Charts: SVG doughnut charts at "/charts/seats.svg" and "/charts/votes.svg"
//   - Server-Sent Events: Real-time view updates at "/api/sse"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the electionboard library should not need to interact with this
// package directly. The server is started automatically by [electionboard.Board.Start].
package server
