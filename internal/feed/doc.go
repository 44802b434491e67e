// Package feed polls the remote results feed for electionboard.
//
// This package is internal to electionboard. It issues one request at a time
// and, once the request has settled, waits a fixed delay before polling again.
// The loop never backs off and never stops on failure; only cancellation of
// the context passed to [Poller.Run] ends it.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with timeout and size limits
//   - [Target]: Live and archive URLs and the cutoff that picks between them
//   - [Poller]: The self-scheduling poll loop
//   - [Outcome]: Result of one poll, delivered to the [Handler]
//
// Users of the electionboard library should not need to interact with this
// package directly. Configuration is done through the main electionboard package.
package feed
