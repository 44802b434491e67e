package electionboard

import (
	"time"

	"github.com/jpalmerr/electionboard/internal/feed"
	"github.com/jpalmerr/electionboard/results"
)

// ResultsEvent holds the outcome of polling the results feed once.
//
// ResultsEvent is delivered to callbacks registered with
// [WithResultsCallback] after the dashboard has been updated.
type ResultsEvent struct {
	// RequestID correlates the event with the poller's log lines.
	RequestID string

	// URL is the URL that was requested, cache-busting parameter included.
	URL string

	// Results is the decoded payload. Zero when Err is non-nil.
	Results results.Results

	// Latency is the time taken to complete the HTTP request.
	Latency time.Duration

	// FetchedAt is when the request settled.
	FetchedAt time.Time

	// Size is the response body size in bytes.
	Size int

	// StatusCode is the HTTP status code, zero if no response was received.
	StatusCode int

	// Err is why the poll failed, nil on success.
	Err error
}

// OK reports whether the poll produced results.
func (e ResultsEvent) OK() bool {
	return e.Err == nil
}

func eventFromOutcome(o feed.Outcome) ResultsEvent {
	return ResultsEvent{
		RequestID:  o.RequestID,
		URL:        o.URL,
		Results:    o.Results,
		Latency:    o.Latency,
		FetchedAt:  o.FetchedAt,
		Size:       o.Size,
		StatusCode: o.StatusCode,
		Err:        o.Err,
	}
}
