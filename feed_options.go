package electionboard

import (
	"errors"
	"net/http"
	"time"
)

// feedConfig holds mutable state during feed construction.
type feedConfig struct {
	pollClose time.Time
	timeout   time.Duration
	headers   map[string]string
	decoder   PayloadDecoder
	callback  string
}

// FeedOption is a function that configures a [Feed] during construction.
//
// Options return an error if validation fails.
type FeedOption func(*feedConfig) error

// WithPollClose sets the instant the polls close. Strictly after it the live
// URL is polled; at or before it, the archive URL.
//
// Returns an error for the zero time.
func WithPollClose(t time.Time) FeedOption {
	return func(cfg *feedConfig) error {
		if t.IsZero() {
			return errors.New("poll close time cannot be zero")
		}
		cfg.pollClose = t
		return nil
	}
}

// WithTimeout sets the HTTP request timeout for each poll.
//
// A poll that does not complete within this duration fails; the next poll is
// scheduled as usual. Defaults to 10 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) FeedOption {
	return func(cfg *feedConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithHeaders adds custom HTTP headers to every feed request.
//
// Accepts variadic key-value pairs. The number of arguments must be even.
//
// Example:
//
//	f, err := electionboard.NewFeed(live, archive,
//	    electionboard.WithHeaders("User-Agent", "electionboard"),
//	)
func WithHeaders(keyValues ...string) FeedOption {
	return func(cfg *feedConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[http.CanonicalHeaderKey(keyValues[i])] = keyValues[i+1]
		}
		return nil
	}
}

// WithDecoder sets the [PayloadDecoder] used to read feed responses.
// Defaults to [JSONPDecoder] with the configured callback name.
//
// Returns an error if the decoder is nil.
func WithDecoder(d PayloadDecoder) FeedOption {
	return func(cfg *feedConfig) error {
		if d == nil {
			return errors.New("decoder cannot be nil")
		}
		cfg.decoder = d
		return nil
	}
}

// WithCallbackName sets the JSONP callback name expected by the default
// decoder. Defaults to "callback".
//
// Returns an error if the name is empty.
func WithCallbackName(name string) FeedOption {
	return func(cfg *feedConfig) error {
		if name == "" {
			return errors.New("callback name cannot be empty")
		}
		cfg.callback = name
		return nil
	}
}
