package electionboard

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"time"

	"github.com/jpalmerr/electionboard/internal/feed"
)

// Default feed of the 2018 Québec general election.
const (
	DefaultLiveURL    = "https://dgeq.org/resultats.js"
	DefaultArchiveURL = "https://dgeq.org/doc/gen7-4-2014/resultats.js"

	defaultFeedTimeout = 10 * time.Second
)

// DefaultPollClose is when the polls closed. Before it the archive of the
// previous election is shown.
var DefaultPollClose = time.Date(2018, time.October, 1, 20, 0, 0, 0, time.FixedZone("EDT", -4*60*60))

// Feed describes the remote results feed.
//
// Feed is immutable after creation via [NewFeed]. Getters return copies of
// mutable data.
type Feed struct {
	liveURL    string
	archiveURL string
	pollClose  time.Time
	timeout    time.Duration
	headers    map[string]string
	decoder    PayloadDecoder
	callback   string
}

// LiveURL returns the URL polled once the polls have closed.
func (f Feed) LiveURL() string {
	return f.liveURL
}

// ArchiveURL returns the URL polled before the polls close.
func (f Feed) ArchiveURL() string {
	return f.archiveURL
}

// PollClose returns the cutoff between archive and live URLs.
func (f Feed) PollClose() time.Time {
	return f.pollClose
}

// Timeout returns the per-request timeout. Defaults to 10 seconds.
func (f Feed) Timeout() time.Duration {
	return f.timeout
}

// Headers returns a copy of the custom HTTP headers sent with each request.
func (f Feed) Headers() map[string]string {
	return maps.Clone(f.headers)
}

// CallbackName returns the JSONP callback name used by the default decoder.
func (f Feed) CallbackName() string {
	return f.callback
}

// Decoder returns the payload decoder. Never nil for a Feed built by [NewFeed].
func (f Feed) Decoder() PayloadDecoder {
	return f.decoder
}

// URLAt returns the URL requested at now: the live URL strictly after the
// poll-close cutoff, the archive URL otherwise, with a cache-busting
// parameter appended.
func (f Feed) URLAt(now time.Time) string {
	return f.target().URLAt(now)
}

func (f Feed) target() feed.Target {
	return feed.Target{
		LiveURL:    f.liveURL,
		ArchiveURL: f.archiveURL,
		PollClose:  f.pollClose,
	}
}

// NewFeed creates a [Feed] polling liveURL after the poll-close cutoff and
// archiveURL before it.
//
// Both URLs must be absolute http or https URLs. Options are applied in
// order; see [WithPollClose], [WithTimeout], [WithHeaders], [WithDecoder]
// and [WithCallbackName].
//
// Example:
//
//	f, err := electionboard.NewFeed(
//	    "https://dgeq.org/resultats.js",
//	    "https://dgeq.org/doc/gen7-4-2014/resultats.js",
//	    electionboard.WithPollClose(time.Date(2018, 10, 1, 20, 0, 0, 0, tz)),
//	)
func NewFeed(liveURL, archiveURL string, opts ...FeedOption) (Feed, error) {
	if err := validateFeedURL("live", liveURL); err != nil {
		return Feed{}, err
	}
	if err := validateFeedURL("archive", archiveURL); err != nil {
		return Feed{}, err
	}

	cfg := &feedConfig{
		pollClose: DefaultPollClose,
		timeout:   defaultFeedTimeout,
		headers:   make(map[string]string),
		callback:  DefaultCallbackName,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Feed{}, err
		}
	}

	decoder := cfg.decoder
	if decoder == nil {
		decoder = JSONPDecoder(cfg.callback)
	}

	return Feed{
		liveURL:    liveURL,
		archiveURL: archiveURL,
		pollClose:  cfg.pollClose,
		timeout:    cfg.timeout,
		headers:    cfg.headers,
		decoder:    decoder,
		callback:   cfg.callback,
	}, nil
}

// DefaultFeed returns the feed of the 2018 Québec general election.
func DefaultFeed() Feed {
	f, err := NewFeed(DefaultLiveURL, DefaultArchiveURL)
	if err != nil {
		panic("electionboard: invalid default feed: " + err.Error())
	}
	return f
}

func validateFeedURL(which, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s URL cannot be empty", which)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s URL: %w", which, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(which + " URL must have a scheme (http:// or https://)")
	}
	if u.Host == "" {
		return errors.New(which + " URL must have a host")
	}
	return nil
}
