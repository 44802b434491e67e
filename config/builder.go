package config

import (
	"sort"
	"strings"
	"time"

	"github.com/jpalmerr/electionboard"
)

// BuildOptions converts parsed configuration into SDK Board options.
//
// The feed block, when present, becomes a [electionboard.Feed]; otherwise the
// Board falls back to its built-in feed.
func BuildOptions(cfg *Config) ([]electionboard.Option, error) {
	opts := []electionboard.Option{
		electionboard.WithPort(cfg.Port),
		electionboard.WithRefreshInterval(cfg.RefreshInterval.Duration()),
		electionboard.WithTotalSeats(cfg.TotalSeats),
		electionboard.WithLocale(cfg.Locale),
		electionboard.WithResultCards(cfg.ResultCards),
	}

	if cfg.Title != "" {
		opts = append(opts, electionboard.WithTitle(cfg.Title))
	}
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		opts = append(opts, electionboard.WithLocation(loc))
	}

	if cfg.Feed != nil {
		f, err := BuildFeed(*cfg.Feed)
		if err != nil {
			return nil, err
		}
		opts = append(opts, electionboard.WithFeed(f))
	}

	return opts, nil
}

// BuildFeed converts a FeedConfig into an SDK Feed.
func BuildFeed(fc FeedConfig) (electionboard.Feed, error) {
	var opts []electionboard.FeedOption

	if !fc.PollClose.Time().IsZero() {
		opts = append(opts, electionboard.WithPollClose(fc.PollClose.Time()))
	}

	if fc.Timeout != 0 {
		opts = append(opts, electionboard.WithTimeout(fc.Timeout.Duration()))
	}

	if len(fc.Headers) > 0 {
		opts = append(opts, electionboard.WithHeaders(mapToKeyValuePairs(fc.Headers)...))
	}

	callback := fc.Callback
	if callback == "" {
		callback = electionboard.DefaultCallbackName
	}
	opts = append(opts, electionboard.WithCallbackName(callback))

	decoder, err := electionboard.DecoderForFormat(strings.ToLower(fc.Format), callback)
	if err != nil {
		return electionboard.Feed{}, err
	}
	opts = append(opts, electionboard.WithDecoder(decoder))

	return electionboard.NewFeed(fc.LiveURL, fc.ArchiveURL, opts...)
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
