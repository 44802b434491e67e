package electionboard

import (
	"errors"
	"log/slog"
	"time"

	"golang.org/x/text/language"
)

// boardConfig holds mutable state during Board construction.
type boardConfig struct {
	title           string
	feed            *Feed
	refreshInterval time.Duration
	port            int
	totalSeats      int
	locale          string
	resultCards     int
	location        *time.Location
	logger          *slog.Logger
	resultCallbacks []func(ResultsEvent)
}

// Option is a function that configures a [Board] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*boardConfig) error

// WithFeed sets the results feed to poll. Defaults to [DefaultFeed].
//
// Example:
//
//	f, _ := electionboard.NewFeed(live, archive)
//	b, err := electionboard.New(electionboard.WithFeed(f))
func WithFeed(f Feed) Option {
	return func(cfg *boardConfig) error {
		if f.decoder == nil {
			return errors.New("feed must be created with NewFeed")
		}
		cfg.feed = &f
		return nil
	}
}

// WithRefreshInterval sets the pause between the end of one poll and the
// start of the next. The pause is constant: it does not grow after failures.
// Defaults to 5 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithRefreshInterval(d time.Duration) Option {
	return func(cfg *boardConfig) error {
		if d <= 0 {
			return errors.New("refresh interval must be positive")
		}
		cfg.refreshInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// The dashboard UI and API will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *boardConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTotalSeats sets the number of seats in the legislature, the whole of
// the seats chart. Defaults to 125.
//
// Returns an error if the value is zero or negative.
func WithTotalSeats(n int) Option {
	return func(cfg *boardConfig) error {
		if n <= 0 {
			return errors.New("total seats must be positive")
		}
		cfg.totalSeats = n
		return nil
	}
}

// WithLocale sets the BCP 47 locale used to format counts, e.g. "fr-CA" or
// "en". Defaults to "fr-CA".
//
// Returns an error if the tag cannot be parsed.
func WithLocale(locale string) Option {
	return func(cfg *boardConfig) error {
		if _, err := language.Parse(locale); err != nil {
			return errors.New("invalid locale: " + err.Error())
		}
		cfg.locale = locale
		return nil
	}
}

// WithResultCards sets how many per-party summary cards are shown.
// Defaults to 4.
//
// Returns an error if the value is zero or negative.
func WithResultCards(n int) Option {
	return func(cfg *boardConfig) error {
		if n <= 0 {
			return errors.New("result cards must be positive")
		}
		cfg.resultCards = n
		return nil
	}
}

// WithLocation sets the time zone used to show the feed's last-update time
// and to read timestamps that carry no offset. Defaults to UTC.
//
// Returns an error if the location is nil.
func WithLocation(loc *time.Location) Option {
	return func(cfg *boardConfig) error {
		if loc == nil {
			return errors.New("location cannot be nil")
		}
		cfg.location = loc
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Board instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *boardConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithResultsCallback registers a function to be called after every poll.
//
// The callback receives a [ResultsEvent] describing the poll, successful or
// not. Successful polls have already been rendered to the dashboard when the
// callback runs.
//
// Multiple callbacks may be registered; they execute in registration order.
//
// IMPORTANT: Callbacks run on the poll loop. The next poll is not scheduled
// until they return, so long-running work should be dispatched to a separate
// goroutine. Panics within callbacks are recovered and logged.
//
// Example:
//
//	b, err := electionboard.New(
//	    electionboard.WithResultsCallback(func(e electionboard.ResultsEvent) {
//	        if e.OK() && e.Results.Statistics.Final {
//	            log.Println("final results published")
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithResultsCallback(cb func(ResultsEvent)) Option {
	return func(cfg *boardConfig) error {
		if cb == nil {
			return nil
		}
		cfg.resultCallbacks = append(cfg.resultCallbacks, cb)
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "Election Results".
func WithTitle(title string) Option {
	return func(cfg *boardConfig) error {
		cfg.title = title
		return nil
	}
}
