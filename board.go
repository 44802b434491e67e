package electionboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/electionboard/dashboard"
	"github.com/jpalmerr/electionboard/internal/feed"
	"github.com/jpalmerr/electionboard/internal/format"
	"github.com/jpalmerr/electionboard/internal/present"
	"github.com/jpalmerr/electionboard/internal/server"
	"github.com/jpalmerr/electionboard/internal/store"
)

const (
	defaultRefreshInterval = 5 * time.Second
	defaultPort            = 8080
)

// Board is the main orchestrator for polling election results and serving
// the dashboard.
//
// Board polls the results feed, renders each payload into a view and serves
// the view via HTTP. It is created using [New] with functional options and
// started with [Board.Start].
//
// The typical lifecycle is:
//
//	b, err := electionboard.New(electionboard.WithPort(8080))
//	if err != nil {
//	    slog.Error("failed to create board", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	b.Start(ctx) // blocks until context cancelled
type Board struct {
	title           string
	feed            Feed
	refreshInterval time.Duration
	port            int
	totalSeats      int
	resultCards     int
	location        *time.Location
	formatter       *format.Formatter
	logger          *slog.Logger
	resultCallbacks []func(ResultsEvent)
}

// New creates a new [Board] instance with the given options.
//
// Every option has a default:
//   - Feed: [DefaultFeed]
//   - Refresh interval: 5 seconds
//   - Port: 8080
//   - Total seats: 125
//   - Locale: fr-CA
//   - Result cards: 4
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Board, error) {
	cfg := &boardConfig{
		refreshInterval: defaultRefreshInterval,
		port:            defaultPort,
		totalSeats:      present.DefaultTotalSeats,
		locale:          format.DefaultLocale,
		resultCards:     4,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	f := DefaultFeed()
	if cfg.feed != nil {
		f = *cfg.feed
	}

	formatter, err := format.New(cfg.locale, cfg.location)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Board{
		title:           cfg.title,
		feed:            f,
		refreshInterval: cfg.refreshInterval,
		port:            cfg.port,
		totalSeats:      cfg.totalSeats,
		resultCards:     cfg.resultCards,
		location:        cfg.location,
		formatter:       formatter,
		logger:          logger,
		resultCallbacks: cfg.resultCallbacks,
	}, nil
}

// Start begins polling the feed and serving the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The feed is polled immediately, then again a fixed interval after each
//     poll settles; failed polls keep the last view on screen
//   - The HTTP server starts on the configured port
//   - The dashboard is available at http://localhost:<port>
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails to start.
func (b *Board) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	b.logger.Info("electionboard starting",
		"live_url", b.feed.LiveURL(),
		"archive_url", b.feed.ArchiveURL(),
		"poll_close", b.feed.PollClose().Format(time.RFC3339),
	)
	b.logger.Info("polling configured", "interval", b.refreshInterval.String())

	views := store.NewMemoryStore()
	presenter := b.newPresenter(views)

	poller, err := b.newPoller(func(o feed.Outcome) {
		// render before callbacks so they observe the published view
		if o.OK() {
			presenter.OnResultsLoaded(o.Results)
		}
		if len(b.resultCallbacks) > 0 {
			event := eventFromOutcome(o)
			for _, cb := range b.resultCallbacks {
				invokeCallbackSafe(cb, event, b.logger)
			}
		}
	})
	if err != nil {
		return err
	}

	httpServer := server.NewServer(views, presenter, b.port, dashboard.Assets, b.title, b.logger)
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	b.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", b.port))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return poller.Run(gctx)
	})
	g.Go(func() error {
		b.logLeaderChanges(gctx, views)
		return nil
	})

	err = g.Wait()
	b.logger.Info("electionboard stopped")
	return err
}

// Fetch polls the feed once without starting the dashboard.
//
// Result callbacks are not invoked. The returned event carries the poll
// error, if any.
func (b *Board) Fetch(ctx context.Context) ResultsEvent {
	poller, err := b.newPoller(nil)
	if err != nil {
		return ResultsEvent{Err: err}
	}
	defer poller.Close()
	return eventFromOutcome(poller.Poll(ctx))
}

func (b *Board) newPresenter(sink present.Sink) *present.Presenter {
	return present.New(sink, b.formatter, present.Options{
		TotalSeats: b.totalSeats,
		Cards:      b.resultCards,
		Location:   b.location,
	}, b.logger)
}

func (b *Board) newPoller(handler feed.Handler) (*feed.Poller, error) {
	return feed.NewPoller(feed.Config{
		Target:  b.feed.target(),
		Headers: b.feed.Headers(),
		Timeout: b.feed.Timeout(),
		Delay:   b.refreshInterval,
		Decoder: feed.Decoder(b.feed.Decoder()),
	}, handler, b.logger)
}

// logLeaderChanges logs when the party leading the seats count changes.
func (b *Board) logLeaderChanges(ctx context.Context, views store.Store) {
	ch := views.Subscribe()
	defer views.Unsubscribe(ch)

	leader := ""
	for {
		select {
		case <-ctx.Done():
			return
		case view, ok := <-ch:
			if !ok {
				return
			}
			if len(view.Standings) == 0 || view.Standings[0].Abbreviation == leader {
				continue
			}
			next := view.Standings[0].Abbreviation
			b.logger.Info("leading party changed",
				"from", leader,
				"to", next,
				"seats", view.Standings[0].Seats,
				"final", view.Final,
			)
			leader = next
		}
	}
}

// Feed returns the configured results feed.
func (b *Board) Feed() Feed {
	return b.feed
}

// Port returns the configured HTTP port for the dashboard server.
func (b *Board) Port() int {
	return b.port
}

// RefreshInterval returns the pause between polls.
func (b *Board) RefreshInterval() time.Duration {
	return b.refreshInterval
}

// TotalSeats returns the size of the legislature.
func (b *Board) TotalSeats() int {
	return b.totalSeats
}

// Title returns the configured dashboard title.
func (b *Board) Title() string {
	return b.title
}

// invokeCallbackSafe calls a results callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(ResultsEvent), event ResultsEvent, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("results callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", r,
				"request_id", event.RequestID,
			)
		}
	}()
	cb(event)
}
