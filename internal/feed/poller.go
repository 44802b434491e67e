package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/jpalmerr/electionboard/results"
)

const (
	// DefaultDelay is the pause between a settled request and the next one.
	DefaultDelay = 5 * time.Second

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second
)

// Decoder turns a feed body into results.
type Decoder func(body []byte) (results.Results, error)

// Handler receives the outcome of every poll, successful or not.
type Handler func(Outcome)

// Outcome is the result of one poll.
type Outcome struct {
	// RequestID correlates log lines of one request.
	RequestID string

	// URL is the URL requested, cache-busting parameter included.
	URL string

	// Results is the decoded payload. Only meaningful when Err is nil.
	Results results.Results

	// Latency is the time taken by the HTTP request.
	Latency time.Duration

	// FetchedAt is when the request settled.
	FetchedAt time.Time

	// Size is the number of body bytes received.
	Size int

	// StatusCode is the HTTP status code, zero if no response was received.
	StatusCode int

	// Err describes why the poll failed.
	Err error
}

// OK reports whether the poll produced results.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Config configures a [Poller].
type Config struct {
	Target  Target
	Headers map[string]string

	// Timeout bounds a single request. Default [DefaultTimeout].
	Timeout time.Duration

	// Delay is the pause after each settled request. Default [DefaultDelay].
	Delay time.Duration

	// Decoder is required.
	Decoder Decoder

	// Now returns the current time. Default time.Now.
	Now func() time.Time
}

// Poller polls a results feed forever.
//
// At most one request is in flight. The next request is scheduled only after
// the previous one has settled and its outcome has been handled, so a slow
// feed or a slow handler stretches the cycle rather than overlapping polls.
type Poller struct {
	cfg     Config
	handler Handler
	client  *Client
	logger  *slog.Logger
}

// NewPoller creates a [Poller]. The handler may be nil.
func NewPoller(cfg Config, handler Handler, logger *slog.Logger) (*Poller, error) {
	if cfg.Decoder == nil {
		return nil, errors.New("feed: decoder is required")
	}
	if cfg.Target.LiveURL == "" || cfg.Target.ArchiveURL == "" {
		return nil, errors.New("feed: live and archive URLs are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		cfg:     cfg,
		handler: handler,
		client:  NewClient(),
		logger:  logger,
	}, nil
}

// Delay returns the pause between polls.
func (p *Poller) Delay() time.Duration {
	return p.cfg.Delay
}

// Close releases idle connections. The poller remains usable.
func (p *Poller) Close() {
	p.client.Close()
}

// Run polls immediately, then again a fixed delay after each poll settles.
//
// Run blocks until ctx is cancelled and always returns nil; feed failures are
// reported to the handler and never end the loop.
func (p *Poller) Run(ctx context.Context) error {
	defer p.client.Close()

	if ctx.Err() != nil {
		return nil
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		p.Poll(ctx)
		if ctx.Err() != nil {
			return nil
		}

		timer.Reset(p.cfg.Delay)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}

// Poll performs one request, hands the outcome to the handler and returns it.
//
// An outcome caused by cancellation of ctx is returned but not handled.
func (p *Poller) Poll(ctx context.Context) (out Outcome) {
	out = Outcome{
		RequestID: uuid.NewString(),
		URL:       p.cfg.Target.URLAt(p.cfg.Now()),
	}

	slot := newCompletion(p.complete)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("poll panic",
				"correlation_id", out.RequestID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			out.Err = fmt.Errorf("poll panic (correlation_id: %s)", out.RequestID)
			slot.resolve(out)
		}
	}()

	resp := p.client.Fetch(ctx, out.URL, p.cfg.Headers, p.cfg.Timeout)
	out.Latency = resp.Latency
	out.StatusCode = resp.StatusCode
	out.Size = len(resp.Body)
	out.FetchedAt = time.Now()

	switch {
	case resp.Error != nil:
		out.Err = resp.Error
	case resp.StatusCode >= 400:
		out.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
	default:
		decoded, err := p.cfg.Decoder(resp.Body)
		if err != nil {
			out.Err = fmt.Errorf("decode feed: %w", err)
		} else {
			out.Results = decoded
		}
	}

	if ctx.Err() != nil {
		return out
	}
	slot.resolve(out)
	return out
}

// complete logs the outcome and invokes the handler.
func (p *Poller) complete(out Outcome) {
	attrs := []any{
		"request_id", out.RequestID,
		"url", out.URL,
		"status_code", out.StatusCode,
		"size", humanize.Bytes(uint64(out.Size)),
		"latency_ms", out.Latency.Milliseconds(),
	}
	if out.Err != nil {
		p.logger.Warn("poll failed", append(attrs, "error", out.Err.Error())...)
	} else {
		p.logger.Debug("poll completed", attrs...)
	}

	if p.handler != nil {
		p.handler(out)
	}
}

// completion is a single-slot completion handler: whichever path settles a
// request first resolves it, later attempts are dropped.
type completion struct {
	once sync.Once
	fn   func(Outcome)
}

func newCompletion(fn func(Outcome)) *completion {
	return &completion{fn: fn}
}

// resolve hands out to the slot's function unless the slot is already
// resolved. It reports whether this call resolved the slot.
func (c *completion) resolve(out Outcome) bool {
	resolved := false
	c.once.Do(func() {
		resolved = true
		c.fn(out)
	})
	return resolved
}
