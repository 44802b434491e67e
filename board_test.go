package electionboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpalmerr/electionboard/internal/present"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFeedServer serves the fixture at /resultats.js; requests beyond the
// first failCount succeed.
func newFeedServer(t *testing.T, failCount int32) (*httptest.Server, Feed) {
	t.Helper()
	body := readFixture(t)

	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= failCount {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write(body)
	}))

	f, err := NewFeed(ts.URL+"/resultats.js", ts.URL+"/archive.js",
		WithPollClose(time.Date(2018, 10, 1, 20, 0, 0, 0, time.UTC)),
		WithTimeout(time.Second),
	)
	if err != nil {
		ts.Close()
		t.Fatalf("NewFeed() error = %v", err)
	}
	return ts, f
}

func TestStart_BlocksUntilContextCancelled(t *testing.T) {
	ts, f := newFeedServer(t, 0)
	defer ts.Close()

	b, err := New(
		WithFeed(f),
		WithPort(19001),
		WithRefreshInterval(100*time.Millisecond),
		WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("Start() returned early with error: %v", err)
	default:
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

func TestStart_ReturnsImmediatelyIfContextAlreadyCancelled(t *testing.T) {
	b, err := New(WithPort(19002), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- b.Start(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return with already-cancelled context")
	}
}

func TestStart_PortInUse(t *testing.T) {
	ts, f := newFeedServer(t, 0)
	defer ts.Close()

	// occupy the port ourselves
	b1, err := New(WithFeed(f), WithPort(19003), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b1.Start(ctx) }()
	time.Sleep(100 * time.Millisecond)

	b2, err := New(WithFeed(f), WithPort(19003), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = b2.Start(ctx)
	if err == nil || !strings.Contains(err.Error(), "failed to start HTTP server") {
		t.Errorf("Start() error = %v, want HTTP server error", err)
	}
}

// TestStart_ServesRenderedResults runs the whole pipeline: feed, presenter,
// store and HTTP API.
func TestStart_ServesRenderedResults(t *testing.T) {
	ts, f := newFeedServer(t, 0)
	defer ts.Close()

	rendered := make(chan struct{})
	var once sync.Once

	b, err := New(
		WithFeed(f),
		WithPort(19004),
		WithLocale("en"),
		WithRefreshInterval(time.Hour),
		WithLogger(discardLogger()),
		WithResultsCallback(func(e ResultsEvent) {
			if e.OK() {
				once.Do(func() { close(rendered) })
			}
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Start(ctx) }()

	select {
	case <-rendered:
	case <-time.After(5 * time.Second):
		t.Fatal("feed was not rendered")
	}

	resp, err := http.Get("http://127.0.0.1:19004/api/results")
	if err != nil {
		t.Fatalf("GET /api/results error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var view present.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}

	// chart labels follow feed order, standings are ranked
	if view.Seats.Leading != "P.L.Q." {
		t.Errorf("Seats.Leading = %q, want P.L.Q.", view.Seats.Leading)
	}
	if len(view.Standings) != 5 || view.Standings[0].Abbreviation != "C.A.Q." {
		t.Errorf("Standings = %+v", view.Standings)
	}
	if view.Overview.VotesCast.Count != "2,000,000" {
		t.Errorf("VotesCast.Count = %q, want 2,000,000", view.Overview.VotesCast.Count)
	}
	if view.Detail == nil || view.Detail.RidingID != 378 {
		t.Errorf("Detail = %+v, want riding 378", view.Detail)
	}

	// select the second riding through the API
	sel, err := http.Post("http://127.0.0.1:19004/api/ridings/379/select", "", nil)
	if err != nil {
		t.Fatalf("POST select error = %v", err)
	}
	_ = sel.Body.Close()
	if sel.StatusCode != http.StatusOK {
		t.Errorf("select status = %d, want 200", sel.StatusCode)
	}

	chartResp, err := http.Get("http://127.0.0.1:19004/charts/seats.svg")
	if err != nil {
		t.Fatalf("GET chart error = %v", err)
	}
	_ = chartResp.Body.Close()
	if chartResp.StatusCode != http.StatusOK {
		t.Errorf("chart status = %d, want 200", chartResp.StatusCode)
	}
}

func TestWithResultsCallback_ReportsFailuresAndKeepsPolling(t *testing.T) {
	ts, f := newFeedServer(t, 2)
	defer ts.Close()

	var (
		mu     sync.Mutex
		events []ResultsEvent
	)
	done := make(chan struct{})

	b, err := New(
		WithFeed(f),
		WithPort(19005),
		WithRefreshInterval(20*time.Millisecond),
		WithLogger(discardLogger()),
		WithResultsCallback(func(e ResultsEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
			if len(events) == 3 {
				close(done)
			}
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Start(ctx) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("did not receive three poll events")
	}
	cancel()

	mu.Lock()
	defer mu.Unlock()

	if events[0].OK() || events[1].OK() {
		t.Error("first two polls should have failed")
	}
	if events[0].StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", events[0].StatusCode)
	}
	if !events[2].OK() {
		t.Errorf("third poll error = %v", events[2].Err)
	}
	if !strings.Contains(events[2].URL, "/resultats.js?_=") {
		t.Errorf("URL = %q, want live URL with cache-busting parameter", events[2].URL)
	}
	if events[2].RequestID == "" {
		t.Error("RequestID is empty")
	}
}

func TestWithResultsCallback_PanicRecovered(t *testing.T) {
	ts, f := newFeedServer(t, 0)
	defer ts.Close()

	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))

	var after atomic.Int32
	b, err := New(
		WithFeed(f),
		WithPort(19006),
		WithRefreshInterval(20*time.Millisecond),
		WithLogger(logger),
		WithResultsCallback(func(ResultsEvent) { panic("callback bug") }),
		WithResultsCallback(func(ResultsEvent) { after.Add(1) }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_ = b.Start(ctx)

	// later callbacks still run and the loop keeps polling
	if after.Load() < 2 {
		t.Errorf("second callback ran %d times, want at least 2", after.Load())
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(buf.String(), "results callback panicked") {
		t.Error("callback panic was not logged")
	}
	if !strings.Contains(buf.String(), "correlation_id=") {
		t.Error("callback panic log has no correlation id")
	}
}

func TestBoard_Fetch(t *testing.T) {
	ts, f := newFeedServer(t, 0)
	defer ts.Close()

	var called atomic.Int32
	b, err := New(WithFeed(f), WithLogger(discardLogger()),
		WithResultsCallback(func(ResultsEvent) { called.Add(1) }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	event := b.Fetch(context.Background())
	if !event.OK() {
		t.Fatalf("Fetch() error = %v", event.Err)
	}
	if got := len(event.Results.Ridings); got != 2 {
		t.Errorf("len(Ridings) = %d, want 2", got)
	}
	if event.Size == 0 {
		t.Error("Size = 0")
	}
	if called.Load() != 0 {
		t.Error("Fetch() invoked results callbacks")
	}
}

func TestBoard_FetchFailure(t *testing.T) {
	ts, f := newFeedServer(t, 1)
	defer ts.Close()

	b, err := New(WithFeed(f), WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	event := b.Fetch(context.Background())
	if event.OK() {
		t.Fatal("Fetch() OK = true, want failure")
	}
	if !strings.Contains(event.Err.Error(), fmt.Sprint(http.StatusBadGateway)) {
		t.Errorf("Err = %v, want status in message", event.Err)
	}
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
