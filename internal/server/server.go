package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jpalmerr/electionboard/internal/chart"
	"github.com/jpalmerr/electionboard/internal/present"
	"github.com/jpalmerr/electionboard/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "Election Results"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"

	svgSuffix = ".svg"
)

// Selector changes the riding shown in the detail view.
type Selector interface {
	Select(id int) (present.Detail, error)
}

// Server handles HTTP requests for the election dashboard and API.
//
// Server provides these endpoints:
//   - GET /: Serves the embedded dashboard HTML
//   - GET /api/results: Returns the latest view as JSON
//   - GET /api/sse: Server-Sent Events stream of views
//   - POST /api/ridings/{id}/select: Shows a riding in the detail view
//   - GET /charts/{seats,votes}.svg: Renders a proportion chart
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	store      store.Store
	selector   Selector
	port       int
	httpServer *http.Server
	assets     fs.FS
	title      string
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - st: Store holding the latest view
//   - sel: Riding selector (may be nil, selection then answers 503)
//   - port: TCP port to listen on
//   - assets: Embedded filesystem containing dashboard assets (may be nil)
//   - title: Dashboard title (defaults to "Election Results" if empty)
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, sel Selector, port int, assets fs.FS, title string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    st,
		selector: sel,
		port:     port,
		assets:   assets,
		title:    title,
		logger:   logger,
	}
}

// Handler returns the dashboard's request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/results", s.handleResults)
	mux.HandleFunc("GET /api/sse", s.handleSSE)
	mux.HandleFunc("POST /api/ridings/{id}/select", s.handleSelect)
	mux.HandleFunc("GET /charts/{file}", s.handleChart)

	if s.assets != nil {
		mux.HandleFunc("GET /", s.handleDashboard)
	}
	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// listen first to report port conflicts synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts end with ctx, which also ends SSE streams
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	title := s.title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleResults returns the latest view as JSON, or 204 before the first poll.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	view, ok := s.store.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// handleSelect shows the riding named by the path in the detail view.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid riding id", http.StatusBadRequest)
		return
	}
	if s.selector == nil {
		http.Error(w, "selection unavailable", http.StatusServiceUnavailable)
		return
	}

	detail, err := s.selector.Select(id)
	if errors.Is(err, present.ErrRidingNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("riding selection failed", "riding_id", id, "error", err)
		http.Error(w, "selection failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, detail)
}

// handleChart renders a proportion chart of the latest view as SVG.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if !strings.HasSuffix(file, svgSuffix) {
		http.NotFound(w, r)
		return
	}
	kind := present.ChartKind(strings.TrimSuffix(file, svgSuffix))

	palette, ok := palettes[kind]
	if !ok {
		http.NotFound(w, r)
		return
	}

	view, ok := s.store.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	series, _ := view.Series(kind)

	var buf bytes.Buffer
	if err := chart.RenderDonut(&buf, series.Labels, series.Values, palette, chart.Size{}); err != nil {
		s.logger.Error("chart render failed", "chart", kind, "error", err)
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write chart response", "error", err)
	}
}

var palettes = map[present.ChartKind]chart.Palette{
	present.ChartSeats: chart.SeatsPalette,
	present.ChartVotes: chart.VotesPalette,
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// handleSSE streams views via Server-Sent Events.
//
// The handler uses write deadlines so a slow or disconnected client cannot
// block it past shutdown.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// some ResponseWriters cannot set deadlines
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	if view, ok := s.store.Latest(); ok {
		data, err := json.Marshal(view)
		if err == nil {
			if err := writeAndFlush(data); err != nil {
				return
			}
		}
	}

	for {
		select {
		case view, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(view)
			if err != nil {
				s.logger.Error("failed to encode view", "error", err)
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on client disconnect and on server shutdown
			return
		}
	}
}
