// Command example runs the dashboard against a simulated election night.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/electionboard"
	"github.com/jpalmerr/electionboard/example/mockfeed"
)

func main() {
	// counting starts now and is complete after ten minutes
	sim := mockfeed.New(time.Now(), 10*time.Minute, uint64(time.Now().UnixNano()))
	go func() {
		if err := http.ListenAndServe(":9999", sim); err != nil {
			slog.Error("mock feed error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	// poll close is in the past, so the live URL is used
	f, err := electionboard.NewFeed(
		"http://localhost:9999/resultats.js",
		"http://localhost:9999/archive/resultats.js",
		electionboard.WithPollClose(time.Now().Add(-time.Minute)),
		electionboard.WithTimeout(2*time.Second),
	)
	if err != nil {
		slog.Error("failed to create feed", "error", err)
		os.Exit(1)
	}

	b, err := electionboard.New(
		electionboard.WithFeed(f),
		electionboard.WithRefreshInterval(2*time.Second),
		electionboard.WithPort(8080),
		electionboard.WithTitle("Soirée électorale (simulation)"),
		electionboard.WithResultsCallback(func(e electionboard.ResultsEvent) {
			if !e.OK() {
				slog.Warn("poll failed", "error", e.Err)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create board", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   electionboard demo                                  ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   20 simulated ridings, final after 10 minutes        ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		slog.Error("electionboard error", "error", err)
		os.Exit(1)
	}
}
