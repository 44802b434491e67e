// Standalone mock results feed for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver -duration 5m
//
// Then in another terminal:
//
//	go run ./cmd/electionboard serve -c example/config.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jpalmerr/electionboard/example/mockfeed"
)

func main() {
	addr := flag.String("addr", ":9999", "listen address")
	duration := flag.Duration("duration", 10*time.Minute, "time until results are final")
	seed := flag.Uint64("seed", 1, "simulation seed")
	flag.Parse()

	fmt.Printf("Mock results feed starting on %s\n", *addr)
	fmt.Printf("Counting is complete after %s\n", *duration)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	sim := mockfeed.New(time.Now(), *duration, *seed)
	if err := http.ListenAndServe(*addr, sim); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
