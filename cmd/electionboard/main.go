// Package main is the entry point for the electionboard CLI.
//
// electionboard can be run either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	electionboard serve -c config.yaml    # Start the dashboard
//	electionboard fetch                   # Poll once and print standings
//	electionboard validate -c config.yaml # Validate configuration
//	electionboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd only displays help; functionality lives in subcommands.
var rootCmd = &cobra.Command{
	Use:   "electionboard",
	Short: "A live election-results dashboard",
	Long: `electionboard is a live election-results dashboard.

It polls a results feed every few seconds and shows party standings,
seat and vote charts, and per-riding results in a web UI with
Server-Sent Events for live updates.

Quick start:
  1. Run: electionboard serve
  2. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  refresh_interval: 5s
  feed:
    live_url: https://dgeq.org/resultats.js
    archive_url: https://dgeq.org/doc/gen7-4-2014/resultats.js
    poll_close: 2018-10-01T20:00:00-04:00`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this electionboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "electionboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
