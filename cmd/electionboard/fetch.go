package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/electionboard"
	"github.com/jpalmerr/electionboard/config"
	"github.com/jpalmerr/electionboard/internal/format"
	"github.com/jpalmerr/electionboard/internal/present"
	"github.com/jpalmerr/electionboard/results"
)

// fetchCmd polls the feed once and prints the standings.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Poll the results feed once and print the standings",
	Long: `Poll the results feed once and print party standings as a table.

The feed is chosen the same way the server chooses it: the archive URL
until poll close, the live URL after. Nothing is served.

Example:
  electionboard fetch
  electionboard fetch -c config.yaml`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringP("config", "c", "", "path to config file")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to build options: %w", err)
	}
	opts = append(opts, electionboard.WithLogger(newLogger(false)))

	b, err := electionboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	event := b.Fetch(cmd.Context())
	if !event.OK() {
		return fmt.Errorf("fetch %s: %w", event.URL, event.Err)
	}

	return printStandings(cmd.OutOrStdout(), event)
}

// printStandings writes ranked parties followed by a one-line summary.
func printStandings(w io.Writer, event electionboard.ResultsEvent) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tPARTY\tNAME\tSEATS\tVOTES")
	for i, p := range present.RankParties(event.Results.Statistics.Parties) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			i+1,
			format.SanitizePartyAbbreviation(p.Abbreviation),
			p.Name,
			p.Leading,
			format.Percent(p.VoteShare, 2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	stats := event.Results.Statistics
	_, err := fmt.Fprintf(w, "\n%d/%d stations reported, turnout %s, %s in %s from %s\n",
		stats.StationsReported,
		stats.PollingStations,
		turnout(stats.Turnout),
		humanize.Bytes(uint64(event.Size)),
		event.Latency.Round(time.Millisecond),
		event.URL,
	)
	return err
}

func turnout(r results.Rate) string {
	return format.RateLabel(r, 2)
}
