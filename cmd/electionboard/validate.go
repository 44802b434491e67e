package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/electionboard"
	"github.com/jpalmerr/electionboard/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an electionboard configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  electionboard validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// build the board too, so option-level errors surface here
	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	b, err := electionboard.New(opts...)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	f := b.Feed()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:             %d\n", b.Port())
	fmt.Fprintf(out, "  Refresh interval: %s\n", b.RefreshInterval())
	fmt.Fprintf(out, "  Total seats:      %d\n", b.TotalSeats())
	fmt.Fprintf(out, "  Live feed:        %s\n", f.LiveURL())
	fmt.Fprintf(out, "  Archive feed:     %s\n", f.ArchiveURL())
	fmt.Fprintf(out, "  Poll close:       %s\n", f.PollClose().Format("2006-01-02T15:04:05Z07:00"))

	return nil
}
