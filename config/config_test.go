package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	cfg, err := Parse([]byte(`title: Test`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.RefreshInterval.Duration() != 5*time.Second {
		t.Errorf("RefreshInterval = %v, want 5s", cfg.RefreshInterval.Duration())
	}
	if cfg.TotalSeats != 125 {
		t.Errorf("TotalSeats = %d, want 125", cfg.TotalSeats)
	}
	if cfg.Locale != "fr-CA" {
		t.Errorf("Locale = %q, want fr-CA", cfg.Locale)
	}
	if cfg.ResultCards != 4 {
		t.Errorf("ResultCards = %d, want 4", cfg.ResultCards)
	}
	if cfg.Feed != nil {
		t.Errorf("Feed = %+v, want nil", cfg.Feed)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
title: Élections générales 2018
port: 9090
refresh_interval: 30s
total_seats: 127
locale: en-CA
timezone: America/Toronto
result_cards: 2

feed:
  live_url: https://dgeq.org/resultats.js
  archive_url: https://dgeq.org/doc/gen7-4-2014/resultats.js
  poll_close: 2018-10-01T20:00:00-04:00
  timeout: 5s
  format: auto
  callback: cb
  headers:
    User-Agent: electionboard
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Élections générales 2018" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.RefreshInterval.Duration() != 30*time.Second {
		t.Errorf("RefreshInterval = %v, want 30s", cfg.RefreshInterval.Duration())
	}
	if cfg.TotalSeats != 127 {
		t.Errorf("TotalSeats = %d, want 127", cfg.TotalSeats)
	}
	if cfg.Locale != "en-CA" {
		t.Errorf("Locale = %q, want en-CA", cfg.Locale)
	}
	if cfg.Timezone != "America/Toronto" {
		t.Errorf("Timezone = %q, want America/Toronto", cfg.Timezone)
	}
	if cfg.ResultCards != 2 {
		t.Errorf("ResultCards = %d, want 2", cfg.ResultCards)
	}

	f := cfg.Feed
	if f == nil {
		t.Fatal("Feed is nil")
	}
	if f.LiveURL != "https://dgeq.org/resultats.js" {
		t.Errorf("LiveURL = %q", f.LiveURL)
	}
	if f.ArchiveURL != "https://dgeq.org/doc/gen7-4-2014/resultats.js" {
		t.Errorf("ArchiveURL = %q", f.ArchiveURL)
	}
	wantClose := time.Date(2018, 10, 2, 0, 0, 0, 0, time.UTC)
	if !f.PollClose.Time().Equal(wantClose) {
		t.Errorf("PollClose = %v, want %v", f.PollClose.Time(), wantClose)
	}
	if f.Timeout.Duration() != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", f.Timeout.Duration())
	}
	if f.Format != "auto" {
		t.Errorf("Format = %q, want auto", f.Format)
	}
	if f.Callback != "cb" {
		t.Errorf("Callback = %q, want cb", f.Callback)
	}
	if f.Headers["User-Agent"] != "electionboard" {
		t.Errorf("Headers[User-Agent] = %q", f.Headers["User-Agent"])
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("FEED_HOST", "results.example.com")
	t.Setenv("FEED_TOKEN", "secret")

	yaml := `
feed:
  live_url: https://${FEED_HOST}/live.js
  archive_url: https://${FEED_HOST}/archive.js
  headers:
    Authorization: Bearer ${FEED_TOKEN}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Feed.LiveURL != "https://results.example.com/live.js" {
		t.Errorf("LiveURL = %q", cfg.Feed.LiveURL)
	}
	if cfg.Feed.ArchiveURL != "https://results.example.com/archive.js" {
		t.Errorf("ArchiveURL = %q", cfg.Feed.ArchiveURL)
	}
	if cfg.Feed.Headers["Authorization"] != "Bearer secret" {
		t.Errorf("Headers[Authorization] = %q", cfg.Feed.Headers["Authorization"])
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	yaml := `
feed:
  live_url: ${UNSET_LIVE_URL:-http://localhost:9000/live.js}
  archive_url: http://localhost:9000/archive.js
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Feed.LiveURL != "http://localhost:9000/live.js" {
		t.Errorf("LiveURL = %q", cfg.Feed.LiveURL)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	yaml := `
feed:
  live_url: https://${MISSING_FEED_HOST}/live.js
  archive_url: https://example.com/archive.js
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "MISSING_FEED_HOST") {
		t.Errorf("error = %q, want to mention MISSING_FEED_HOST", err.Error())
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErrLike string
	}{
		{
			name:        "port too large",
			yaml:        "port: 70000",
			wantErrLike: "port must be between",
		},
		{
			name:        "negative port",
			yaml:        "port: -1",
			wantErrLike: "port must be between",
		},
		{
			name:        "refresh interval too short",
			yaml:        "refresh_interval: 500ms",
			wantErrLike: "refresh_interval must be at least 1s",
		},
		{
			name:        "negative total seats",
			yaml:        "total_seats: -5",
			wantErrLike: "total_seats must be positive",
		},
		{
			name:        "negative result cards",
			yaml:        "result_cards: -1",
			wantErrLike: "result_cards cannot be negative",
		},
		{
			name:        "invalid locale",
			yaml:        "locale: not_a_locale!",
			wantErrLike: "invalid locale",
		},
		{
			name:        "unknown timezone",
			yaml:        "timezone: Mars/Olympus_Mons",
			wantErrLike: "invalid timezone",
		},
		{
			name: "missing live url",
			yaml: `
feed:
  archive_url: https://example.com/archive.js`,
			wantErrLike: "live_url is required",
		},
		{
			name: "missing archive url",
			yaml: `
feed:
  live_url: https://example.com/live.js`,
			wantErrLike: "archive_url is required",
		},
		{
			name: "url without scheme",
			yaml: `
feed:
  live_url: example.com/live.js
  archive_url: https://example.com/archive.js`,
			wantErrLike: "must have a scheme",
		},
		{
			name: "ftp scheme",
			yaml: `
feed:
  live_url: https://example.com/live.js
  archive_url: ftp://example.com/archive.js`,
			wantErrLike: "scheme must be http or https",
		},
		{
			name: "timeout too short",
			yaml: `
feed:
  live_url: https://example.com/live.js
  archive_url: https://example.com/archive.js
  timeout: 100ms`,
			wantErrLike: "timeout must be at least 1s",
		},
		{
			name: "unknown format",
			yaml: `
feed:
  live_url: https://example.com/live.js
  archive_url: https://example.com/archive.js
  format: xml`,
			wantErrLike: "format must be jsonp, json or auto",
		},
		{
			name: "bad poll close",
			yaml: `
feed:
  live_url: https://example.com/live.js
  archive_url: https://example.com/archive.js
  poll_close: "2018-10-01 20:00"`,
			wantErrLike: "invalid timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrLike) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErrLike)
			}
		})
	}
}

func TestParse_FormatCaseInsensitive(t *testing.T) {
	yaml := `
feed:
  live_url: https://example.com/live.js
  archive_url: https://example.com/archive.js
  format: JSON
`
	if _, err := Parse([]byte(yaml)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	yaml := `
this is not: valid: yaml: at all
  - broken
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", "10s", 10 * time.Second, false},
		{"milliseconds", "1500ms", 1500 * time.Millisecond, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"combined", "1m30s", 90 * time.Second, false},
		{"invalid", "not-a-duration", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte("refresh_interval: " + tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() expected error, got nil")
				}
				if !strings.Contains(err.Error(), "invalid duration") {
					t.Errorf("error = %q, want to contain 'invalid duration'", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.RefreshInterval.Duration() != tt.want {
				t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval.Duration(), tt.want)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "") // set but empty

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"multiple vars", "${TEST_VAR}-${TEST_VAR}", "value-value", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty var", "${EMPTY_VAR}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "electionboard.yaml")
	if err := os.WriteFile(path, []byte("port: 9191\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %v, want read error", err)
	}
}
