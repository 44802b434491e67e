// Package config provides YAML configuration parsing for electionboard.
//
// This package enables running the dashboard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Élections générales 2018
//	port: 8080
//	refresh_interval: 5s
//	total_seats: 125
//	locale: fr-CA
//	timezone: America/Toronto
//
//	feed:
//	  live_url: https://dgeq.org/resultats.js
//	  archive_url: https://dgeq.org/doc/gen7-4-2014/resultats.js
//	  poll_close: 2018-10-01T20:00:00-04:00
//	  timeout: 10s
//	  format: jsonp
//	  headers:
//	    User-Agent: electionboard
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// minRefreshInterval is the minimum allowed pause between polls.
// This prevents accidental DoS of the results feed.
const minRefreshInterval = 1 * time.Second

const (
	defaultPort            = 8080
	defaultRefreshInterval = 5 * time.Second
	defaultTotalSeats      = 125
	defaultLocale          = "fr-CA"
	defaultResultCards     = 4
)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "Election Results" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// RefreshInterval is the pause after each poll settles.
	// Accepts duration strings like "5s", "1m". Defaults to 5s.
	RefreshInterval Duration `yaml:"refresh_interval"`

	// TotalSeats is the size of the legislature. Defaults to 125.
	TotalSeats int `yaml:"total_seats"`

	// Locale is a BCP 47 tag used for number formatting. Defaults to fr-CA.
	Locale string `yaml:"locale"`

	// Timezone is an IANA zone name for date and time labels.
	// Empty means the local zone.
	Timezone string `yaml:"timezone"`

	// ResultCards is the number of party summary cards. Defaults to 4.
	ResultCards int `yaml:"result_cards"`

	// Feed describes the results feed. When omitted, the built-in feed is used.
	Feed *FeedConfig `yaml:"feed"`
}

// FeedConfig defines the results feed.
type FeedConfig struct {
	// LiveURL is polled after the poll-close cutoff.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	LiveURL string `yaml:"live_url"`

	// ArchiveURL is polled until the poll-close cutoff.
	ArchiveURL string `yaml:"archive_url"`

	// PollClose is the cutoff instant, RFC 3339.
	PollClose Timestamp `yaml:"poll_close"`

	// Timeout is the request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Format is the payload format: "jsonp" (default), "json" or "auto".
	Format string `yaml:"format"`

	// Callback is the JSONP callback name. Defaults to "callback".
	Callback string `yaml:"callback"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Timestamp wraps time.Time for RFC 3339 YAML values.
type Timestamp time.Time

// UnmarshalYAML implements yaml.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q (expected RFC 3339): %w", s, err)
	}

	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time value.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		sub := envVarPattern.FindStringSubmatch(match)
		name := sub[1]
		hasDefault := sub[2] != ""

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return sub[3]
		}
		firstErr = fmt.Errorf("environment variable %q is not set", name)
		return match
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in URLs and header values are expanded.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Defaults are applied for Port (8080), RefreshInterval (5s), TotalSeats
// (125), Locale (fr-CA) and ResultCards (4).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = Duration(defaultRefreshInterval)
	}
	if cfg.TotalSeats == 0 {
		cfg.TotalSeats = defaultTotalSeats
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	if cfg.ResultCards == 0 {
		cfg.ResultCards = defaultResultCards
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.RefreshInterval.Duration() < minRefreshInterval {
		return fmt.Errorf("refresh_interval must be at least %s, got %s",
			minRefreshInterval, c.RefreshInterval.Duration())
	}
	if c.TotalSeats < 0 {
		return fmt.Errorf("total_seats must be positive, got %d", c.TotalSeats)
	}
	if c.ResultCards < 0 {
		return fmt.Errorf("result_cards cannot be negative, got %d", c.ResultCards)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}

	if c.Feed == nil {
		return nil
	}
	return c.Feed.expandAndValidate()
}

func (f *FeedConfig) expandAndValidate() error {
	var err error
	if f.LiveURL, err = expandURL("live_url", f.LiveURL); err != nil {
		return err
	}
	if f.ArchiveURL, err = expandURL("archive_url", f.ArchiveURL); err != nil {
		return err
	}

	for k, v := range f.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("feed: headers[%s]: %w", k, err)
		}
		f.Headers[k] = expanded
	}

	if f.Timeout != 0 && f.Timeout.Duration() < time.Second {
		return fmt.Errorf("feed: timeout must be at least 1s if specified, got %s", f.Timeout.Duration())
	}

	switch strings.ToLower(f.Format) {
	case "", "jsonp", "json", "auto":
	default:
		return fmt.Errorf("feed: format must be jsonp, json or auto, got %q", f.Format)
	}

	return nil
}

// expandURL expands environment variables in a feed URL and checks its scheme.
func expandURL(field, raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("feed: %s is required", field)
	}
	expanded, err := expandEnvVars(raw)
	if err != nil {
		return "", fmt.Errorf("feed: %s: %w", field, err)
	}

	u, err := url.Parse(expanded)
	if err != nil {
		return "", fmt.Errorf("feed: invalid %s: %w", field, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("feed: %s must have a scheme (http:// or https://)", field)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("feed: %s scheme must be http or https, got %q", field, u.Scheme)
	}
	return expanded, nil
}
