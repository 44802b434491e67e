package main

import (
	"strings"
	"testing"
)

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
port: 8080
refresh_interval: 10s
total_seats: 125
feed:
  live_url: https://example.com/resultats.js
  archive_url: https://example.com/archive.js
  poll_close: 2018-10-01T20:00:00-04:00
`)

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Port:             8080",
		"Refresh interval: 10s",
		"Total seats:      125",
		"Live feed:        https://example.com/resultats.js",
		"Poll close:       2018-10-01T20:00:00-04:00",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_DefaultFeed(t *testing.T) {
	configPath := writeConfig(t, "title: Test\n")

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "https://dgeq.org/resultats.js") {
		t.Errorf("output should show the built-in feed\nGot: %s", output)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeConfig(t, `
feed:
  archive_url: https://example.com/archive.js
`)

	_, err := executeCmd(t, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}

	if !strings.Contains(err.Error(), "live_url is required") {
		t.Errorf("error should mention 'live_url is required', got: %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := executeCmd(t, "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}
