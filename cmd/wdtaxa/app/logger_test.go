package app

import (
	"testing"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{"default level", &Config{}, "info"},
		{"verbose sets debug", &Config{Verbose: true}, "debug"},
		{"quiet sets warn", &Config{Quiet: true}, "warn"},
		{"explicit level overrides verbose", &Config{LogLevel: "error", Verbose: true}, "error"},
		{"explicit level overrides quiet", &Config{LogLevel: "trace", Quiet: true}, "trace"},
		{"quiet wins over verbose", &Config{Verbose: true, Quiet: true}, "warn"},
		{"invalid level falls back to info", &Config{LogLevel: "loud"}, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLogLevel(tt.config); got != tt.expected {
				t.Errorf("determineLogLevel() = %s, want %s", got, tt.expected)
			}
		})
	}
}
