package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewAppliesLevel(t *testing.T) {
	log := New(Config{Level: "warn", Format: "json"})

	if log.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", log.GetLevel())
	}

	log = New(Config{Level: "", Format: "console"})
	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", log.GetLevel())
	}
}
