package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		debugOn bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"nonsense", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Level: tt.level}, &buf)
			log.Debug("probe")
			if got := buf.Len() > 0; got != tt.debugOn {
				t.Errorf("level %q: debug emitted=%v, want %v", tt.level, got, tt.debugOn)
			}
		})
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json"}, &buf)
	log.Info("probe", slog.String("k", "v"))

	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected JSON output, got %q", out)
	}
}
