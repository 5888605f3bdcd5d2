package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewSetsLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			New(Config{Level: tt.level, Format: "json"})
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("global level: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewReturnsUsableLogger(t *testing.T) {
	l := New(Config{Level: "info", Format: "text"})
	// Must not panic.
	l.Info().Str("component", "test").Msg("logger smoke test")
}
