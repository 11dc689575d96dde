package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level    string
		enabled  slog.Level
		disabled slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"WARN", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := New(tt.level)
			if !log.Enabled(context.Background(), tt.enabled) {
				t.Errorf("level %s: expected %v to be enabled", tt.level, tt.enabled)
			}
			if log.Enabled(context.Background(), tt.disabled) {
				t.Errorf("level %s: expected %v to be disabled", tt.level, tt.disabled)
			}
		})
	}
}
