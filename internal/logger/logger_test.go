package logger

import (
	"context"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"unknown level falls back to info", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if New(tt.level) == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestStageMessages(t *testing.T) {
	ctx := context.Background()
	log := New("debug")

	// The messages the pipeline stages emit; none may panic.
	log.Info(ctx, "pipeline state: %s", "parsing")
	log.Info(ctx, "parsed %d cues into %d chunks", 42, 3)
	log.Warn(ctx, "chunk %d/%d degraded to empty (%s): %v", 1, 3, "model_unavailable", "429")
	log.Warn(ctx, "frame for moment %d at %.2fs failed (%s): %v", 0, 7.5, "frame_decode_failure", "moov atom not found")
	log.Debug(ctx, "dropping hallucinated moment at %.2fs outside chunk [%.2f, %.2f]", 600.0, 0.0, 120.0)
	log.Error(ctx, "analyze failed: %v", "no_usable_content")
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    string
		shouldLog   bool
	}{
		{"hallucination debug lines at debug level", "debug", "debug", true},
		{"state transitions at debug level", "debug", "info", true},
		{"hallucination debug lines silenced at info", "info", "debug", false},
		{"state transitions at info level", "info", "info", true},
		{"chunk degradation silenced at error", "error", "warn", false},
		{"failures always log", "debug", "error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.configLevel).(*implLogger)
			if got := log.shouldLog(tt.logLevel); got != tt.shouldLog {
				t.Errorf("shouldLog() = %v, want %v", got, tt.shouldLog)
			}
		})
	}
}
