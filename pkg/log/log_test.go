package log

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetupLevels(t *testing.T) {
	Setup(false)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug logs to be disabled by default")
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info logs to be enabled by default")
	}

	Setup(true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug logs to be enabled in verbose mode")
	}
}
