package logger

import (
	"context"
	"log/slog"
	"testing"

	"phishing-paper-platform/internal/config"
)

func TestWithFallsBackBeforeInit(t *testing.T) {
	prev := Logger
	Logger = nil
	defer func() { Logger = prev }()

	log := With("component", "queue")
	if log == nil {
		t.Fatalf("With must return a usable logger before InitLogger runs")
	}
	// The nil-safe helpers must not panic either.
	Info("noop")
	Warn("noop")
	Error("noop")
	Debug("noop")
}

func TestWithUsesConfiguredLogger(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	InitLogger(&config.Config{GinMode: "release"})
	log := With("component", "queue")
	if log == nil || log == slog.Default() {
		t.Fatalf("With must derive from the configured logger after InitLogger")
	}
	if !log.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info level must be enabled in release mode")
	}
	if log.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("debug level must be disabled in release mode")
	}
}
