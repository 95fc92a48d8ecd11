package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLogLines(t *testing.T, dir string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "arena.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("parsing log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLoggerWritesJSON(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("debate started", "question", "REST vs gRPC")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	entries := readLogLines(t, dir)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0]["msg"] != "debate started" {
		t.Errorf("msg = %v, want %q", entries[0]["msg"], "debate started")
	}
	if entries[0]["question"] != "REST vs gRPC" {
		t.Errorf("question = %v, want %q", entries[0]["question"], "REST vs gRPC")
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelWarn)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	entries := readLogLines(t, dir)
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[0]["msg"] != "warn message" {
		t.Errorf("first entry msg = %v, want %q", entries[0]["msg"], "warn message")
	}
}

func TestChildLoggerAttributes(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	child := logger.WithRun("run-123").WithStage("opening").WithRole("debater_a")
	child.Info("invoking backend")

	// Parent must not inherit child attributes.
	logger.Info("parent message")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	entries := readLogLines(t, dir)
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}

	first := entries[0]
	if first["run_id"] != "run-123" {
		t.Errorf("run_id = %v, want %q", first["run_id"], "run-123")
	}
	if first["stage"] != "opening" {
		t.Errorf("stage = %v, want %q", first["stage"], "opening")
	}
	if first["role"] != "debater_a" {
		t.Errorf("role = %v, want %q", first["role"], "debater_a")
	}

	if _, ok := entries[1]["run_id"]; ok {
		t.Error("parent logger should not carry child run_id attribute")
	}
}

func TestWithSkipsNonStringKeys(t *testing.T) {
	logger := NopLogger()
	child := logger.With(42, "value", "valid_key", "v")
	if len(child.attrs) != 1 {
		t.Errorf("got %d attrs, want 1", len(child.attrs))
	}
	if child.attrs[0].Key != "valid_key" {
		t.Errorf("attr key = %q, want %q", child.attrs[0].Key, "valid_key")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	logger := NopLogger()
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
