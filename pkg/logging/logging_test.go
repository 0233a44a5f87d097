package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, "json")

	logger.Debug("hidden")
	logger.Info("Entry logged", "user_id", "alice", "calories", 420)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at info level, got %d: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if record["msg"] != "Entry logged" || record["user_id"] != "alice" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug, "text")

	logger.Debug("Cache miss", "day", "2026-07-06")

	out := buf.String()
	if !strings.Contains(out, "Cache miss") || !strings.Contains(out, "day=2026-07-06") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal writer should not get color codes")
	}
}

func TestNewTextToFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "server.log"))
	if err != nil {
		t.Fatalf("failed to create log file: %v", err)
	}
	defer f.Close()

	New(f, slog.LevelInfo, "text").Info("Server starting", "addr", ":8080")

	out, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(out), "Server starting") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(string(out), "\x1b[") {
		t.Error("regular file should not get color codes")
	}
}
