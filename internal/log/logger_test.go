package log

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "talkbox.log")

	Init(Options{Level: "debug", File: path, Quiet: true})
	t.Cleanup(Close)

	WithComponent("testcomp").Debug("hello world", slog.String("k", "v"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	var last string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatal("no log lines found")
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", last, err)
	}
	want := map[string]string{
		"msg":       "hello world",
		"app":       "talkbox",
		"component": "testcomp",
		"k":         "v",
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("field %s = %v, want %q", k, m[k], v)
		}
	}
}

func TestInitRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talkbox.log")

	Init(Options{Level: "warn", File: path, Quiet: true})
	t.Cleanup(Close)

	L().Info("dropped")
	L().Warn("kept")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Errorf("info record written at warn level: %s", data)
	}
	if !strings.Contains(string(data), "kept") {
		t.Errorf("warn record missing: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileReplacesConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talkbox.log")

	// Not quiet: with a file configured, records still go only to the file.
	Init(Options{Level: "info", Format: "json", File: path})
	t.Cleanup(Close)

	L().Info("to file")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("record missing from file: %s", data)
	}

	Close()
	Close()
}

func TestLBeforeInit(t *testing.T) {
	mu.Lock()
	current = nil
	mu.Unlock()

	if L() == nil {
		t.Fatal("L() returned nil before Init")
	}
	if !L().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("default logger drops info records")
	}
	if L().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default logger keeps debug records")
	}
}
