// Package log provides the slog based application logger. Records go to a
// size-rotated JSON file when one is configured, otherwise to stderr.
package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization. The config package fills it from
// the config file and the TALKBOX_LOG_* environment variables.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // text or json, for stderr only
	File   string
	// Quiet drops stderr output when no file is set. The terminal UI needs
	// it because stderr shares the alternate screen.
	Quiet bool
}

var (
	mu      sync.Mutex
	current *slog.Logger
	file    *lj.Logger
)

// L returns the application logger. Before Init it logs info and above to
// stderr.
func L() *slog.Logger {
	mu.Lock()
	l := current
	mu.Unlock()
	if l == nil {
		Init(Options{})
		mu.Lock()
		l = current
		mu.Unlock()
	}
	return l
}

// Init replaces the application logger and slog.Default.
func Init(opts Options) {
	ho := &slog.HandlerOptions{Level: parseLevel(opts.Level)}

	var h slog.Handler
	var rotated *lj.Logger
	switch {
	case strings.TrimSpace(opts.File) != "" && ensureDir(opts.File):
		rotated = &lj.Logger{Filename: opts.File, MaxSize: 5, MaxBackups: 3, MaxAge: 14}
		h = slog.NewJSONHandler(rotated, ho)
	case opts.Quiet:
		h = slog.NewTextHandler(io.Discard, ho)
	case strings.EqualFold(strings.TrimSpace(opts.Format), "json"):
		h = slog.NewJSONHandler(os.Stderr, ho)
	default:
		h = slog.NewTextHandler(os.Stderr, ho)
	}
	logger := slog.New(h).With(slog.String("app", "talkbox"))

	mu.Lock()
	old := file
	current, file = logger, rotated
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	slog.SetDefault(logger)
}

// Close releases the log file, if any.
func Close() {
	mu.Lock()
	old := file
	file = nil
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

// WithComponent returns a logger tagged with the component name.
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

func ensureDir(path string) bool {
	return os.MkdirAll(filepath.Dir(path), 0o755) == nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
