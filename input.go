package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/metcalfc/talkbox/internal/config"
	"github.com/metcalfc/talkbox/internal/dialogue"
	"github.com/metcalfc/talkbox/internal/headless"
	applog "github.com/metcalfc/talkbox/internal/log"
	"github.com/metcalfc/talkbox/internal/reveal"
	"github.com/metcalfc/talkbox/internal/script"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readConversations loads the script at path, or parses stdin when path is
// empty.
func readConversations(path string, stdin io.Reader) ([]script.Conversation, error) {
	if path != "" {
		return script.Load(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return script.Parse("", data)
}

// stdinIsTerminal reports whether nothing is piped to stdin.
func stdinIsTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return true
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// loadSettings reads the config file and applies the -i flag on top.
func loadSettings(path string, intervalMs int) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if intervalMs > 0 {
		cfg.Reveal.IntervalMs = intervalMs
	}
	return cfg, nil
}

// writeConfig saves cfg to path, or to the per-user default when path is
// empty, and returns where it was written.
func writeConfig(path string, cfg config.Config) (string, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Save(path, cfg); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func startLogging(cfg config.Config, quiet bool) {
	applog.Init(applog.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Quiet:  quiet,
	})
}

// runPlain types every conversation to w without a terminal UI. Steps that
// extend the previous line continue it; other steps start a new line.
func runPlain(w io.Writer, convs []script.Conversation, interval time.Duration, sleep func(time.Duration)) {
	clock := headless.NewClock()
	display := &headless.Display{}
	box := reveal.New(clock, reveal.WithInterval(interval))
	box.Create(display)
	seq := dialogue.NewSequencer(box)

	for i, c := range convs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if c.Name != "" {
			fmt.Fprintf(w, "== %s ==\n", c.Name)
		}

		seq.Show(c.Lines)
		printed := 0
		for seq.State().Phase == dialogue.PhaseShowing {
			text := []rune(box.Text())
			if printed < len(text) {
				fmt.Fprint(w, string(text[printed:]))
				printed = len(text)
			}
			if box.Animating() {
				sleep(interval)
				clock.Advance(interval)
				continue
			}

			seq.Advance()
			step, ok := seq.Current()
			if !ok || step.Initial == 0 {
				fmt.Fprintln(w)
				printed = 0
			}
		}
	}
}
