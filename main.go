//go:build !gui

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	applog "github.com/metcalfc/talkbox/internal/log"
	"github.com/metcalfc/talkbox/internal/script"
	"github.com/metcalfc/talkbox/internal/tui"
)

func main() {
	interval := flag.Int("i", 0, "Reveal interval in milliseconds (default: 50, or the config value)")
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/talkbox/config.yaml)")
	plain := flag.Bool("plain", false, "Type the dialogue to stdout without the terminal UI")
	writeCfg := flag.Bool("write-config", false, "Write the effective config to the config file and exit")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Talkbox - Terminal Dialogue Player\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  talkbox [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nFormats: %v (plain text otherwise)\n", script.SupportedFormats())
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  talkbox intro.yaml           Play a dialogue script\n")
		fmt.Fprintf(os.Stderr, "  talkbox -i 20 story.md       Type faster\n")
		fmt.Fprintf(os.Stderr, "  talkbox -plain book.epub     Print to stdout\n")
		fmt.Fprintf(os.Stderr, "  cat lines.txt | talkbox      Read from stdin\n")
		fmt.Fprintf(os.Stderr, "  talkbox -i 30 -write-config  Save a config with a 30ms interval\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  ENTER/SPACE/Z  Finish the line, then next line\n")
		fmt.Fprintf(os.Stderr, "  TAB            Hide/show the dialogue box\n")
		fmt.Fprintf(os.Stderr, "  Q/ESC          Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("talkbox %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := loadSettings(*configPath, *interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *writeCfg {
		written, err := writeConfig(*configPath, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", written)
		os.Exit(0)
	}
	// The alternate screen owns stderr while the UI runs.
	startLogging(cfg, !*plain)
	defer applog.Close()

	path := ""
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	} else if stdinIsTerminal() {
		fmt.Fprintln(os.Stderr, "Error: No input provided. Provide a file or pipe a script to stdin.")
		fmt.Fprintln(os.Stderr, "Try: talkbox -h")
		os.Exit(1)
	}

	convs, err := readConversations(path, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		applog.Close()
		os.Exit(1)
	}
	applog.L().Info("script loaded", "file", path, "conversations", len(convs))

	if *plain {
		runPlain(os.Stdout, convs, cfg.Interval(), time.Sleep)
		return
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if path == "" {
		// stdin held the script, so keys come from the terminal.
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(tui.New(convs, cfg), opts...)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		applog.Close()
		os.Exit(1)
	}
}
