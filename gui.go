//go:build gui

package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/metcalfc/talkbox/internal/dialogue"
	applog "github.com/metcalfc/talkbox/internal/log"
	"github.com/metcalfc/talkbox/internal/reveal"
)

var (
	boxFill   = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
	boxBorder = color.RGBA{R: 0x90, G: 0x77, B: 0x48, A: 0xFF}
)

// fyneScheduler runs timer callbacks on the fyne UI goroutine. after runs
// following every callback so the window can refresh derived labels.
type fyneScheduler struct {
	after func()
}

type fyneTimer struct {
	canceled bool // only touched on the UI goroutine
	stop     chan struct{}
	once     sync.Once
}

func (t *fyneTimer) Cancel() {
	t.canceled = true
	t.once.Do(func() { close(t.stop) })
}

func (s *fyneScheduler) Every(d time.Duration, fn func()) reveal.Timer {
	t := &fyneTimer{stop: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				fyne.Do(func() {
					if t.canceled {
						return
					}
					fn()
					if s.after != nil {
						s.after()
					}
				})
			}
		}
	}()
	return t
}

// fyneSurface is a filled, bordered panel with wrapped text.
type fyneSurface struct {
	layer *fyne.Container
	panel *fyne.Container
	label *widget.Label
}

func (s *fyneSurface) SetText(text string) { s.label.SetText(text) }

func (s *fyneSurface) SetVisible(visible bool) {
	if visible {
		s.panel.Show()
	} else {
		s.panel.Hide()
	}
}

func (s *fyneSurface) Destroy() { s.layer.Remove(s.panel) }

// fyneDisplay creates surfaces inside layer.
type fyneDisplay struct {
	layer  *fyne.Container
	height float32
}

func (d *fyneDisplay) CreateSurface() reveal.Surface {
	bg := canvas.NewRectangle(boxFill)
	bg.StrokeColor = boxBorder
	bg.StrokeWidth = 3
	bg.CornerRadius = 6
	bg.SetMinSize(fyne.NewSize(0, d.height))

	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapWord
	label.TextStyle.Bold = true

	panel := container.NewStack(bg, container.NewPadded(label))
	panel.Hide()
	d.layer.Add(panel)
	return &fyneSurface{layer: d.layer, panel: panel, label: label}
}

// fyneKeys maps terminal key names from the config to fyne key names.
func fyneKeys(names []string) map[fyne.KeyName]bool {
	keys := make(map[fyne.KeyName]bool)
	for _, n := range names {
		switch strings.ToLower(n) {
		case "enter":
			keys[fyne.KeyReturn] = true
			keys[fyne.KeyEnter] = true
		case " ", "space":
			keys[fyne.KeySpace] = true
		case "tab":
			keys[fyne.KeyTab] = true
		case "esc":
			keys[fyne.KeyEscape] = true
		case "backspace":
			keys[fyne.KeyBackspace] = true
		default:
			if len(n) == 1 {
				keys[fyne.KeyName(strings.ToUpper(n))] = true
			}
		}
	}
	return keys
}

func main() {
	interval := flag.Int("i", 0, "Reveal interval in milliseconds")
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/talkbox/config.yaml)")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Talkbox - Dialogue Player\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  talkbox-gui [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  talkbox-gui intro.yaml        Play a dialogue script\n")
		fmt.Fprintf(os.Stderr, "  cat lines.txt | talkbox-gui   Read from stdin\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("talkbox-gui %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := loadSettings(*configPath, *interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	startLogging(cfg, false)
	defer applog.Close()

	path := ""
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	} else if stdinIsTerminal() {
		fmt.Fprintln(os.Stderr, "Error: No input provided. Provide a file or pipe a script to stdin.")
		fmt.Fprintln(os.Stderr, "Try: talkbox-gui -h")
		os.Exit(1)
	}

	convs, err := readConversations(path, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		applog.Close()
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow("talkbox")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter
	controlsLabel := widget.NewLabel("ENTER/SPACE/Z: next  TAB: hide/show  Q/ESC: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	layer := container.NewStack()
	sched := &fyneScheduler{}
	logger := applog.WithComponent("gui")
	box := reveal.New(sched,
		reveal.WithInterval(cfg.Interval()),
		reveal.WithLogger(logger.With("part", "reveal")))
	box.Create(&fyneDisplay{layer: layer, height: 600 * 0.3})
	seq := dialogue.NewSequencer(box, dialogue.WithLogger(logger.With("part", "sequencer")))

	current := -1
	updateStatus := func() {
		st := seq.State()
		switch {
		case current >= len(convs):
			statusLabel.SetText("Dialogue complete!")
		case st.Phase == dialogue.PhaseShowing:
			hidden := ""
			if !seq.Visible() {
				hidden = " [HIDDEN]"
			}
			statusLabel.SetText(fmt.Sprintf("Conversation %d/%d · line %d/%d%s",
				current+1, len(convs), st.Index+1, seq.Len(), hidden))
		case st.Phase == dialogue.PhaseExhausted:
			statusLabel.SetText(fmt.Sprintf("Conversation %d/%d finished", current+1, len(convs)))
		}
	}
	sched.after = updateStatus

	startNext := func() bool {
		current++
		if current >= len(convs) {
			current = len(convs)
			return false
		}
		logger.Info("conversation started", "index", current, "name", convs[current].Name)
		w.SetTitle("talkbox - " + convs[current].Name)
		seq.Show(convs[current].Lines)
		return true
	}

	confirmKeys := fyneKeys(cfg.Keys.Confirm)
	toggleKeys := fyneKeys(cfg.Keys.Toggle)
	quitKeys := fyneKeys(cfg.Keys.Quit)

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch {
		case quitKeys[key.Name]:
			a.Quit()

		case confirmKeys[key.Name]:
			// Unconsumed outside a conversation: move to the next one.
			if !seq.Confirm() && seq.State().Phase != dialogue.PhaseShowing {
				startNext()
			}

		case toggleKeys[key.Name]:
			if seq.State().Phase == dialogue.PhaseShowing {
				if seq.Visible() {
					seq.Hide()
				} else {
					seq.Reshow()
				}
			}

		case key.Name == fyne.KeyF11:
			w.SetFullScreen(!w.FullScreen())
		}
		updateStatus()
	})

	w.SetContent(container.NewBorder(
		statusLabel,
		controlsLabel,
		nil, nil,
		container.NewVBox(layout.NewSpacer(), layer),
	))
	w.Resize(fyne.NewSize(800, 600))

	startNext()
	updateStatus()

	w.ShowAndRun()
}
