// Package tui hosts the dialogue box in a bubbletea terminal program.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/talkbox/internal/config"
	"github.com/metcalfc/talkbox/internal/dialogue"
	applog "github.com/metcalfc/talkbox/internal/log"
	"github.com/metcalfc/talkbox/internal/reveal"
	"github.com/metcalfc/talkbox/internal/script"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#907748")).
			Background(lipgloss.Color("#303030")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#907748")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

// session is the mutable state shared by every copy of Model.
type session struct {
	convs   []script.Conversation
	current int
	// waiting is set when a conversation runs out and cleared when the next
	// one starts.
	waiting bool
	done    bool

	seq     *dialogue.Sequencer
	box     *reveal.Revealer
	sched   *scheduler
	display *display
	log     *slog.Logger
}

// Model is the bubbletea model. Conversations play in order; a confirm
// after one is exhausted starts the next.
type Model struct {
	*session
	keys     keyMap
	help     help.Model
	widthPct int
	quitting bool
	width    int
	height   int
}

// New builds a Model over convs using the reveal interval, key bindings and
// box width from cfg.
func New(convs []script.Conversation, cfg config.Config) Model {
	s := &session{
		convs:   convs,
		current: -1,
		sched:   newScheduler(),
		display: &display{},
		log:     applog.WithComponent("tui"),
	}
	s.box = reveal.New(s.sched,
		reveal.WithInterval(cfg.Interval()),
		reveal.WithLogger(s.log.With("part", "reveal")))
	s.box.Create(s.display)
	s.seq = dialogue.NewSequencer(s.box,
		dialogue.WithLogger(s.log.With("part", "sequencer")),
		dialogue.OnExhausted(func() {
			s.waiting = true
			s.log.Debug("conversation exhausted", "conversation", s.current)
		}))

	return Model{
		session:  s,
		keys:     newKeyMap(cfg.Keys),
		help:     help.New(),
		widthPct: cfg.Box.WidthPct,
		width:    80,
		height:   24,
	}
}

// startNext shows the next conversation. It reports false when none remain.
func (s *session) startNext() bool {
	s.waiting = false
	s.current++
	if s.current >= len(s.convs) {
		s.current = len(s.convs)
		s.done = true
		return false
	}
	c := s.convs[s.current]
	s.log.Info("conversation started", "index", s.current, "name", c.Name, "entries", len(c.Lines))
	s.seq.Show(c.Lines)
	return true
}

func (m Model) Init() tea.Cmd {
	if !m.startNext() {
		return tea.Quit
	}
	return m.sched.flush()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			// Hidden mid-conversation, the toggle key brings the box back.
			if m.seq.Confirm() || !m.waiting {
				break
			}
			if !m.startNext() {
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Toggle):
			if m.seq.State().Phase != dialogue.PhaseShowing {
				break
			}
			if m.seq.Visible() {
				m.seq.Hide()
			} else {
				m.seq.Reshow()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case timerMsg:
		m.sched.fire(msg.id)
	}

	return m, m.sched.flush()
}

func (m Model) View() string {
	if m.quitting {
		if m.done {
			return completeStyle.Render("\n  Dialogue complete!\n")
		}
		return ""
	}

	var sb strings.Builder
	sb.WriteString(statusStyle.Render(m.status()))
	sb.WriteString("\n")

	box := m.renderBox()
	controls := m.help.View(m.keys)

	// Status on top, controls at the bottom, box just above the controls.
	pad := m.height - 2 - lipgloss.Height(box)
	if box == "" {
		pad = m.height - 2
	}
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(strings.Repeat("\n", pad))
	if box != "" {
		sb.WriteString(box)
		sb.WriteString("\n")
	}
	sb.WriteString(controls)

	return sb.String()
}

func (m Model) status() string {
	total := len(m.convs)
	st := m.seq.State()
	switch {
	case m.waiting:
		if m.current+1 < total {
			return fmt.Sprintf("Conversation %d/%d finished · press %s to continue",
				m.current+1, total, m.keys.Confirm.Help().Key)
		}
		return fmt.Sprintf("Conversation %d/%d finished · press %s to exit",
			m.current+1, total, m.keys.Confirm.Help().Key)
	case st.Phase == dialogue.PhaseShowing:
		name := m.convs[m.current].Name
		if name != "" {
			name = " · " + name
		}
		hidden := ""
		if !m.seq.Visible() {
			hidden = " [HIDDEN]"
		}
		return fmt.Sprintf("Conversation %d/%d%s · line %d/%d%s",
			m.current+1, total, name, st.Index+1, m.seq.Len(), hidden)
	default:
		return fmt.Sprintf("Conversation %d/%d", m.current+1, total)
	}
}

func (m Model) renderBox() string {
	text, visible := m.display.shown()
	if !visible {
		return ""
	}
	if !m.box.Animating() {
		text += promptStyle.Render(" ▼")
	}

	width := m.width * m.widthPct / 100
	if width < 10 {
		width = 10
	}
	height := m.height * 30 / 100
	if height < 3 {
		height = 3
	}

	// Width and Height exclude the border.
	box := boxStyle.Width(width - 2).Height(height - 2).Render(text)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
}
