package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/talkbox/internal/reveal"
)

// timerMsg is delivered when a scheduled timer interval elapses.
type timerMsg struct {
	id int
}

// scheduler implements reveal.Scheduler on top of tea.Tick. Callbacks run
// inside Update, so they never interleave with key handling.
type scheduler struct {
	nextID  int
	timers  map[int]*teaTimer
	pending []tea.Cmd
}

type teaTimer struct {
	s        *scheduler
	id       int
	interval time.Duration
	fn       func()
}

func (t *teaTimer) Cancel() {
	delete(t.s.timers, t.id)
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[int]*teaTimer)}
}

func (s *scheduler) Every(d time.Duration, fn func()) reveal.Timer {
	s.nextID++
	t := &teaTimer{s: s, id: s.nextID, interval: d, fn: fn}
	s.timers[t.id] = t
	s.arm(t)
	return t
}

func (s *scheduler) arm(t *teaTimer) {
	s.pending = append(s.pending, tick(t.interval, t.id))
}

// fire runs the callback for id and re-arms the timer if it is still live.
// Ticks for canceled timers are dropped.
func (s *scheduler) fire(id int) {
	t, ok := s.timers[id]
	if !ok {
		return
	}
	t.fn()
	if _, live := s.timers[id]; live {
		s.arm(t)
	}
}

// flush returns the tick commands queued since the last call.
func (s *scheduler) flush() tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

func tick(d time.Duration, id int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	})
}

// surface holds what the dialogue box shows. View reads it directly.
type surface struct {
	text      string
	visible   bool
	destroyed bool
}

func (s *surface) SetText(text string)     { s.text = text }
func (s *surface) SetVisible(visible bool) { s.visible = visible }
func (s *surface) Destroy()                { s.destroyed = true }

// display is the surface factory for the dialogue box.
type display struct {
	current *surface
}

func (d *display) CreateSurface() reveal.Surface {
	d.current = &surface{}
	return d.current
}

// shown returns the text on screen and whether the box is visible.
func (d *display) shown() (string, bool) {
	if d.current == nil || d.current.destroyed || !d.current.visible {
		return "", false
	}
	return d.current.text, true
}
