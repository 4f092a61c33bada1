package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/talkbox/internal/config"
	"github.com/metcalfc/talkbox/internal/dialogue"
	applog "github.com/metcalfc/talkbox/internal/log"
	"github.com/metcalfc/talkbox/internal/script"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	quit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func testConversations() []script.Conversation {
	return []script.Conversation{
		{Name: "intro", Lines: dialogue.Script{dialogue.Line("Hi"), dialogue.Line("Bye")}},
		{Name: "cave", Lines: dialogue.Script{dialogue.Composite("Watch ", "out!")}},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	m := New(testConversations(), config.Defaults())
	m.Init()
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// drain fires live timers until the reveal finishes.
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 100 && len(m.sched.timers) > 0; i++ {
		for id := range m.sched.timers {
			m, _ = send(t, m, timerMsg{id: id})
			break
		}
	}
	if len(m.sched.timers) > 0 {
		t.Fatal("timers still live after drain")
	}
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func shownText(m Model) string {
	text, _ := m.display.shown()
	return text
}

func TestInitShowsFirstConversation(t *testing.T) {
	m := newTestModel(t)

	if st := m.seq.State(); st.Phase != dialogue.PhaseShowing || st.Index != 0 {
		t.Fatalf("state = %+v, want showing 0", st)
	}
	if len(m.sched.timers) != 1 {
		t.Fatalf("live timers = %d, want 1", len(m.sched.timers))
	}
	if got := shownText(m); got != "" {
		t.Errorf("initial text = %q, want empty", got)
	}

	m = drain(t, m)
	if got := shownText(m); got != "Hi" {
		t.Errorf("text = %q, want Hi", got)
	}
}

func TestTimerTicksRevealOneRune(t *testing.T) {
	m := newTestModel(t)

	var id int
	for k := range m.sched.timers {
		id = k
	}
	m, cmd := send(t, m, timerMsg{id: id})
	if got := shownText(m); got != "H" {
		t.Errorf("after one tick text = %q, want H", got)
	}
	if cmd == nil {
		t.Error("live timer was not re-armed")
	}
}

func TestStaleTimerDropped(t *testing.T) {
	m := newTestModel(t)

	var stale int
	for k := range m.sched.timers {
		stale = k
	}
	m, _ = send(t, m, enter) // skip cancels the timer
	if got := shownText(m); got != "Hi" {
		t.Fatalf("text after skip = %q, want Hi", got)
	}
	m, cmd := send(t, m, timerMsg{id: stale})
	if cmd != nil {
		t.Error("canceled timer was re-armed")
	}
	if got := shownText(m); got != "Hi" {
		t.Errorf("stale tick changed text to %q", got)
	}
}

func TestConfirmWalksConversationsAndQuits(t *testing.T) {
	m := newTestModel(t)

	m = drain(t, m)
	m, _ = send(t, m, space) // advance to "Bye"
	if st := m.seq.State(); st.Index != 1 {
		t.Fatalf("index = %d, want 1", st.Index)
	}
	m = drain(t, m)
	m, _ = send(t, m, enter) // exhaust intro
	if st := m.seq.State(); st.Phase != dialogue.PhaseExhausted {
		t.Fatalf("phase = %v, want Exhausted", st.Phase)
	}
	if !m.waiting {
		t.Fatal("exhaustion did not put the scene between conversations")
	}
	if !strings.Contains(m.View(), "press enter to continue") {
		t.Errorf("view missing continue prompt:\n%s", m.View())
	}

	m, _ = send(t, m, enter) // start cave
	if m.current != 1 || m.waiting {
		t.Fatalf("current = %d waiting = %v, want 1 and false", m.current, m.waiting)
	}
	m = drain(t, m)
	if got := shownText(m); got != "Watch " {
		t.Errorf("text = %q, want %q", got, "Watch ")
	}
	m, _ = send(t, m, enter)
	m = drain(t, m)
	if got := shownText(m); got != "Watch out!" {
		t.Errorf("text = %q, want %q", got, "Watch out!")
	}
	m, _ = send(t, m, enter) // exhaust cave

	m, cmd := send(t, m, enter)
	if !isQuit(cmd) {
		t.Fatal("confirm after last conversation did not quit")
	}
	if !strings.Contains(m.View(), "Dialogue complete!") {
		t.Errorf("view = %q, want completion message", m.View())
	}
}

func TestToggleHidesAndConfirmIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m = drain(t, m)

	m, _ = send(t, m, tab)
	if m.seq.Visible() {
		t.Fatal("toggle did not hide the box")
	}
	if !strings.Contains(m.View(), "[HIDDEN]") {
		t.Errorf("status missing hidden marker:\n%s", m.View())
	}

	m, cmd := send(t, m, enter)
	if isQuit(cmd) {
		t.Fatal("confirm while hidden quit")
	}
	if st := m.seq.State(); st.Phase != dialogue.PhaseShowing || st.Index != 0 || m.current != 0 {
		t.Errorf("confirm while hidden changed state: %+v current=%d", st, m.current)
	}

	m, _ = send(t, m, tab)
	if !m.seq.Visible() {
		t.Fatal("second toggle did not reshow the box")
	}
	if got := shownText(m); got != "Hi" {
		t.Errorf("reshown text = %q, want Hi", got)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	m, cmd := send(t, m, quit)
	if !isQuit(cmd) {
		t.Fatal("q did not quit")
	}
	if m.View() != "" {
		t.Errorf("view after early quit = %q, want empty", m.View())
	}
}

func TestConfiguredKeys(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfg := config.Defaults()
	cfg.Keys.Confirm = []string{"x"}
	cfg.Reveal.IntervalMs = 5
	m := New(testConversations(), cfg)
	m.Init()

	for _, tm := range m.sched.timers {
		if tm.interval != 5*time.Millisecond {
			t.Errorf("timer interval = %v, want 5ms", tm.interval)
		}
	}

	m, _ = send(t, m, enter)
	if !m.box.Animating() {
		t.Error("enter acted although confirm was rebound")
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.box.Animating() {
		t.Error("x did not skip the reveal")
	}
}

func TestViewLayout(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = drain(t, m)

	view := m.View()
	if !strings.HasPrefix(strings.TrimSpace(view), "Conversation 1/2 · intro · line 1/2") {
		t.Errorf("status line missing:\n%s", view)
	}
	if !strings.Contains(view, "Hi") {
		t.Errorf("box text missing:\n%s", view)
	}
	if !strings.Contains(view, "▼") {
		t.Errorf("completed line has no continue marker:\n%s", view)
	}
	if !strings.Contains(view, "next") {
		t.Errorf("help line missing:\n%s", view)
	}
}

func TestEmptyConversationListQuitsOnInit(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	m := New(nil, config.Defaults())
	if cmd := m.Init(); !isQuit(cmd) {
		t.Error("Init with no conversations did not quit")
	}
}

func TestComponentLoggersAreWired(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "talkbox.log")
	applog.Init(applog.Options{Level: "debug", File: path, Quiet: true})
	t.Cleanup(applog.Close)

	m := New(testConversations(), config.Defaults())
	m.Init()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{`"part":"reveal"`, `"part":"sequencer"`, `"component":"tui"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %s:\n%s", want, data)
		}
	}
}
