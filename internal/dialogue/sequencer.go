package dialogue

import (
	"log/slog"

	applog "github.com/metcalfc/talkbox/internal/log"
)

// Box is the part of the reveal contract the Sequencer drives.
// *reveal.Revealer satisfies it.
type Box interface {
	SetTarget(text string, initialProgress int)
	Render()
	Skip()
	Show()
	Hide()
	Animating() bool
	Visible() bool
}

// Phase is the lifecycle stage of a Sequencer.
type Phase int

const (
	// PhaseIdle means no script has been shown yet.
	PhaseIdle Phase = iota
	// PhaseShowing means State.Index points at the step in the box.
	PhaseShowing
	// PhaseExhausted means the last step was passed; the queue is cleared and
	// the box hidden until the next Show.
	PhaseExhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseShowing:
		return "Showing"
	case PhaseExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// State is a snapshot of the Sequencer. Index is -1 while idle, the current
// step while showing, and the number of steps that were shown once exhausted.
type State struct {
	Phase Phase
	Index int
}

// Sequencer owns the step queue of the current conversation and moves
// through it on player confirm input.
type Sequencer struct {
	box         Box
	log         *slog.Logger
	onExhausted func()

	steps []Step
	state State
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) SequencerOption {
	return func(s *Sequencer) {
		if l != nil {
			s.log = l
		}
	}
}

// OnExhausted registers fn to run each time a conversation runs out of steps.
func OnExhausted(fn func()) SequencerOption {
	return func(s *Sequencer) { s.onExhausted = fn }
}

// NewSequencer creates an idle Sequencer driving box.
func NewSequencer(box Box, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		box:   box,
		state: State{Phase: PhaseIdle, Index: -1},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = applog.WithComponent("dialogue")
	}
	return s
}

// Show starts a new conversation. A nil script re-shows the box without
// rebuilding the queue. A script that expands to no steps hides the box and
// leaves the queue empty.
func (s *Sequencer) Show(script Script) {
	if script == nil {
		s.Reshow()
		return
	}

	steps := Expand(script)
	if len(steps) == 0 {
		s.log.Debug("empty script", slog.Int("entries", len(script)))
		s.box.Skip()
		s.steps = nil
		s.state = State{Phase: PhaseIdle, Index: -1}
		s.box.Hide()
		return
	}

	s.log.Debug("show script", slog.Int("entries", len(script)), slog.Int("steps", len(steps)))
	s.steps = steps
	s.state = State{Phase: PhaseShowing, Index: -1}
	s.next()
	s.box.Show()
}

// Reshow makes the box visible again after Hide.
func (s *Sequencer) Reshow() {
	s.box.Show()
}

// Hide hides the box without touching the queue.
func (s *Sequencer) Hide() {
	s.box.Hide()
}

// Visible reports whether the box is shown.
func (s *Sequencer) Visible() bool { return s.box.Visible() }

// Advance completes any in-flight reveal and moves to the next step, hiding
// the box once the queue runs out. Outside a conversation there is nothing
// to advance to, so the box is hidden and the state is left alone.
func (s *Sequencer) Advance() {
	if s.state.Phase != PhaseShowing {
		s.box.Skip()
		s.box.Hide()
		return
	}
	s.next()
}

// SkipOrAdvance handles one confirm: the first completes a line that is
// still typing, the next moves on.
func (s *Sequencer) SkipOrAdvance() {
	if s.box.Animating() {
		s.box.Skip()
		return
	}
	s.Advance()
}

// Confirm is the confirm-input handler. It acts only while the box is
// visible and reports whether the input was consumed.
func (s *Sequencer) Confirm() bool {
	if !s.box.Visible() {
		return false
	}
	s.SkipOrAdvance()
	return true
}

func (s *Sequencer) next() {
	s.box.Skip()

	i := s.state.Index + 1
	if i < len(s.steps) {
		step := s.steps[i]
		s.state.Index = i
		s.box.SetTarget(step.Text, step.Initial)
		s.box.Render()
		return
	}

	s.log.Debug("script exhausted", slog.Int("steps", len(s.steps)))
	s.state = State{Phase: PhaseExhausted, Index: len(s.steps)}
	s.steps = nil
	s.box.Hide()
	if s.onExhausted != nil {
		s.onExhausted()
	}
}

// State returns the current phase and index.
func (s *Sequencer) State() State { return s.state }

// Len returns the number of steps in the queue.
func (s *Sequencer) Len() int { return len(s.steps) }

// Steps returns a copy of the queue.
func (s *Sequencer) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Current returns the step in the box, if one is showing.
func (s *Sequencer) Current() (Step, bool) {
	if s.state.Phase != PhaseShowing || s.state.Index < 0 || s.state.Index >= len(s.steps) {
		return Step{}, false
	}
	return s.steps[s.state.Index], true
}
