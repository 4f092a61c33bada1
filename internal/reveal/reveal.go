// Package reveal provides the typewriter effect for a single text buffer:
// characters are disclosed one at a time on a fixed interval until the whole
// target is shown or the reveal is skipped.
package reveal

import (
	"log/slog"
	"time"

	applog "github.com/metcalfc/talkbox/internal/log"
)

// DefaultInterval is the delay between two revealed characters.
const DefaultInterval = 50 * time.Millisecond

// Phase is the lifecycle stage of a Revealer.
type Phase int

const (
	// PhaseIdle means nothing has been rendered yet.
	PhaseIdle Phase = iota
	// PhaseRevealing means a timer is armed and characters are being disclosed.
	PhaseRevealing
	// PhaseComplete means the whole target is displayed.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRevealing:
		return "Revealing"
	case PhaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// State is a snapshot of a Revealer. Progress counts runes of the target
// that are currently displayed.
type State struct {
	Phase    Phase
	Progress int
}

// Revealer discloses a target text character by character.
// It is not safe for concurrent use; the host serializes all calls.
type Revealer struct {
	sched    Scheduler
	surfaces SurfaceFactory
	interval time.Duration
	log      *slog.Logger

	target  []rune
	initial int

	state   State
	shown   string
	surface Surface
	timer   Timer
	visible bool
}

// Option configures a Revealer.
type Option func(*Revealer)

// WithInterval sets the delay between revealed characters.
func WithInterval(d time.Duration) Option {
	return func(r *Revealer) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Revealer) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a Revealer driven by sched.
func New(sched Scheduler, opts ...Option) *Revealer {
	r := &Revealer{
		sched:    sched,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = applog.WithComponent("reveal")
	}
	return r
}

// Create attaches the display the Revealer draws on.
func (r *Revealer) Create(f SurfaceFactory) {
	r.surfaces = f
}

// SetTarget stores the text to reveal and how many leading characters count
// as already shown. It neither renders nor starts a timer.
func (r *Revealer) SetTarget(text string, initialProgress int) {
	r.target = []rune(text)
	r.initial = initialProgress
}

// Render replaces the current surface with a fresh one showing the initial
// prefix of the target and starts revealing the rest.
func (r *Revealer) Render() {
	if r.surfaces == nil {
		return
	}

	r.cancel()
	if r.surface != nil {
		r.surface.Destroy()
		r.surface = nil
	}

	progress := clamp(r.initial, len(r.target))
	r.surface = r.surfaces.CreateSurface()
	r.display(string(r.target[:progress]))
	r.surface.SetVisible(r.visible)
	r.state = State{Phase: PhaseRevealing, Progress: progress}

	if progress >= len(r.target) {
		r.state.Phase = PhaseComplete
		return
	}

	var t Timer
	t = r.sched.Every(r.interval, func() { r.tick(t) })
	r.timer = t
	r.log.Debug("reveal started",
		slog.Int("from", progress),
		slog.Int("to", len(r.target)))
}

func (r *Revealer) tick(t Timer) {
	// A host may still deliver a tick that was in flight when the timer was
	// replaced.
	if t != r.timer || r.state.Phase != PhaseRevealing {
		return
	}

	r.state.Progress = clamp(r.state.Progress+1, len(r.target))
	r.display(string(r.target[:r.state.Progress]))

	if r.state.Progress >= len(r.target) {
		r.cancel()
		r.state.Phase = PhaseComplete
	}
}

// Skip completes an in-flight reveal immediately.
func (r *Revealer) Skip() {
	if r.state.Phase != PhaseRevealing {
		return
	}

	r.cancel()
	r.state = State{Phase: PhaseComplete, Progress: len(r.target)}
	r.display(string(r.target))
	r.log.Debug("reveal skipped", slog.Int("len", len(r.target)))
}

// Show makes the surface visible without touching the reveal.
func (r *Revealer) Show() {
	r.visible = true
	if r.surface != nil {
		r.surface.SetVisible(true)
	}
}

// Hide hides the surface without touching the reveal.
func (r *Revealer) Hide() {
	r.visible = false
	if r.surface != nil {
		r.surface.SetVisible(false)
	}
}

// Visible reports whether the surface is shown.
func (r *Revealer) Visible() bool { return r.visible }

// Animating reports whether characters are still being disclosed.
func (r *Revealer) Animating() bool { return r.state.Phase == PhaseRevealing }

// State returns the current phase and progress.
func (r *Revealer) State() State { return r.state }

// Text returns what the surface currently displays.
func (r *Revealer) Text() string { return r.shown }

func (r *Revealer) display(text string) {
	r.shown = text
	r.surface.SetText(text)
}

func (r *Revealer) cancel() {
	if r.timer != nil {
		r.timer.Cancel()
		r.timer = nil
	}
}

// clamp bounds n to [0, limit].
func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
