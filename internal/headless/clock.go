// Package headless is a deterministic host for the reveal engine: a manual
// clock that fires timers only when advanced, and surfaces that record what
// they were asked to display.
package headless

import (
	"sort"
	"time"

	"github.com/metcalfc/talkbox/internal/reveal"
)

// Clock is a reveal.Scheduler driven by explicit Advance calls.
// Callbacks run inline on the caller's goroutine.
type Clock struct {
	now    time.Duration
	seq    int
	timers []*timer
}

type timer struct {
	clock    *Clock
	seq      int
	interval time.Duration
	next     time.Duration
	fn       func()
	canceled bool
}

func (t *timer) Cancel() {
	if t.canceled {
		return
	}
	t.canceled = true
	t.clock.remove(t)
}

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Every implements reveal.Scheduler.
func (c *Clock) Every(d time.Duration, fn func()) reveal.Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	c.seq++
	t := &timer{clock: c, seq: c.seq, interval: d, next: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Now returns the time elapsed since the clock was created.
func (c *Clock) Now() time.Duration { return c.now }

// Pending returns the number of live timers.
func (c *Clock) Pending() int { return len(c.timers) }

// Advance moves the clock forward by d, firing every callback that falls
// due in order. It returns the number of callbacks fired. The clock never
// runs backwards; d <= 0 does nothing.
func (c *Clock) Advance(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	end := c.now + d
	fired := 0
	for {
		t := c.due(end)
		if t == nil {
			break
		}
		c.now = t.next
		t.next += t.interval
		t.fn()
		fired++
	}
	c.now = end
	return fired
}

// Step fires the next due callback, if any, and reports whether one ran.
func (c *Clock) Step() bool {
	t := c.earliest()
	if t == nil {
		return false
	}
	c.now = t.next
	t.next += t.interval
	t.fn()
	return true
}

// RunUntilIdle fires callbacks until no timer is live or limit callbacks
// have run. It returns the number fired.
func (c *Clock) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit && c.Step() {
		fired++
	}
	return fired
}

func (c *Clock) due(end time.Duration) *timer {
	t := c.earliest()
	if t == nil || t.next > end {
		return nil
	}
	return t
}

func (c *Clock) earliest() *timer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].next != c.timers[j].next {
			return c.timers[i].next < c.timers[j].next
		}
		return c.timers[i].seq < c.timers[j].seq
	})
	return c.timers[0]
}

func (c *Clock) remove(t *timer) {
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
