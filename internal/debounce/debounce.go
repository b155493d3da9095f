// Package debounce provides a cancellable delay timer for bubbletea models.
//
// Every Start restarts the delay; only the message of the most recent Start
// is accepted by Fire, so a burst of keystrokes produces one dispatch.
package debounce

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDelay matches the autocomplete delay used by the forms.
const DefaultDelay = 300 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// Msg is delivered when a timer's delay elapses.
type Msg struct {
	id      int
	seq     int
	Payload any
}

// Timer is owned by the model that debounces input. Its zero value is not
// usable; create one with New.
type Timer struct {
	id      int
	seq     int
	delay   time.Duration
	pending bool
}

// New returns a timer with the given delay. A non-positive delay uses
// DefaultDelay.
func New(delay time.Duration) Timer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return Timer{id: nextID(), delay: delay}
}

// Delay returns the configured delay.
func (t *Timer) Delay() time.Duration { return t.delay }

// Pending reports whether a started delay has not fired or been cancelled.
func (t *Timer) Pending() bool { return t.pending }

// Start (re)starts the delay carrying payload. Earlier pending fires are
// invalidated.
func (t *Timer) Start(payload any) tea.Cmd {
	t.seq++
	t.pending = true
	id, seq := t.id, t.seq
	return tea.Tick(t.delay, func(time.Time) tea.Msg {
		return Msg{id: id, seq: seq, Payload: payload}
	})
}

// Reset is Start under the name used by callers restarting on keystrokes.
func (t *Timer) Reset(payload any) tea.Cmd { return t.Start(payload) }

// Cancel invalidates any pending fire.
func (t *Timer) Cancel() {
	t.seq++
	t.pending = false
}

// Fire accepts msg if it belongs to this timer's latest Start and returns
// its payload.
func (t *Timer) Fire(msg Msg) (any, bool) {
	if msg.id != t.id || msg.seq != t.seq || !t.pending {
		return nil, false
	}
	t.pending = false
	return msg.Payload, true
}
