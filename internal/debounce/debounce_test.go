package debounce

import (
	"testing"
	"time"
)

func fire(t *testing.T, tm *Timer, payload any) Msg {
	t.Helper()
	cmd := tm.Start(payload)
	if cmd == nil {
		t.Fatal("Start returned nil cmd")
	}
	msg, ok := cmd().(Msg)
	if !ok {
		t.Fatalf("cmd produced %T, want Msg", msg)
	}
	return msg
}

func TestLatestStartWins(t *testing.T) {
	tm := New(time.Millisecond)
	first := fire(t, &tm, "a")
	second := fire(t, &tm, "ab")

	if _, ok := tm.Fire(first); ok {
		t.Fatal("stale fire accepted")
	}
	got, ok := tm.Fire(second)
	if !ok || got != "ab" {
		t.Fatalf("Fire = %v, %v; want ab, true", got, ok)
	}
	if tm.Pending() {
		t.Fatal("timer still pending after fire")
	}
	if _, ok := tm.Fire(second); ok {
		t.Fatal("fired twice")
	}
}

func TestCancel(t *testing.T) {
	tm := New(time.Millisecond)
	msg := fire(t, &tm, 1)
	tm.Cancel()
	if tm.Pending() {
		t.Fatal("pending after cancel")
	}
	if _, ok := tm.Fire(msg); ok {
		t.Fatal("cancelled fire accepted")
	}
}

func TestTimersAreIndependent(t *testing.T) {
	a := New(time.Millisecond)
	b := New(time.Millisecond)
	msg := fire(t, &a, "x")
	b.Start("y")
	if _, ok := b.Fire(msg); ok {
		t.Fatal("timer accepted another timer's message")
	}
	if _, ok := a.Fire(msg); !ok {
		t.Fatal("owner rejected its message")
	}
}

func TestDefaultDelay(t *testing.T) {
	tm := New(0)
	if tm.Delay() != DefaultDelay {
		t.Fatalf("delay = %v, want %v", tm.Delay(), DefaultDelay)
	}
}
