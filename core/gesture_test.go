package core

import (
	"testing"
	"time"
)

func TestGestureTapCounting(t *testing.T) {
	g := NewSwitchGesture()

	// Quiet ticks produce no events.
	ev := g.Update(false, false, 0)
	if ev.Edge || ev.Taps != 0 {
		t.Fatalf("quiet tick produced %+v", ev)
	}

	// Short press: fall after a short released interval, rise after a
	// short pressed interval. Both edges count.
	ev = g.Update(false, true, 100*time.Millisecond)
	if !ev.Edge || !ev.Short || ev.Taps != 1 {
		t.Fatalf("first short edge: %+v", ev)
	}
	ev = g.Update(true, false, 150*time.Millisecond)
	if ev.Taps != 2 {
		t.Fatalf("second short edge: taps = %d, want 2", ev.Taps)
	}
}

func TestGestureLongPressResets(t *testing.T) {
	g := NewSwitchGesture()
	g.Update(false, true, 100*time.Millisecond)
	g.Update(true, false, 100*time.Millisecond)
	if g.Taps() != 2 {
		t.Fatalf("taps = %d, want 2", g.Taps())
	}

	// An edge ending a long stable interval resets the sequence.
	ev := g.Update(false, true, ShortPressDuration)
	if !ev.Edge || ev.Short || ev.Taps != 0 {
		t.Fatalf("long edge: %+v", ev)
	}
	if g.Taps() != 0 {
		t.Errorf("taps = %d after long press, want 0", g.Taps())
	}
}

func TestGestureThresholdBoundary(t *testing.T) {
	g := NewSwitchGesture()
	// Exactly at the threshold is long, just under is short.
	if ev := g.Update(false, true, ShortPressDuration-time.Millisecond); !ev.Short {
		t.Error("399ms interval not classified as short")
	}
	if ev := g.Update(true, false, ShortPressDuration); ev.Short {
		t.Error("400ms interval classified as short")
	}
}
