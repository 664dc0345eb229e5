// Stomp switch gesture decoding.
// Contact debouncing happens at the target level; core consumes stable
// levels, edges and the duration of the stable interval that just ended,
// and turns them into bypass changes and tap sequences.
package core

import "time"

// ShortPressDuration is the upper bound of a stable interval counted as a
// tap. Longer intervals reset the tap sequence.
const ShortPressDuration = 400 * time.Millisecond

// SwitchInput is the debounced stomp-switch collaborator.
type SwitchInput interface {
	// Update samples the switch once per control tick.
	Update()

	// Value returns the debounced level. The stomp switch is wired with a
	// pull-up, so an open (released) switch reads true, which is the
	// bypassed state.
	Value() bool

	// Rose and Fell report a debounced edge this tick.
	Rose() bool
	Fell() bool

	// LastDuration returns the length of the stable interval that ended
	// with the most recent edge.
	LastDuration() time.Duration
}

// SwitchEvent is the decoded result of one gesture tick.
type SwitchEvent struct {
	Edge  bool // debounced edge occurred this tick
	Short bool // the interval that just ended was a tap
	Taps  int  // consecutive short-transition count after this tick
}

// SwitchGesture classifies debounced switch transitions. Every edge is a
// bypass-state change; edges ending a short stable interval accumulate the
// tap counter and any long interval resets it.
type SwitchGesture struct {
	short time.Duration
	taps  int
}

// NewSwitchGesture creates a gesture decoder with the default tap duration.
func NewSwitchGesture() *SwitchGesture {
	return &SwitchGesture{short: ShortPressDuration}
}

// Taps returns the current consecutive short-transition count.
func (g *SwitchGesture) Taps() int {
	return g.taps
}

// Update consumes one tick of debounced switch state and returns the
// decoded event. The tap counter is not reset by whatever policy the caller
// dispatches; it keeps accumulating until a long interval intervenes.
func (g *SwitchGesture) Update(rose, fell bool, lastStable time.Duration) SwitchEvent {
	ev := SwitchEvent{}
	if !rose && !fell {
		ev.Taps = g.taps
		return ev
	}
	ev.Edge = true
	if lastStable < g.short {
		g.taps++
		ev.Short = true
	} else {
		g.taps = 0
	}
	ev.Taps = g.taps
	return ev
}
