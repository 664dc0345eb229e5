//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"
)

// debounceTicks is how many consecutive identical samples the raw contact
// must hold before the debounced level follows it. At the ~1 ms tick rate
// this rides out the few milliseconds of contact bounce a stomp switch
// produces.
const debounceTicks = 5

// StompSwitch implements core.SwitchInput over the GP9 contact. The switch
// shorts to ground when pressed; the pull-up makes a released (bypassed)
// switch read true.
type StompSwitch struct {
	pin machine.Pin

	stable    bool
	candidate bool
	count     int

	rose, fell   bool
	lastEdge     time.Time
	lastDuration time.Duration
}

// NewStompSwitch configures the contact pin and seeds the debouncer with
// the current level.
func NewStompSwitch() *StompSwitch {
	pin := machine.GPIO9
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	level := pin.Get()
	return &StompSwitch{
		pin:       pin,
		stable:    level,
		candidate: level,
		lastEdge:  time.Now(),
	}
}

// Update samples the contact once per control tick.
func (s *StompSwitch) Update() {
	s.rose = false
	s.fell = false

	raw := s.pin.Get()
	if raw != s.candidate {
		s.candidate = raw
		s.count = 0
		return
	}
	if s.candidate == s.stable {
		return
	}

	s.count++
	if s.count < debounceTicks {
		return
	}

	now := time.Now()
	s.lastDuration = now.Sub(s.lastEdge)
	s.lastEdge = now
	s.stable = s.candidate
	s.count = 0
	if s.stable {
		s.rose = true
	} else {
		s.fell = true
	}
}

// Value returns the debounced level; released (pull-up high) is bypassed.
func (s *StompSwitch) Value() bool {
	return s.stable
}

// Rose reports a debounced rising edge this tick.
func (s *StompSwitch) Rose() bool {
	return s.rose
}

// Fell reports a debounced falling edge this tick.
func (s *StompSwitch) Fell() bool {
	return s.fell
}

// LastDuration returns the length of the stable interval that ended with
// the most recent edge.
func (s *StompSwitch) LastDuration() time.Duration {
	return s.lastDuration
}
