// Program registry and rotation policy.
// Every effect program is compiled into the firmware and registered at
// boot; the settings document remembers which one is active. A pedal with
// no programs cannot do anything useful, so that is a fatal boot fault.
package core

import (
	"errors"

	"zerostomp/dsp"
)

// ErrNoPrograms is the fatal boot fault raised when nothing is registered.
var ErrNoPrograms = errors.New("no programs installed")

// Program is one installed effect: straight-line wiring of DSP blocks plus
// knob bindings, and optional per-tick work.
type Program interface {
	// Name identifies the program in settings and on the display.
	Name() string

	// Setup builds the program's audio graph on the engine and binds its
	// knobs on a freshly reset control surface.
	Setup(dev *ControlSurface, eng dsp.Engine) error

	// Tick runs once per control tick after the surface update: expression
	// routing, LED animation, tuner detection.
	Tick(dev *ControlSurface)
}

// ProgramList owns the installed programs and the active-program policy.
type ProgramList struct {
	programs []Program
	settings *Settings
	current  int
	pending  bool
	target   int // direct-selection index, -1 for plain rotation
}

// NewProgramList restores the active program from settings. An unknown or
// missing name falls back to the first registered program and the fallback
// choice is persisted, mirroring what happens after a fresh install.
func NewProgramList(settings *Settings, programs ...Program) (*ProgramList, error) {
	if len(programs) == 0 {
		return nil, ErrNoPrograms
	}
	l := &ProgramList{programs: programs, settings: settings, target: -1}

	name := settings.GetString("global", "program")
	idx := -1
	for i, p := range programs {
		if p.Name() == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
		settings.Update(programs[0].Name(), "global", "program")
		if err := settings.Save(); err != nil {
			Debugf("settings: " + err.Error())
		}
	}
	l.current = idx
	return l, nil
}

// Count returns the number of installed programs.
func (l *ProgramList) Count() int {
	return len(l.programs)
}

// Current returns the active program.
func (l *ProgramList) Current() Program {
	return l.programs[l.current]
}

// RequestNext flags that the next program should be loaded. The actual
// switch happens at the top of the main loop, outside the tick that
// decoded the gesture.
func (l *ProgramList) RequestNext() {
	l.pending = true
	l.target = -1
}

// Select requests a direct switch to the named program, reporting whether
// it is installed. Like RequestNext, the switch happens at the main loop
// boundary.
func (l *ProgramList) Select(name string) bool {
	for i, p := range l.programs {
		if p.Name() == name {
			l.pending = true
			l.target = i
			return true
		}
	}
	return false
}

// TakeRequest consumes a pending next-program request.
func (l *ProgramList) TakeRequest() bool {
	p := l.pending
	l.pending = false
	return p
}

// Advance moves to the requested program (the next one, unless Select
// named a target), persists the choice and returns it.
func (l *ProgramList) Advance() Program {
	if l.target >= 0 {
		l.current = l.target
		l.target = -1
	} else {
		l.current = (l.current + 1) % len(l.programs)
	}
	l.settings.Update(l.Current().Name(), "global", "program")
	if err := l.settings.Save(); err != nil {
		Debugf("settings: " + err.Error())
	}
	return l.Current()
}
