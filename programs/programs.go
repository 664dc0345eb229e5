// Package programs holds the effect programs compiled into the firmware.
// Each program wires a small graph of vendor DSP blocks, binds its knobs on
// the control surface and does its per-tick work (expression routing, LED
// animation, tuner detection) in Tick.
package programs

import (
	"zerostomp/core"
	"zerostomp/dsp"
)

// defaultQ is the Butterworth Q used wherever a program has no Q knob.
const defaultQ = 0.7071067811865475

// All returns every effect program in install order. The pitch config
// carries the board's capture calibration into the tuner.
func All(pitch core.PitchConfig) []core.Program {
	return []core.Program{
		NewDelay(),
		NewTremolo(),
		NewWah(),
		NewGraphicEQ(),
		NewDistortion(),
		NewTuner(pitch),
	}
}

// constant adapts a block parameter's known initial value to a knob
// getter; the vendor blocks themselves are write-only.
func constant(v float32) func() float32 {
	return func() float32 { return v }
}

// indicator clamps an LED animation level, forcing dark while bypassed.
func indicator(dev *core.ControlSurface, v float32) float32 {
	if dev.Bypassed() {
		return 0
	}
	return core.Clamp(v)
}

// lfoIndicator maps an oscillator output in [-1, 1] onto the upper half of
// the LED range so the pulse stays visible at low modulation depths.
func lfoIndicator(dev *core.ControlSurface, mod dsp.LFO) float32 {
	return indicator(dev, (mod.Value()+1)/4+0.5)
}
