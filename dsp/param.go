// Parameter setter plumbing.
// A knob commit fans a single mapped value out to one or many block
// parameters. Unsupported targets are expressed as nil setters and skipped
// per item, so one incompatible block never keeps the rest of a group from
// updating.
package dsp

// Setter applies one mapped parameter value.
type Setter func(float32)

// FanOut returns a setter that forwards the value to every non-nil target.
func FanOut(targets ...Setter) Setter {
	return func(v float32) {
		for _, t := range targets {
			if t != nil {
				t(v)
			}
		}
	}
}

// Spread returns a setter that forwards the value to every non-nil target
// with a per-target offset of offset*(i - (n-1)/2), centering the group
// around the incoming value. Used for detuned stereo block pairs.
func Spread(offset float32, targets ...Setter) Setter {
	n := len(targets)
	return func(v float32) {
		for i, t := range targets {
			if t != nil {
				t(v + offset*(float32(i)-float32(n-1)/2))
			}
		}
	}
}

// Quantize returns a setter that maps a normalized [0, 1] value onto n
// discrete steps before forwarding the step index. Used for mode and
// waveform selector knobs.
func Quantize(n int, target func(int)) Setter {
	if n < 2 {
		return func(float32) { target(0) }
	}
	return func(v float32) {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		step := int(v*float32(n-1) + 0.5)
		if step > n-1 {
			step = n - 1
		}
		target(step)
	}
}
