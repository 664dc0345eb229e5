// Normalized control-value helpers.
// Every physical reading and knob position in the firmware is expressed in
// the [0, 1] control range; Map and Unmap translate between that range and a
// parameter's semantic range.
package core

// Clamp constrains v to the [0, 1] control range.
func Clamp(v float32) float32 {
	return ClampTo(v, 0, 1)
}

// ClampTo constrains v to [lo, hi].
func ClampTo(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Map scales a normalized value onto [lo, hi]. A reversed range (lo > hi)
// simply inverts the mapping direction.
func Map(v, lo, hi float32) float32 {
	return Clamp(v)*(hi-lo) + lo
}

// Unmap converts a value in [lo, hi] back to the normalized range.
// Zero-width ranges never occur in valid configuration; Unmap returns 0 for
// them rather than dividing by zero.
func Unmap(v, lo, hi float32) float32 {
	if hi == lo {
		return 0
	}
	return Clamp((v - lo) / (hi - lo))
}
