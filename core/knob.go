// Logical knob state with anti-jump tracking.
//
// A Knob links one physical pot channel to a target parameter. Because the
// physical pot position rarely matches the knob's stored value after a page
// switch or program load, raw readings are not applied blindly: a reset knob
// is "seeking" and commits the first reading that moves meaningfully, after
// which readings only commit when the pot sweeps across the committed value.
package core

// DefaultKnobThreshold is the minimum change from the committed value that a
// seeking knob accepts as a deliberate movement.
const DefaultKnobThreshold = 0.01

// Knob is a single page-assigned binding between a normalized pot reading
// and a target parameter range.
type Knob struct {
	Title string

	lo, hi    float32
	threshold float32

	// setter receives the mapped value on every commit. May be nil for
	// display-only knobs.
	setter func(float32)

	value   float32
	prev    float32
	seeking bool

	page   int
	hidden bool
}

// NewKnob creates a knob over [lo, hi] with the given committed starting
// value (normalized). The knob starts in seeking state so the first
// meaningful pot movement takes over cleanly.
func NewKnob(title string, lo, hi, value float32, setter func(float32)) *Knob {
	return &Knob{
		Title:     title,
		lo:        lo,
		hi:        hi,
		threshold: DefaultKnobThreshold,
		setter:    setter,
		value:     Clamp(value),
		seeking:   true,
	}
}

// SetThreshold overrides the seeking commit threshold for this knob.
func (k *Knob) SetThreshold(t float32) {
	k.threshold = t
}

// Value returns the last committed normalized value.
func (k *Knob) Value() float32 {
	return k.value
}

// Mapped returns the last committed value mapped onto the target range.
func (k *Knob) Mapped() float32 {
	return Map(k.value, k.lo, k.hi)
}

// Page returns the page index this knob was assigned at bind time.
func (k *Knob) Page() int {
	return k.page
}

// Hidden reports whether the knob is on an inactive page.
func (k *Knob) Hidden() bool {
	return k.hidden
}

// Reset clears the previous-reading marker, returning the knob to seeking
// state. The committed value is untouched.
func (k *Knob) Reset() {
	k.seeking = true
}

// Input feeds one normalized pot reading and reports whether it committed.
//
// Seeking: the first reading at least threshold away from the committed
// value commits and records itself as the previous marker. Sub-threshold
// readings are ignored and the knob stays seeking.
//
// Tracking: a reading commits only when it crosses the committed value from
// the side the pot approached from, which is what prevents snap-to-pot
// jumps. The previous marker follows the raw reading every tick either way.
func (k *Knob) Input(v float32) bool {
	v = Clamp(v)
	if k.seeking {
		if abs32(v-k.value) < k.threshold {
			return false
		}
		k.prev = v
		k.seeking = false
		k.commit(v)
		return true
	}

	committed := false
	if (k.prev < v && v >= k.value) || (k.prev > v && v <= k.value) {
		k.commit(v)
		committed = true
	}
	k.prev = v
	return committed
}

func (k *Knob) commit(v float32) {
	k.value = v
	if k.setter != nil {
		k.setter(k.Mapped())
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
