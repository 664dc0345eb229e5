// Paged knob grouping.
// The pedal has three physical pots but a program may bind many more logical
// knobs; knobs are grouped into fixed-size pages matched to the pot count
// and the stomp switch cycles through them.
package core

// KnobObserver receives display-facing knob state changes. Implementations
// render them however they like; core only emits semantic updates.
type KnobObserver interface {
	// KnobValue reports the committed normalized value of a knob.
	KnobValue(index int, title string, value float32)

	// KnobVisible reports whether a knob belongs to the active page.
	KnobVisible(index int, visible bool)
}

// PagedKnobSet owns the logical knobs of the active program and routes pot
// readings to the knobs on the current page.
type PagedKnobSet struct {
	knobs    []*Knob
	channels int
	page     int
	observer KnobObserver
}

// NewPagedKnobSet creates an empty set for the given number of physical pot
// channels per page.
func NewPagedKnobSet(channels int) *PagedKnobSet {
	if channels < 1 {
		channels = 1
	}
	return &PagedKnobSet{channels: channels}
}

// SetObserver registers the display-facing observer. Pass nil to detach.
func (s *PagedKnobSet) SetObserver(o KnobObserver) {
	s.observer = o
}

// Bind appends a knob mapped onto [lo, hi] and returns its page index.
// The knob's starting value is read back from the target via getter so the
// display reflects the parameter's actual state; the setter is not invoked
// at bind time. Knobs bound to a page other than the current one start
// hidden.
func (s *PagedKnobSet) Bind(title string, lo, hi float32, getter func() float32, setter func(float32)) int {
	initial := float32(0)
	if getter != nil {
		initial = Unmap(getter(), lo, hi)
	}
	index := len(s.knobs)
	knob := NewKnob(title, lo, hi, initial, s.wrapSetter(index, setter))
	knob.page = index / s.channels
	knob.hidden = knob.page != s.page
	s.knobs = append(s.knobs, knob)

	if s.observer != nil {
		s.observer.KnobValue(index, title, knob.Value())
		s.observer.KnobVisible(index, !knob.hidden)
	}
	return knob.page
}

func (s *PagedKnobSet) wrapSetter(index int, setter func(float32)) func(float32) {
	return func(mapped float32) {
		if setter != nil {
			setter(mapped)
		}
		if s.observer != nil {
			k := s.knobs[index]
			s.observer.KnobValue(index, k.Title, k.Value())
		}
	}
}

// Len returns the number of bound knobs.
func (s *PagedKnobSet) Len() int {
	return len(s.knobs)
}

// Knob returns the knob at index, or nil when out of range.
func (s *PagedKnobSet) Knob(index int) *Knob {
	if index < 0 || index >= len(s.knobs) {
		return nil
	}
	return s.knobs[index]
}

// Page returns the current page index.
func (s *PagedKnobSet) Page() int {
	return s.page
}

// PageCount returns the number of pages needed to show every knob.
func (s *PagedKnobSet) PageCount() int {
	n := len(s.knobs) - 1
	if n < 0 {
		n = 0
	}
	return n/s.channels + 1
}

// pageKnobCount returns how many knobs are on the current page.
func (s *PagedKnobSet) pageKnobCount() int {
	n := len(s.knobs) - s.page*s.channels
	if n < 0 {
		n = 0
	}
	if n > s.channels {
		n = s.channels
	}
	return n
}

// SetReading feeds the normalized reading of one physical channel to the
// matching knob on the current page. Channels past the end of a short last
// page are ignored.
func (s *PagedKnobSet) SetReading(channel int, v float32) {
	if channel < 0 || channel >= s.pageKnobCount() {
		return
	}
	s.knobs[s.page*s.channels+channel].Input(v)
}

// NextPage advances to the next page (wrapping), updates every knob's
// visibility by page membership and resets every knob into seeking state so
// neither the new page nor the old one jumps on re-entry.
func (s *PagedKnobSet) NextPage() {
	s.page = (s.page + 1) % s.PageCount()
	for i, k := range s.knobs {
		k.hidden = k.page != s.page
		k.Reset()
		if s.observer != nil {
			s.observer.KnobVisible(i, !k.hidden)
		}
	}
}

// ResetAll puts every knob back into seeking state without changing pages.
// Called at program start.
func (s *PagedKnobSet) ResetAll() {
	for _, k := range s.knobs {
		k.Reset()
	}
}
