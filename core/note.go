package core

import (
	"math"
	"strconv"
)

// noteNames is the chromatic table rooted at A, so MIDI note 21 (A0) lands
// on index 0.
var noteNames = [12]string{
	"A", "A#/Bb", "B", "C", "C#/Db", "D", "D#/Eb", "E", "F", "F#/Gb", "G", "G#/Ab",
}

// ToneEstimate is the result of one detection pass. It is recomputed from
// scratch every tick detection runs and never persisted.
type ToneEstimate struct {
	Frequency float64 // detected frequency in Hz
	Note      int     // nearest MIDI note number
	Name      string  // chromatic note name
	Octave    int     // scientific pitch octave
	Cents     float64 // deviation from the nearest equal-tempered pitch
}

// Label returns the display form of the estimate, e.g. "A4" or "D#/Eb3".
func (t ToneEstimate) Label() string {
	return t.Name + strconv.Itoa(t.Octave)
}

// estimateTone maps a detected frequency onto the nearest equal-tempered
// note and its cents deviation.
func estimateTone(frequency float64) ToneEstimate {
	note := int(math.Round(69 + 12*math.Log2(frequency/440)))
	idx := (note - 21) % 12
	if idx < 0 {
		idx += 12
	}
	octave := (note - 12) / 12
	if note-12 < 0 && (note-12)%12 != 0 {
		octave-- // floor division for sub-audio corner cases
	}
	target := 440 * math.Pow(2, float64(note-69)/12)
	return ToneEstimate{
		Frequency: frequency,
		Note:      note,
		Name:      noteNames[idx],
		Octave:    octave,
		Cents:     1200 * math.Log2(frequency/target),
	}
}
