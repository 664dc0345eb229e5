// Package dsp declares the contracts of the vendor-supplied audio blocks.
//
// The blocks themselves are opaque: their algorithms run inside the audio
// engine (a co-processor on the reference hardware) and the control layer
// only sets named numeric parameters and describes routing. Everything here
// is a contract; the engine implementation lives with the target.
package dsp

import "errors"

// ErrBlockUnavailable is returned by an engine that cannot allocate a
// requested block type in the active graph.
var ErrBlockUnavailable = errors.New("dsp: block unavailable")

// Block is the common handle of every DSP building block.
type Block interface {
	// Kind returns the vendor block type identifier.
	Kind() BlockKind
}

// BlockKind identifies a vendor block type.
type BlockKind uint8

const (
	KindEcho BlockKind = iota
	KindBiquad
	KindLFO
	KindShaper
	KindMixer
)

// BiquadMode selects the filter response of a Biquad block.
type BiquadMode uint8

const (
	LowPass BiquadMode = iota
	HighPass
	BandPass
	Notch
	PeakingEQ
	LowShelf
	HighShelf
)

// Echo is a delay line with feedback.
type Echo interface {
	Block
	SetDelayMS(ms float32)
	SetDecay(v float32)
	SetMix(v float32)
}

// Biquad is a two-pole filter section.
type Biquad interface {
	Block
	SetMode(m BiquadMode)
	SetFrequency(hz float32)
	SetQ(q float32)
	SetGain(db float32) // peaking/shelf modes only
}

// LFO is a low-frequency control oscillator. Its output drives another
// block's parameter inside the engine; the control layer only shapes it.
type LFO interface {
	Block
	SetRate(hz float32)
	SetScale(v float32)
	SetOffset(v float32)
	SetWaveform(index int)

	// Value returns the oscillator's last output sample, used for LED
	// animation. Reading it has no effect on the engine.
	Value() float32
}

// Shaper is a waveshaping distortion stage.
type Shaper interface {
	Block
	SetDrive(v float32)
	SetPreGain(db float32)
	SetPostGain(db float32)
	SetMode(mode int)
	SetMix(v float32)
}

// Mixer sums its voices under individual level control.
type Mixer interface {
	Block
	Voice(i int) MixerVoice
}

// MixerVoice is one input of a Mixer.
type MixerVoice interface {
	SetLevel(v float32)

	// BindLFO routes an LFO onto the voice level inside the engine.
	BindLFO(lfo LFO)
}

// Engine builds and routes blocks of an audio-effect graph. Constructors
// return ErrBlockUnavailable when the active graph cannot host the block.
type Engine interface {
	NewEcho() (Echo, error)
	NewBiquad(mode BiquadMode, frequency, q float32) (Biquad, error)
	NewLFO() (LFO, error)
	NewShaper() (Shaper, error)
	NewMixer(voices int) (Mixer, error)

	// Chain routes the codec input through the given blocks in order and
	// back to the codec output.
	Chain(blocks ...Block) error

	// Reset tears down the active graph before a program change.
	Reset()
}
