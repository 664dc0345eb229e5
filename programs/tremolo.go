package programs

import (
	"zerostomp/core"
	"zerostomp/dsp"
)

// tremoloWaveforms is the number of oscillator shapes the Wave knob steps
// through (triangle, sine, ramp up, ramp down, square).
const tremoloWaveforms = 5

// Tremolo modulates the output level with a shaped oscillator. Depth plus
// the expression pedal set how far below unity the level dips.
type Tremolo struct {
	mod   dsp.LFO
	voice dsp.MixerVoice

	depth float32
}

func NewTremolo() *Tremolo {
	return &Tremolo{}
}

func (p *Tremolo) Name() string { return "Tremolo" }

func (p *Tremolo) Setup(dev *core.ControlSurface, eng dsp.Engine) error {
	mixer, err := eng.NewMixer(1)
	if err != nil {
		return err
	}
	mod, err := eng.NewLFO()
	if err != nil {
		return err
	}
	if err := eng.Chain(mixer); err != nil {
		return err
	}
	p.mod = mod
	p.voice = mixer.Voice(0)
	p.voice.SetLevel(1)
	p.voice.BindLFO(mod)
	mod.SetWaveform(0)

	dev.SetMix(1)
	dev.Bind("Rate", minModSpeed, maxModSpeed, nil, mod.SetRate)
	dev.Bind("Depth", 0, 1,
		func() float32 { return p.depth },
		func(v float32) { p.depth = v })
	dev.Bind("Wave", 0, 1, nil, dsp.Quantize(tremoloWaveforms, mod.SetWaveform))
	return nil
}

func (p *Tremolo) Tick(dev *core.ControlSurface) {
	// The oscillator swings the voice level over [1-m, 1].
	m := core.Clamp(p.depth + dev.ReadExpression())
	p.mod.SetScale(m / 2)
	p.mod.SetOffset(-m / 2)
	dev.SetIndicator(indicator(dev, 1+p.mod.Value()))
}
