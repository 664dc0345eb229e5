package programs

import (
	"zerostomp/core"
	"zerostomp/dsp"
)

// Wah filter ranges.
const (
	minWahFrequency = 50
	maxWahFrequency = 10000

	minWahQ = 0.7071067811865475
	maxWahQ = 2.0
)

// Wah is a swept band-pass filter. The expression pedal and an optional
// auto-wah oscillator both push the center frequency above the knob.
type Wah struct {
	filter dsp.Biquad
	mod    dsp.LFO

	center float32
}

func NewWah() *Wah {
	return &Wah{}
}

func (p *Wah) Name() string { return "Wah" }

func (p *Wah) Setup(dev *core.ControlSurface, eng dsp.Engine) error {
	filter, err := eng.NewBiquad(dsp.BandPass, minWahFrequency, minWahQ)
	if err != nil {
		return err
	}
	mod, err := eng.NewLFO()
	if err != nil {
		return err
	}
	if err := eng.Chain(filter); err != nil {
		return err
	}
	p.filter, p.mod = filter, mod
	p.center = minWahFrequency

	dev.SetMix(1)
	dev.Bind("Filter", minWahFrequency, maxWahFrequency,
		func() float32 { return p.center },
		func(v float32) { p.center = v })
	dev.Bind("Q", minWahQ, maxWahQ, constant(minWahQ), filter.SetQ)
	dev.Bind("Mix", 0, 1, dev.Mix, dev.SetMix)

	dev.Bind("Speed", minModSpeed, maxModSpeed, nil, mod.SetRate)
	dev.Bind("Depth", 0, 1, nil, mod.SetScale)
	return nil
}

func (p *Wah) Tick(dev *core.ControlSurface) {
	const sweep = (maxWahFrequency - minWahFrequency) / 2
	f := p.center + (p.mod.Value()+dev.ReadExpression())*sweep
	p.filter.SetFrequency(core.ClampTo(f, minWahFrequency, maxWahFrequency))
	dev.SetIndicator(lfoIndicator(dev, p.mod))
}
