package programs

import (
	"zerostomp/core"
	"zerostomp/dsp"
)

// Delay ranges in ms and Hz.
const (
	minDelayMS      = 10
	maxDelayMS      = 1000
	maxExpressionMS = 500

	minModSpeed = 0.1
	maxModSpeed = 4.0

	minDelayFilter = 100
	maxDelayFilter = 20000
)

// Delay is a modulated echo with a low-pass tone filter on the wet path.
// The expression pedal stretches the delay time on top of the knob.
type Delay struct {
	echo dsp.Echo
	mod  dsp.LFO
	tone dsp.Biquad

	delayMS float32
}

func NewDelay() *Delay {
	return &Delay{}
}

func (p *Delay) Name() string { return "Delay" }

func (p *Delay) Setup(dev *core.ControlSurface, eng dsp.Engine) error {
	echo, err := eng.NewEcho()
	if err != nil {
		return err
	}
	mod, err := eng.NewLFO()
	if err != nil {
		return err
	}
	tone, err := eng.NewBiquad(dsp.LowPass, maxDelayFilter, defaultQ)
	if err != nil {
		return err
	}
	if err := eng.Chain(echo, tone); err != nil {
		return err
	}
	p.echo, p.mod, p.tone = echo, mod, tone

	// The echo's own mix stays full wet; the pedal-level crossfade blends
	// it against the analog dry path.
	p.delayMS = 250
	echo.SetMix(1)
	echo.SetDelayMS(p.delayMS)

	dev.SetMix(0.5)
	dev.Bind("Mix", 0, 1, dev.Mix, dev.SetMix)
	dev.Bind("Regen", 0, 1, nil, echo.SetDecay)
	dev.Bind("Delay", minDelayMS, maxDelayMS,
		func() float32 { return p.delayMS },
		func(v float32) { p.delayMS = v })

	dev.Bind("Speed", minModSpeed, maxModSpeed, nil, mod.SetRate)
	dev.Bind("Width", 0, 1, nil, mod.SetScale)
	dev.Bind("Filter", minDelayFilter, maxDelayFilter, constant(maxDelayFilter), tone.SetFrequency)
	return nil
}

func (p *Delay) Tick(dev *core.ControlSurface) {
	base := p.delayMS + dev.ReadExpression()*maxExpressionMS
	p.echo.SetDelayMS(base * (1 + p.mod.Value()))
	dev.SetIndicator(lfoIndicator(dev, p.mod))
}
