package programs

import (
	"zerostomp/core"
	"zerostomp/dsp"
)

// Distortion gain and shelf ranges.
const (
	minPreGain  = -60
	maxPreGain  = 60
	minPostGain = -80
	maxPostGain = 24

	minShelfFrequency = 50
	maxShelfFrequency = 20000

	distortionModes = 4
)

// Distortion is a waveshaper framed by a high-pass and a low-pass section.
// The expression pedal adds drive on top of the knob.
type Distortion struct {
	shaper dsp.Shaper

	drive float32
}

func NewDistortion() *Distortion {
	return &Distortion{}
}

func (p *Distortion) Name() string { return "Distortion" }

func (p *Distortion) Setup(dev *core.ControlSurface, eng dsp.Engine) error {
	shaper, err := eng.NewShaper()
	if err != nil {
		return err
	}
	low, err := eng.NewBiquad(dsp.HighPass, minShelfFrequency, defaultQ)
	if err != nil {
		return err
	}
	high, err := eng.NewBiquad(dsp.LowPass, maxShelfFrequency, defaultQ)
	if err != nil {
		return err
	}
	if err := eng.Chain(shaper, low, high); err != nil {
		return err
	}
	p.shaper = shaper
	shaper.SetMix(1)

	dev.SetMix(1)
	dev.Bind("Pre", minPreGain, maxPreGain, constant(0), shaper.SetPreGain)
	dev.Bind("Post", minPostGain, maxPostGain, constant(0), shaper.SetPostGain)
	dev.Bind("Drive", 0, 1,
		func() float32 { return p.drive },
		func(v float32) { p.drive = v })

	dev.Bind("Mix", 0, 1, nil, shaper.SetMix)
	// Low boosts by pulling the high-pass corner down, hence the reversed
	// range.
	dev.Bind("Low", maxShelfFrequency, minShelfFrequency, constant(minShelfFrequency), low.SetFrequency)
	dev.Bind("High", minShelfFrequency, maxShelfFrequency, constant(maxShelfFrequency), high.SetFrequency)
	dev.Bind("Mode", 0, 1, nil, dsp.Quantize(distortionModes, shaper.SetMode))
	return nil
}

func (p *Distortion) Tick(dev *core.ControlSurface) {
	p.shaper.SetDrive(core.Clamp(p.drive + dev.ReadExpression()))
}
