package programs

import (
	"strconv"

	"zerostomp/core"
	"zerostomp/dsp"
)

// eqBands are the six peaking-band centers in Hz, one octave apart.
var eqBands = [6]float32{100, 200, 400, 800, 1600, 3200}

// Band gain range in dB.
const (
	minBandGain = -12
	maxBandGain = 12
)

// GraphicEQ is a six-band peaking equalizer plus a master level knob. It
// has no per-tick work; every parameter is knob-driven.
type GraphicEQ struct{}

func NewGraphicEQ() *GraphicEQ {
	return &GraphicEQ{}
}

func (p *GraphicEQ) Name() string { return "Graphic EQ" }

func (p *GraphicEQ) Setup(dev *core.ControlSurface, eng dsp.Engine) error {
	dev.SetMix(1)
	dev.Bind("Level", 0, 1, dev.Level, dev.SetLevel)

	chain := make([]dsp.Block, 0, len(eqBands))
	for _, freq := range eqBands {
		band, err := eng.NewBiquad(dsp.PeakingEQ, freq, defaultQ)
		if err != nil {
			return err
		}
		band.SetGain(0)
		dev.Bind(strconv.Itoa(int(freq))+"hz", minBandGain, maxBandGain, constant(0), band.SetGain)
		chain = append(chain, band)
	}
	return eng.Chain(chain...)
}

func (p *GraphicEQ) Tick(dev *core.ControlSurface) {}
