package programs

import (
	"errors"
	"math"

	"zerostomp/core"
	"zerostomp/dsp"
)

// ErrNoCapture is returned when a build without an audio capture path
// tries to load the tuner.
var ErrNoCapture = errors.New("tuner: no frame capture wired")

// Tuner runs the pitch detector over codec capture frames and renders the
// note readout. The audio path is a straight wire; the pedal mix is forced
// full wet so the player hears the signal being measured.
type Tuner struct {
	cfg      core.PitchConfig
	detector *core.PitchDetector

	frame   []int16 // interleaved stereo capture buffer
	mono    []int16
	visible bool
}

// NewTuner creates the tuner. The config carries the board's calibration
// offset; frame length is taken from the capture hardware at setup.
func NewTuner(cfg core.PitchConfig) *Tuner {
	return &Tuner{cfg: cfg}
}

func (p *Tuner) Name() string { return "Tuner" }

func (p *Tuner) Setup(dev *core.ControlSurface, eng dsp.Engine) error {
	capture := dev.Capture()
	if capture == nil {
		return ErrNoCapture
	}
	cfg := p.cfg
	cfg.FrameLength = capture.FrameLength()
	p.detector = core.NewPitchDetector(cfg)
	p.frame = make([]int16, cfg.FrameLength*2)
	p.mono = make([]int16, cfg.FrameLength)
	p.visible = false

	if err := eng.Chain(); err != nil {
		return err
	}
	dev.SetMix(1)
	return nil
}

func (p *Tuner) Tick(dev *core.ControlSurface) {
	if err := dev.Capture().Record(p.frame); err != nil {
		core.Debugf("tuner capture: " + err.Error())
		return
	}
	tone, ok := p.detector.Process(core.LeftChannel(p.frame, p.mono))

	display := dev.Display()
	if tracking := p.detector.Tracking(); tracking != p.visible {
		p.visible = tracking
		display.SetVisible(core.WidgetNote, tracking)
		display.SetVisible(core.WidgetCentsBar, tracking)
	}
	if !ok {
		return
	}
	display.SetText(core.WidgetNote, tone.Label())
	width, x := centsBar(tone.Cents)
	display.SetBar(core.WidgetCentsBar, width, x)
	dev.PublishTone(tone)
}

// centsBar sizes the deviation bar: full scale at a quarter tone, anchored
// at the display center, extending right when sharp and left when flat.
func centsBar(cents float64) (width, x int) {
	const half = core.DisplayWidth / 2
	width = int(math.Abs(cents) / 25 * half)
	if width < 1 {
		width = 1
	}
	if width > half {
		width = half
	}
	if cents >= 0 {
		return width, half
	}
	return width, half - width
}
