package programs

import (
	"math"
	"testing"

	"zerostomp/core"
)

// stubCapture synthesizes stereo frames with a sine on both channels.
type stubCapture struct {
	frameLen  int
	frequency float64
	amplitude float64
}

func (c *stubCapture) FrameLength() int { return c.frameLen }

func (c *stubCapture) Record(buf []int16) error {
	for i := 0; i < len(buf)/2; i++ {
		s := int16(c.amplitude * math.Sin(2*math.Pi*c.frequency*float64(i)/48000))
		buf[2*i] = s
		buf[2*i+1] = s
	}
	return nil
}

func TestTunerRequiresCapture(t *testing.T) {
	r := newDeviceRig(t, nil)
	p := NewTuner(core.PitchConfig{})
	r.dev.BeginProgram(p.Name())
	if err := p.Setup(r.dev, &mockEngine{}); err != ErrNoCapture {
		t.Fatalf("err = %v, want ErrNoCapture", err)
	}
}

func TestTunerReadout(t *testing.T) {
	capture := &stubCapture{frameLen: 4096, frequency: 440, amplitude: 16000}
	r := newDeviceRig(t, capture)
	p := NewTuner(core.PitchConfig{})
	r.setup(t, p, &mockEngine{})

	if r.dev.Mix() != 1 {
		t.Errorf("mix = %v, want full wet", r.dev.Mix())
	}

	p.Tick(r.dev)
	if !r.display.visible[core.WidgetNote] || !r.display.visible[core.WidgetCentsBar] {
		t.Fatal("readout hidden while a tone is playing")
	}
	if got := r.display.texts[core.WidgetNote]; got != "A4" {
		t.Errorf("note = %q, want A4", got)
	}

	width := r.display.widths[core.WidgetCentsBar]
	anchor := r.display.anchors[core.WidgetCentsBar]
	if width < 1 || width > 4 {
		t.Errorf("bar width = %d for an in-tune note, want narrow", width)
	}
	half := core.DisplayWidth / 2
	if anchor != half && anchor != half-width {
		t.Errorf("bar anchor = %d, want at or just left of center", anchor)
	}
}

func TestTunerHidesOnSilence(t *testing.T) {
	capture := &stubCapture{frameLen: 4096, frequency: 440, amplitude: 16000}
	r := newDeviceRig(t, capture)
	p := NewTuner(core.PitchConfig{})
	r.setup(t, p, &mockEngine{})

	p.Tick(r.dev)
	if !r.display.visible[core.WidgetNote] {
		t.Fatal("setup: readout did not appear")
	}

	capture.amplitude = 0
	p.Tick(r.dev)
	if r.display.visible[core.WidgetNote] || r.display.visible[core.WidgetCentsBar] {
		t.Error("readout still visible after the signal stopped")
	}
}

func TestCentsBarGeometry(t *testing.T) {
	half := core.DisplayWidth / 2
	cases := []struct {
		cents    float64
		width, x int
	}{
		{0, 1, half},
		{25, half, half},
		{-25, half, 0},
		{12.5, half / 2, half},
		{-12.5, half / 2, half / 2},
		{400, half, half}, // clamped
	}
	for _, c := range cases {
		w, x := centsBar(c.cents)
		if w != c.width || x != c.x {
			t.Errorf("centsBar(%v) = %d,%d want %d,%d", c.cents, w, x, c.width, c.x)
		}
	}
}
