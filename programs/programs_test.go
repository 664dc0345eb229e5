package programs

import (
	"testing"
	"time"

	"zerostomp/core"
	"zerostomp/dsp"
)

// Engine and block mocks recording the last value of each parameter.

type mockBlock struct{ kind dsp.BlockKind }

func (b mockBlock) Kind() dsp.BlockKind { return b.kind }

type mockEcho struct {
	mockBlock
	delayMS, decay, mix float32
}

func (e *mockEcho) SetDelayMS(ms float32) { e.delayMS = ms }
func (e *mockEcho) SetDecay(v float32)    { e.decay = v }
func (e *mockEcho) SetMix(v float32)      { e.mix = v }

type mockBiquad struct {
	mockBlock
	mode         dsp.BiquadMode
	frequency, q float32
	gain         float32
}

func (b *mockBiquad) SetMode(m dsp.BiquadMode) { b.mode = m }
func (b *mockBiquad) SetFrequency(hz float32)  { b.frequency = hz }
func (b *mockBiquad) SetQ(q float32)           { b.q = q }
func (b *mockBiquad) SetGain(db float32)       { b.gain = db }

type mockLFO struct {
	mockBlock
	rate, scale, offset float32
	waveform            int
	value               float32
}

func (l *mockLFO) SetRate(hz float32)    { l.rate = hz }
func (l *mockLFO) SetScale(v float32)    { l.scale = v }
func (l *mockLFO) SetOffset(v float32)   { l.offset = v }
func (l *mockLFO) SetWaveform(index int) { l.waveform = index }
func (l *mockLFO) Value() float32        { return l.value }

type mockShaper struct {
	mockBlock
	drive, preGain, postGain, mix float32
	mode                          int
}

func (s *mockShaper) SetDrive(v float32)     { s.drive = v }
func (s *mockShaper) SetPreGain(db float32)  { s.preGain = db }
func (s *mockShaper) SetPostGain(db float32) { s.postGain = db }
func (s *mockShaper) SetMode(mode int)       { s.mode = mode }
func (s *mockShaper) SetMix(v float32)       { s.mix = v }

type mockVoice struct {
	level float32
	lfo   dsp.LFO
}

func (v *mockVoice) SetLevel(level float32) { v.level = level }
func (v *mockVoice) BindLFO(lfo dsp.LFO)    { v.lfo = lfo }

type mockMixer struct {
	mockBlock
	voices []*mockVoice
}

func (m *mockMixer) Voice(i int) dsp.MixerVoice { return m.voices[i] }

type mockEngine struct {
	echoes  []*mockEcho
	biquads []*mockBiquad
	lfos    []*mockLFO
	shapers []*mockShaper
	mixers  []*mockMixer
	chained []dsp.Block
	resets  int
}

func (e *mockEngine) NewEcho() (dsp.Echo, error) {
	b := &mockEcho{mockBlock: mockBlock{dsp.KindEcho}}
	e.echoes = append(e.echoes, b)
	return b, nil
}

func (e *mockEngine) NewBiquad(mode dsp.BiquadMode, frequency, q float32) (dsp.Biquad, error) {
	b := &mockBiquad{mockBlock: mockBlock{dsp.KindBiquad}, mode: mode, frequency: frequency, q: q}
	e.biquads = append(e.biquads, b)
	return b, nil
}

func (e *mockEngine) NewLFO() (dsp.LFO, error) {
	b := &mockLFO{mockBlock: mockBlock{dsp.KindLFO}}
	e.lfos = append(e.lfos, b)
	return b, nil
}

func (e *mockEngine) NewShaper() (dsp.Shaper, error) {
	b := &mockShaper{mockBlock: mockBlock{dsp.KindShaper}}
	e.shapers = append(e.shapers, b)
	return b, nil
}

func (e *mockEngine) NewMixer(voices int) (dsp.Mixer, error) {
	m := &mockMixer{mockBlock: mockBlock{dsp.KindMixer}}
	for i := 0; i < voices; i++ {
		m.voices = append(m.voices, &mockVoice{})
	}
	e.mixers = append(e.mixers, m)
	return m, nil
}

func (e *mockEngine) Chain(blocks ...dsp.Block) error {
	e.chained = blocks
	return nil
}

func (e *mockEngine) Reset() { e.resets++ }

// Control-surface collaborator stubs.

type stubADC struct{ raw [4]uint16 }

func (a *stubADC) ConfigureChannel(ch core.ADCChannel) error { return nil }
func (a *stubADC) ReadRaw(ch core.ADCChannel) uint16         { return a.raw[ch] }

type stubSwitch struct{ released bool }

func (s *stubSwitch) Update()                     {}
func (s *stubSwitch) Value() bool                 { return s.released }
func (s *stubSwitch) Rose() bool                  { return false }
func (s *stubSwitch) Fell() bool                  { return false }
func (s *stubSwitch) LastDuration() time.Duration { return 0 }

type stubLED struct{ level float32 }

func (l *stubLED) SetBrightness(v float32) error { l.level = v; return nil }

type stubDisplay struct {
	texts   map[core.WidgetID]string
	widths  map[core.WidgetID]int
	anchors map[core.WidgetID]int
	visible map[core.WidgetID]bool
}

func newStubDisplay() *stubDisplay {
	return &stubDisplay{
		texts:   make(map[core.WidgetID]string),
		widths:  make(map[core.WidgetID]int),
		anchors: make(map[core.WidgetID]int),
		visible: make(map[core.WidgetID]bool),
	}
}

func (d *stubDisplay) SetText(id core.WidgetID, text string) { d.texts[id] = text }
func (d *stubDisplay) SetBar(id core.WidgetID, width, x int) {
	d.widths[id] = width
	d.anchors[id] = x
}
func (d *stubDisplay) SetVisible(id core.WidgetID, v bool) { d.visible[id] = v }

type stubCodec struct{}

func (stubCodec) SetWetMute(bool) error         { return nil }
func (stubCodec) SetWetVolume(float32) error    { return nil }
func (stubCodec) SetDryVolume(float32) error    { return nil }
func (stubCodec) EnableDryPath(bool) error      { return nil }
func (stubCodec) SetMasterVolume(float32) error { return nil }

type stubStore struct{ data []byte }

func (s *stubStore) Load() ([]byte, error) { return s.data, nil }
func (s *stubStore) Save(b []byte) error   { s.data = append(s.data[:0], b...); return nil }

type deviceRig struct {
	dev     *core.ControlSurface
	adc     *stubADC
	sw      *stubSwitch
	led     *stubLED
	display *stubDisplay
}

func newDeviceRig(t *testing.T, capture core.FrameCapture, programs ...core.Program) *deviceRig {
	t.Helper()
	if len(programs) == 0 {
		programs = []core.Program{NewDelay()}
	}
	list, err := core.NewProgramList(core.LoadSettings(&stubStore{}), programs...)
	if err != nil {
		t.Fatal(err)
	}

	r := &deviceRig{
		adc:     &stubADC{},
		sw:      &stubSwitch{released: false}, // engaged by default
		led:     &stubLED{},
		display: newStubDisplay(),
	}
	pots := make([]core.AnalogChannel, 3)
	for i := range pots {
		ch, err := core.NewAnalogChannel(r.adc, core.ADCChannel(i))
		if err != nil {
			t.Fatal(err)
		}
		pots[i] = ch
	}
	expr, err := core.NewAnalogChannel(r.adc, core.ADCChannel(3))
	if err != nil {
		t.Fatal(err)
	}

	dev, err := core.NewControlSurface(core.SurfaceConfig{
		Pots:       pots,
		Expression: expr,
		Switch:     r.sw,
		LED:        r.led,
		Display:    r.display,
		Codec:      stubCodec{},
		Capture:    capture,
		Programs:   list,
	})
	if err != nil {
		t.Fatal(err)
	}
	r.dev = dev
	return r
}

// setup runs a program's Setup on a fresh surface the way the main loop
// does at a program change.
func (r *deviceRig) setup(t *testing.T, p core.Program, eng dsp.Engine) {
	t.Helper()
	r.dev.BeginProgram(p.Name())
	if err := p.Setup(r.dev, eng); err != nil {
		t.Fatalf("%s setup: %v", p.Name(), err)
	}
}

// turn commits a pot position onto the current page's knob.
func (r *deviceRig) turn(channel int, v float32) {
	r.dev.Knobs().SetReading(channel, v)
}

func (r *deviceRig) expression(v float32) {
	r.adc.raw[3] = uint16(v * 0xFFFF)
}

func approx32(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
