// Control surface composition root.
// One ControlSurface owns the stomp gesture decoder, the paged knob set,
// the dry/wet crossfade and the expression channel, and applies the
// page/program-switch policy once per tick.
package core

import "errors"

// ErrMissingCollaborator is the fatal boot fault raised when a required
// hardware collaborator was not wired up.
var ErrMissingCollaborator = errors.New("control surface: missing collaborator")

// SurfaceConfig wires the collaborators a ControlSurface needs. All fields
// except Capture are required.
type SurfaceConfig struct {
	Pots       []AnalogChannel
	Expression AnalogChannel
	Switch     SwitchInput
	LED        LEDDriver
	Pixel      PixelDriver
	Display    Display
	Codec      CodecDriver
	Capture    FrameCapture
	Programs   *ProgramList
}

// ControlSurface is the device control surface core.
type ControlSurface struct {
	pots       []AnalogChannel
	expression AnalogChannel
	swin       SwitchInput
	led        LEDDriver
	pixel      PixelDriver
	display    Display
	capture    FrameCapture
	programs   *ProgramList

	knobs   *PagedKnobSet
	gesture *SwitchGesture
	mix     *MixCrossfade

	title     string
	ledAuto   bool
	ledLevel  float32
	lastPixel [3]uint8
	toneSink  func(ToneEstimate)
}

// NewControlSurface validates the wiring and builds the surface. A missing
// collaborator is fatal at startup, before the control loop begins.
func NewControlSurface(cfg SurfaceConfig) (*ControlSurface, error) {
	if len(cfg.Pots) == 0 || cfg.Switch == nil || cfg.LED == nil ||
		cfg.Display == nil || cfg.Codec == nil || cfg.Programs == nil {
		return nil, ErrMissingCollaborator
	}
	s := &ControlSurface{
		pots:       cfg.Pots,
		expression: cfg.Expression,
		swin:       cfg.Switch,
		led:        cfg.LED,
		pixel:      cfg.Pixel,
		display:    cfg.Display,
		capture:    cfg.Capture,
		programs:   cfg.Programs,
		gesture:    NewSwitchGesture(),
		ledAuto:    true,
	}
	s.mix = NewMixCrossfade(cfg.Codec)
	s.mix.SetBypassed(s.Bypassed())
	s.resetKnobs()
	return s, nil
}

func (s *ControlSurface) resetKnobs() {
	s.knobs = NewPagedKnobSet(len(s.pots))
	s.knobs.SetObserver(s)
}

// BeginProgram clears all knob bindings, returns page state to the first
// page and restores automatic LED control. Called before a program's Setup.
func (s *ControlSurface) BeginProgram(name string) {
	s.resetKnobs()
	s.ledAuto = true
	s.SetTitle(name)
	for slot := 0; slot < len(s.pots); slot++ {
		s.display.SetVisible(KnobWidget(slot), false)
	}
	s.display.SetVisible(WidgetNote, false)
	s.display.SetVisible(WidgetCentsBar, false)
	s.mix.Apply()
}

// Update runs one control tick: switch gesture, crossfade and LED policy,
// then pot-to-knob routing. Read accessors are only meaningful after the
// tick's Update has run.
func (s *ControlSurface) Update() {
	s.swin.Update()
	ev := s.gesture.Update(s.swin.Rose(), s.swin.Fell(), s.swin.LastDuration())

	if ev.Edge {
		s.mix.SetBypassed(s.Bypassed())
		if ev.Short {
			if ev.Taps > 1 && s.programs.Count() > 1 {
				s.programs.RequestNext()
			} else {
				s.knobs.NextPage()
			}
		}
	}

	if s.ledAuto {
		v := float32(1)
		if s.Bypassed() {
			v = 0
		}
		s.setLED(v)
	}

	for i := range s.pots {
		s.knobs.SetReading(i, s.pots[i].Read())
	}
}

// Bind adds a knob for the active program and returns its page.
func (s *ControlSurface) Bind(title string, lo, hi float32, getter func() float32, setter func(float32)) int {
	return s.knobs.Bind(title, lo, hi, getter, setter)
}

// Knobs exposes the paged knob set (page state, counts).
func (s *ControlSurface) Knobs() *PagedKnobSet {
	return s.knobs
}

// Bypassed reports the debounced stomp state; released (pull-up high)
// means bypassed.
func (s *ControlSurface) Bypassed() bool {
	return s.swin.Value()
}

// ReadExpression samples the expression pedal channel. Reading has no side
// effects on surface state.
func (s *ControlSurface) ReadExpression() float32 {
	return s.expression.Read()
}

// Mix returns the stored wet mix.
func (s *ControlSurface) Mix() float32 {
	return s.mix.Mix()
}

// SetMix updates the wet mix and reapplies the codec crossfade.
func (s *ControlSurface) SetMix(v float32) {
	s.mix.SetMix(v)
}

// Level returns the master output level.
func (s *ControlSurface) Level() float32 {
	return s.mix.Level()
}

// SetLevel updates the master output level.
func (s *ControlSurface) SetLevel(v float32) {
	s.mix.SetLevel(v)
}

// Led returns the indicator level last written to the hardware.
func (s *ControlSurface) Led() float32 {
	return s.ledLevel
}

// SetIndicator drives the stomp LED manually and disables the automatic
// bypass-follows-LED behavior for the rest of the program.
func (s *ControlSurface) SetIndicator(v float32) {
	s.ledAuto = false
	s.setLED(Clamp(v))
}

func (s *ControlSurface) setLED(v float32) {
	if v == s.ledLevel {
		return
	}
	s.ledLevel = v
	if err := s.led.SetBrightness(v); err != nil {
		Debugf("led: " + err.Error())
	}
}

// SetPixel sets the RGB status pixel.
func (s *ControlSurface) SetPixel(r, g, b uint8) {
	s.lastPixel = [3]uint8{r, g, b}
	if s.pixel == nil {
		return
	}
	if err := s.pixel.SetColor(r, g, b); err != nil {
		Debugf("pixel: " + err.Error())
	}
}

// Pixel returns the color last written to the status pixel.
func (s *ControlSurface) Pixel() (r, g, b uint8) {
	return s.lastPixel[0], s.lastPixel[1], s.lastPixel[2]
}

// Title returns the display title line.
func (s *ControlSurface) Title() string {
	return s.title
}

// SetTitle updates the display title line.
func (s *ControlSurface) SetTitle(title string) {
	s.title = title
	s.display.SetText(WidgetTitle, title)
	s.display.SetVisible(WidgetTitle, true)
}

// Display exposes the semantic display for programs with their own
// readouts (the tuner).
func (s *ControlSurface) Display() Display {
	return s.display
}

// Capture exposes the audio frame capture collaborator, or nil on builds
// without one.
func (s *ControlSurface) Capture() FrameCapture {
	return s.capture
}

// Programs exposes the installed program list.
func (s *ControlSurface) Programs() *ProgramList {
	return s.programs
}

// SetToneSink registers a consumer for tuner detections, or nil to stop
// forwarding them. The control link uses this for its monitor stream.
func (s *ControlSurface) SetToneSink(sink func(ToneEstimate)) {
	s.toneSink = sink
}

// PublishTone forwards a detection to the registered sink, if any.
func (s *ControlSurface) PublishTone(tone ToneEstimate) {
	if s.toneSink != nil {
		s.toneSink(tone)
	}
}

// Knob widget geometry: each pot slot gets an equal column; the value bar
// fills the column proportionally with a small margin.
const knobBarMargin = 4

// KnobValue implements KnobObserver, rendering a committed knob value into
// its on-page slot.
func (s *ControlSurface) KnobValue(index int, title string, value float32) {
	k := s.knobs.Knob(index)
	if k == nil || k.Hidden() {
		return
	}
	s.renderKnob(index, title, value)
}

// KnobVisible implements KnobObserver. Hiding is only applied when the
// slot has no knob on the active page, since page switches announce the
// outgoing and incoming knob of a slot in arbitrary order.
func (s *ControlSurface) KnobVisible(index int, visible bool) {
	slot := index % len(s.pots)
	if visible {
		k := s.knobs.Knob(index)
		s.renderKnob(index, k.Title, k.Value())
		return
	}
	if s.knobs.Knob(s.knobs.Page()*len(s.pots)+slot) == nil {
		s.display.SetVisible(KnobWidget(slot), false)
	}
}

func (s *ControlSurface) renderKnob(index int, title string, value float32) {
	slot := index % len(s.pots)
	colWidth := DisplayWidth / len(s.pots)
	width := 1 + int(value*float32(colWidth-2*knobBarMargin))
	id := KnobWidget(slot)
	s.display.SetText(id, title)
	s.display.SetBar(id, width, slot*colWidth+knobBarMargin)
	s.display.SetVisible(id, true)
}
