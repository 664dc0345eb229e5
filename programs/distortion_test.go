package programs

import "testing"

func TestDistortionSetup(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDistortion()
	r.setup(t, p, eng)

	if got := r.dev.Knobs().PageCount(); got != 3 {
		t.Errorf("page count = %d, want 3", got)
	}
	if len(eng.chained) != 3 {
		t.Fatalf("chained %d blocks, want shaper + two filters", len(eng.chained))
	}
	if eng.shapers[0].mix != 1 {
		t.Errorf("shaper mix = %v, want full wet", eng.shapers[0].mix)
	}
}

func TestDistortionGainKnobs(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDistortion()
	r.setup(t, p, eng)
	shaper := eng.shapers[0]

	r.turn(0, 1.0) // Pre
	if !approx32(shaper.preGain, maxPreGain, 1e-3) {
		t.Errorf("pre gain = %v, want %v", shaper.preGain, float32(maxPreGain))
	}
	r.turn(1, 0.0) // Post
	if !approx32(shaper.postGain, minPostGain, 1e-3) {
		t.Errorf("post gain = %v, want %v", shaper.postGain, float32(minPostGain))
	}
}

func TestDistortionShelfKnobs(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDistortion()
	r.setup(t, p, eng)
	r.dev.Knobs().NextPage()
	low, high := eng.biquads[0], eng.biquads[1]

	// Low is reversed: backing it off pushes the high-pass corner up.
	r.turn(1, 0.0)
	if !approx32(low.frequency, maxShelfFrequency, 1e-2) {
		t.Errorf("high-pass corner = %v at zero Low, want %v",
			low.frequency, float32(maxShelfFrequency))
	}
	r.turn(2, 0.0)
	if !approx32(high.frequency, minShelfFrequency, 1e-2) {
		t.Errorf("low-pass corner = %v at zero High, want %v",
			high.frequency, float32(minShelfFrequency))
	}
}

func TestDistortionModeKnob(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDistortion()
	r.setup(t, p, eng)
	r.dev.Knobs().NextPage()
	r.dev.Knobs().NextPage()

	r.turn(0, 1.0)
	if eng.shapers[0].mode != distortionModes-1 {
		t.Errorf("mode = %d at full knob, want %d", eng.shapers[0].mode, distortionModes-1)
	}
}

func TestDistortionDriveExpression(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDistortion()
	r.setup(t, p, eng)
	shaper := eng.shapers[0]

	r.turn(2, 0.6) // Drive
	p.Tick(r.dev)
	if !approx32(shaper.drive, 0.6, 1e-3) {
		t.Errorf("drive = %v, want 0.6", shaper.drive)
	}

	r.expression(1.0)
	p.Tick(r.dev)
	if shaper.drive != 1 {
		t.Errorf("drive = %v at full expression, want clamped to 1", shaper.drive)
	}
}
