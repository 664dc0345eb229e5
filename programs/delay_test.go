package programs

import "testing"

func TestDelaySetup(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDelay()
	r.setup(t, p, eng)

	if !approx32(r.dev.Mix(), 0.5, 1e-6) {
		t.Errorf("mix = %v, want 0.5", r.dev.Mix())
	}
	if got := r.dev.Knobs().PageCount(); got != 2 {
		t.Errorf("page count = %d, want 2", got)
	}
	if len(eng.chained) != 2 {
		t.Fatalf("chained %d blocks, want echo+filter", len(eng.chained))
	}
	echo := eng.echoes[0]
	if echo.mix != 1 {
		t.Errorf("echo mix = %v, want full wet", echo.mix)
	}
	if echo.delayMS != 250 {
		t.Errorf("initial delay = %vms, want 250", echo.delayMS)
	}
}

func TestDelayKnobs(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDelay()
	r.setup(t, p, eng)

	r.turn(1, 0.5) // Regen
	if !approx32(eng.echoes[0].decay, 0.5, 1e-3) {
		t.Errorf("decay = %v, want 0.5", eng.echoes[0].decay)
	}
	r.turn(2, 1.0) // Delay
	if p.delayMS != maxDelayMS {
		t.Errorf("delay knob = %v, want %v", p.delayMS, float32(maxDelayMS))
	}
}

func TestDelayTickExpression(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDelay()
	r.setup(t, p, eng)

	p.Tick(r.dev)
	if !approx32(eng.echoes[0].delayMS, 250, 1e-3) {
		t.Errorf("delay = %v with idle expression, want 250", eng.echoes[0].delayMS)
	}

	r.expression(1.0)
	p.Tick(r.dev)
	want := float32(250 + maxExpressionMS)
	if !approx32(eng.echoes[0].delayMS, want, 0.1) {
		t.Errorf("delay = %v at full expression, want %v", eng.echoes[0].delayMS, want)
	}
}

func TestDelayTickModulation(t *testing.T) {
	r := newDeviceRig(t, nil)
	eng := &mockEngine{}
	p := NewDelay()
	r.setup(t, p, eng)

	eng.lfos[0].value = 0.5
	p.Tick(r.dev)
	if !approx32(eng.echoes[0].delayMS, 375, 0.1) {
		t.Errorf("delay = %v with oscillator at +0.5, want 375", eng.echoes[0].delayMS)
	}
	// Engaged: LED follows the oscillator.
	if !approx32(r.led.level, (0.5+1)/4+0.5, 1e-3) {
		t.Errorf("led = %v", r.led.level)
	}

	r.sw.released = true // bypassed
	p.Tick(r.dev)
	if r.led.level != 0 {
		t.Errorf("led = %v while bypassed, want 0", r.led.level)
	}
}
