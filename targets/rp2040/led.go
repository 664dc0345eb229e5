//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// The stomp LED runs from the PWM slice covering GP8 at 100 kHz, well
// above the audible range so supply ripple cannot bleed into the signal
// path.
const ledPeriodNS = 10_000

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// StompLED drives the indicator LED brightness.
type StompLED struct {
	pwm     pwmPeripheral
	channel uint8
}

// NewStompLED configures the PWM slice for the LED pin.
func NewStompLED() (*StompLED, error) {
	var pwm pwmPeripheral = machine.PWM4 // GP8 sits on slice 4 channel A
	if err := pwm.Configure(machine.PWMConfig{Period: ledPeriodNS}); err != nil {
		return nil, err
	}
	channel, err := pwm.Channel(machine.GPIO8)
	if err != nil {
		return nil, err
	}
	led := &StompLED{pwm: pwm, channel: channel}
	led.SetBrightness(0)
	return led, nil
}

// SetBrightness sets the LED level, 0 (off) to 1 (full).
func (l *StompLED) SetBrightness(v float32) error {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	l.pwm.Set(l.channel, uint32(v*float32(l.pwm.Top())))
	return nil
}
