//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"zerostomp/core"
)

// numPots is the number of front-panel pots; the expression jack sits on
// the channel after them.
const numPots = 3

// PotDriver implements core.ADCDriver using TinyGo's machine.ADC.
// Channels 0-2 are the pots on GP26-GP28, channel 3 the expression jack
// on GP29.
type PotDriver struct {
	channels map[core.ADCChannel]*machine.ADC
}

// NewPotDriver initializes the ADC peripheral and returns the driver.
func NewPotDriver() *PotDriver {
	machine.InitADC()
	return &PotDriver{
		channels: make(map[core.ADCChannel]*machine.ADC),
	}
}

// ConfigureChannel sets up one analog input (pin mux).
func (d *PotDriver) ConfigureChannel(ch core.ADCChannel) error {
	if _, ok := d.channels[ch]; ok {
		// already configured
		return nil
	}

	var adc machine.ADC
	switch ch {
	case 0:
		adc = machine.ADC{Pin: machine.ADC0}
	case 1:
		adc = machine.ADC{Pin: machine.ADC1}
	case 2:
		adc = machine.ADC{Pin: machine.ADC2}
	case 3:
		adc = machine.ADC{Pin: machine.ADC3}
	default:
		return errors.New("unsupported ADC channel")
	}

	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}

	d.channels[ch] = &adc
	return nil
}

// ReadRaw performs a one-shot sample. TinyGo scales the 12-bit hardware
// result to the full 16-bit range.
func (d *PotDriver) ReadRaw(ch core.ADCChannel) uint16 {
	adc, ok := d.channels[ch]
	if !ok {
		return 0
	}
	return adc.Get()
}
