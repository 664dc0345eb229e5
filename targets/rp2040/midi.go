//go:build rp2040 || rp2350

package main

import (
	"machine"

	"zerostomp/core"
)

// midiBaud is the DIN MIDI wire rate.
const midiBaud = 31250

// InitMIDI brings up the DIN MIDI UART on GP0/GP1 so the jacks are
// electrically live. The pedal does not interpret MIDI itself; the host
// bridge translates MIDI into control-link commands.
func InitMIDI() {
	err := machine.UART0.Configure(machine.UARTConfig{
		BaudRate: midiBaud,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	if err != nil {
		core.Debugf("midi: " + err.Error())
	}
}
