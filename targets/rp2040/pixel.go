//go:build rp2040 || rp2350

package main

import (
	"machine"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"zerostomp/core"
)

// StatusPixel drives the single on-board WS2812B through a PIO state
// machine.
type StatusPixel struct {
	ws  *piolib.WS2812B
	raw [1]uint32
}

// NewStatusPixel claims a PIO state machine for the pixel. A board without
// a free state machine leaves the pixel dark; that is not worth failing
// boot over.
func NewStatusPixel() *StatusPixel {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return &StatusPixel{}
	}
	ws, err := piolib.NewWS2812B(sm, machine.GPIO16)
	if err != nil {
		core.Debugf("pixel: " + err.Error())
		return &StatusPixel{}
	}
	return &StatusPixel{ws: ws}
}

// SetColor sets the pixel color.
func (p *StatusPixel) SetColor(r, g, b uint8) error {
	if p.ws == nil {
		return nil
	}
	p.raw[0] = uint32(g)<<24 | uint32(r)<<16 | uint32(b)<<8
	return p.ws.WriteRaw(p.raw[:])
}
