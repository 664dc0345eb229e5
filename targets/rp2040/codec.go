//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// WM8960 register addresses. The part is write-only over I2C, so every
// register the driver touches is shadowed in regs.
const (
	wmRegLeftInVol  = 0x00
	wmRegRightInVol = 0x01
	wmRegLeftOut1   = 0x02
	wmRegRightOut1  = 0x03
	wmRegClocking1  = 0x04
	wmRegDACCtl1    = 0x05
	wmRegIface1     = 0x07
	wmRegLeftDAC    = 0x0A
	wmRegRightDAC   = 0x0B
	wmRegReset      = 0x0F
	wmRegALC1       = 0x11
	wmRegPower1     = 0x19
	wmRegPower2     = 0x1A
	wmRegADCLPath   = 0x20
	wmRegADCRPath   = 0x21
	wmRegLeftMix    = 0x22
	wmRegRightMix   = 0x25
	wmRegBypass1    = 0x2D
	wmRegBypass2    = 0x2E
	wmRegPower3     = 0x2F
)

// Register bits the crossfade manipulates.
const (
	wmDACMute     = 1 << 3 // DACCtl1 soft mute
	wmVolUpdate   = 1 << 8 // latch both channels of a volume pair
	wmBypassOn    = 1 << 7 // boost-to-mixer switch in the bypass registers
	wmZeroCross   = 1 << 7 // OUT1 zero-cross enable
	wmOut1Mute    = 0x2F   // OUT1 volume codes at or below this are mute
	wmOut1ZeroDB  = 0x79   // OUT1 volume code for 0 dB
	wmDACZeroDB   = 0xFF   // DAC volume code for 0 dB, 0.5 dB steps down
	wmBypassShift = 4      // bypass attenuator field position, 3 dB steps
)

const codecAddress = 0x1A

// Codec drives the WM8960 register file for the dry/wet crossfade. The
// digital audio itself flows straight between the codec and the effects
// engine; the control core only moves gain switches.
type Codec struct {
	bus  *machine.I2C
	regs [56]uint16
}

// NewCodec configures the I2C bus and brings the codec up in the pedal's
// fixed topology: single-ended input through the boost amplifier, ADC and
// DAC running at 48 kHz, boost bleed into the output mixer, headphone out.
func NewCodec() (*Codec, error) {
	bus := machine.I2C1
	err := bus.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
		SDA:       machine.GPIO6,
		SCL:       machine.GPIO7,
	})
	if err != nil {
		return nil, err
	}

	c := &Codec{bus: bus}
	if err := c.write(wmRegReset, 0); err != nil {
		return nil, err
	}

	init := []struct {
		reg uint8
		val uint16
	}{
		{wmRegPower1, 0x00FE},     // VMID 50k, VREF, AINL/R, ADCL/R, MICB
		{wmRegPower2, 0x01E1},     // DACL/R, LOUT1/ROUT1, PLL
		{wmRegPower3, 0x003C},     // LMIC/RMIC, LOMIX/ROMIX
		{wmRegClocking1, 0x0000},  // SYSCLK straight from MCLK, 48 kHz
		{wmRegIface1, 0x0002},     // I2S, 16 bit
		{wmRegALC1, 0x0000},       // ALC off; input gain is ridden manually
		{wmRegLeftInVol, 0x013F},  // input PGA 0 dB, unmuted
		{wmRegRightInVol, 0x013F},
		{wmRegADCLPath, 0x0108}, // boost amp fed from INPUT1, 0 dB
		{wmRegADCRPath, 0x0108},
		{wmRegLeftMix, 0x0100}, // DAC into the output mixer
		{wmRegRightMix, 0x0100},
		{wmRegDACCtl1, 0x0000}, // DAC unmuted
	}
	for _, w := range init {
		if err := c.write(w.reg, w.val); err != nil {
			return nil, err
		}
	}

	// Crossfade baseline: dry path on at full bleed, wet at 0 dB, master
	// at 0 dB with zero-cross switching.
	if err := c.EnableDryPath(true); err != nil {
		return nil, err
	}
	if err := c.SetDryVolume(0); err != nil {
		return nil, err
	}
	if err := c.SetWetVolume(0); err != nil {
		return nil, err
	}
	if err := c.SetMasterVolume(0); err != nil {
		return nil, err
	}
	return c, nil
}

// write pushes one 9-bit register value, keeping the shadow current.
func (c *Codec) write(reg uint8, val uint16) error {
	c.regs[reg] = val
	return c.bus.Tx(codecAddress, []byte{reg<<1 | uint8(val>>8), uint8(val)}, nil)
}

// update rewrites the masked field of a shadowed register.
func (c *Codec) update(reg uint8, mask, val uint16) error {
	return c.write(reg, c.regs[reg]&^mask|val)
}

// SetWetMute mutes or unmutes the DAC path.
func (c *Codec) SetWetMute(muted bool) error {
	if muted {
		return c.update(wmRegDACCtl1, wmDACMute, wmDACMute)
	}
	return c.update(wmRegDACCtl1, wmDACMute, 0)
}

// SetWetVolume sets the DAC digital volume in dB, 0 down to -127 in half
// dB steps.
func (c *Codec) SetWetVolume(db float32) error {
	code := int(float32(wmDACZeroDB) + db*2 - 0.5)
	if code < 1 {
		code = 1 // 0x00 is digital mute, reserved for SetWetMute
	}
	if err := c.write(wmRegLeftDAC, wmVolUpdate|uint16(code)); err != nil {
		return err
	}
	return c.write(wmRegRightDAC, wmVolUpdate|uint16(code))
}

// SetDryVolume sets the bypass attenuator in dB, 0 down to -21 in 3 dB
// steps.
func (c *Codec) SetDryVolume(db float32) error {
	steps := int(-db/3 + 0.5)
	if steps < 0 {
		steps = 0
	} else if steps > 7 {
		steps = 7
	}
	field := uint16(steps) << wmBypassShift
	mask := uint16(7) << wmBypassShift
	if err := c.update(wmRegBypass1, mask, field); err != nil {
		return err
	}
	return c.update(wmRegBypass2, mask, field)
}

// EnableDryPath connects or disconnects the boost bleed from the output
// mixer.
func (c *Codec) EnableDryPath(enabled bool) error {
	var val uint16
	if enabled {
		val = wmBypassOn
	}
	if err := c.update(wmRegBypass1, wmBypassOn, val); err != nil {
		return err
	}
	return c.update(wmRegBypass2, wmBypassOn, val)
}

// SetMasterVolume sets the headphone amplifier volume in dB, 0 down to
// -73; anything lower lands in the mute band.
func (c *Codec) SetMasterVolume(db float32) error {
	code := int(float32(wmOut1ZeroDB) + db - 0.5)
	if code < wmOut1Mute {
		code = wmOut1Mute
	}
	val := wmVolUpdate | wmZeroCross | uint16(code)
	if err := c.write(wmRegLeftOut1, val); err != nil {
		return err
	}
	return c.write(wmRegRightOut1, val)
}
