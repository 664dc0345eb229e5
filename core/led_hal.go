package core

// LEDDriver drives the stomp indicator LED. The target implementation runs
// the LED from a PWM slice clocked above the audible range so the supply
// ripple cannot bleed into the signal path.
type LEDDriver interface {
	// SetBrightness sets the LED level, 0 (off) to 1 (full).
	SetBrightness(v float32) error
}

// PixelDriver drives the RGB status pixel used for boot progress and fault
// indication.
type PixelDriver interface {
	SetColor(r, g, b uint8) error
}

// Boot/fault status colors, in the order the boot sequence walks them.
var (
	PixelBoot    = [3]uint8{0, 0, 255}
	PixelDisplay = [3]uint8{0, 255, 255}
	PixelInput   = [3]uint8{0, 255, 0}
	PixelMIDI    = [3]uint8{255, 255, 0}
	PixelCodec   = [3]uint8{255, 0, 0}
	PixelReady   = [3]uint8{32, 0, 32}
	PixelFault   = [3]uint8{255, 32, 0}
)
