package core

// FrameCapture is the audio capture collaborator used by the tuner. Record
// blocks until one full frame has been captured; this is the only stall
// point in the control loop.
type FrameCapture interface {
	// Record fills buf with interleaved stereo samples from the codec ADC.
	Record(buf []int16) error

	// FrameLength returns the per-channel frame size the hardware build
	// captures (1024 on rp2040, 4096 on rp2350).
	FrameLength() int
}

// LeftChannel extracts the left channel of an interleaved stereo buffer
// into dst and returns it. dst must hold len(buf)/2 samples.
func LeftChannel(buf []int16, dst []int16) []int16 {
	n := len(buf) / 2
	for i := 0; i < n; i++ {
		dst[i] = buf[2*i]
	}
	return dst[:n]
}
