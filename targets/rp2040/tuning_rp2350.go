//go:build rp2350

package main

import "zerostomp/core"

// Capture sizing and tuner calibration for the RP2350 build. This is the
// reference hardware the default calibration was measured on.
const (
	captureFrameLength     = 4096
	pitchCalibrationOffset = core.DefaultCalibrationOffset
)
