// Package serial opens the pedal's serial device for the control link.
package serial

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is the rate used when the caller has no preference. The
// pedal enumerates as USB CDC, which ignores it, but a bridge to a real
// UART does not.
const DefaultBaud = 115200

// readTimeout bounds every port read. The link transport's read loop only
// checks for shutdown between reads, so a port that blocks forever would
// wedge it on close.
const readTimeout = 100 * time.Millisecond

// Open opens the pedal's serial device. A baud of zero takes DefaultBaud.
func Open(device string, baud int) (io.ReadWriteCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return port, nil
}
