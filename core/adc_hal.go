package core

// ADCChannel identifies a logical analog channel (pot or expression input).
type ADCChannel uint8

// ADCDriver is the abstract ADC interface that core code uses.
// Platform-specific implementations handle actual hardware sampling.
type ADCDriver interface {
	// ConfigureChannel prepares a channel for analog input.
	// For pin-muxed channels, this should set the pin to analog mode.
	ConfigureChannel(ch ADCChannel) error

	// ReadRaw performs a one-shot sample from the given channel.
	// Returns a 16-bit scaled value (e.g. 12-bit HW value left-shifted).
	ReadRaw(ch ADCChannel) uint16
}

// AnalogChannel reads one physical control into a normalized [0, 1] value.
type AnalogChannel struct {
	driver  ADCDriver
	channel ADCChannel
}

// NewAnalogChannel configures ch on the driver and returns the channel.
func NewAnalogChannel(driver ADCDriver, ch ADCChannel) (AnalogChannel, error) {
	if err := driver.ConfigureChannel(ch); err != nil {
		return AnalogChannel{}, err
	}
	return AnalogChannel{driver: driver, channel: ch}, nil
}

// Read samples the channel and returns the normalized reading.
func (c AnalogChannel) Read() float32 {
	return float32(c.driver.ReadRaw(c.channel)) / 65535
}
