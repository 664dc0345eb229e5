// Audio codec interface.
// The WM8960 (or compatible) codec carries both the analog dry bleed path
// and the DAC wet path; core only drives the handful of gain controls the
// crossfade needs. Volumes are in dB with 0 dB as the top of each range.
package core

// Codec volume range floors, matching the WM8960 register ranges.
const (
	// DryVolumeFloor is the minimum of the output-mixer bleed attenuator.
	DryVolumeFloor float32 = -21.0

	// WetVolumeFloor is the minimum of the DAC digital volume.
	WetVolumeFloor float32 = -127.0

	// MasterVolumeFloor is the minimum of the headphone amplifier volume.
	MasterVolumeFloor float32 = -73.0

	// BypassDryVolume is the fixed dry-path level applied while bypassed,
	// independent of the stored mix value.
	BypassDryVolume float32 = 0.0
)

// CodecDriver is the abstract codec interface that core code uses.
// Target-specific implementations translate dB values to register fields.
type CodecDriver interface {
	// SetWetMute mutes or unmutes the DAC (wet) path.
	SetWetMute(muted bool) error

	// SetWetVolume sets the DAC digital volume in dB (WetVolumeFloor..0).
	SetWetVolume(db float32) error

	// SetDryVolume sets the analog bleed volume in dB (DryVolumeFloor..0).
	SetDryVolume(db float32) error

	// EnableDryPath connects or disconnects the analog bleed path from the
	// output mixer. Disconnecting is a discrete switch, not attenuation.
	EnableDryPath(enabled bool) error

	// SetMasterVolume sets the headphone amplifier volume in dB
	// (MasterVolumeFloor..0).
	SetMasterVolume(db float32) error
}
