// Dry/wet crossfade.
// A single mix scalar plus the bypass flag are expanded into the codec gain
// controls: the analog bleed (dry) path fades out as mix rises while the
// DAC (wet) path fades in, and full-wet disconnects the bleed path outright
// so it cannot leak noise into the output mixer.
package core

// MixCrossfade derives codec gains from the stored mix level, master level
// and bypass state. Recomputation is idempotent.
type MixCrossfade struct {
	codec CodecDriver

	mix      float32
	level    float32
	bypassed bool
}

// NewMixCrossfade creates the crossfade over the given codec. Initial state
// is mix 0 (full dry), level 1, not bypassed; Apply must be called once the
// codec is up.
func NewMixCrossfade(codec CodecDriver) *MixCrossfade {
	return &MixCrossfade{codec: codec, level: 1}
}

// Mix returns the stored wet mix in [0, 1].
func (m *MixCrossfade) Mix() float32 {
	return m.mix
}

// SetMix stores a new wet mix and reapplies the codec gains.
func (m *MixCrossfade) SetMix(v float32) {
	m.mix = Clamp(v)
	m.Apply()
}

// Level returns the master output level in [0, 1].
func (m *MixCrossfade) Level() float32 {
	return m.level
}

// SetLevel stores a new master level and updates the headphone amplifier.
func (m *MixCrossfade) SetLevel(v float32) {
	m.level = Clamp(v)
	if err := m.codec.SetMasterVolume(Map(m.level, MasterVolumeFloor, 0)); err != nil {
		Debugf("codec master volume: " + err.Error())
	}
}

// Bypassed returns the bypass flag last applied.
func (m *MixCrossfade) Bypassed() bool {
	return m.bypassed
}

// SetBypassed stores the bypass flag and reapplies the codec gains.
func (m *MixCrossfade) SetBypassed(b bool) {
	m.bypassed = b
	m.Apply()
}

// Apply pushes the derived gains to the codec:
//   - the wet path is muted whenever bypassed, regardless of mix
//   - the dry gain follows 1-mix, except while bypassed where it is pinned
//     to the fixed bypass level
//   - the dry path is disconnected entirely at full wet when not bypassed
func (m *MixCrossfade) Apply() {
	var err error
	if e := m.codec.SetWetMute(m.bypassed); e != nil {
		err = e
	}
	dry := Map(1-m.mix, DryVolumeFloor, 0)
	if m.bypassed {
		dry = BypassDryVolume
	}
	if e := m.codec.SetDryVolume(dry); e != nil {
		err = e
	}
	if e := m.codec.SetWetVolume(Map(m.mix, WetVolumeFloor, 0)); e != nil {
		err = e
	}
	enableDry := m.bypassed || m.mix < 1.0
	if e := m.codec.EnableDryPath(enableDry); e != nil {
		err = e
	}
	if err != nil {
		Debugf("codec crossfade: " + err.Error())
	}
}
