//go:build rp2040 || rp2350

package main

import (
	"encoding/binary"
	"machine"

	"zerostomp/core"
	"zerostomp/dsp"
)

// The effect blocks run on the audio co-processor sitting between the
// codec ADC and DAC. This driver is its control port: block allocation,
// parameter writes and routing go out over SPI0, and the tuner pulls raw
// capture frames back over the same bus.
// sampleRate is the codec and capture sample rate of the whole signal
// path.
const sampleRate = 48000

const (
	engineBusFreq = 4 * machine.MHz

	opReset   = 0x01
	opAlloc   = 0x02
	opParam   = 0x03
	opChain   = 0x04
	opValue   = 0x05
	opBind    = 0x06
	opCapture = 0x07

	// handle returned by opAlloc when the graph cannot host the block
	handleNone = 0xFF
)

// Per-block parameter indexes.
const (
	prmEchoDelay = iota
	prmEchoDecay
	prmEchoMix
)

const (
	prmBiquadMode = iota
	prmBiquadFrequency
	prmBiquadQ
	prmBiquadGain
)

const (
	prmLFORate = iota
	prmLFOScale
	prmLFOOffset
	prmLFOWaveform
)

const (
	prmShaperDrive = iota
	prmShaperPreGain
	prmShaperPostGain
	prmShaperMode
	prmShaperMix
)

const prmVoiceLevel = 0

// EffectsEngine implements dsp.Engine and core.FrameCapture against the
// co-processor.
type EffectsEngine struct {
	bus *machine.SPI
	cs  machine.Pin

	scratch [8]byte
	frame   []byte
}

// NewEffectsEngine configures the control bus and resets the co-processor
// graph.
func NewEffectsEngine() (*EffectsEngine, error) {
	bus := machine.SPI0
	err := bus.Configure(machine.SPIConfig{
		Frequency: engineBusFreq,
		SCK:       machine.GPIO18,
		SDO:       machine.GPIO19,
		SDI:       machine.GPIO20,
	})
	if err != nil {
		return nil, err
	}

	cs := machine.GPIO17
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cs.High()

	e := &EffectsEngine{
		bus:   bus,
		cs:    cs,
		frame: make([]byte, 2*2*captureFrameLength),
	}
	e.Reset()
	return e, nil
}

// transfer runs one chip-selected full-duplex exchange.
func (e *EffectsEngine) transfer(w, r []byte) error {
	e.cs.Low()
	err := e.bus.Tx(w, r)
	e.cs.High()
	return err
}

// writeParam pushes one block parameter as a milli fixed-point value. The
// setter contracts have no error channel, so bus faults only reach the
// debug log.
func (e *EffectsEngine) writeParam(handle uint8, param uint8, v float32) {
	half := float32(0.5)
	if v < 0 {
		half = -0.5
	}
	e.scratch[0] = opParam
	e.scratch[1] = handle
	e.scratch[2] = param
	binary.LittleEndian.PutUint32(e.scratch[3:7], uint32(int32(v*1000+half)))
	if err := e.transfer(e.scratch[:7], nil); err != nil {
		core.Debugf("engine: " + err.Error())
	}
}

// readValue reads a block's live output as a milli fixed-point value.
func (e *EffectsEngine) readValue(handle uint8) float32 {
	e.scratch[0] = opValue
	e.scratch[1] = handle
	var resp [4]byte
	e.cs.Low()
	err := e.bus.Tx(e.scratch[:2], nil)
	if err == nil {
		err = e.bus.Tx(nil, resp[:])
	}
	e.cs.High()
	if err != nil {
		core.Debugf("engine: " + err.Error())
		return 0
	}
	return float32(int32(binary.LittleEndian.Uint32(resp[:]))) / 1000
}

func (e *EffectsEngine) alloc(kind dsp.BlockKind, arg uint8) (uint8, error) {
	e.scratch[0] = opAlloc
	e.scratch[1] = uint8(kind)
	e.scratch[2] = arg
	var resp [1]byte
	e.cs.Low()
	err := e.bus.Tx(e.scratch[:3], nil)
	if err == nil {
		err = e.bus.Tx(nil, resp[:])
	}
	e.cs.High()
	if err != nil {
		return 0, err
	}
	if resp[0] == handleNone {
		return 0, dsp.ErrBlockUnavailable
	}
	return resp[0], nil
}

// NewEcho allocates a delay line.
func (e *EffectsEngine) NewEcho() (dsp.Echo, error) {
	h, err := e.alloc(dsp.KindEcho, 0)
	if err != nil {
		return nil, err
	}
	return &engineEcho{engineBlock{e, h, dsp.KindEcho}}, nil
}

// NewBiquad allocates a filter section with its initial response.
func (e *EffectsEngine) NewBiquad(mode dsp.BiquadMode, frequency, q float32) (dsp.Biquad, error) {
	h, err := e.alloc(dsp.KindBiquad, 0)
	if err != nil {
		return nil, err
	}
	b := &engineBiquad{engineBlock{e, h, dsp.KindBiquad}}
	b.SetMode(mode)
	b.SetFrequency(frequency)
	b.SetQ(q)
	return b, nil
}

// NewLFO allocates a control oscillator.
func (e *EffectsEngine) NewLFO() (dsp.LFO, error) {
	h, err := e.alloc(dsp.KindLFO, 0)
	if err != nil {
		return nil, err
	}
	return &engineLFO{engineBlock{e, h, dsp.KindLFO}}, nil
}

// NewShaper allocates a waveshaping stage.
func (e *EffectsEngine) NewShaper() (dsp.Shaper, error) {
	h, err := e.alloc(dsp.KindShaper, 0)
	if err != nil {
		return nil, err
	}
	return &engineShaper{engineBlock{e, h, dsp.KindShaper}}, nil
}

// NewMixer allocates a mixer with the given voice count.
func (e *EffectsEngine) NewMixer(voices int) (dsp.Mixer, error) {
	h, err := e.alloc(dsp.KindMixer, uint8(voices))
	if err != nil {
		return nil, err
	}
	return &engineMixer{engineBlock{e, h, dsp.KindMixer}, voices}, nil
}

// Chain routes the codec input through the blocks in order and back out.
func (e *EffectsEngine) Chain(blocks ...dsp.Block) error {
	msg := make([]byte, 0, 2+len(blocks))
	msg = append(msg, opChain, uint8(len(blocks)))
	for _, b := range blocks {
		msg = append(msg, b.(interface{ handleID() uint8 }).handleID())
	}
	return e.transfer(msg, nil)
}

// Reset tears down the active graph.
func (e *EffectsEngine) Reset() {
	e.scratch[0] = opReset
	if err := e.transfer(e.scratch[:1], nil); err != nil {
		core.Debugf("engine: " + err.Error())
	}
}

// FrameLength returns the per-channel capture frame size of this build.
func (e *EffectsEngine) FrameLength() int {
	return captureFrameLength
}

// Record pulls one interleaved stereo frame from the co-processor's
// capture tap. This blocks for the frame duration and is the only stall
// point in the control loop.
func (e *EffectsEngine) Record(buf []int16) error {
	want := 2 * len(buf)
	if want > len(e.frame) {
		want = len(e.frame)
	}
	e.scratch[0] = opCapture
	e.cs.Low()
	err := e.bus.Tx(e.scratch[:1], nil)
	if err == nil {
		err = e.bus.Tx(nil, e.frame[:want])
	}
	e.cs.High()
	if err != nil {
		return err
	}
	for i := 0; i < want/2; i++ {
		buf[i] = int16(binary.LittleEndian.Uint16(e.frame[2*i:]))
	}
	return nil
}

// engineBlock is the shared handle of every allocated block.
type engineBlock struct {
	eng    *EffectsEngine
	handle uint8
	kind   dsp.BlockKind
}

func (b *engineBlock) Kind() dsp.BlockKind { return b.kind }
func (b *engineBlock) handleID() uint8     { return b.handle }

func (b *engineBlock) set(param uint8, v float32) {
	b.eng.writeParam(b.handle, param, v)
}

type engineEcho struct{ engineBlock }

func (b *engineEcho) SetDelayMS(ms float32) { b.set(prmEchoDelay, ms) }
func (b *engineEcho) SetDecay(v float32)    { b.set(prmEchoDecay, v) }
func (b *engineEcho) SetMix(v float32)      { b.set(prmEchoMix, v) }

type engineBiquad struct{ engineBlock }

func (b *engineBiquad) SetMode(m dsp.BiquadMode) { b.set(prmBiquadMode, float32(m)) }
func (b *engineBiquad) SetFrequency(hz float32)  { b.set(prmBiquadFrequency, hz) }
func (b *engineBiquad) SetQ(q float32)           { b.set(prmBiquadQ, q) }
func (b *engineBiquad) SetGain(db float32)       { b.set(prmBiquadGain, db) }

type engineLFO struct{ engineBlock }

func (b *engineLFO) SetRate(hz float32)    { b.set(prmLFORate, hz) }
func (b *engineLFO) SetScale(v float32)    { b.set(prmLFOScale, v) }
func (b *engineLFO) SetOffset(v float32)   { b.set(prmLFOOffset, v) }
func (b *engineLFO) SetWaveform(index int) { b.set(prmLFOWaveform, float32(index)) }
func (b *engineLFO) Value() float32        { return b.eng.readValue(b.handle) }

type engineShaper struct{ engineBlock }

func (b *engineShaper) SetDrive(v float32)     { b.set(prmShaperDrive, v) }
func (b *engineShaper) SetPreGain(db float32)  { b.set(prmShaperPreGain, db) }
func (b *engineShaper) SetPostGain(db float32) { b.set(prmShaperPostGain, db) }
func (b *engineShaper) SetMode(mode int)       { b.set(prmShaperMode, float32(mode)) }
func (b *engineShaper) SetMix(v float32)       { b.set(prmShaperMix, v) }

type engineMixer struct {
	engineBlock
	voices int
}

// Voice returns the handle of one mixer input.
func (m *engineMixer) Voice(i int) dsp.MixerVoice {
	return &engineVoice{m, uint8(i)}
}

type engineVoice struct {
	mixer *engineMixer
	index uint8
}

// SetLevel sets the voice level.
func (v *engineVoice) SetLevel(level float32) {
	v.mixer.eng.writeParam(v.mixer.handle, prmVoiceLevel+v.index, level)
}

// BindLFO routes an LFO onto the voice level inside the engine.
func (v *engineVoice) BindLFO(lfo dsp.LFO) {
	e := v.mixer.eng
	e.scratch[0] = opBind
	e.scratch[1] = v.mixer.handle
	e.scratch[2] = v.index
	e.scratch[3] = lfo.(interface{ handleID() uint8 }).handleID()
	if err := e.transfer(e.scratch[:4], nil); err != nil {
		core.Debugf("engine: " + err.Error())
	}
}
