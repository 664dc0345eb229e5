// Package protocol implements the pedal's framed serial control link.
//
// Frames carry a one-byte length, a sequence byte, VLQ-encoded command
// payloads, a CRC16 trailer and a sync byte. The pedal answers every frame
// with an ack carrying the next expected sequence, so the host can detect
// drops without timers on the device side.
package protocol

// Version identifies the firmware protocol revision reported by identify.
const Version = "0.1.0"

// Framing constants.
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
	MessageSeqMask     = 0x0F

	// MessageMax sizes the scratch output buffer; several frames may be
	// queued between flushes.
	MessageMax = 512
)

// Command identifiers. The set is fixed at compile time and shared by the
// firmware and the host CLI.
const (
	// CmdIdentifyReply carries version (string) and program count (uint).
	CmdIdentifyReply = 0x00

	// CmdIdentify requests an identify reply.
	CmdIdentify = 0x01

	// CmdGetState requests a state reply.
	CmdGetState = 0x02

	// CmdStateReply carries program name (string), bypassed (uint flag),
	// mix and level (milli).
	CmdStateReply = 0x03

	// CmdSetProgram selects a program by name (string).
	CmdSetProgram = 0x04

	// CmdNextProgram rotates to the next program, as a stomp double-tap
	// would.
	CmdNextProgram = 0x05

	// CmdSetMix sets the wet mix (milli).
	CmdSetMix = 0x06

	// CmdSetLevel sets the master level (milli).
	CmdSetLevel = 0x07

	// CmdMonitor enables or disables the tuner monitor stream (uint flag).
	CmdMonitor = 0x08

	// CmdToneReply streams a detection result: MIDI note (int),
	// cents (milli), frequency (milliHz as int).
	CmdToneReply = 0x09

	// CmdGetSettings requests the raw settings document.
	CmdGetSettings = 0x0A

	// CmdSettingsReply carries the raw settings document (bytes).
	CmdSettingsReply = 0x0B

	// CmdSetSettings replaces the raw settings document (bytes).
	CmdSetSettings = 0x0C
)

// Control values cross the wire as milli-units so the encoding stays
// integer-only.

// WriteMilli encodes a control value scaled by 1000.
func WriteMilli(out OutputBuffer, v float32) {
	half := float32(0.5)
	if v < 0 {
		half = -0.5
	}
	WriteInt(out, int32(v*1000+half))
}

// ReadMilli decodes a control value scaled by 1000.
func ReadMilli(data *[]byte) (float32, error) {
	v, err := ReadInt(data)
	if err != nil {
		return 0, err
	}
	return float32(v) / 1000, nil
}
