// Control-link command dispatch.
// RemoteControl binds the framed serial protocol to the control surface so
// a host can inspect and drive the pedal: identify, program selection, mix
// and level, the tuner monitor stream, and raw settings transfer.
package core

import (
	"errors"

	"zerostomp/protocol"
)

var (
	// ErrUnknownCommand is returned for command IDs outside the compiled set.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnknownProgram is returned when a program selection names nothing
	// installed.
	ErrUnknownProgram = errors.New("unknown program")
)

// RemoteControl dispatches link commands against the control surface.
type RemoteControl struct {
	surface   *ControlSurface
	settings  *Settings
	transport *protocol.Transport

	monitoring bool
}

// NewRemoteControl wires a transport writing to out. The caller drains out
// to the wire and feeds received bytes to Transport().Receive.
func NewRemoteControl(out protocol.OutputBuffer, surface *ControlSurface, settings *Settings) *RemoteControl {
	r := &RemoteControl{surface: surface, settings: settings}
	r.transport = protocol.NewTransport(out, r.handle)
	r.transport.SetResetCallback(r.stopMonitor)
	return r
}

// Transport returns the underlying link transport.
func (r *RemoteControl) Transport() *protocol.Transport {
	return r.transport
}

func (r *RemoteControl) handle(cmdID uint16, data *[]byte) error {
	switch cmdID {
	case protocol.CmdIdentify:
		r.transport.SendCommand(protocol.CmdIdentifyReply, func(out protocol.OutputBuffer) {
			protocol.WriteString(out, protocol.Version)
			protocol.WriteUint(out, uint32(r.surface.Programs().Count()))
		})

	case protocol.CmdGetState:
		r.sendState()

	case protocol.CmdSetProgram:
		name, err := protocol.ReadString(data)
		if err != nil {
			return err
		}
		if !r.surface.Programs().Select(name) {
			return ErrUnknownProgram
		}

	case protocol.CmdNextProgram:
		r.surface.Programs().RequestNext()

	case protocol.CmdSetMix:
		v, err := protocol.ReadMilli(data)
		if err != nil {
			return err
		}
		r.surface.SetMix(v)

	case protocol.CmdSetLevel:
		v, err := protocol.ReadMilli(data)
		if err != nil {
			return err
		}
		r.surface.SetLevel(v)

	case protocol.CmdMonitor:
		flag, err := protocol.ReadUint(data)
		if err != nil {
			return err
		}
		if flag != 0 {
			r.startMonitor()
		} else {
			r.stopMonitor()
		}

	case protocol.CmdGetSettings:
		doc, err := r.settings.Encode()
		if err != nil {
			return err
		}
		r.transport.SendCommand(protocol.CmdSettingsReply, func(out protocol.OutputBuffer) {
			protocol.WriteBytes(out, doc)
		})

	case protocol.CmdSetSettings:
		doc, err := protocol.ReadBytes(data)
		if err != nil {
			return err
		}
		return r.settings.Replace(doc)

	default:
		return ErrUnknownCommand
	}
	return nil
}

func (r *RemoteControl) sendState() {
	bypassed := uint32(0)
	if r.surface.Bypassed() {
		bypassed = 1
	}
	r.transport.SendCommand(protocol.CmdStateReply, func(out protocol.OutputBuffer) {
		protocol.WriteString(out, r.surface.Title())
		protocol.WriteUint(out, bypassed)
		protocol.WriteMilli(out, r.surface.Mix())
		protocol.WriteMilli(out, r.surface.Level())
	})
}

func (r *RemoteControl) startMonitor() {
	if r.monitoring {
		return
	}
	r.monitoring = true
	r.surface.SetToneSink(r.sendTone)
}

func (r *RemoteControl) stopMonitor() {
	if !r.monitoring {
		return
	}
	r.monitoring = false
	r.surface.SetToneSink(nil)
}

func (r *RemoteControl) sendTone(tone ToneEstimate) {
	r.transport.SendCommand(protocol.CmdToneReply, func(out protocol.OutputBuffer) {
		protocol.WriteInt(out, int32(tone.Note))
		protocol.WriteMilli(out, float32(tone.Cents))
		protocol.WriteInt(out, int32(tone.Frequency*1000))
	})
}
