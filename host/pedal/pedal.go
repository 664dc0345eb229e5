// Package pedal is the host-side session with a connected stomp box. It
// speaks the framed serial protocol over a serial port and exposes the
// fixed command set as plain method calls.
package pedal

import (
	"fmt"
	"io"
	"time"

	"zerostomp/host/serial"
	"zerostomp/protocol"
)

// Identity is the pedal's identify reply.
type Identity struct {
	Version  string
	Programs int
}

// State is a snapshot of the running control surface.
type State struct {
	Program  string
	Bypassed bool
	Mix      float32
	Level    float32
}

// Tone is one tuner monitor sample.
type Tone struct {
	Note      int
	Cents     float64
	Frequency float64
}

// ToneHandler receives monitor samples as they stream in.
type ToneHandler func(Tone)

// Pedal represents a connection to a pedal over its control link.
type Pedal struct {
	transport *protocol.HostTransport

	toneHandler ToneHandler
	connected   bool
}

// New creates a new Pedal instance (not yet connected).
func New() *Pedal {
	return &Pedal{}
}

// Connect opens the pedal's serial device and attaches the session. A baud
// of zero takes the default rate.
func (p *Pedal) Connect(device string, baud int) error {
	port, err := serial.Open(device, baud)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	p.ConnectPort(port)

	// Give the firmware time to initialize (if it just powered on)
	time.Sleep(100 * time.Millisecond)

	return nil
}

// ConnectPort attaches the session to an already-open port. The transport
// takes ownership of the port and closes it with the session.
func (p *Pedal) ConnectPort(port io.ReadWriteCloser) {
	p.transport = protocol.NewHostTransport(port)
	p.transport.SetResponseHandler(p.handleResponse)
	p.connected = true
}

// Close closes the connection to the pedal.
func (p *Pedal) Close() error {
	if p.transport != nil {
		if err := p.transport.Close(); err != nil {
			return err
		}
	}
	p.connected = false
	return nil
}

// IsConnected returns whether the pedal is connected.
func (p *Pedal) IsConnected() bool {
	return p.connected
}

// Identify queries the firmware version and installed program count.
func (p *Pedal) Identify() (Identity, error) {
	var id Identity
	if err := p.send(protocol.CmdIdentify, nil); err != nil {
		return id, err
	}

	payload, err := p.waitReply(protocol.CmdIdentifyReply, time.Second)
	if err != nil {
		return id, err
	}

	version, err := protocol.ReadString(&payload)
	if err != nil {
		return id, fmt.Errorf("failed to decode version: %w", err)
	}
	count, err := protocol.ReadUint(&payload)
	if err != nil {
		return id, fmt.Errorf("failed to decode program count: %w", err)
	}

	id.Version = version
	id.Programs = int(count)
	return id, nil
}

// State fetches the current program, bypass flag, mix and level.
func (p *Pedal) State() (State, error) {
	var st State
	if err := p.send(protocol.CmdGetState, nil); err != nil {
		return st, err
	}

	payload, err := p.waitReply(protocol.CmdStateReply, time.Second)
	if err != nil {
		return st, err
	}

	name, err := protocol.ReadString(&payload)
	if err != nil {
		return st, fmt.Errorf("failed to decode program name: %w", err)
	}
	bypassed, err := protocol.ReadUint(&payload)
	if err != nil {
		return st, fmt.Errorf("failed to decode bypass flag: %w", err)
	}
	mix, err := protocol.ReadMilli(&payload)
	if err != nil {
		return st, fmt.Errorf("failed to decode mix: %w", err)
	}
	level, err := protocol.ReadMilli(&payload)
	if err != nil {
		return st, fmt.Errorf("failed to decode level: %w", err)
	}

	st.Program = name
	st.Bypassed = bypassed != 0
	st.Mix = mix
	st.Level = level
	return st, nil
}

// SetProgram asks the pedal to switch to the named program at the next
// safe point in its control loop.
func (p *Pedal) SetProgram(name string) error {
	return p.send(protocol.CmdSetProgram, func(out protocol.OutputBuffer) {
		protocol.WriteString(out, name)
	})
}

// NextProgram rotates to the next installed program.
func (p *Pedal) NextProgram() error {
	return p.send(protocol.CmdNextProgram, nil)
}

// SetMix sets the wet/dry mix, 0 to 1.
func (p *Pedal) SetMix(v float32) error {
	return p.send(protocol.CmdSetMix, func(out protocol.OutputBuffer) {
		protocol.WriteMilli(out, v)
	})
}

// SetLevel sets the master output level, 0 to 1.
func (p *Pedal) SetLevel(v float32) error {
	return p.send(protocol.CmdSetLevel, func(out protocol.OutputBuffer) {
		protocol.WriteMilli(out, v)
	})
}

// SetToneHandler installs the callback for tuner monitor samples.
func (p *Pedal) SetToneHandler(handler ToneHandler) {
	p.toneHandler = handler
}

// Monitor enables or disables the tuner monitor stream. Samples arrive on
// the handler installed with SetToneHandler.
func (p *Pedal) Monitor(enable bool) error {
	flag := uint32(0)
	if enable {
		flag = 1
	}
	return p.send(protocol.CmdMonitor, func(out protocol.OutputBuffer) {
		protocol.WriteUint(out, flag)
	})
}

// Settings fetches the pedal's raw settings document.
func (p *Pedal) Settings() ([]byte, error) {
	if err := p.send(protocol.CmdGetSettings, nil); err != nil {
		return nil, err
	}

	payload, err := p.waitReply(protocol.CmdSettingsReply, time.Second)
	if err != nil {
		return nil, err
	}

	doc, err := protocol.ReadBytes(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode settings document: %w", err)
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

// PutSettings replaces the pedal's settings document wholesale.
func (p *Pedal) PutSettings(doc []byte) error {
	return p.send(protocol.CmdSetSettings, func(out protocol.OutputBuffer) {
		protocol.WriteBytes(out, doc)
	})
}

func (p *Pedal) send(cmdID uint16, args func(out protocol.OutputBuffer)) error {
	if !p.connected {
		return fmt.Errorf("not connected to pedal")
	}
	return p.transport.SendCommand(cmdID, args)
}

// waitReply drains responses until one carries the wanted command ID.
// Monitor samples may interleave with request/reply traffic; they are
// already delivered through the handler, so skipping them here is safe.
func (p *Pedal) waitReply(want uint16, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("timed out waiting for reply 0x%02x", want)
		}

		resp, err := p.transport.ReceiveResponse(remaining)
		if err != nil {
			return nil, err
		}

		payload := resp.Payload
		cmdID, err := protocol.ReadUint(&payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode reply command ID: %w", err)
		}
		if uint16(cmdID) == want {
			return payload, nil
		}
	}
}

// handleResponse runs on the transport's read loop for every response
// frame. Only the monitor stream is handled asynchronously.
func (p *Pedal) handleResponse(cmdID uint16, data *[]byte) error {
	if cmdID != protocol.CmdToneReply {
		return nil
	}
	handler := p.toneHandler
	if handler == nil {
		return nil
	}

	note, err := protocol.ReadInt(data)
	if err != nil {
		return fmt.Errorf("failed to decode note: %w", err)
	}
	cents, err := protocol.ReadMilli(data)
	if err != nil {
		return fmt.Errorf("failed to decode cents: %w", err)
	}
	freq, err := protocol.ReadInt(data)
	if err != nil {
		return fmt.Errorf("failed to decode frequency: %w", err)
	}

	handler(Tone{
		Note:      int(note),
		Cents:     float64(cents),
		Frequency: float64(freq) / 1000,
	})
	return nil
}
