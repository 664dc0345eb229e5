package protocol

import "testing"

// buildFrame assembles a host-side frame the way HostTransport does.
func buildFrame(seq uint8, cmdID uint16, args func(out OutputBuffer)) []byte {
	scratch := NewScratchOutput()
	WriteUint(scratch, uint32(cmdID))
	if args != nil {
		args(scratch)
	}
	payload := scratch.Result()

	msgLen := MessageHeaderSize + len(payload) + MessageTrailerSize
	frame := make([]byte, 0, msgLen)
	frame = append(frame, uint8(msgLen), seq)
	frame = append(frame, payload...)
	crc := CRC16(frame)
	frame = append(frame, uint8(crc>>8), uint8(crc&0xFF), MessageValueSync)
	return frame
}

type recordedCommand struct {
	id   uint16
	args []byte
}

func newTestTransport() (*Transport, *ScratchOutput, *[]recordedCommand) {
	out := NewScratchOutput()
	var commands []recordedCommand
	tr := NewTransport(out, func(cmdID uint16, data *[]byte) error {
		args := make([]byte, len(*data))
		copy(args, *data)
		*data = (*data)[len(*data):]
		commands = append(commands, recordedCommand{cmdID, args})
		return nil
	})
	return tr, out, &commands
}

func TestTransportDispatchesCommand(t *testing.T) {
	tr, out, commands := newTestTransport()

	frame := buildFrame(MessageDest, CmdSetMix, func(o OutputBuffer) {
		WriteMilli(o, 0.5)
	})
	tr.Receive(NewSliceInputBuffer(frame))

	if len(*commands) != 1 {
		t.Fatalf("dispatched %d commands, want 1", len(*commands))
	}
	if (*commands)[0].id != CmdSetMix {
		t.Errorf("command = 0x%02x, want CmdSetMix", (*commands)[0].id)
	}
	args := (*commands)[0].args
	mix, err := ReadMilli(&args)
	if err != nil || mix != 0.5 {
		t.Errorf("mix arg = %v (%v), want 0.5", mix, err)
	}

	// The ack carries the advanced sequence.
	ack := out.Result()
	if len(ack) != 5 {
		t.Fatalf("ack = %v, want 5 bytes", ack)
	}
	wantSeq := uint8(((MessageDest + 1) & MessageSeqMask) | MessageDest)
	if ack[MessagePositionSeq] != wantSeq {
		t.Errorf("ack sequence = 0x%02x, want 0x%02x", ack[MessagePositionSeq], wantSeq)
	}
}

func TestTransportRepeatedSequenceNotReplayed(t *testing.T) {
	tr, out, commands := newTestTransport()

	tr.Receive(NewSliceInputBuffer(buildFrame(MessageDest, CmdNextProgram, nil)))
	frame := buildFrame(MessageDest+1, CmdNextProgram, nil)
	tr.Receive(NewSliceInputBuffer(frame))
	out.Reset()
	// The same frame again, as after a lost ack.
	tr.Receive(NewSliceInputBuffer(frame))

	if len(*commands) != 2 {
		t.Errorf("command replayed: dispatched %d times", len(*commands))
	}
	if len(out.Result()) != 5 {
		t.Error("retransmission not acked")
	}
}

func TestTransportBadCRCDesyncs(t *testing.T) {
	tr, _, commands := newTestTransport()

	frame := buildFrame(MessageDest, CmdNextProgram, nil)
	frame[2] ^= 0xFF
	tr.Receive(NewSliceInputBuffer(frame))

	if len(*commands) != 0 {
		t.Error("corrupt frame dispatched a command")
	}
	if tr.getSynchronized() {
		t.Error("transport still synchronized after CRC mismatch")
	}
}

func TestTransportResyncsOnSyncByte(t *testing.T) {
	tr, _, commands := newTestTransport()
	tr.setSynchronized(false)

	garbage := []byte{0x01, 0x02, MessageValueSync}
	frame := buildFrame(MessageDest, CmdGetState, nil)
	tr.Receive(NewSliceInputBuffer(append(garbage, frame...)))

	if len(*commands) != 1 || (*commands)[0].id != CmdGetState {
		t.Fatalf("commands after resync = %v", *commands)
	}
}

func TestTransportPartialFrameWaits(t *testing.T) {
	tr, _, commands := newTestTransport()

	frame := buildFrame(MessageDest, CmdIdentify, nil)
	input := NewSliceInputBuffer(frame[:3])
	tr.Receive(input)

	if len(*commands) != 0 {
		t.Fatal("partial frame dispatched")
	}
	if input.Available() != 3 {
		t.Errorf("partial frame consumed: %d bytes left", input.Available())
	}
}

func TestTransportEncodeFrameRoundTrip(t *testing.T) {
	tr, out, _ := newTestTransport()

	tr.SendCommand(CmdStateReply, func(o OutputBuffer) {
		WriteString(o, "Wah")
		WriteUint(o, 1)
		WriteMilli(o, 0.75)
		WriteMilli(o, 1)
	})

	data := out.Result()
	msgLen := int(data[MessagePositionLen])
	if msgLen != len(data) {
		t.Fatalf("length byte %d != frame size %d", msgLen, len(data))
	}
	if data[len(data)-1] != MessageValueSync {
		t.Fatal("missing trailing sync byte")
	}
	crc := uint16(data[msgLen-MessageTrailerCRC])<<8 | uint16(data[msgLen-MessageTrailerCRC+1])
	if crc != CRC16(data[:msgLen-MessageTrailerSize]) {
		t.Fatal("frame CRC mismatch")
	}

	payload := data[MessageHeaderSize : msgLen-MessageTrailerSize]
	cmdID, err := ReadUint(&payload)
	if err != nil || cmdID != CmdStateReply {
		t.Fatalf("cmd = %d (%v)", cmdID, err)
	}
	name, _ := ReadString(&payload)
	bypassed, _ := ReadUint(&payload)
	mix, _ := ReadMilli(&payload)
	level, err := ReadMilli(&payload)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Wah" || bypassed != 1 || mix != 0.75 || level != 1 {
		t.Errorf("decoded %q %d %v %v", name, bypassed, mix, level)
	}
}
