package protocol

import "sync/atomic"

// CommandHandler decodes and executes one command. The handler consumes its
// own arguments from data.
type CommandHandler func(cmdID uint16, data *[]byte) error

// Transport is the device side of the link. It parses frames out of the
// input buffer, dispatches their commands and acks every frame with the
// next expected sequence.
type Transport struct {
	isSynchronized uint32 // atomic flag
	nextSequence   uint32 // atomic, 0x10-0x1F

	output        OutputBuffer
	handler       CommandHandler
	resetCallback func()
	flushCallback func()
}

// NewTransport creates the device transport writing frames to output and
// dispatching commands to handler.
func NewTransport(output OutputBuffer, handler CommandHandler) *Transport {
	return &Transport{
		isSynchronized: 1,
		nextSequence:   MessageDest,
		output:         output,
		handler:        handler,
	}
}

// Receive consumes whatever complete frames the input buffer holds.
// Partial frames are left in place for the next call.
func (t *Transport) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !t.getSynchronized() {
			// Hunt for a sync byte, discarding garbage before it.
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				continue
			}
			data = data[syncPos+1:]
			t.setSynchronized(true)
			t.sendAck()
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}
		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			t.setSynchronized(false)
			continue
		}
		seq := data[MessagePositionSeq]
		if seq&^uint8(MessageSeqMask) != MessageDest {
			t.setSynchronized(false)
			continue
		}
		if len(data) < msgLen {
			break
		}
		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			t.setSynchronized(false)
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			t.setSynchronized(false)
			continue
		}

		frame := data[MessageHeaderSize : msgLen-MessageTrailerSize]
		data = data[msgLen:]

		// Sequence back at the start marks a host restart.
		expectedSeq := uint8(atomic.LoadUint32(&t.nextSequence))
		if seq == MessageDest && expectedSeq != MessageDest {
			atomic.StoreUint32(&t.nextSequence, MessageDest)
			expectedSeq = MessageDest
			if t.resetCallback != nil {
				t.resetCallback()
			}
		}

		if seq == expectedSeq {
			nextSeq := ((seq + 1) & MessageSeqMask) | MessageDest
			atomic.StoreUint32(&t.nextSequence, uint32(nextSeq))
			_ = t.parseFrame(frame)
		}
		// Acked even on a sequence mismatch; the stale ack doubles as a
		// nak carrying the expected sequence.
		t.sendAck()
	}

	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

// parseFrame dispatches every command packed into one frame.
func (t *Transport) parseFrame(frame []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.setSynchronized(false)
		}
	}()

	for len(frame) > 0 {
		cmdID, err := ReadUint(&frame)
		if err != nil {
			t.setSynchronized(false)
			return err
		}
		if t.handler != nil {
			if err := t.handler(uint16(cmdID), &frame); err != nil {
				// Handler errors do not desync the link; the rest of the
				// frame is dropped.
				return err
			}
		}
	}
	return nil
}

// sendAck emits the minimal ack frame. The host waits for it before
// reading responses, so it is flushed ahead of anything queued.
func (t *Transport) sendAck() {
	ns := uint8(atomic.LoadUint32(&t.nextSequence))
	crc := CRC16([]byte{5, ns})

	t.output.Output([]byte{
		5,
		ns,
		uint8(crc >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
	if t.flushCallback != nil {
		t.flushCallback()
	}
}

// EncodeFrame appends one framed message built by frameData.
func (t *Transport) EncodeFrame(frameData func(out OutputBuffer)) {
	cursor := t.output.CurPosition()

	seq := uint8(atomic.LoadUint32(&t.nextSequence))
	t.output.Output([]byte{0, seq})

	frameData(t.output)

	body := len(t.output.DataSince(cursor))
	t.output.Update(cursor, uint8(body+MessageTrailerSize))

	crc := CRC16(t.output.DataSince(cursor))
	t.output.Output([]byte{
		uint8(crc >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
}

// SendCommand frames a single command with its arguments.
func (t *Transport) SendCommand(cmdID uint16, args func(out OutputBuffer)) {
	t.EncodeFrame(func(out OutputBuffer) {
		WriteUint(out, uint32(cmdID))
		if args != nil {
			args(out)
		}
	})
}

// Reset restores the transport to its boot state.
func (t *Transport) Reset() {
	atomic.StoreUint32(&t.isSynchronized, 1)
	atomic.StoreUint32(&t.nextSequence, MessageDest)
	if t.resetCallback != nil {
		t.resetCallback()
	}
}

// SetResetCallback installs a callback run when a host restart is
// detected.
func (t *Transport) SetResetCallback(callback func()) {
	t.resetCallback = callback
}

// SetFlushCallback installs a callback that pushes pending output to the
// wire immediately after an ack.
func (t *Transport) SetFlushCallback(callback func()) {
	t.flushCallback = callback
}

func (t *Transport) getSynchronized() bool {
	return atomic.LoadUint32(&t.isSynchronized) != 0
}

func (t *Transport) setSynchronized(val bool) {
	if val {
		atomic.StoreUint32(&t.isSynchronized, 1)
	} else {
		atomic.StoreUint32(&t.isSynchronized, 0)
	}
}
