package core

import (
	"testing"

	"zerostomp/protocol"
)

// decodeReply unwraps the first frame in raw and returns its command ID
// and remaining payload.
func decodeReply(t *testing.T, raw []byte) (uint16, []byte) {
	t.Helper()
	if len(raw) < protocol.MessageLengthMin {
		t.Fatalf("short reply: %v", raw)
	}
	msgLen := int(raw[protocol.MessagePositionLen])
	if msgLen > len(raw) {
		t.Fatalf("truncated reply: length byte %d, have %d", msgLen, len(raw))
	}
	payload := raw[protocol.MessageHeaderSize : msgLen-protocol.MessageTrailerSize]
	cmdID, err := protocol.ReadUint(&payload)
	if err != nil {
		t.Fatalf("reply command: %v", err)
	}
	return uint16(cmdID), payload
}

func newTestRemote(t *testing.T, programs ...Program) (*RemoteControl, *surfaceFixture, *protocol.ScratchOutput) {
	t.Helper()
	f := newSurfaceFixture(t, programs...)
	out := protocol.NewScratchOutput()
	settings := LoadSettings(&memoryStore{})
	return NewRemoteControl(out, f.surface, settings), f, out
}

func TestRemoteIdentify(t *testing.T) {
	r, _, out := newTestRemote(t, &stubProgram{"delay"}, &stubProgram{"wah"})

	var empty []byte
	if err := r.handle(protocol.CmdIdentify, &empty); err != nil {
		t.Fatal(err)
	}

	cmdID, payload := decodeReply(t, out.Result())
	if cmdID != protocol.CmdIdentifyReply {
		t.Fatalf("reply = 0x%02x, want identify reply", cmdID)
	}
	version, err := protocol.ReadString(&payload)
	if err != nil || version != protocol.Version {
		t.Errorf("version = %q (%v)", version, err)
	}
	count, err := protocol.ReadUint(&payload)
	if err != nil || count != 2 {
		t.Errorf("program count = %d (%v), want 2", count, err)
	}
}

func TestRemoteGetState(t *testing.T) {
	r, f, out := newTestRemote(t)
	f.surface.SetTitle("Delay")
	f.surface.SetMix(0.25)

	var empty []byte
	if err := r.handle(protocol.CmdGetState, &empty); err != nil {
		t.Fatal(err)
	}

	cmdID, payload := decodeReply(t, out.Result())
	if cmdID != protocol.CmdStateReply {
		t.Fatalf("reply = 0x%02x, want state reply", cmdID)
	}
	name, _ := protocol.ReadString(&payload)
	bypassed, _ := protocol.ReadUint(&payload)
	mix, _ := protocol.ReadMilli(&payload)
	level, err := protocol.ReadMilli(&payload)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Delay" || bypassed != 1 || mix != 0.25 || level != 1 {
		t.Errorf("state = %q %d %v %v", name, bypassed, mix, level)
	}
}

func TestRemoteSetMixAndLevel(t *testing.T) {
	r, f, _ := newTestRemote(t)

	out := protocol.NewScratchOutput()
	protocol.WriteMilli(out, 0.75)
	data := out.Result()
	if err := r.handle(protocol.CmdSetMix, &data); err != nil {
		t.Fatal(err)
	}
	if f.surface.Mix() != 0.75 {
		t.Errorf("mix = %v, want 0.75", f.surface.Mix())
	}

	out.Reset()
	protocol.WriteMilli(out, 0.5)
	data = out.Result()
	if err := r.handle(protocol.CmdSetLevel, &data); err != nil {
		t.Fatal(err)
	}
	if f.surface.Level() != 0.5 {
		t.Errorf("level = %v, want 0.5", f.surface.Level())
	}
}

func TestRemoteProgramSelection(t *testing.T) {
	r, f, _ := newTestRemote(t, &stubProgram{"delay"}, &stubProgram{"wah"}, &stubProgram{"tuner"})

	out := protocol.NewScratchOutput()
	protocol.WriteString(out, "tuner")
	data := out.Result()
	if err := r.handle(protocol.CmdSetProgram, &data); err != nil {
		t.Fatal(err)
	}
	if !f.list.TakeRequest() {
		t.Fatal("selection did not request a switch")
	}
	if got := f.list.Advance().Name(); got != "tuner" {
		t.Errorf("advanced to %q, want tuner", got)
	}

	out.Reset()
	protocol.WriteString(out, "chorus")
	data = out.Result()
	if err := r.handle(protocol.CmdSetProgram, &data); err != ErrUnknownProgram {
		t.Errorf("err = %v, want ErrUnknownProgram", err)
	}
}

func TestRemoteNextProgram(t *testing.T) {
	r, f, _ := newTestRemote(t, &stubProgram{"delay"}, &stubProgram{"wah"})

	var empty []byte
	if err := r.handle(protocol.CmdNextProgram, &empty); err != nil {
		t.Fatal(err)
	}
	if !f.list.TakeRequest() {
		t.Error("next-program request not recorded")
	}
}

func TestRemoteMonitorStream(t *testing.T) {
	r, f, out := newTestRemote(t)

	enable := protocol.NewScratchOutput()
	protocol.WriteUint(enable, 1)
	data := enable.Result()
	if err := r.handle(protocol.CmdMonitor, &data); err != nil {
		t.Fatal(err)
	}

	f.surface.PublishTone(ToneEstimate{Frequency: 440, Note: 69, Cents: -2.5})
	cmdID, payload := decodeReply(t, out.Result())
	if cmdID != protocol.CmdToneReply {
		t.Fatalf("reply = 0x%02x, want tone reply", cmdID)
	}
	note, _ := protocol.ReadInt(&payload)
	cents, _ := protocol.ReadMilli(&payload)
	freq, err := protocol.ReadInt(&payload)
	if err != nil {
		t.Fatal(err)
	}
	if note != 69 || cents != -2.5 || freq != 440000 {
		t.Errorf("tone = %d %v %d", note, cents, freq)
	}

	// Disable and verify the stream stops.
	out.Reset()
	disable := protocol.NewScratchOutput()
	protocol.WriteUint(disable, 0)
	data = disable.Result()
	if err := r.handle(protocol.CmdMonitor, &data); err != nil {
		t.Fatal(err)
	}
	f.surface.PublishTone(ToneEstimate{Frequency: 440, Note: 69})
	if len(out.Result()) != 0 {
		t.Error("tone streamed after monitor disable")
	}
}

func TestRemoteSettingsTransfer(t *testing.T) {
	r, _, out := newTestRemote(t)

	put := protocol.NewScratchOutput()
	protocol.WriteBytes(put, []byte(`{"global":{"program":"wah"}}`))
	data := put.Result()
	if err := r.handle(protocol.CmdSetSettings, &data); err != nil {
		t.Fatal(err)
	}
	if got := r.settings.GetString("global", "program"); got != "wah" {
		t.Errorf("program setting = %q after transfer", got)
	}

	var empty []byte
	if err := r.handle(protocol.CmdGetSettings, &empty); err != nil {
		t.Fatal(err)
	}
	cmdID, payload := decodeReply(t, out.Result())
	if cmdID != protocol.CmdSettingsReply {
		t.Fatalf("reply = 0x%02x, want settings reply", cmdID)
	}
	doc, err := protocol.ReadBytes(&payload)
	if err != nil {
		t.Fatal(err)
	}
	if string(doc) != `{"global":{"program":"wah"}}` {
		t.Errorf("doc = %s", doc)
	}
}

func TestRemoteUnknownCommand(t *testing.T) {
	r, _, _ := newTestRemote(t)
	var empty []byte
	if err := r.handle(0x7F, &empty); err != ErrUnknownCommand {
		t.Errorf("err = %v, want ErrUnknownCommand", err)
	}
}
