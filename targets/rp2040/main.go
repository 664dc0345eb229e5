//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"zerostomp/core"
	"zerostomp/dsp"
	"zerostomp/programs"
	"zerostomp/protocol"
)

var (
	// Buffers for the control link
	inputBuffer  *protocol.FifoBuffer
	outputBuffer *protocol.ScratchOutput
	remote       *core.RemoteControl

	// Debug counters
	messagesReceived uint32
	msgerrors        uint32

	// USB connection state tracking
	usbWasDisconnected       bool
	consecutiveWriteFailures uint32
)

func main() {
	// Disable the watchdog on boot to clear any previous state.
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitUSB()

	pixel := NewStatusPixel()
	pixel.SetColor(core.PixelBoot[0], core.PixelBoot[1], core.PixelBoot[2])

	// Display before everything else, so faults have somewhere to land.
	display, err := NewPanel()
	if err != nil {
		fatalBare(pixel, "display: "+err.Error())
	}
	pixel.SetColor(core.PixelDisplay[0], core.PixelDisplay[1], core.PixelDisplay[2])

	// Analog controls, stomp switch and LED.
	adc := NewPotDriver()
	pots := make([]core.AnalogChannel, numPots)
	for i := range pots {
		pots[i], err = core.NewAnalogChannel(adc, core.ADCChannel(i))
		if err != nil {
			fatal(pixel, display, "adc: "+err.Error())
		}
	}
	expression, err := core.NewAnalogChannel(adc, core.ADCChannel(numPots))
	if err != nil {
		fatal(pixel, display, "adc: "+err.Error())
	}
	stomp := NewStompSwitch()
	led, err := NewStompLED()
	if err != nil {
		fatal(pixel, display, "led: "+err.Error())
	}
	pixel.SetColor(core.PixelInput[0], core.PixelInput[1], core.PixelInput[2])

	InitMIDI()
	pixel.SetColor(core.PixelMIDI[0], core.PixelMIDI[1], core.PixelMIDI[2])

	// Codec and the effects co-processor.
	codec, err := NewCodec()
	if err != nil {
		fatal(pixel, display, "codec: "+err.Error())
	}
	engine, err := NewEffectsEngine()
	if err != nil {
		fatal(pixel, display, "engine: "+err.Error())
	}
	pixel.SetColor(core.PixelCodec[0], core.PixelCodec[1], core.PixelCodec[2])

	// Settings, programs and the control surface.
	settings := core.LoadSettings(NewFlashStore())
	list, err := core.NewProgramList(settings, programs.All(core.PitchConfig{
		SampleRate:        sampleRate,
		FrameLength:       engine.FrameLength(),
		CalibrationOffset: pitchCalibrationOffset,
	})...)
	if err != nil {
		fatal(pixel, display, "programs: "+err.Error())
	}

	surface, err := core.NewControlSurface(core.SurfaceConfig{
		Pots:       pots,
		Expression: expression,
		Switch:     stomp,
		LED:        led,
		Pixel:      pixel,
		Display:    display,
		Codec:      codec,
		Capture:    engine,
		Programs:   list,
	})
	if err != nil {
		fatal(pixel, display, "surface: "+err.Error())
	}

	// Control link over USB CDC.
	inputBuffer = protocol.NewFifoBuffer(256)
	outputBuffer = protocol.NewScratchOutput()
	remote = core.NewRemoteControl(outputBuffer, surface, settings)
	// The host's serial queue expects the ack before any response frame.
	remote.Transport().SetFlushCallback(writeUSB)
	go usbReaderLoop()

	program := list.Current()
	if err := loadProgram(surface, engine, program); err != nil {
		fatal(pixel, display, program.Name()+": "+err.Error())
	}
	surface.SetPixel(core.PixelReady[0], core.PixelReady[1], core.PixelReady[2])

	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					inputBuffer.Reset()
					outputBuffer.Reset()
				}
			}()

			if surface.Programs().TakeRequest() {
				program = surface.Programs().Advance()
				if err := loadProgram(surface, engine, program); err != nil {
					fatal(pixel, display, program.Name()+": "+err.Error())
				}
			}

			surface.Update()
			program.Tick(surface)
			display.Render()

			if inputBuffer.Available() > 0 {
				data := inputBuffer.Data()
				originalLen := len(data)
				inputBuf := protocol.NewSliceInputBuffer(data)

				remote.Transport().Receive(inputBuf)
				messagesReceived++

				consumed := originalLen - inputBuf.Available()
				if consumed > 0 {
					inputBuffer.Pop(consumed)
				}
			}

			writeUSB()
		}()

		time.Sleep(time.Millisecond)
	}
}

// loadProgram tears down the audio graph and rebuilds it for p.
func loadProgram(surface *core.ControlSurface, engine dsp.Engine, p core.Program) error {
	engine.Reset()
	surface.BeginProgram(p.Name())
	return p.Setup(surface, engine)
}

// fatal parks the firmware in safe mode: fault color, the fault on the
// display, USB left alone so the fault is inspectable over the link.
func fatal(pixel *StatusPixel, display *Panel, msg string) {
	pixel.SetColor(core.PixelFault[0], core.PixelFault[1], core.PixelFault[2])
	display.ShowFault(msg)
	for {
		time.Sleep(time.Second)
	}
}

// fatalBare is the fault path for failures before the display exists.
func fatalBare(pixel *StatusPixel, msg string) {
	core.Debugf(msg)
	pixel.SetColor(core.PixelFault[0], core.PixelFault[1], core.PixelFault[2])
	for {
		time.Sleep(time.Second)
	}
}

// usbReaderLoop runs in a goroutine to continuously read USB data
func usbReaderLoop() {
	defer func() {
		if r := recover(); r != nil {
			msgerrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop()
		}
	}()

	for {
		if USBAvailable() > 0 {
			data, err := USBRead()
			if err != nil {
				msgerrors++
				time.Sleep(time.Millisecond)
				continue
			}

			// First byte after a disconnect: reset for a fresh connection.
			if usbWasDisconnected {
				usbWasDisconnected = false
				inputBuffer.Reset()
				outputBuffer.Reset()
				remote.Transport().Reset()
				messagesReceived = 0
				consecutiveWriteFailures = 0
			}

			if inputBuffer.Write([]byte{data}) == 0 {
				msgerrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// writeUSB writes available data from the output buffer to USB
func writeUSB() {
	result := outputBuffer.Result()
	if len(result) == 0 {
		return
	}

	written := 0
	for written < len(result) {
		n, err := USBWriteBytes(result[written:])
		if err != nil || n == 0 {
			consecutiveWriteFailures++
			// After several failures, assume a disconnect and drop the
			// stale frames instead of replaying them at the next host.
			if consecutiveWriteFailures > 10 {
				usbWasDisconnected = true
				consecutiveWriteFailures = 0
				outputBuffer.Reset()
				inputBuffer.Reset()
			}
			return
		}
		written += n
	}
	consecutiveWriteFailures = 0
	outputBuffer.Reset()
}
