package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"

	"zerostomp/host/pedal"
	"zerostomp/host/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", serial.DefaultBaud, "Baud rate (ignored for USB CDC)")
)

// firmwarePrograms mirrors the build order on the device, so MIDI program
// change numbers land on the same slot a footcontroller bank would.
var firmwarePrograms = []string{
	"Delay", "Tremolo", "Wah", "Graphic EQ", "Distortion", "Tuner",
}

// noteNames is rooted at A so MIDI note 21 (A0) lands on index 0, matching
// the tuner display on the pedal.
var noteNames = [12]string{
	"A", "A#/Bb", "B", "C", "C#/Db", "D", "D#/Eb", "E", "F", "F#/Gb", "G", "G#/Ab",
}

func main() {
	flag.Parse()

	fmt.Println("ZeroStomp Host - Pedal Control Link")
	fmt.Println("===================================")
	fmt.Println()

	conn := pedal.New()

	fmt.Printf("Connecting to pedal on %s...\n", *device)
	if err := conn.Connect(*device, *baud); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	id, err := conn.Identify()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to identify: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected: protocol %s, %d programs installed\n", id.Version, id.Programs)

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "status":
			if err := printStatus(conn); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "set":
			if len(args) == 0 {
				fmt.Println("Usage: set <program name>")
				continue
			}
			if err := conn.SetProgram(strings.Join(args, " ")); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "next":
			if err := conn.NextProgram(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "mix":
			if err := sendControl(conn.SetMix, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "level":
			if err := sendControl(conn.SetLevel, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "tune":
			if err := runTuner(conn, scanner); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "settings":
			doc, err := conn.Settings()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Printf("Settings (%d bytes):\n%s\n", len(doc), string(doc))

		case "load":
			if len(args) != 1 {
				fmt.Println("Usage: load <file>")
				continue
			}
			if err := loadSettings(conn, args[0]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "save":
			if len(args) != 1 {
				fmt.Println("Usage: save <file>")
				continue
			}
			if err := saveSettings(conn, args[0]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "midi":
			if len(args) == 0 {
				fmt.Println("Usage: midi <hex bytes>  (e.g. 'midi c003' or 'midi b00b40')")
				continue
			}
			if err := bridgeMIDI(conn, strings.Join(args, "")); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  help            - Show this help message")
	fmt.Println("  status          - Print program, bypass, mix and level")
	fmt.Println("  set <name>      - Switch to a program by name")
	fmt.Println("  next            - Rotate to the next program")
	fmt.Println("  mix <0..1>      - Set the wet/dry mix")
	fmt.Println("  level <0..1>    - Set the master output level")
	fmt.Println("  tune            - Stream tuner readings (Enter stops)")
	fmt.Println("  settings        - Print the pedal's settings document")
	fmt.Println("  load <file>     - Upload a settings document")
	fmt.Println("  save <file>     - Download the settings document to a file")
	fmt.Println("  midi <hex>      - Translate a MIDI message into pedal commands")
	fmt.Println("  quit/exit/q     - Exit the program")
	fmt.Println()
}

func printStatus(conn *pedal.Pedal) error {
	st, err := conn.State()
	if err != nil {
		return err
	}

	bypass := "active"
	if st.Bypassed {
		bypass = "bypassed"
	}
	fmt.Printf("Program: %s (%s)\n", st.Program, bypass)
	fmt.Printf("Mix:     %.2f\n", st.Mix)
	fmt.Printf("Level:   %.2f\n", st.Level)
	return nil
}

func sendControl(send func(float32) error, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one value between 0 and 1")
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[0], err)
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("value %v out of range 0..1", v)
	}
	return send(float32(v))
}

// runTuner streams monitor samples until the user presses Enter.
func runTuner(conn *pedal.Pedal, scanner *bufio.Scanner) error {
	conn.SetToneHandler(func(tone pedal.Tone) {
		idx := (tone.Note - 21) % 12
		if idx < 0 {
			idx += 12
		}
		octave := (tone.Note - 12) / 12
		fmt.Printf("  %s%d  %+.1f cents  %.2f Hz\n",
			noteNames[idx], octave, tone.Cents, tone.Frequency)
	})
	defer conn.SetToneHandler(nil)

	if err := conn.Monitor(true); err != nil {
		return err
	}
	fmt.Println("Tuner running; press Enter to stop.")
	scanner.Scan()
	return conn.Monitor(false)
}

func loadSettings(conn *pedal.Pedal, path string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := conn.PutSettings(doc); err != nil {
		return err
	}
	fmt.Printf("Uploaded %d bytes from %s\n", len(doc), path)
	return nil
}

func saveSettings(conn *pedal.Pedal, path string) error {
	doc, err := conn.Settings()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return err
	}
	fmt.Printf("Saved %d bytes to %s\n", len(doc), path)
	return nil
}

// bridgeMIDI maps one raw MIDI message onto the control link: program
// change selects a program slot, CC 7 drives the level and CC 11 the mix.
func bridgeMIDI(conn *pedal.Pedal, hexBytes string) error {
	raw, err := hex.DecodeString(hexBytes)
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}

	msg := midi.Message(raw)
	var channel, program, controller, value uint8

	switch {
	case msg.GetProgramChange(&channel, &program):
		name := firmwarePrograms[int(program)%len(firmwarePrograms)]
		fmt.Printf("Program change %d -> %s\n", program, name)
		return conn.SetProgram(name)

	case msg.GetControlChange(&channel, &controller, &value):
		switch controller {
		case 7:
			fmt.Printf("CC7 volume %d\n", value)
			return conn.SetLevel(float32(value) / 127)
		case 11:
			fmt.Printf("CC11 expression %d\n", value)
			return conn.SetMix(float32(value) / 127)
		default:
			return fmt.Errorf("unmapped controller %d", controller)
		}

	default:
		return fmt.Errorf("unmapped MIDI message %s", msg)
	}
}
