package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (set by target code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool
)

// SetDebugWriter sets the platform-specific debug output function.
// This allows targets to redirect debug output to UART, USB CDC, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled toggles debug output at runtime.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// Debugf writes a debug message when debug output is enabled.
func Debugf(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}
