package core

// DebugWriter receives debug log lines.
type DebugWriter func(string)

// debugPrintln is the active debug output hook. Firmware cannot assume a
// stdout exists, so the default is a no-op and platforms redirect it to
// UART, USB or a test log as needed.
var debugPrintln DebugWriter = func(string) {}

// SetDebugWriter installs a platform-specific debug output function.
func SetDebugWriter(w DebugWriter) {
	if w == nil {
		w = func(string) {}
	}
	debugPrintln = w
}

func debugLog(s string) {
	debugPrintln(s)
}
