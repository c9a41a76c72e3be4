// Package serial abstracts the serial link carrying the command bus.
package serial

import (
	"io"
)

// Port represents a serial port. The abstraction keeps the bus client
// independent of the underlying implementation: native serial, a USB CDC
// device node or an in-memory loopback in tests.
type Port interface {
	io.ReadWriteCloser

	// Flush pushes any buffered data to the wire.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3").
	Device string

	// Baud rate. USB CDC links ignore this.
	Baud int

	// Read timeout in milliseconds (0 = blocking).
	ReadTimeout int
}

// DefaultConfig returns the standard link settings for a polystep board.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
