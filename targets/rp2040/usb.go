//go:build rp2040

package main

import (
	"machine"
)

// InitUSB configures the USB CDC serial port. On the RP2040,
// machine.Serial is USB CDC and the descriptors come from the TinyGo
// runtime.
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// USBAvailable returns the number of buffered bytes from the host.
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte.
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// USBWriteBytes writes data to the host, returning the count written.
func USBWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
