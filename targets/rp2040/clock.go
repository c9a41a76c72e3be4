//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040 timer peripheral memory map. The chip carries a 64-bit
// microsecond counter at 1MHz.
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08
	timerTIMERAWL = timerBase + 0x0C
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// microseconds reads the low 32 bits of the hardware timer. Wraps
// every ~71 minutes; callers compare with unsigned subtraction.
func microseconds() uint32 {
	return timerRAWL.Get()
}

// uptimeMicros reads the full 64-bit hardware timer.
func uptimeMicros() uint64 {
	// Read high, low, high again to detect rollover during the read.
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}
