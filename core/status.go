package core

import (
	"sync/atomic"

	"polystep/protocol"
)

// Status register bit layout mirrors the low bits of the protocol status
// word so snapshots are cheap.
const (
	statusErrorMask  = 0x3
	statusRunningBit = 1 << 2
)

// StatusRegister is the single point of truth for the last error and the
// run-enable flag. It is written from both the command and tick contexts,
// so all access goes through one atomic word; there is no wider critical
// section anywhere.
type StatusRegister struct {
	bits uint32
}

// Error returns the current error code without clearing it.
func (s *StatusRegister) Error() protocol.ErrorCode {
	return protocol.ErrorCode(atomic.LoadUint32(&s.bits) & statusErrorMask)
}

// TakeError returns the current error code and atomically clears it.
// STATUS replies read-clear so exactly one reply reports each error.
func (s *StatusRegister) TakeError() protocol.ErrorCode {
	for {
		old := atomic.LoadUint32(&s.bits)
		if atomic.CompareAndSwapUint32(&s.bits, old, old&^uint32(statusErrorMask)) {
			return protocol.ErrorCode(old & statusErrorMask)
		}
	}
}

// SetError records a new error, superseding any previous one.
func (s *StatusRegister) SetError(code protocol.ErrorCode) {
	for {
		old := atomic.LoadUint32(&s.bits)
		next := old&^uint32(statusErrorMask) | uint32(code)&statusErrorMask
		if atomic.CompareAndSwapUint32(&s.bits, old, next) {
			return
		}
	}
}

// ClearError resets the error field to none.
func (s *StatusRegister) ClearError() {
	s.SetError(protocol.ErrorNone)
}

// Running reports the run-enable flag.
func (s *StatusRegister) Running() bool {
	return atomic.LoadUint32(&s.bits)&statusRunningBit != 0
}

// SetRunning sets the run-enable flag. Setting it to its current value
// is a no-op, so START is idempotent.
func (s *StatusRegister) SetRunning(on bool) {
	for {
		old := atomic.LoadUint32(&s.bits)
		next := old &^ uint32(statusRunningBit)
		if on {
			next |= statusRunningBit
		}
		if atomic.CompareAndSwapUint32(&s.bits, old, next) {
			return
		}
	}
}
