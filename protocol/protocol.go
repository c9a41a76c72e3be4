// Package protocol implements the polystep command-bus protocol.
//
// The host drives the peripheral with an 8-bit command optionally followed
// by one 32-bit word. Every command is answered with a 32-bit status word.
// Move instructions are streamed as a fixed sequence of WRITE words and
// reassembled on the peripheral side.
package protocol

// Version of the polystep protocol.
const Version = "0.1.0"

// Command bytes accepted by the peripheral.
const (
	CmdStatus byte = 0x01 // query status, no payload
	CmdStart  byte = 0x02 // enable execution
	CmdStop   byte = 0x03 // pause execution, abandon partial writes
	CmdWrite  byte = 0x04 // one 32-bit instruction word follows
)

// Instruction types carried in the header word of a move instruction.
// Only MOVE is recognized today; the remaining space is reserved.
const (
	InstrMove uint8 = 0x01
)

// ErrorCode is the 2-bit error field of the status word.
type ErrorCode uint8

const (
	ErrorNone       ErrorCode = 0
	ErrorParse      ErrorCode = 1 // malformed instruction or unknown command
	ErrorBufferFull ErrorCode = 2 // instruction queue rejected a push
)

func (e ErrorCode) String() string {
	switch e {
	case ErrorNone:
		return "none"
	case ErrorParse:
		return "parse error"
	case ErrorBufferFull:
		return "buffer full"
	}
	return "unknown"
}

// Status word bit layout.
const (
	statusErrorMask  = 0x3 // bits 0-1: error code
	statusRunningBit = 1 << 2
	statusFullBit    = 1 << 3
	statusDepthShift = 8 // bits 8-15: queue depth
	statusDepthMask  = 0xFF
)

// StatusWord is the packed 32-bit reply sent for every command.
// Bits 0-1 hold the error code, bit 2 the running flag, bit 3 the
// queue-full flag and bits 8-15 the current queue depth. Remaining bits
// are reserved and read as zero.
type StatusWord uint32

// MakeStatus packs the status fields into a StatusWord.
func MakeStatus(err ErrorCode, running, full bool, depth int) StatusWord {
	w := StatusWord(err) & statusErrorMask
	if running {
		w |= statusRunningBit
	}
	if full {
		w |= statusFullBit
	}
	if depth < 0 {
		depth = 0
	}
	if depth > statusDepthMask {
		depth = statusDepthMask
	}
	w |= StatusWord(depth) << statusDepthShift
	return w
}

// Error returns the error field.
func (w StatusWord) Error() ErrorCode {
	return ErrorCode(w & statusErrorMask)
}

// Running reports whether the run-enable flag is set.
func (w StatusWord) Running() bool {
	return w&statusRunningBit != 0
}

// QueueFull reports whether the instruction queue was full when the
// status word was composed.
func (w StatusWord) QueueFull() bool {
	return w&statusFullBit != 0
}

// QueueDepth returns the queue depth field.
func (w StatusWord) QueueDepth() int {
	return int(w>>statusDepthShift) & statusDepthMask
}
