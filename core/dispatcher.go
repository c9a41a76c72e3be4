package core

import "polystep/protocol"

// Dispatcher is the top-level protocol state machine: it routes each
// (command, word) pair from the bus and composes the status-word reply.
// It runs entirely in the command context.
type Dispatcher struct {
	status *StatusRegister
	queue  *InstructionQueue
	asm    *Assembler
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(status *StatusRegister, queue *InstructionQueue, asm *Assembler) *Dispatcher {
	return &Dispatcher{status: status, queue: queue, asm: asm}
}

// Dispatch handles one command and returns the reply word. Queue depth
// and fullness are sampled live at reply time rather than mirrored into
// the status register, so the tick context never has to write them.
func (d *Dispatcher) Dispatch(cmd byte, word uint32) protocol.StatusWord {
	switch cmd {
	case protocol.CmdStatus:
		// Read-clears the error: exactly one STATUS reply reports it.
		err := d.status.TakeError()
		return d.compose(err)

	case protocol.CmdStart:
		d.status.ClearError()
		d.status.SetRunning(true)

	case protocol.CmdStop:
		d.status.SetRunning(false)
		d.asm.Reset()

	case protocol.CmdWrite:
		d.asm.Feed(word)

	default:
		debugLog("dispatcher: unknown command byte")
		d.status.SetError(protocol.ErrorParse)
	}
	return d.compose(d.status.Error())
}

func (d *Dispatcher) compose(err protocol.ErrorCode) protocol.StatusWord {
	return protocol.MakeStatus(err, d.status.Running(), d.queue.IsFull(), d.queue.Len())
}
