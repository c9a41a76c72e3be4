package core

import (
	"testing"

	"polystep/protocol"
)

func newTestDispatcher(t *testing.T, numAxes, depth int) (*Dispatcher, *InstructionQueue, *StatusRegister) {
	t.Helper()
	asm, queue, status := newTestAssembler(t, numAxes, depth)
	return NewDispatcher(status, queue, asm), queue, status
}

func writeInstruction(d *Dispatcher, instr MoveInstruction) protocol.StatusWord {
	var sw protocol.StatusWord
	for _, w := range instr.EncodeWords() {
		sw = d.Dispatch(protocol.CmdWrite, w)
	}
	return sw
}

func validMove(aux uint16) MoveInstruction {
	return MoveInstruction{
		Type:  protocol.InstrMove,
		Aux:   aux,
		Ticks: 100,
		Axes:  []AxisCoeff{{C0: 10}},
	}
}

func TestDispatcherStartStop(t *testing.T) {
	d, _, status := newTestDispatcher(t, 1, 4)

	sw := d.Dispatch(protocol.CmdStart, 0)
	if !sw.Running() {
		t.Error("START reply does not report running")
	}
	if !status.Running() {
		t.Error("Run flag not set")
	}

	// START is idempotent.
	sw = d.Dispatch(protocol.CmdStart, 0)
	if !sw.Running() {
		t.Error("Repeated START cleared the run flag")
	}

	sw = d.Dispatch(protocol.CmdStop, 0)
	if sw.Running() {
		t.Error("STOP reply still reports running")
	}
}

func TestDispatcherStatusReadClearsError(t *testing.T) {
	d, _, status := newTestDispatcher(t, 1, 4)

	status.SetError(protocol.ErrorParse)

	sw := d.Dispatch(protocol.CmdStatus, 0)
	if sw.Error() != protocol.ErrorParse {
		t.Errorf("First STATUS error = %v, want ErrorParse", sw.Error())
	}

	sw = d.Dispatch(protocol.CmdStatus, 0)
	if sw.Error() != protocol.ErrorNone {
		t.Errorf("Second STATUS error = %v, want none", sw.Error())
	}
}

func TestDispatcherUnknownCommand(t *testing.T) {
	d, queue, _ := newTestDispatcher(t, 1, 4)

	sw := d.Dispatch(0x7E, 0)
	if sw.Error() != protocol.ErrorParse {
		t.Errorf("Unknown command error = %v, want ErrorParse", sw.Error())
	}
	if sw.Running() {
		t.Error("Unknown command changed run state")
	}
	if queue.Len() != 0 {
		t.Error("Unknown command changed the queue")
	}
}

func TestDispatcherWriteReportsQueueState(t *testing.T) {
	d, _, _ := newTestDispatcher(t, 1, 2)

	sw := writeInstruction(d, validMove(1))
	if sw.Error() != protocol.ErrorNone || sw.QueueDepth() != 1 {
		t.Errorf("First instruction reply: err=%v depth=%d", sw.Error(), sw.QueueDepth())
	}

	sw = writeInstruction(d, validMove(2))
	if !sw.QueueFull() || sw.QueueDepth() != 2 {
		t.Errorf("Second instruction reply: full=%v depth=%d", sw.QueueFull(), sw.QueueDepth())
	}

	sw = writeInstruction(d, validMove(3))
	if sw.Error() != protocol.ErrorBufferFull {
		t.Errorf("Overflow reply error = %v, want ErrorBufferFull", sw.Error())
	}
}

func TestDispatcherStopDiscardsPartialWrite(t *testing.T) {
	d, queue, _ := newTestDispatcher(t, 1, 4)

	words := validMove(0).EncodeWords()
	d.Dispatch(protocol.CmdWrite, words[0])
	d.Dispatch(protocol.CmdWrite, words[1])

	d.Dispatch(protocol.CmdStop, 0)

	// The abandoned sequence must not leak into the next one: a full
	// fresh sequence assembles exactly one instruction.
	sw := writeInstruction(d, validMove(9))
	if sw.Error() != protocol.ErrorNone {
		t.Fatalf("Fresh sequence after STOP failed: %v", sw.Error())
	}
	if queue.Len() != 1 {
		t.Errorf("Queue length = %d, want 1", queue.Len())
	}
	out, _ := queue.TryPop()
	if out.Aux != 9 {
		t.Errorf("Wrong instruction queued: aux=%d", out.Aux)
	}
}

func TestDispatcherOrderUnaffectedByControlTraffic(t *testing.T) {
	d, queue, _ := newTestDispatcher(t, 1, 8)

	// Interleave control commands with instruction words.
	for i := 1; i <= 3; i++ {
		words := validMove(uint16(i)).EncodeWords()
		for j, w := range words {
			if j == 2 {
				d.Dispatch(protocol.CmdStatus, 0)
			}
			d.Dispatch(protocol.CmdWrite, w)
		}
		d.Dispatch(protocol.CmdStart, 0)
	}

	for i := 1; i <= 3; i++ {
		out, ok := queue.TryPop()
		if !ok || out.Aux != uint16(i) {
			t.Fatalf("Dequeue %d: ok=%v aux=%d", i, ok, out.Aux)
		}
	}
}
