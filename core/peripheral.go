package core

import "polystep/protocol"

// Peripheral owns the complete controller state: status register,
// instruction queue, assembler, dispatcher and executor. Nothing is
// package-global; the two execution contexts meet only at the queue and
// the status register.
//
// Two entry points mirror the two contexts: Dispatch is called from the
// command context whenever the bus delivers a command, and Tick is
// called from the tick context once per oscillator period. Neither ever
// blocks on the other.
type Peripheral struct {
	cfg    Config
	status *StatusRegister
	queue  *InstructionQueue
	asm    *Assembler
	disp   *Dispatcher
	exec   *Executor
}

// NewPeripheral builds a peripheral from a configuration, filling
// defaults first. A nil sink discards all executor output.
func NewPeripheral(cfg Config, sink StepSink) (*Peripheral, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NullSink{}
	}

	p := &Peripheral{cfg: cfg, status: &StatusRegister{}}
	p.queue = NewInstructionQueue(cfg.QueueDepth)
	p.asm = NewAssembler(&p.cfg, p.queue, p.status)
	p.disp = NewDispatcher(p.status, p.queue, p.asm)
	p.exec = NewExecutor(&p.cfg, p.queue, p.status, sink)
	return p, nil
}

// Dispatch handles one bus command and returns the status-word reply.
func (p *Peripheral) Dispatch(cmd byte, word uint32) protocol.StatusWord {
	return p.disp.Dispatch(cmd, word)
}

// Tick advances the trajectory executor by one oscillator period.
func (p *Peripheral) Tick() {
	p.exec.Tick()
}

// BindTransport creates a bus transport whose commands are dispatched by
// this peripheral. The caller owns pumping bytes between the wire and
// the transport's buffers.
func (p *Peripheral) BindTransport(out protocol.OutputBuffer) *protocol.Transport {
	return protocol.NewTransport(out, p.cfg.ByteOrder, p.Dispatch)
}

// Config returns a copy of the effective configuration.
func (p *Peripheral) Config() Config {
	return p.cfg
}

// Executor exposes the trajectory executor, mainly for integration and
// target code that reads positions.
func (p *Peripheral) Executor() *Executor {
	return p.exec
}

// QueueLen returns the number of buffered instructions.
func (p *Peripheral) QueueLen() int {
	return p.queue.Len()
}
