package core

import "polystep/protocol"

// Assembly phases follow the fixed field order on the bus: the header
// word (instruction type + aux), the ticks word, then three coefficient
// words per axis.
type assemblyPhase uint8

const (
	phaseHeader assemblyPhase = iota
	phaseTicks
	phaseCoeffs
)

// Assembler reassembles move instructions from the WRITE word stream.
// It lives entirely in the command context; the only thing it shares
// with the tick context is the queue it pushes into.
type Assembler struct {
	cfg    *Config
	queue  *InstructionQueue
	status *StatusRegister

	phase   assemblyPhase
	pending MoveInstruction
	axis    int
	coeff   int
}

// NewAssembler creates an assembler feeding the given queue.
func NewAssembler(cfg *Config, queue *InstructionQueue, status *StatusRegister) *Assembler {
	return &Assembler{cfg: cfg, queue: queue, status: status}
}

// Feed consumes one WRITE word. Mid-sequence words always supply the
// next expected field; there is no out-of-band abort other than Reset
// (driven by STOP). A successfully consumed word clears any stale error.
func (a *Assembler) Feed(word uint32) {
	switch a.phase {
	case phaseHeader:
		instr, aux := protocol.UnpackMoveHeader(word)
		a.pending = MoveInstruction{
			Type: instr,
			Aux:  aux,
			Axes: make([]AxisCoeff, a.cfg.NumAxes),
		}
		a.phase = phaseTicks

	case phaseTicks:
		a.pending.Ticks = word
		a.phase = phaseCoeffs
		a.axis = 0
		a.coeff = 0

	case phaseCoeffs:
		ax := &a.pending.Axes[a.axis]
		switch a.coeff {
		case 0:
			ax.C0 = int32(word)
		case 1:
			ax.C1 = int32(word)
		case 2:
			ax.C2 = int32(word)
		}
		a.coeff++
		if a.coeff == 3 {
			a.coeff = 0
			a.axis++
			if a.axis == a.cfg.NumAxes {
				a.complete()
				return
			}
		}
	}
	a.status.ClearError()
}

// complete validates the assembled instruction and hands it to the
// queue. Both failure paths discard the instruction whole; the sender
// must resend it from the header word.
func (a *Assembler) complete() {
	defer a.Reset()

	if code := a.pending.Check(a.cfg); code != protocol.ErrorNone {
		debugLog("assembler: rejected instruction: " + code.String())
		a.status.SetError(code)
		return
	}
	if !a.queue.TryPush(a.pending) {
		debugLog("assembler: queue full, instruction dropped")
		a.status.SetError(protocol.ErrorBufferFull)
		return
	}
	a.status.ClearError()
}

// InFlight reports whether a WRITE sequence is partially assembled.
func (a *Assembler) InFlight() bool {
	return a.phase != phaseHeader
}

// Reset discards any partial instruction and returns to the initial
// state. STOP routes here so an in-flight sequence is abandoned, never
// partially applied.
func (a *Assembler) Reset() {
	a.phase = phaseHeader
	a.pending = MoveInstruction{}
	a.axis = 0
	a.coeff = 0
}
