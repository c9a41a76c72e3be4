package core

// AxisStep is one axis's share of a tick frame.
type AxisStep struct {
	// Delta is the whole-step movement this tick. Under the Nyquist
	// precondition it is -1, 0 or +1; the executor does not clamp
	// instructions that violate it.
	Delta int32

	// Step is the pulse decision for this tick.
	Step bool

	// Dir is the direction output, true for positive. It latches the
	// sign of the last movement and holds between steps.
	Dir bool
}

// StepSink receives the executor's output once per oscillator tick. The
// sink is expected to sample every tick; the executor never blocks on it.
type StepSink interface {
	EmitTick(steps []AxisStep, aux uint16)
}

// NullSink discards all output.
type NullSink struct{}

func (NullSink) EmitTick([]AxisStep, uint16) {}

// Executor consumes the instruction queue one tick at a time. It owns
// all per-axis difference state exclusively; the queue and the status
// register are its only shared structures.
type Executor struct {
	cfg    *Config
	queue  *InstructionQueue
	status *StatusRegister
	sink   StepSink

	active  bool
	current MoveInstruction
	elapsed uint32

	diff    []DifferenceState
	lastPos []int64 // whole-step position per axis within the segment
	totals  []int64 // net whole steps per axis across all segments
	dirs    []bool
	frame   []AxisStep // reused every tick, no per-tick allocation
}

// NewExecutor creates an executor draining queue into sink.
func NewExecutor(cfg *Config, queue *InstructionQueue, status *StatusRegister, sink StepSink) *Executor {
	return &Executor{
		cfg:     cfg,
		queue:   queue,
		status:  status,
		sink:    sink,
		diff:    make([]DifferenceState, cfg.NumAxes),
		lastPos: make([]int64, cfg.NumAxes),
		totals:  make([]int64, cfg.NumAxes),
		dirs:    make([]bool, cfg.NumAxes),
		frame:   make([]AxisStep, cfg.NumAxes),
	}
}

// Tick advances the executor by one oscillator period. While the run
// flag is clear nothing is consumed and the in-flight segment is
// preserved, so START resumes from the exact tick STOP paused at.
func (e *Executor) Tick() {
	if !e.status.Running() {
		return
	}

	if !e.active {
		instr, ok := e.queue.TryPop()
		if !ok {
			e.idleTick()
			return
		}
		e.load(instr)
	}
	e.advance()
}

// load initializes per-axis difference state for a dequeued segment.
func (e *Executor) load(instr MoveInstruction) {
	e.current = instr
	e.elapsed = 0
	e.active = true
	for i := range e.diff {
		e.diff[i] = NewDifferenceState(instr.Axes[i])
		e.lastPos[i] = 0
	}
}

// advance produces one tick of output from the current segment.
func (e *Executor) advance() {
	shift := e.cfg.StepShift
	for i := range e.diff {
		pos := e.diff[i].Advance() >> shift
		delta := pos - e.lastPos[i]
		e.lastPos[i] = pos
		e.totals[i] += delta

		if delta > 0 {
			e.dirs[i] = true
		} else if delta < 0 {
			e.dirs[i] = false
		}
		e.frame[i] = AxisStep{Delta: int32(delta), Step: delta != 0, Dir: e.dirs[i]}
	}

	e.elapsed++
	if e.elapsed == e.current.Ticks {
		// Segment done; the next tick pops a fresh instruction.
		e.active = false
	}
	e.sink.EmitTick(e.frame, e.current.Aux)
}

// idleTick emits a quiet frame: no steps, aux cleared.
func (e *Executor) idleTick() {
	for i := range e.frame {
		e.frame[i] = AxisStep{Dir: e.dirs[i]}
	}
	e.sink.EmitTick(e.frame, 0)
}

// Active reports whether a segment is in flight.
func (e *Executor) Active() bool {
	return e.active
}

// Elapsed returns the tick count within the current segment.
func (e *Executor) Elapsed() uint32 {
	return e.elapsed
}

// TotalSteps returns the net whole-step displacement of an axis since
// the peripheral started.
func (e *Executor) TotalSteps(axis int) int64 {
	return e.totals[axis]
}

// Current returns the in-flight instruction; meaningful only while
// Active reports true.
func (e *Executor) Current() MoveInstruction {
	return e.current
}
