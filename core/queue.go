package core

import "sync/atomic"

// InstructionQueue is the bounded FIFO between the command context and
// the tick context. It is a single-producer/single-consumer ring: the
// assembler is the only pusher and the executor the only popper, so the
// two atomic indices are enough to make both sides non-blocking and
// linearizable. One slot is reserved to tell full from empty.
type InstructionQueue struct {
	slots []MoveInstruction
	head  uint32 // consumer index, advanced by TryPop
	tail  uint32 // producer index, advanced by TryPush
}

// NewInstructionQueue creates a queue holding up to depth instructions.
func NewInstructionQueue(depth int) *InstructionQueue {
	return &InstructionQueue{slots: make([]MoveInstruction, depth+1)}
}

// TryPush appends an instruction. It returns false, leaving the queue
// untouched, when the queue is full.
func (q *InstructionQueue) TryPush(instr MoveInstruction) bool {
	tail := atomic.LoadUint32(&q.tail)
	next := (tail + 1) % uint32(len(q.slots))
	if next == atomic.LoadUint32(&q.head) {
		return false
	}
	q.slots[tail] = instr
	atomic.StoreUint32(&q.tail, next) // publishes the slot write
	return true
}

// TryPop removes the oldest instruction. ok is false when the queue is
// empty.
func (q *InstructionQueue) TryPop() (instr MoveInstruction, ok bool) {
	head := atomic.LoadUint32(&q.head)
	if head == atomic.LoadUint32(&q.tail) {
		return MoveInstruction{}, false
	}
	instr = q.slots[head]
	q.slots[head] = MoveInstruction{} // drop the slot's slice reference
	atomic.StoreUint32(&q.head, (head+1)%uint32(len(q.slots)))
	return instr, true
}

// Len returns the number of queued instructions.
func (q *InstructionQueue) Len() int {
	head := atomic.LoadUint32(&q.head)
	tail := atomic.LoadUint32(&q.tail)
	if tail >= head {
		return int(tail - head)
	}
	return len(q.slots) - int(head) + int(tail)
}

// Cap returns the queue capacity.
func (q *InstructionQueue) Cap() int {
	return len(q.slots) - 1
}

// IsFull reports whether a push would be rejected.
func (q *InstructionQueue) IsFull() bool {
	return q.Len() == q.Cap()
}

// Reset empties the queue. Only safe while neither context is active.
func (q *InstructionQueue) Reset() {
	for i := range q.slots {
		q.slots[i] = MoveInstruction{}
	}
	atomic.StoreUint32(&q.head, 0)
	atomic.StoreUint32(&q.tail, 0)
}
