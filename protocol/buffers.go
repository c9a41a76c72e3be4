package protocol

// InputBuffer is the read side of a bus byte stream.
type InputBuffer interface {
	// Data returns the bytes currently buffered, oldest first.
	Data() []byte

	// Available returns the number of buffered bytes.
	Available() int

	// Pop discards n bytes from the front of the buffer.
	Pop(n int)
}

// OutputBuffer is the write side of a bus byte stream.
type OutputBuffer interface {
	// Output appends data to the buffer.
	Output(data []byte)

	// CurPosition returns the current write position.
	CurPosition() int

	// Update overwrites the byte at an earlier position.
	Update(pos int, val byte)

	// DataSince returns the bytes written since pos.
	DataSince(pos int) []byte
}

// SliceInput is an InputBuffer over a fixed byte slice, mainly for tests.
type SliceInput struct {
	data []byte
}

// NewSliceInput wraps data in a SliceInput.
func NewSliceInput(data []byte) *SliceInput {
	return &SliceInput{data: data}
}

func (s *SliceInput) Data() []byte   { return s.data }
func (s *SliceInput) Available() int { return len(s.data) }

func (s *SliceInput) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// ScratchOutput is a fixed-capacity OutputBuffer used to stage outgoing
// frames before they are flushed to the bus transport.
type ScratchOutput struct {
	buf [OutputMax]byte
	pos int
}

// NewScratchOutput returns an empty ScratchOutput.
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int { return s.pos }

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos < len(s.buf) {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns everything written so far.
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset discards all buffered output.
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// ByteFifo is a circular buffer between the raw bus transport and the
// frame scanner. One slot is reserved to distinguish full from empty.
type ByteFifo struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewByteFifo creates a ByteFifo holding up to capacity-1 bytes.
func NewByteFifo(capacity int) *ByteFifo {
	return &ByteFifo{buf: make([]byte, capacity), size: capacity}
}

// Write appends data, returning how many bytes fit.
func (f *ByteFifo) Write(data []byte) int {
	written := 0
	for _, b := range data {
		next := (f.write + 1) % f.size
		if next == f.read {
			break
		}
		f.buf[f.write] = b
		f.write = next
		written++
	}
	return written
}

// Read copies up to len(data) bytes out of the FIFO.
func (f *ByteFifo) Read(data []byte) int {
	read := 0
	for i := range data {
		if f.read == f.write {
			break
		}
		data[i] = f.buf[f.read]
		f.read = (f.read + 1) % f.size
		read++
	}
	return read
}

// Available returns the number of buffered bytes.
func (f *ByteFifo) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the remaining write capacity.
func (f *ByteFifo) Free() int {
	return f.size - f.Available() - 1
}

// Data returns the buffered bytes as a contiguous slice. The wrapped case
// copies; frame scanning needs contiguous data.
func (f *ByteFifo) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	result := make([]byte, f.Available())
	n := copy(result, f.buf[f.read:])
	copy(result[n:], f.buf[:f.write])
	return result
}

// Pop discards n bytes from the front.
func (f *ByteFifo) Pop(n int) {
	for i := 0; i < n && f.read != f.write; i++ {
		f.read = (f.read + 1) % f.size
	}
}

// IsEmpty reports whether the FIFO holds no data.
func (f *ByteFifo) IsEmpty() bool {
	return f.read == f.write
}

// Reset discards all buffered data.
func (f *ByteFifo) Reset() {
	f.read = 0
	f.write = 0
}
