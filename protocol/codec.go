package protocol

import "encoding/binary"

// WordBytes is the width of one command-bus word.
const WordBytes = 4

// Move header word bit positions. The instruction type occupies bits
// [0:8) and the aux output bits occupy [8:24); bits [24:32) are reserved.
const (
	headerAuxShift = 8
	headerAuxMask  = 0xFFFF
)

// PackMoveHeader packs the instruction type and aux bits into the first
// word of a move instruction.
func PackMoveHeader(instr uint8, aux uint16) uint32 {
	return uint32(instr) | uint32(aux)<<headerAuxShift
}

// UnpackMoveHeader splits a move header word into instruction type and
// aux bits.
func UnpackMoveHeader(w uint32) (instr uint8, aux uint16) {
	return uint8(w), uint16(w >> headerAuxShift & headerAuxMask)
}

// MoveWords returns the number of WRITE words that make up one move
// instruction for the given axis count: a header word, a ticks word and
// three coefficient words per axis.
func MoveWords(numAxes int) int {
	return 2 + 3*numAxes
}

// PutWord serializes a bus word into b using the given byte order.
// The byte order within a word is a bus configuration parameter; the bit
// layout inside a word is fixed.
func PutWord(b []byte, order binary.ByteOrder, w uint32) {
	order.PutUint32(b, w)
}

// Word deserializes a bus word from b using the given byte order.
func Word(b []byte, order binary.ByteOrder) uint32 {
	return order.Uint32(b)
}
