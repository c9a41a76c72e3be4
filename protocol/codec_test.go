package protocol

import (
	"encoding/binary"
	"testing"
)

func TestMoveHeaderRoundTrip(t *testing.T) {
	testCases := []struct {
		instr uint8
		aux   uint16
	}{
		{InstrMove, 0},
		{InstrMove, 0xFFFF},
		{0x7F, 0x00FF},
		{0, 0xA5A5},
	}

	for _, tc := range testCases {
		w := PackMoveHeader(tc.instr, tc.aux)
		instr, aux := UnpackMoveHeader(w)
		if instr != tc.instr || aux != tc.aux {
			t.Errorf("Round trip of (%#x, %#x) gave (%#x, %#x)",
				tc.instr, tc.aux, instr, aux)
		}
	}
}

func TestMoveHeaderReservedBitsZero(t *testing.T) {
	w := PackMoveHeader(InstrMove, 0xFFFF)
	if w>>24 != 0 {
		t.Errorf("Reserved header bits not zero: %#08x", w)
	}
}

func TestMoveWords(t *testing.T) {
	// Header word, ticks word, three coefficients per axis.
	if n := MoveWords(1); n != 5 {
		t.Errorf("MoveWords(1) = %d, want 5", n)
	}
	if n := MoveWords(3); n != 11 {
		t.Errorf("MoveWords(3) = %d, want 11", n)
	}
}

func TestWordByteOrder(t *testing.T) {
	var buf [WordBytes]byte

	PutWord(buf[:], binary.LittleEndian, 0x01020304)
	if buf != [4]byte{0x04, 0x03, 0x02, 0x01} {
		t.Errorf("Little endian bytes: %v", buf)
	}
	if Word(buf[:], binary.LittleEndian) != 0x01020304 {
		t.Errorf("Little endian decode mismatch")
	}

	PutWord(buf[:], binary.BigEndian, 0x01020304)
	if buf != [4]byte{0x01, 0x02, 0x03, 0x04} {
		t.Errorf("Big endian bytes: %v", buf)
	}
	if Word(buf[:], binary.BigEndian) != 0x01020304 {
		t.Errorf("Big endian decode mismatch")
	}
}
