package core

import "polystep/protocol"

// AxisCoeff holds one axis's cubic trajectory coefficients in fixed-point
// steps per tick: velocity (C0), acceleration (C1) and jerk (C2). The
// axis position over a segment is x(t) = C0*t + C1*t^2 + C2*t^3 with
// x(0) = 0.
type AxisCoeff struct {
	C0 int32
	C1 int32
	C2 int32
}

// MoveInstruction is one fully assembled motion segment. Every
// instruction carries exactly the configured number of axes; Ticks is
// shared by all of them, since the bus layout transmits it once.
type MoveInstruction struct {
	Type  uint8
	Aux   uint16
	Ticks uint32
	Axes  []AxisCoeff
}

// Check validates a completed instruction against the configuration.
func (m MoveInstruction) Check(cfg *Config) protocol.ErrorCode {
	if m.Type != protocol.InstrMove {
		return protocol.ErrorParse
	}
	if m.Ticks < 1 || m.Ticks > cfg.MaxTicks {
		return protocol.ErrorParse
	}
	if len(m.Axes) != cfg.NumAxes {
		return protocol.ErrorParse
	}
	return protocol.ErrorNone
}

// EndOfPath reports whether this segment terminates a logical trajectory:
// full-length segments continue, a shorter one ends the path.
func (m MoveInstruction) EndOfPath(cfg *Config) bool {
	return m.Ticks < cfg.MaxTicks
}

// EncodeWords flattens the instruction into the WRITE word sequence the
// assembler consumes: header, ticks, then c0/c1/c2 per axis.
func (m MoveInstruction) EncodeWords() []uint32 {
	words := make([]uint32, 0, protocol.MoveWords(len(m.Axes)))
	words = append(words, protocol.PackMoveHeader(m.Type, m.Aux))
	words = append(words, m.Ticks)
	for _, ax := range m.Axes {
		words = append(words, uint32(ax.C0), uint32(ax.C1), uint32(ax.C2))
	}
	return words
}
