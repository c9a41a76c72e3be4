package core

// DifferenceState evaluates one axis's cubic x(t) = c0*t + c1*t^2 + c2*t^3
// with third-order forward differences. Seeding uses only shifts and
// adds, the steady state is three additions per tick, so the whole
// evaluator is multiplier-free and its per-tick work is bounded.
//
// The arithmetic is exact: with 32-bit coefficients and segments up to
// 1100 ticks every intermediate fits comfortably in an int64, so the
// incremental value equals direct evaluation at every tick with no
// accumulated drift.
type DifferenceState struct {
	x  int64 // position on the fixed-point lattice, x(0) = 0
	d1 int64 // first difference, seeded to c0 + c1 + c2
	d2 int64 // second difference, seeded to 2*c1 + 6*c2
	d3 int64 // third difference, constant 6*c2
}

// NewDifferenceState seeds the difference chain for a segment.
func NewDifferenceState(c AxisCoeff) DifferenceState {
	c0 := int64(c.C0)
	c1 := int64(c.C1)
	c2 := int64(c.C2)
	sixC2 := (c2 << 2) + (c2 << 1) // 6*c2 without a multiplier
	return DifferenceState{
		d1: c0 + c1 + c2,
		d2: (c1 << 1) + sixC2,
		d3: sixC2,
	}
}

// Advance moves one tick forward and returns the new lattice position.
func (d *DifferenceState) Advance() int64 {
	d.x += d.d1
	d.d1 += d.d2
	d.d2 += d.d3
	return d.x
}

// Position returns the current lattice position without advancing.
func (d *DifferenceState) Position() int64 {
	return d.x
}
