package core

import (
	"math"
	"testing"
)

// polyEval computes c0*t + c1*t^2 + c2*t^3 directly in wide arithmetic.
func polyEval(c AxisCoeff, t int64) int64 {
	return int64(c.C0)*t + int64(c.C1)*t*t + int64(c.C2)*t*t*t
}

func TestDifferenceStateMatchesDirectEvaluation(t *testing.T) {
	coeffs := []int32{0, 1, -1, 7, -13, 1000000, -1000000, math.MaxInt32, math.MinInt32}
	const ticks = DefaultMaxTicks

	for _, c0 := range coeffs {
		for _, c1 := range coeffs {
			for _, c2 := range coeffs {
				c := AxisCoeff{C0: c0, C1: c1, C2: c2}
				d := NewDifferenceState(c)
				for tick := int64(1); tick <= ticks; tick++ {
					got := d.Advance()
					want := polyEval(c, tick)
					if got != want {
						t.Fatalf("coeffs (%d,%d,%d) tick %d: got %d, want %d",
							c0, c1, c2, tick, got, want)
					}
				}
			}
		}
	}
}

func TestDifferenceStateStartsAtZero(t *testing.T) {
	d := NewDifferenceState(AxisCoeff{C0: 42, C1: -7, C2: 3})
	if d.Position() != 0 {
		t.Errorf("x(0) = %d, want 0", d.Position())
	}
}

func TestDifferenceStateLinear(t *testing.T) {
	// Pure velocity: the accumulator advances by c0 every tick.
	d := NewDifferenceState(AxisCoeff{C0: 10})
	for tick := int64(1); tick <= 100; tick++ {
		if got := d.Advance(); got != 10*tick {
			t.Fatalf("tick %d: got %d, want %d", tick, got, 10*tick)
		}
	}
}

func TestDifferenceStateNoDriftOverLongSegment(t *testing.T) {
	// Worst-case magnitudes over a full-length segment must stay exact.
	c := AxisCoeff{C0: math.MinInt32, C1: math.MaxInt32, C2: math.MinInt32}
	d := NewDifferenceState(c)
	var got int64
	for tick := 0; tick < DefaultMaxTicks; tick++ {
		got = d.Advance()
	}
	if want := polyEval(c, DefaultMaxTicks); got != want {
		t.Errorf("final position %d, want %d", got, want)
	}
}
