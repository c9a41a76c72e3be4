package host

import (
	"errors"
	"math"

	"polystep/core"
)

var ErrCoeffOverflow = errors.New("rebased coefficient exceeds 32 bits")

// SplitMove cuts a trajectory longer than maxTicks into successive
// segments the peripheral will accept: full-length segments followed by
// a shorter final one. Each segment's coefficients are rebased so its
// local polynomial continues the original exactly:
//
//	x(s+u) - x(s) = (c0 + 2*c1*s + 3*c2*s^2)*u + (c1 + 3*c2*s)*u^2 + c2*u^3
//
// The rebasing is exact integer arithmetic; if a rebased coefficient no
// longer fits in 32 bits the trajectory must be re-planned by the caller.
func SplitMove(instr core.MoveInstruction, maxTicks uint32) ([]core.MoveInstruction, error) {
	if maxTicks < 1 {
		return nil, errors.New("max ticks must be at least 1")
	}
	if instr.Ticks <= maxTicks {
		return []core.MoveInstruction{instr}, nil
	}

	count := int((instr.Ticks + maxTicks - 1) / maxTicks)
	segments := make([]core.MoveInstruction, 0, count)

	remaining := instr.Ticks
	offset := int64(0)
	for remaining > 0 {
		ticks := remaining
		if ticks > maxTicks {
			ticks = maxTicks
		}

		seg := core.MoveInstruction{
			Type:  instr.Type,
			Aux:   instr.Aux,
			Ticks: ticks,
			Axes:  make([]core.AxisCoeff, len(instr.Axes)),
		}
		for i, ax := range instr.Axes {
			rebased, err := rebase(ax, offset)
			if err != nil {
				return nil, err
			}
			seg.Axes[i] = rebased
		}
		segments = append(segments, seg)

		offset += int64(ticks)
		remaining -= ticks
	}
	return segments, nil
}

// rebase shifts the cubic's origin forward by s ticks.
func rebase(c core.AxisCoeff, s int64) (core.AxisCoeff, error) {
	c0 := int64(c.C0)
	c1 := int64(c.C1)
	c2 := int64(c.C2)

	n0 := c0 + 2*c1*s + 3*c2*s*s
	n1 := c1 + 3*c2*s

	if n0 < math.MinInt32 || n0 > math.MaxInt32 || n1 < math.MinInt32 || n1 > math.MaxInt32 {
		return core.AxisCoeff{}, ErrCoeffOverflow
	}
	return core.AxisCoeff{C0: int32(n0), C1: int32(n1), C2: c.C2}, nil
}

// CheckNyquist verifies the caller-side precondition that an
// instruction's instantaneous step rate stays below half the tick rate,
// i.e. the lattice moves less than half a step per tick. The peripheral
// itself never enforces this.
func CheckNyquist(instr core.MoveInstruction, cfg core.Config) bool {
	cfg.ApplyDefaults()
	limit := int64(1) << cfg.StepShift // two deltas per step period

	for _, ax := range instr.Axes {
		d := core.NewDifferenceState(ax)
		prev := int64(0)
		for t := uint32(0); t < instr.Ticks; t++ {
			x := d.Advance()
			delta := x - prev
			prev = x
			if delta < 0 {
				delta = -delta
			}
			if 2*delta >= limit {
				return false
			}
		}
	}
	return true
}
