// Package core implements the polystep motion peripheral: command
// dispatch, move-instruction assembly, the bounded instruction queue and
// the tick-driven trajectory executor.
package core

import (
	"encoding/binary"
	"errors"
)

// Configuration defaults. The oscillator frequency matches the 50MHz
// crystal the reference board runs at; it is only used for host-side
// Nyquist validation, never enforced at runtime.
const (
	DefaultNumAxes      = 3
	DefaultMaxTicks     = 1100
	DefaultQueueDepth   = 16
	DefaultStepShift    = 16
	DefaultOscillatorHz = 50_000_000
)

var (
	ErrBadAxisCount  = errors.New("axis count must be at least 1")
	ErrBadMaxTicks   = errors.New("max ticks per segment must be at least 1")
	ErrBadQueueDepth = errors.New("queue depth must be at least 1")
	ErrBadStepShift  = errors.New("step shift must be below 32")
)

// Config holds the integration constants of the peripheral. All fields
// are fixed for the lifetime of a Peripheral; instructions never carry
// their own axis count.
type Config struct {
	// NumAxes is the number of motor axes; every move instruction
	// carries coefficients for exactly this many axes, in fixed order.
	NumAxes int

	// MaxTicks bounds a single segment. Longer trajectories arrive as
	// successive full-length segments; a shorter final segment marks
	// end of path.
	MaxTicks uint32

	// QueueDepth is the capacity of the instruction queue.
	QueueDepth int

	// StepShift is the number of fractional bits in the position
	// lattice: coefficients are fixed-point steps per tick and the
	// whole-step position is the accumulator shifted right by this.
	StepShift uint

	// OscillatorHz is the tick rate. Exposed so hosts can check the
	// Nyquist precondition (step rate below half the tick rate).
	OscillatorHz uint32

	// ByteOrder is the byte order of bus words. The bit layout inside
	// a word is fixed; only the serialization order is configurable.
	ByteOrder binary.ByteOrder
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		NumAxes:      DefaultNumAxes,
		MaxTicks:     DefaultMaxTicks,
		QueueDepth:   DefaultQueueDepth,
		StepShift:    DefaultStepShift,
		OscillatorHz: DefaultOscillatorHz,
		ByteOrder:    binary.LittleEndian,
	}
}

// ApplyDefaults fills zero-valued fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.NumAxes == 0 {
		c.NumAxes = DefaultNumAxes
	}
	if c.MaxTicks == 0 {
		c.MaxTicks = DefaultMaxTicks
	}
	if c.QueueDepth == 0 {
		c.QueueDepth = DefaultQueueDepth
	}
	if c.OscillatorHz == 0 {
		c.OscillatorHz = DefaultOscillatorHz
	}
	if c.ByteOrder == nil {
		c.ByteOrder = binary.LittleEndian
	}
}

// Validate rejects configurations the peripheral cannot run with.
func (c *Config) Validate() error {
	if c.NumAxes < 1 {
		return ErrBadAxisCount
	}
	if c.MaxTicks < 1 {
		return ErrBadMaxTicks
	}
	if c.QueueDepth < 1 {
		return ErrBadQueueDepth
	}
	if c.StepShift > 31 {
		return ErrBadStepShift
	}
	return nil
}
