//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"polystep/core"
)

// PIO program for step pulse generation. Command word format:
//
//	Bits 0-15:  pulse count
//	Bits 16-23: delay cycles between pulses
//	Bit 31:     direction (0=forward, 1=reverse)
//
// The state machine pulls a command, drives the direction pin, then
// emits the requested pulses with hardware timing.
func buildStepProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (pulse count)
		asm.Out(rp2pio.OutDestY, 8).Encode(),    // 2: out y, 8 (delay cycles)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 3: out pins, 1 (direction)
		// step_loop:
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 4: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 5: set pins, 0
		// delay_loop:
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(), // 6: jmp y--, 6
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 7: jmp x--, 4
		// .wrap
	}
}

const stepProgramOrigin = 0 // jump targets are absolute

// axisPins names the step and direction pins of one motor channel.
type axisPins struct {
	Step machine.Pin
	Dir  machine.Pin
}

// pioStepSink drives one PIO state machine per axis and implements the
// executor's step output. Direction is encoded in the command word, so
// a latched direction costs nothing between pulses.
type pioStepSink struct {
	pio    *rp2pio.PIO
	sms    []rp2pio.StateMachine
	lights *auxLights
}

// newPIOStepSink claims one state machine per axis on the given PIO
// block. A block has four state machines, which bounds the axis count
// per block.
func newPIOStepSink(pio *rp2pio.PIO, pins []axisPins, lights *auxLights) (*pioStepSink, error) {
	program := buildStepProgram()
	offset, err := pio.AddProgram(program, stepProgramOrigin)
	if err != nil {
		return nil, err
	}

	s := &pioStepSink{
		pio:    pio,
		sms:    make([]rp2pio.StateMachine, len(pins)),
		lights: lights,
	}
	for i, p := range pins {
		sm := pio.StateMachine(uint8(i))
		sm.TryClaim()

		p.Step.Configure(machine.PinConfig{Mode: pio.PinMode()})
		p.Dir.Configure(machine.PinConfig{Mode: pio.PinMode()})

		cfg := rp2pio.DefaultStateMachineConfig()
		cfg.SetSetPins(p.Step, 1)
		cfg.SetOutPins(p.Dir, 1)
		cfg.SetOutShift(true, false, 32)
		cfg.SetWrap(offset+uint8(len(program))-1, offset)
		cfg.SetClkDivIntFrac(1000, 0)

		sm.Init(offset, cfg)
		sm.SetPindirsConsecutive(p.Step, 1, true)
		sm.SetPindirsConsecutive(p.Dir, 1, true)
		sm.SetPinsConsecutive(p.Step, 1, false)
		sm.SetPinsConsecutive(p.Dir, 1, false)
		sm.SetEnabled(true)

		s.sms[i] = sm
	}
	return s, nil
}

// EmitTick queues one pulse on every axis that crossed a step boundary
// this tick and forwards the aux field to the lights.
func (s *pioStepSink) EmitTick(steps []core.AxisStep, aux uint16) {
	for i, st := range steps {
		if i >= len(s.sms) || !st.Step {
			continue
		}
		cmd := uint32(1) | (1 << 16) // count=1, delay=1
		if st.Dir {
			cmd |= 1 << 31
		}
		sm := s.sms[i]
		for sm.IsTxFIFOFull() {
			// The FIFO drains within a few pulse periods.
		}
		sm.TxPut(cmd)
	}
	if s.lights != nil {
		s.lights.Set(aux)
	}
}

// Halt stops all state machines and discards queued pulses.
func (s *pioStepSink) Halt() {
	for _, sm := range s.sms {
		sm.SetEnabled(false)
		sm.ClearFIFOs()
		sm.Restart()
		sm.SetEnabled(true)
	}
}
