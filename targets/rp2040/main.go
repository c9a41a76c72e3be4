//go:build rp2040

package main

import (
	"machine"
	"time"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"polystep/core"
	"polystep/protocol"
)

// Firmware build parameters. The host's peripheral description must
// match these.
const (
	numAxes    = 3
	queueDepth = 64
	stepShift  = 16

	// tickHz is the executor's advance rate. 10kHz leaves headroom
	// for the USB pump and keeps per-tick work well under 100us.
	tickHz       = 10_000
	tickInterval = 1_000_000 / tickHz // microseconds

	auxLightPin   = machine.GPIO16
	auxLightCount = 8
)

// stepPins assigns step/dir pins per axis, one PIO state machine each.
var stepPins = []axisPins{
	{Step: machine.GPIO2, Dir: machine.GPIO3},
	{Step: machine.GPIO4, Dir: machine.GPIO5},
	{Step: machine.GPIO6, Dir: machine.GPIO7},
}

var (
	inputBuffer  *protocol.ByteFifo
	outputBuffer *protocol.ScratchOutput
	transport    *protocol.Transport
	peripheral   *core.Peripheral
	lights       *auxLights

	msgErrors uint32
)

func main() {
	// Clear any watchdog state left over from a previous reset.
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()

	lights = newAuxLights(auxLightPin, auxLightCount)

	sink, err := newPIOStepSink(rp2pio.PIO0, stepPins, lights)
	if err != nil {
		blinkForever()
	}

	cfg := core.Config{
		NumAxes:    numAxes,
		QueueDepth: queueDepth,
		StepShift:  stepShift,
	}
	peripheral, err = core.NewPeripheral(cfg, sink)
	if err != nil {
		blinkForever()
	}

	inputBuffer = protocol.NewByteFifo(256)
	outputBuffer = protocol.NewScratchOutput()
	transport = peripheral.BindTransport(outputBuffer)

	// Push each status reply out as soon as it is framed so the host
	// never waits on the next loop iteration.
	transport.SetFlushCallback(func() {
		writeUSB()
	})

	go usbReaderLoop()

	nextTick := microseconds()
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgErrors++
					inputBuffer.Reset()
					outputBuffer.Reset()
				}
			}()

			// Advance the executor on the hardware timer. Catch up at
			// most a few ticks if the command pump ran long.
			now := microseconds()
			for catchUp := 0; now-nextTick < 1<<31 && catchUp < 4; catchUp++ {
				peripheral.Tick()
				nextTick += tickInterval
			}

			if inputBuffer.Available() > 0 {
				data := inputBuffer.Data()
				in := protocol.NewSliceInput(data)
				transport.Receive(in)
				if consumed := len(data) - in.Available(); consumed > 0 {
					inputBuffer.Pop(consumed)
				}
			}

			writeUSB()

			if err := lights.Flush(); err != nil {
				msgErrors++
			}
		}()

		time.Sleep(10 * time.Microsecond)
	}
}

// usbReaderLoop pumps USB CDC bytes into the input FIFO.
func usbReaderLoop() {
	defer func() {
		if r := recover(); r != nil {
			msgErrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop()
		}
	}()

	for {
		if USBAvailable() > 0 {
			b, err := USBRead()
			if err != nil {
				msgErrors++
				time.Sleep(1 * time.Millisecond)
				continue
			}
			if inputBuffer.Write([]byte{b}) == 0 {
				msgErrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// writeUSB drains the output buffer to the host, handling partial
// writes. On persistent failure the buffer is dropped so a reconnect
// starts clean.
func writeUSB() {
	result := outputBuffer.Result()
	if len(result) == 0 {
		return
	}
	written := 0
	for written < len(result) {
		n, err := USBWriteBytes(result[written:])
		if err != nil || n == 0 {
			outputBuffer.Reset()
			return
		}
		written += n
	}
	outputBuffer.Reset()
}

// blinkForever signals an unrecoverable init failure on the board LED.
func blinkForever() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
