//go:build rp2040

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// auxLights maps the low bits of an instruction's aux field onto a
// strip of WS2812 LEDs: bit n on means LED n lit. Typical use is laser
// or spindle enables and status lamps riding along with the motion.
type auxLights struct {
	dev    ws2812.Device
	colors []color.RGBA
	last   uint16
	dirty  bool
}

func newAuxLights(pin machine.Pin, count int) *auxLights {
	if count > 16 {
		count = 16
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &auxLights{
		dev:    ws2812.NewWS2812(pin),
		colors: make([]color.RGBA, count),
		dirty:  true,
	}
}

// Set records the aux value. The LED strip is only rewritten from
// Flush, since WS2812 writes are slow and must not stall the tick loop.
func (l *auxLights) Set(aux uint16) {
	if aux == l.last && !l.dirty {
		return
	}
	l.last = aux
	l.dirty = true
}

// Flush pushes the latest aux state to the strip if it changed.
func (l *auxLights) Flush() error {
	if !l.dirty {
		return nil
	}
	for i := range l.colors {
		if l.last&(1<<uint(i)) != 0 {
			l.colors[i] = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
		} else {
			l.colors[i] = color.RGBA{A: 0xFF}
		}
	}
	l.dirty = false
	return l.dev.WriteColors(l.colors)
}
