package host

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"polystep/core"
)

// fileConfig is the JSON shape of a peripheral description. Zero-valued
// fields fall back to the firmware defaults.
type fileConfig struct {
	NumAxes      int    `json:"num_axes"`
	MaxTicks     uint32 `json:"max_ticks"`
	QueueDepth   int    `json:"queue_depth"`
	StepShift    uint   `json:"step_shift"`
	OscillatorHz uint32 `json:"oscillator_hz"`
	ByteOrder    string `json:"byte_order"` // "little" (default) or "big"
}

// LoadConfig parses a JSON peripheral description.
func LoadConfig(data []byte) (core.Config, error) {
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return core.Config{}, err
	}

	cfg := core.Config{
		NumAxes:      fc.NumAxes,
		MaxTicks:     fc.MaxTicks,
		QueueDepth:   fc.QueueDepth,
		StepShift:    fc.StepShift,
		OscillatorHz: fc.OscillatorHz,
	}
	switch fc.ByteOrder {
	case "", "little":
		cfg.ByteOrder = binary.LittleEndian
	case "big":
		cfg.ByteOrder = binary.BigEndian
	default:
		return core.Config{}, fmt.Errorf("unknown byte order %q", fc.ByteOrder)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return core.Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a JSON peripheral description.
func LoadConfigFile(path string) (core.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Config{}, err
	}
	return LoadConfig(data)
}
