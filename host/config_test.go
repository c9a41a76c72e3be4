package host

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumAxes != 3 || cfg.MaxTicks != 1100 || cfg.QueueDepth != 16 {
		t.Errorf("Defaults not applied: %+v", cfg)
	}
	if cfg.ByteOrder != binary.LittleEndian {
		t.Error("Default byte order is not little-endian")
	}
}

func TestLoadConfigFields(t *testing.T) {
	data := []byte(`{
		"num_axes": 2,
		"max_ticks": 500,
		"queue_depth": 32,
		"step_shift": 8,
		"oscillator_hz": 12000000,
		"byte_order": "big"
	}`)
	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumAxes != 2 || cfg.MaxTicks != 500 || cfg.QueueDepth != 32 {
		t.Errorf("Parsed config: %+v", cfg)
	}
	if cfg.StepShift != 8 || cfg.OscillatorHz != 12000000 {
		t.Errorf("Parsed config: %+v", cfg)
	}
	if cfg.ByteOrder != binary.BigEndian {
		t.Error("Byte order not parsed as big-endian")
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"unknown byte order", `{"byte_order": "middle"}`},
		{"bad axis count", `{"num_axes": -1}`},
		{"step shift too large", `{"step_shift": 40}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig([]byte(tt.data)); err == nil {
				t.Error("LoadConfig accepted bad input")
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peripheral.json")
	if err := os.WriteFile(path, []byte(`{"num_axes": 4}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NumAxes != 4 {
		t.Errorf("NumAxes = %d, want 4", cfg.NumAxes)
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadConfigFile succeeded on a missing file")
	}
}
