package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes one FIR pipeline: its taps, decimation, optional
// derotation, station metadata, and network endpoints. It is loaded from a
// YAML file; no command-line flag overrides its fields.
type Config struct {
	SampleRateHz float64  `yaml:"sample_rate_hz"`
	Decimation   int      `yaml:"decimation"`
	TapsRe       []int16  `yaml:"taps_re"`
	TapsIm       []int16  `yaml:"taps_im"`
	Derotate     bool     `yaml:"derotate"`
	FreqShiftHz  float64  `yaml:"freq_shift_hz"`
	Listen       string   `yaml:"listen"`       // UDP address to read raw interleaved IQ from
	Output       string   `yaml:"output"`       // UDP address to forward decimated output to, empty = stdout
	CapturePath  string   `yaml:"capture_path"` // strftime pattern for raw-IQ capture file rotation, empty = disabled
	Station      *Station `yaml:"station"`
	RigPort      string   `yaml:"rig_port"` // serial device for frequency readback, empty = disabled
	RigBaud      int      `yaml:"rig_baud"`
	Advertise    bool     `yaml:"advertise"`
	ServiceName  string   `yaml:"service_name"`
}

// Station holds the ground location associated with a capture session.
type Station struct {
	Callsign string  `yaml:"callsign"`
	LatDeg   float64 `yaml:"lat_deg"`
	LonDeg   float64 `yaml:"lon_deg"`
}

// LoadConfig reads and validates a pipeline configuration from path.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dfir-stream: reading config %q: %w", path, err)
	}

	cfg := &Config{
		Decimation: 1,
		RigBaud:    9600,
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("dfir-stream: parsing config %q: %w", path, err)
	}

	if len(cfg.TapsRe) == 0 || len(cfg.TapsRe) != len(cfg.TapsIm) {
		return nil, fmt.Errorf("dfir-stream: config %q: taps_re and taps_im must be equal-length and non-empty", path)
	}
	if cfg.Decimation <= 0 {
		return nil, fmt.Errorf("dfir-stream: config %q: decimation must be positive", path)
	}
	if cfg.SampleRateHz <= 0 {
		return nil, fmt.Errorf("dfir-stream: config %q: sample_rate_hz must be positive", path)
	}

	return cfg, nil
}
