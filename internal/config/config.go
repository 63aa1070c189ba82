// Package config holds the daemon's runtime settings.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loadable from a TOML file.
type Config struct {
	CmdFIFO    string `toml:"cmd_fifo"`
	StatusFIFO string `toml:"status_fifo"`

	StatusIntervalMS int `toml:"status_interval_ms"`
	IdleSleepMS      int `toml:"idle_sleep_ms"`

	// Volume is the startup level, 0-100.
	Volume int `toml:"volume"`

	// ReadBufKB and MaxBufKB size the MP3 bitstream buffer.
	ReadBufKB int `toml:"read_buf_kb"`
	MaxBufKB  int `toml:"max_buf_kb"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		CmdFIFO:          "/tmp/pageramp.cmd",
		StatusFIFO:       "/tmp/pageramp.status",
		StatusIntervalMS: 250,
		IdleSleepMS:      50,
		Volume:           80,
		ReadBufKB:        16,
		MaxBufKB:         2048,
	}
}

// Load reads a TOML file over the defaults, so a partial file only
// overrides what it names.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// StatusInterval returns the status emission period.
func (c Config) StatusInterval() time.Duration {
	return time.Duration(c.StatusIntervalMS) * time.Millisecond
}

// IdleSleep returns the main-loop sleep while not playing.
func (c Config) IdleSleep() time.Duration {
	return time.Duration(c.IdleSleepMS) * time.Millisecond
}
