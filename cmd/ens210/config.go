// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/GermanBionicSystems/ens210/ens210"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

const (
	modeSingle     = "single"
	modeContinuous = "continuous"
)

// Config holds the sensor and sampling configuration.
type Config struct {
	// Bus is the I²C bus name passed to i2creg.Open. Empty selects the first
	// bus found.
	Bus         string `yaml:"bus"`
	Address     uint16 `yaml:"address"`
	FrequencyHz int64  `yaml:"frequency_hz"`
	// Mode is "single" to trigger every conversion, or "continuous".
	Mode       string `yaml:"mode"`
	IntervalMs int    `yaml:"interval_ms"`
	// Count is the number of readings to take. 0 reads until interrupted.
	Count            int  `yaml:"count"`
	AbsoluteHumidity bool `yaml:"absolute_humidity"`
	// MaxFailures is the number of consecutive failed reads tolerated.
	MaxFailures int `yaml:"max_failures"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:     ens210.DefaultAddress,
		FrequencyHz: 400_000,
		Mode:        modeSingle,
		IntervalMs:  1000,
		MaxFailures: 5,
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the sensor cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.Address < 0x08 || c.Address > 0x77 {
		errs = append(errs, fmt.Errorf("address 0x%02x is not a 7-bit device address", c.Address))
	}
	if c.FrequencyHz < 0 {
		errs = append(errs, fmt.Errorf("frequency_hz %d is negative", c.FrequencyHz))
	}
	if c.Mode != modeSingle && c.Mode != modeContinuous {
		errs = append(errs, fmt.Errorf("mode %q is not %q or %q", c.Mode, modeSingle, modeContinuous))
	}
	if c.Interval() < ens210.ConversionTime {
		errs = append(errs, fmt.Errorf("interval_ms %d is shorter than the %s conversion time", c.IntervalMs, ens210.ConversionTime))
	}
	if c.Count < 0 {
		errs = append(errs, fmt.Errorf("count %d is negative", c.Count))
	}
	if c.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("max_failures %d is negative", c.MaxFailures))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Interval returns the time between readings.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Opts returns the driver options.
func (c *Config) Opts() *ens210.Opts {
	return &ens210.Opts{
		Addr:         c.Address,
		BusFrequency: physic.Frequency(c.FrequencyHz) * physic.Hertz,
	}
}
