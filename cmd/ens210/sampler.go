// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/ens210/ens210"
)

// sensor is the subset of *ens210.Dev the sampler drives.
type sensor interface {
	StartSingleShot() error
	StartContinuous() error
	Stop() error
	Ready() (bool, error)
	Read() (ens210.Measurement, error)
}

var _ sensor = &ens210.Dev{}

// sampler takes readings at a fixed interval and sends them on a channel.
type sampler struct {
	dev         sensor
	continuous  bool
	interval    time.Duration
	count       int
	maxFailures int

	// Wait after triggering, then poll Ready until readyTimeout.
	conversion   time.Duration
	pollInterval time.Duration
	readyTimeout time.Duration
}

func newSampler(dev sensor, cfg *Config) *sampler {
	return &sampler{
		dev:          dev,
		continuous:   cfg.Mode == modeContinuous,
		interval:     cfg.Interval(),
		count:        cfg.Count,
		maxFailures:  cfg.MaxFailures,
		conversion:   ens210.ConversionTime,
		pollInterval: 10 * time.Millisecond,
		readyTimeout: 100 * time.Millisecond,
	}
}

// run samples until count readings were sent, ctx is done, or more than
// maxFailures consecutive reads failed. The engines are stopped on return.
func (s *sampler) run(ctx context.Context, out chan<- ens210.Measurement) (err error) {
	if s.continuous {
		if err := s.dev.StartContinuous(); err != nil {
			return err
		}
	}
	defer func() {
		if stopErr := s.dev.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	failures := 0
	for sent := 0; s.count == 0 || sent < s.count; {
		start := time.Now()
		m, err := s.sample(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case isTransient(err):
			failures++
			if failures > s.maxFailures {
				return fmt.Errorf("%d consecutive reads failed: %w", failures, err)
			}
			log.Printf("[sampler] read failed (%d/%d): %v", failures, s.maxFailures, err)
		case err != nil:
			return err
		default:
			failures = 0
			select {
			case out <- m:
				sent++
			case <-ctx.Done():
				return nil
			}
		}
		if s.count != 0 && sent >= s.count {
			break
		}
		if !sleep(ctx, s.interval-time.Since(start)) {
			return nil
		}
	}
	return nil
}

// sample triggers a conversion when needed, waits for it and reads the
// result.
func (s *sampler) sample(ctx context.Context) (ens210.Measurement, error) {
	if !s.continuous {
		if err := s.dev.StartSingleShot(); err != nil {
			return ens210.Measurement{}, err
		}
		if !sleep(ctx, s.conversion) {
			return ens210.Measurement{}, ctx.Err()
		}
	}
	deadline := time.Now().Add(s.readyTimeout)
	for {
		ready, err := s.dev.Ready()
		if err != nil {
			return ens210.Measurement{}, err
		}
		if ready || !time.Now().Before(deadline) {
			break
		}
		if !sleep(ctx, s.pollInterval) {
			return ens210.Measurement{}, ctx.Err()
		}
	}
	// A stale or corrupted payload is rejected by Read.
	return s.dev.Read()
}

// isTransient reports whether err is a read failure worth retrying on the
// next cycle.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	var invalid *ens210.InvalidBitError
	var mismatch *ens210.ChecksumMismatchError
	return errors.Is(err, ens210.ErrCommunication) || errors.As(err, &invalid) || errors.As(err, &mismatch)
}

// sleep waits for d, returning false if ctx is done first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
