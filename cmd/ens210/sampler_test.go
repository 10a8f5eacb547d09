// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/GermanBionicSystems/ens210/ens210"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type readResult struct {
	m   ens210.Measurement
	err error
}

// fakeSensor replays scripted reads and counts the calls it receives.
type fakeSensor struct {
	reads      []readResult
	singles    int
	continuous int
	stops      int
	readyCalls int
	notReady   int
	startErr   error
}

func (f *fakeSensor) StartSingleShot() error {
	f.singles++
	return f.startErr
}

func (f *fakeSensor) StartContinuous() error {
	f.continuous++
	return f.startErr
}

func (f *fakeSensor) Stop() error {
	f.stops++
	return nil
}

func (f *fakeSensor) Ready() (bool, error) {
	f.readyCalls++
	if f.notReady > 0 {
		f.notReady--
		return false, nil
	}
	return true, nil
}

func (f *fakeSensor) Read() (ens210.Measurement, error) {
	if len(f.reads) == 0 {
		return ens210.Measurement{}, fmt.Errorf("%w: script exhausted", ens210.ErrCommunication)
	}
	r := f.reads[0]
	f.reads = f.reads[1:]
	return r.m, r.err
}

func testSampler(dev sensor, continuous bool, count int) *sampler {
	return &sampler{
		dev:          dev,
		continuous:   continuous,
		count:        count,
		maxFailures:  2,
		interval:     time.Millisecond,
		conversion:   time.Millisecond,
		pollInterval: time.Millisecond,
		readyTimeout: 20 * time.Millisecond,
	}
}

// collect runs s the way main does and returns the readings it produced.
func collect(ctx context.Context, s *sampler) ([]ens210.Measurement, error) {
	readings := make(chan ens210.Measurement)
	var got []ens210.Measurement
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(readings)
		return s.run(ctx, readings)
	})
	g.Go(func() error {
		for m := range readings {
			got = append(got, m)
		}
		return nil
	})
	err := g.Wait()
	return got, err
}

var (
	first  = ens210.Measurement{Temperature: 0.85, Humidity: 50}
	second = ens210.Measurement{Temperature: 25.25625, Humidity: 60}
)

func Test_sampler_single_shot_triggers_every_reading(t *testing.T) {
	dev := &fakeSensor{reads: []readResult{{m: first}, {m: second}}, notReady: 2}

	got, err := collect(context.Background(), testSampler(dev, false, 2))

	require.NoError(t, err)
	assert.Equal(t, []ens210.Measurement{first, second}, got)
	assert.Equal(t, 2, dev.singles)
	assert.Equal(t, 0, dev.continuous)
	assert.Equal(t, 1, dev.stops)
	assert.Equal(t, 4, dev.readyCalls)
}

func Test_sampler_continuous_starts_once(t *testing.T) {
	dev := &fakeSensor{reads: []readResult{{m: first}, {m: second}, {m: first}}}

	got, err := collect(context.Background(), testSampler(dev, true, 3))

	require.NoError(t, err)
	assert.Equal(t, []ens210.Measurement{first, second, first}, got)
	assert.Equal(t, 0, dev.singles)
	assert.Equal(t, 1, dev.continuous)
	assert.Equal(t, 1, dev.stops)
}

func Test_sampler_retries_transient_failures(t *testing.T) {
	dev := &fakeSensor{reads: []readResult{
		{err: &ens210.InvalidBitError{Payload: 0x4480}},
		{err: &ens210.ChecksumMismatchError{Payload: 0x14480, Computed: 0x50, Received: 0x51}},
		{m: first},
	}}

	got, err := collect(context.Background(), testSampler(dev, true, 1))

	require.NoError(t, err)
	assert.Equal(t, []ens210.Measurement{first}, got)
}

func Test_sampler_gives_up_after_max_failures(t *testing.T) {
	dev := &fakeSensor{}

	got, err := collect(context.Background(), testSampler(dev, true, 1))

	assert.ErrorIs(t, err, ens210.ErrCommunication)
	assert.Empty(t, got)
	assert.Equal(t, 1, dev.stops)
}

func Test_sampler_returns_fatal_errors(t *testing.T) {
	dev := &fakeSensor{startErr: ens210.ErrNotInitialized}

	_, err := collect(context.Background(), testSampler(dev, false, 1))

	assert.ErrorIs(t, err, ens210.ErrNotInitialized)
}

func Test_sampler_stops_when_cancelled(t *testing.T) {
	reads := make([]readResult, 1000)
	dev := &fakeSensor{reads: reads}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	s := testSampler(dev, true, 0)
	s.interval = 5 * time.Millisecond

	got, err := collect(ctx, s)

	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.Less(t, len(got), len(reads))
	assert.Equal(t, 1, dev.stops)
}

func Test_isTransient(t *testing.T) {
	assert.False(t, isTransient(nil))
	assert.False(t, isTransient(ens210.ErrNotInitialized))
	assert.False(t, isTransient(errors.New("other")))
	assert.True(t, isTransient(fmt.Errorf("%w: nack", ens210.ErrCommunication)))
	assert.True(t, isTransient(fmt.Errorf("ens210: humidity %w", &ens210.InvalidBitError{})))
	assert.True(t, isTransient(&ens210.ChecksumMismatchError{}))
}
