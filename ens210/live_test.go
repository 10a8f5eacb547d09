// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ens210

import (
	"os"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// TestLive runs against a real sensor when the ENS210 environment variable is
// set. The recorded bus traffic is dumped so it can be turned into playback
// fixtures.
func TestLive(t *testing.T) {
	if os.Getenv("ENS210") == "" {
		t.Skip("set ENS210 to run against a live device")
	}
	if _, err := host.Init(); err != nil {
		t.Fatal(err)
	}
	b, err := i2creg.Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	recorder := &i2ctest.Record{Bus: b}
	defer func() {
		t.Logf("%#v", recorder.Ops)
	}()

	dev, err := NewI2C(recorder, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Halt()

	id, err := dev.Identity()
	if err != nil {
		t.Fatal(err)
	}
	t.Log(id)

	if err = dev.StartSingleShot(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(ConversionTime)
	e := physic.Env{}
	if err = dev.Sense(&e); err != nil {
		t.Fatal(err)
	}
	t.Log(e.Temperature, e.Humidity)

	if err = dev.StartContinuous(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		time.Sleep(ConversionTime)
		m, err := dev.Read()
		if err != nil {
			t.Error(err)
			continue
		}
		t.Logf("%.2f°C %.2f%%RH %.2fg/m³", m.Temperature, m.Humidity, m.AbsoluteHumidity())
	}
	if err = dev.Stop(); err != nil {
		t.Error(err)
	}
}
