// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ens210

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// Registers is the register level access the driver needs from the bus.
// Implementations perform each call as a single transaction and do not retry.
type Registers interface {
	// ReadRegisters reads len(b) consecutive registers starting at reg.
	ReadRegisters(reg byte, b []byte) error
	// WriteRegister writes v to reg.
	WriteRegister(reg, v byte) error
}

// busSpeedSetter is implemented by Registers that can configure the bus
// clock.
type busSpeedSetter interface {
	SetSpeed(f physic.Frequency) error
}

// i2cRegisters accesses the sensor through a periph.io I²C device.
type i2cRegisters struct {
	d *i2c.Dev
}

// ReadRegisters writes the register address then reads with a repeated
// start.
func (r *i2cRegisters) ReadRegisters(reg byte, b []byte) error {
	return r.d.Tx([]byte{reg}, b)
}

func (r *i2cRegisters) WriteRegister(reg, v byte) error {
	return r.d.Tx([]byte{reg, v}, nil)
}

func (r *i2cRegisters) SetSpeed(f physic.Frequency) error {
	return r.d.Bus.SetSpeed(f)
}

func (r *i2cRegisters) String() string {
	return r.d.String()
}

// tinygoRegisters accesses the sensor through a TinyGo I²C bus. The bus
// speed is set when the machine bus is configured.
type tinygoRegisters struct {
	bus  drivers.I2C
	addr uint16
}

func (r *tinygoRegisters) ReadRegisters(reg byte, b []byte) error {
	return r.bus.Tx(r.addr, []byte{reg}, b)
}

func (r *tinygoRegisters) WriteRegister(reg, v byte) error {
	return r.bus.Tx(r.addr, []byte{reg, v}, nil)
}

func (r *tinygoRegisters) String() string {
	return fmt.Sprintf("tinygo i2c 0x%02x", r.addr)
}

var _ Registers = &i2cRegisters{}
var _ Registers = &tinygoRegisters{}
var _ busSpeedSetter = &i2cRegisters{}
