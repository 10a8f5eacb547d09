// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ens210

import (
	"errors"
	"fmt"
	"math"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

const (
	// DefaultAddress is the 7-bit I²C address of the ENS210.
	DefaultAddress uint16 = 0x43

	// ConversionTime is the duration of a temperature and humidity
	// conversion. Wait at least this long after StartSingleShot or
	// StartContinuous, or poll Ready, before calling Read.
	ConversionTime = 130 * time.Millisecond

	bootTime   = 3 * time.Millisecond
	settleTime = 150 * time.Millisecond
)

// Register addresses.
const (
	regPartID    byte = 0x00
	regDieRev    byte = 0x02
	regUID       byte = 0x04
	regSysCtrl   byte = 0x10
	regSysStat   byte = 0x11
	regSensRun   byte = 0x21
	regSensStart byte = 0x22
	regTVal      byte = 0x30
)

// Register values.
const (
	sysCtrlReset  byte = 0x80
	sysCtrlNormal byte = 0x00

	// Temperature and humidity engines.
	sensTH  byte = 0x03
	sensOff byte = 0x00

	sysStatActive byte = 0x01
)

// State is the lifecycle state of a Dev.
type State uint8

const (
	// Uninitialized is the state until Init succeeds.
	Uninitialized State = iota
	// Idle means initialized with no measurement requested.
	Idle
	// MeasuringSingleShot means a single conversion was triggered.
	MeasuringSingleShot
	// MeasuringContinuous means the sensor converts repeatedly without
	// further triggers.
	MeasuringContinuous
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Idle:
		return "idle"
	case MeasuringSingleShot:
		return "measuring (single shot)"
	case MeasuringContinuous:
		return "measuring (continuous)"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Identity holds the factory identification of a sensor.
type Identity struct {
	PartID      uint16
	DieRevision uint8
	UID         [8]byte
}

func (id Identity) String() string {
	return fmt.Sprintf("part 0x%04x rev %d uid %x", id.PartID, id.DieRevision, id.UID)
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Addr is the 7-bit I²C address. 0 selects DefaultAddress.
	Addr uint16
	// BusFrequency is applied to a periph.io bus before probing the sensor.
	// 0 leaves the bus speed unchanged. It is ignored for TinyGo buses.
	BusFrequency physic.Frequency
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Addr:         DefaultAddress,
	BusFrequency: 400 * physic.KiloHertz,
}

// Dev is a handle to an ENS210 sensor.
type Dev struct {
	r     Registers
	opts  Opts
	state State
	id    Identity
	// Die revision and UID are read on first use.
	idRead bool
}

// New returns an uninitialized Dev using r for register access. Call Init
// before any other operation.
func New(r Registers, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Dev{r: r, opts: *opts}
}

// NewI2C returns an object that communicates over I²C to an ENS210 and runs
// the initialization sequence. The Opts can be nil.
//
// The Dev is returned even when initialization fails so that Init can be
// retried.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddress
	}
	d := New(&i2cRegisters{d: &i2c.Dev{Bus: b, Addr: addr}}, opts)
	return d, d.Init()
}

// NewTinyGo is like NewI2C for a TinyGo I²C bus. The bus must already be
// configured.
func NewTinyGo(b drivers.I2C, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddress
	}
	d := New(&tinygoRegisters{bus: b, addr: addr}, opts)
	return d, d.Init()
}

// Init configures the bus, probes the sensor by reading its part ID, resets
// it and enables the temperature and humidity engines. It blocks for the
// 150ms the first conversion takes.
//
// On failure the Dev is left uninitialized, and Init may be called again.
func (d *Dev) Init() error {
	d.state = Uninitialized
	d.idRead = false
	if s, ok := d.r.(busSpeedSetter); ok && d.opts.BusFrequency > 0 {
		if err := s.SetSpeed(d.opts.BusFrequency); err != nil {
			return fmt.Errorf("%w: %w", ErrBusUnavailable, err)
		}
	}
	var b [2]byte
	if err := d.r.ReadRegisters(regPartID, b[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceNotDetected, err)
	}
	partID := uint16(b[1])<<8 | uint16(b[0])
	if err := d.reset(); err != nil {
		return fmt.Errorf("%w: %w", ErrResetFailed, err)
	}
	// Leave low power mode, then start both engines.
	if err := d.r.WriteRegister(regSysCtrl, sysCtrlNormal); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWriteFailed, err)
	}
	if err := d.r.WriteRegister(regSensRun, sensTH); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWriteFailed, err)
	}
	time.Sleep(settleTime)
	d.id = Identity{PartID: partID}
	d.state = Idle
	return nil
}

// Reset issues a soft reset and waits for the sensor to boot. The lifecycle
// state is not changed.
func (d *Dev) Reset() error {
	if err := d.reset(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	return nil
}

func (d *Dev) reset() error {
	if err := d.r.WriteRegister(regSysCtrl, sysCtrlReset); err != nil {
		return err
	}
	time.Sleep(bootTime)
	return nil
}

// State returns the lifecycle state.
func (d *Dev) State() State {
	return d.state
}

// StartSingleShot triggers one temperature and humidity conversion. The
// result is available after ConversionTime.
func (d *Dev) StartSingleShot() error {
	if d.state == Uninitialized {
		return ErrNotInitialized
	}
	if err := d.r.WriteRegister(regSensStart, sensTH); err != nil {
		return fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	d.state = MeasuringSingleShot
	return nil
}

// StartContinuous enables the engines and triggers the first conversion.
// Read may then be called repeatedly without triggering again.
func (d *Dev) StartContinuous() error {
	if d.state == Uninitialized {
		return ErrNotInitialized
	}
	if err := d.r.WriteRegister(regSensRun, sensTH); err != nil {
		return fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	if err := d.r.WriteRegister(regSensStart, sensTH); err != nil {
		return fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	d.state = MeasuringContinuous
	return nil
}

// Stop disables the engines. Calling Stop while idle does nothing.
func (d *Dev) Stop() error {
	switch d.state {
	case Uninitialized:
		return ErrNotInitialized
	case Idle:
		return nil
	}
	if err := d.r.WriteRegister(regSensRun, sensOff); err != nil {
		return fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	d.state = Idle
	return nil
}

// Ready reports whether the sensor is active. It only reads the status
// register and may be polled at any rate.
func (d *Dev) Ready() (bool, error) {
	if d.state == Uninitialized {
		return false, ErrNotInitialized
	}
	var status [1]byte
	if err := d.r.ReadRegisters(regSysStat, status[:]); err != nil {
		return false, fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	return status[0]&sysStatActive != 0, nil
}

// ReadRaw reads T_VAL and H_VAL in one transaction and returns the validated
// counts. If either payload has its valid bit cleared an *InvalidBitError is
// returned, and a *ChecksumMismatchError if either CRC does not match.
func (d *Dev) ReadRaw() (RawMeasurement, error) {
	if d.state == Uninitialized {
		return RawMeasurement{}, ErrNotInitialized
	}
	var b [measurementSize]byte
	if err := d.r.ReadRegisters(regTVal, b[:]); err != nil {
		return RawMeasurement{}, fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	return decodeMeasurement(b[:])
}

// Read returns the temperature in °C and the relative humidity in percent.
// No partial result is returned if either value fails validation.
func (d *Dev) Read() (Measurement, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return Measurement{}, err
	}
	return ToPhysical(raw), nil
}

// AbsoluteHumidity reads the sensor and returns the water vapor density in
// g/m³. It returns NaN along with the error when the read fails.
func (d *Dev) AbsoluteHumidity() (float64, error) {
	m, err := d.Read()
	if err != nil {
		return math.NaN(), err
	}
	return m.AbsoluteHumidity(), nil
}

// PartID returns the part ID read during Init.
func (d *Dev) PartID() (uint16, error) {
	if d.state == Uninitialized {
		return 0, ErrNotInitialized
	}
	return d.id.PartID, nil
}

// DieRevision reads the silicon die revision.
func (d *Dev) DieRevision() (uint8, error) {
	if d.state == Uninitialized {
		return 0, ErrNotInitialized
	}
	var rev [1]byte
	if err := d.r.ReadRegisters(regDieRev, rev[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	return rev[0], nil
}

// UID reads the factory programmed 64-bit unique ID.
func (d *Dev) UID() ([8]byte, error) {
	var uid [8]byte
	if d.state == Uninitialized {
		return uid, ErrNotInitialized
	}
	if err := d.r.ReadRegisters(regUID, uid[:]); err != nil {
		return uid, fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	return uid, nil
}

// Identity returns the part ID, die revision and UID. The die revision and
// UID are read on the first call and cached until the next Init.
func (d *Dev) Identity() (Identity, error) {
	if d.state == Uninitialized {
		return Identity{}, ErrNotInitialized
	}
	if d.idRead {
		return d.id, nil
	}
	rev, err := d.DieRevision()
	if err != nil {
		return Identity{}, err
	}
	uid, err := d.UID()
	if err != nil {
		return Identity{}, err
	}
	d.id.DieRevision = rev
	d.id.UID = uid
	d.idRead = true
	return d.id, nil
}

// Sense reads temperature and humidity from the device. Implements
// physic.SenseEnv.
func (d *Dev) Sense(e *physic.Env) error {
	m, err := d.Read()
	if err != nil {
		return err
	}
	m.Env(e)
	return nil
}

// SenseContinuous is not supported. The driver runs no background
// goroutines: call StartContinuous, then Sense at the desired interval.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	return nil, errors.New("ens210: SenseContinuous is not supported, use StartContinuous and Sense")
}

// Precision returns the resolution of a single count. Implements
// physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Kelvin / 64
	e.Humidity = physic.PercentRH / 512
	e.Pressure = 0
}

// Halt stops the engines if a measurement is running. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	if d.state == MeasuringSingleShot || d.state == MeasuringContinuous {
		return d.Stop()
	}
	return nil
}

func (d *Dev) String() string {
	if s, ok := d.r.(fmt.Stringer); ok {
		return fmt.Sprintf("ens210: %s", s)
	}
	return "ens210"
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
