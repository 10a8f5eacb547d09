// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ens210

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by operations attempted before Init
	// succeeded.
	ErrNotInitialized = errors.New("ens210: device not initialized")
	// ErrBusUnavailable is returned when the bus could not be configured.
	ErrBusUnavailable = errors.New("ens210: bus unavailable")
	// ErrDeviceNotDetected is returned when the device does not answer at the
	// configured address.
	ErrDeviceNotDetected = errors.New("ens210: device not detected")
	// ErrResetFailed is returned when the reset command of the init sequence
	// failed.
	ErrResetFailed = errors.New("ens210: reset failed")
	// ErrConfigWriteFailed is returned when enabling the sensing engine
	// during init failed.
	ErrConfigWriteFailed = errors.New("ens210: configuration write failed")
	// ErrCommunication wraps any other failed bus transaction.
	ErrCommunication = errors.New("ens210: communication failure")
)

// InvalidBitError is returned when a measurement payload has its valid flag
// cleared. The sensor has not completed a conversion since the last read.
type InvalidBitError struct {
	Payload uint32
}

func (e *InvalidBitError) Error() string {
	return fmt.Sprintf("valid bit not set in payload 0x%05x", e.Payload)
}

// ChecksumMismatchError is returned when the CRC7 received with a payload
// does not match the one computed over it.
type ChecksumMismatchError struct {
	Payload  uint32
	Computed uint8
	Received uint8
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("crc mismatch on payload 0x%05x: computed 0x%02x, received 0x%02x", e.Payload, e.Computed, e.Received)
}
