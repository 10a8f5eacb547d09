// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ens210

import (
	"fmt"

	"github.com/GermanBionicSystems/ens210/common"
)

const (
	payloadSize = 3
	// T_VAL and H_VAL are read in a single transaction.
	measurementSize = 2 * payloadSize
	payloadBit      = 16
	crcShift        = 1
)

const (
	validBit  uint32 = 1 << payloadBit
	valueMask uint32 = 0xffff
	validFlag byte   = 0x01
	crcMask   byte   = 0x7f
)

// RawMeasurement holds the validated 16-bit counts read from T_VAL and H_VAL.
type RawMeasurement struct {
	Temperature uint16
	Humidity    uint16
}

// decode extracts the 16-bit value from a 3 byte register image.
//
// The 17-bit payload is little endian: b[0] holds bits 0-7, b[1] bits 8-15
// and bit 0 of b[2] is the valid flag in payload bit 16. Bits 1-7 of b[2]
// carry the CRC7 computed over the whole 17-bit payload.
func decode(b []byte) (uint16, error) {
	payload := uint32(b[2]&validFlag)<<payloadBit | uint32(b[1])<<8 | uint32(b[0])
	if payload&validBit == 0 {
		return 0, &InvalidBitError{Payload: payload}
	}
	received := (b[2] >> crcShift) & crcMask
	if computed := common.CRC7(payload); computed != received {
		return 0, &ChecksumMismatchError{Payload: payload, Computed: computed, Received: received}
	}
	return uint16(payload & valueMask), nil
}

// encode builds the register image the sensor produces for a fresh value.
func encode(value uint16) [payloadSize]byte {
	payload := uint32(value) | validBit
	crc := common.CRC7(payload)
	return [payloadSize]byte{byte(payload), byte(payload >> 8), validFlag | crc<<crcShift}
}

// decodeMeasurement validates both halves of a T_VAL/H_VAL read. Either
// failure fails the whole measurement.
func decodeMeasurement(b []byte) (RawMeasurement, error) {
	var raw RawMeasurement
	if len(b) != measurementSize {
		return raw, fmt.Errorf("ens210: measurement is %d bytes, expected %d", len(b), measurementSize)
	}
	t, err := decode(b[:payloadSize])
	if err != nil {
		return raw, fmt.Errorf("ens210: temperature %w", err)
	}
	h, err := decode(b[payloadSize:])
	if err != nil {
		return raw, fmt.Errorf("ens210: humidity %w", err)
	}
	raw.Temperature = t
	raw.Humidity = h
	return raw, nil
}
