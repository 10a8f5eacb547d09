// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the CRC7 calculation protecting ScioSense sensor payloads.
package common

const (
	crc7Width         = 7
	crc7DataWidth     = 17
	crc7Polynomial    = 0x89 // p(x) = x^7 + x^3 + 1
	crc7InitialVector = 0x7f

	crc7DataMask = 1<<crc7DataWidth - 1
)

// CRC7 calculates the 7-bit CRC of a 17-bit payload using polynomial long
// division. The initial vector is appended below the payload before dividing.
// Bits above bit 16 of payload are ignored.
//
// This is the checksum ScioSense ENS21x sensors append to each measurement
// value.
func CRC7(payload uint32) uint8 {
	val := (payload&crc7DataMask)<<crc7Width | crc7InitialVector
	pol := uint32(crc7Polynomial) << (crc7DataWidth - 1)
	bit := uint32(1) << (crc7DataWidth - 1 + crc7Width)
	for i := 0; i < crc7DataWidth; i++ {
		if val&bit != 0 {
			val ^= pol
		}
		bit >>= 1
		pol >>= 1
	}
	return uint8(val & (1<<crc7Width - 1))
}
