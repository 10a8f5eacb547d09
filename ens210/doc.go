// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ens210 controls a ScioSense ENS210 temperature and relative
// humidity sensor over I²C.
//
// The sensor reports each quantity as a 17-bit payload (a 16-bit value and a
// valid flag) protected by a 7-bit CRC. The driver validates both before
// converting to physical units: 1/64 K per count for temperature and 1/512
// %RH per count for humidity.
//
// A Dev is not safe for concurrent use. Interleaved register accesses corrupt
// the multi-byte measurement read, so callers sharing a Dev between goroutines
// must serialize access themselves.
//
// The ens210.Dev type implements physic.SenseEnv. The pressure is never set.
//
// # Datasheet
//
// https://www.sciosense.com/wp-content/uploads/2024/04/ENS210-Datasheet.pdf
package ens210
