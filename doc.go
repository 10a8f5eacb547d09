// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices holds the ScioSense ENS210 temperature and relative
// humidity driver and the helpers it shares.
//
// The driver lives in package ens210, checksum helpers in package common and
// a host command line tool in cmd/ens210.
package devices
