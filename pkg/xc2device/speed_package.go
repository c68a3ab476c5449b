// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2device

import (
	"fmt"
	"strings"
)

// Speed is a speed grade, e.g. "4" in "XC2C32-4-VQ44".
type Speed string

// Package is a package code, e.g. "VQ44" in "XC2C32-4-VQ44".
type Package string

// Triple is a parsed "<device>-<speed>-<package>" string.
type Triple struct {
	Device  Device
	Speed   Speed
	Package Package
}

func (t Triple) String() string {
	return fmt.Sprintf("%s-%s-%s", t.Device, t.Speed, t.Package)
}

// ParseTriple parses a device-name annotation of the form
// "<device>-<speed>-<package>" (e.g. "XC2C32-4-VQ44").
func ParseTriple(s string) (Triple, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Triple{}, &BadDeviceNameError{Name: s}
	}
	dev, err := ParseDevice(parts[0])
	if err != nil {
		return Triple{}, &BadDeviceNameError{Name: s}
	}
	return Triple{Device: dev, Speed: Speed(parts[1]), Package: Package(parts[2])}, nil
}
