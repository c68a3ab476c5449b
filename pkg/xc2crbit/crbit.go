// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2crbit is the ".cr" file framing around pkg/xc2bitstream's
// physical fuse plane: it wraps lib/fuseplane's ASCII-grid codec
// (spec §6.2) with device-name resolution and dimension checking, the
// same external-collaborator role pkg/xc2jed plays for the logical
// format (spec §1).
//
// Unlike a jed file's "N DEVICE <device>-<speed>-<package>" header, a
// crbit file's "// DEVICE <name>" comment (see lib/fuseplane.WriteText)
// carries only the device name - openFPGA's own crbit dumps do the
// same. Decode therefore takes the speed grade and package as
// parameters rather than recovering them from the file.
package xc2crbit

import (
	"bytes"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru"

	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

// deviceCacheSize mirrors pkg/xc2jed's header-triple cache: a batch
// conversion run re-reading many files for the same device shouldn't
// re-validate xc2device.ParseDevice on every one.
const deviceCacheSize = 64

var deviceCache, _ = lru.NewARC(deviceCacheSize)

func parseDeviceCached(name string) (xc2device.Device, error) {
	if v, ok := deviceCache.Get(name); ok {
		return v.(xc2device.Device), nil
	}
	d, err := xc2device.ParseDevice(name)
	if err != nil {
		return 0, err
	}
	deviceCache.Add(name, d)
	return d, nil
}

// MissingDeviceNameError is returned when a ".cr" file carries no
// "// DEVICE ..." comment, so the device cannot be resolved.
type MissingDeviceNameError struct{}

func (e *MissingDeviceNameError) Error() string {
	return "xc2crbit: file carries no \"// DEVICE ...\" annotation"
}

// Encode renders bs as a ".cr" ASCII-grid file.
func Encode(bs *xc2bitstream.Bitstream) ([]byte, error) {
	plane := bs.EncodePhysical()
	var buf bytes.Buffer
	if err := fuseplane.WriteText(&buf, plane); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a ".cr" file into a Bitstream, under the given speed
// grade and package (not recoverable from the file itself).
func Decode(data []byte, speed xc2bitstream.SpeedGrade, pkg xc2bitstream.Package) (*xc2bitstream.Bitstream, error) {
	plane, err := fuseplane.ParseText(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if !plane.HasDevName() {
		return nil, &MissingDeviceNameError{}
	}
	d, err := parseDeviceCached(plane.DevName)
	if err != nil {
		return nil, err
	}
	return xc2bitstream.DecodePhysical(plane, d, speed, pkg)
}

// DecodeReader is a convenience wrapper over Decode for callers holding
// an io.Reader (e.g. an opened file) rather than a byte slice.
func DecodeReader(r io.Reader, speed xc2bitstream.SpeedGrade, pkg xc2bitstream.Package) (*xc2bitstream.Bitstream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xc2crbit: %w", err)
	}
	return Decode(data, speed, pkg)
}
