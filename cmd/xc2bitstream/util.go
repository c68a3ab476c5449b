// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2crbit"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2jed"
)

// IncompatiblePartError is returned when a decoded bitstream's
// device/speed/package triple is not a part Xilinx ever produced, per
// the embedded compatibility table in pkg/xc2device.
type IncompatiblePartError struct {
	Device  xc2device.Device
	Speed   xc2bitstream.SpeedGrade
	Package xc2bitstream.Package
}

func (e *IncompatiblePartError) Error() string {
	return fmt.Sprintf("xc2bitstream: %s-%s-%s is not a known device/speed/package combination",
		e.Device, e.Speed, e.Package)
}

// UnrecognizedFormatError is returned when a file's bitstream format
// can't be inferred from its extension and wasn't given explicitly via
// --from/--to.
type UnrecognizedFormatError struct {
	Path string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("xc2bitstream: cannot infer format of %q: pass --from/--to jed|cr", e.Path)
}

// formatFromExt infers "jed" or "cr" from a file's extension, per the
// conventions pkg/xc2jed and pkg/xc2crbit's doc comments name for the
// two file formats.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jed", ".jedec":
		return "jed"
	case ".cr", ".crbit":
		return "cr"
	default:
		return ""
	}
}

func resolveFormat(explicit, path string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if f := formatFromExt(path); f != "" {
		return f, nil
	}
	return "", &UnrecognizedFormatError{Path: path}
}

func readBitstream(path, format string, speed xc2bitstream.SpeedGrade, pkg xc2bitstream.Package) (*xc2bitstream.Bitstream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bs *xc2bitstream.Bitstream
	switch format {
	case "jed":
		bs, err = xc2jed.Decode(data)
	case "cr":
		bs, err = xc2crbit.Decode(data, speed, pkg)
	default:
		return nil, fmt.Errorf("xc2bitstream: unrecognized format %q (want jed or cr)", format)
	}
	if err != nil {
		return nil, err
	}
	if !xc2device.IsCompatible(bs.Device, xc2device.Speed(bs.Speed), xc2device.Package(bs.Pkg)) {
		return nil, &IncompatiblePartError{Device: bs.Device, Speed: bs.Speed, Package: bs.Pkg}
	}
	return bs, nil
}

func encodeBitstream(bs *xc2bitstream.Bitstream, format string) ([]byte, error) {
	switch format {
	case "jed":
		return xc2jed.Encode(bs)
	case "cr":
		return xc2crbit.Encode(bs)
	default:
		return nil, fmt.Errorf("xc2bitstream: unrecognized format %q (want jed or cr)", format)
	}
}
