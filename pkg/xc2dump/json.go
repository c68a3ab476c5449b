// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2dump

import (
	"io"
	"reflect"

	"git.lukeshu.com/go/lowmemjson"

	"github.com/xc2cpld/xc2bit/lib/containers"
	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/lib/jsonutil"
	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2fb"
	"github.com/xc2cpld/xc2bit/pkg/xc2global"
)

// jsonDoc is the shape "xc2bitstream dump --json" emits: the raw
// logical fuse plane (as a hex string, via jsonutil.Binary, the same
// convention lib/jsonutil uses for fuse-bearing records generally), the
// device-wide records in their native struct shape, and the set of
// function block indices whose configuration differs from the device's
// blank default - the grep-for-what-changed question a batch dump is
// usually run to answer.
type jsonDoc struct {
	Device      string
	Speed       string
	Package     string
	LogicalDump jsonutil.Binary[*fuseplane.Plane1D]
	Global      xc2global.GlobalNets
	BankVoltage xc2global.BankVoltage
	NonBlankFBs containers.Set[int]
}

// JSON writes bs to w as JSON via lowmemjson, the low-memory encoder
// this module's ambient stack standardizes on for anything bulkier than
// a one-line diagnostic (spec §13; see lib/jsonutil).
func JSON(w io.Writer, bs *xc2bitstream.Bitstream) error {
	doc := jsonDoc{
		Device:      bs.Device.String(),
		Speed:       string(bs.Speed),
		Package:     string(bs.Pkg),
		LogicalDump: jsonutil.Binary[*fuseplane.Plane1D]{Val: bs.EncodeLogical()},
		Global:      bs.Global,
		BankVoltage: bs.BankVoltage,
		NonBlankFBs: nonBlankFBs(bs.Device, bs.FBs),
	}
	return lowmemjson.NewEncoder(w).Encode(doc)
}

func nonBlankFBs(d xc2device.Device, fbs []*xc2fb.FunctionBlock) containers.Set[int] {
	set := containers.NewSet[int]()
	for i, fb := range fbs {
		if !reflect.DeepEqual(fb, xc2fb.New(d, i)) {
			set.Insert(i)
		}
	}
	return set
}
