// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2device holds the eight supported Coolrunner-II device models,
// their speed grades and packages, and the fixed per-device geometry
// tables (FB count, ZIA width, fuse-plane dimensions, macrocell family,
// AND/OR array topology) that every other pkg/xc2* package keys off of.
package xc2device

import "fmt"

// Device names one of the eight supported Coolrunner-II parts.
type Device int

const (
	XC2C32 Device = iota
	XC2C32A
	XC2C64
	XC2C64A
	XC2C128
	XC2C256
	XC2C384
	XC2C512
)

var deviceNames = [...]string{
	XC2C32: "XC2C32", XC2C32A: "XC2C32A",
	XC2C64: "XC2C64", XC2C64A: "XC2C64A",
	XC2C128: "XC2C128",
	XC2C256: "XC2C256",
	XC2C384: "XC2C384",
	XC2C512: "XC2C512",
}

func (d Device) String() string {
	if int(d) < 0 || int(d) >= len(deviceNames) {
		return fmt.Sprintf("Device(%d)", int(d))
	}
	return deviceNames[d]
}

// ParseDevice looks up a device by its canonical name (e.g. "XC2C32A").
func ParseDevice(name string) (Device, error) {
	for i, n := range deviceNames {
		if n == name {
			return Device(i), nil
		}
	}
	return 0, &BadDeviceNameError{Name: name}
}

// BadDeviceNameError is returned when a device-name annotation is
// missing from a file, or does not name one of the eight supported
// parts.
type BadDeviceNameError struct {
	Name string
}

func (e *BadDeviceNameError) Error() string {
	return fmt.Sprintf("xc2device: %q is not a recognized device name", e.Name)
}

// MCFamily distinguishes the two macrocell/IOB bit-picture families.
type MCFamily int

const (
	MCFamilySmall MCFamily = iota // 3 rows x 9 columns: 32/32A, 64/64A, 256
	MCFamilyLarge                 // 2 rows x 15 columns: 128, 384, 512
)

// ORTopology distinguishes the two AND/OR array placements.
type ORTopology int

const (
	ORTopologyType1 ORTopology = iota // central OR array, 8-row ZIA gap: 32/32A, 64/64A, 256
	ORTopologyType2                   // side OR array, permuted placement: 128, 384, 512
)

// Geometry is the fixed per-device constant table referenced throughout
// the bit-layout engine.
type Geometry struct {
	FBCount      int
	ZIAWidth     int // W(D): fuses per ZIA row
	MCFamily     MCFamily
	ORTopology   ORTopology
	HasClockDiv  bool // present on devices with >=128 macrocells
	HasExtraIBuf bool // XC2C32(A) only

	CrbitWidth  int
	CrbitHeight int

	// Done1X, Done1Y is the fixed coordinate in the last two rows of the
	// physical plane that encode_physical clears to 0; every other
	// position in those two rows is set to 1.
	Done1X, Done1Y int

	// LogicalBaseFuses is the number of fuses consumed by the per-FB
	// PLA/ZIA/macrocell regions, i.e. the jed offset at which
	// XC2GlobalNets begins. Grounded directly on the retrieved
	// globalbits.rs literal #[offset(...)] annotations.
	LogicalBaseFuses int
}

var geometries = map[Device]Geometry{
	XC2C32: {
		FBCount: 2, ZIAWidth: 8, MCFamily: MCFamilySmall, ORTopology: ORTopologyType1,
		HasExtraIBuf: true, CrbitWidth: 260, CrbitHeight: 50, Done1X: 9, Done1Y: 48,
		LogicalBaseFuses: 12256,
	},
	XC2C32A: {
		FBCount: 2, ZIAWidth: 8, MCFamily: MCFamilySmall, ORTopology: ORTopologyType1,
		HasExtraIBuf: true, CrbitWidth: 260, CrbitHeight: 50, Done1X: 9, Done1Y: 48,
		LogicalBaseFuses: 12256,
	},
	XC2C64: {
		FBCount: 4, ZIAWidth: 16, MCFamily: MCFamilySmall, ORTopology: ORTopologyType1,
		CrbitWidth: 274, CrbitHeight: 98, Done1X: 8, Done1Y: 96,
		LogicalBaseFuses: 25792,
	},
	XC2C64A: {
		FBCount: 4, ZIAWidth: 16, MCFamily: MCFamilySmall, ORTopology: ORTopologyType1,
		CrbitWidth: 274, CrbitHeight: 98, Done1X: 8, Done1Y: 96,
		LogicalBaseFuses: 25792,
	},
	XC2C128: {
		FBCount: 8, ZIAWidth: 28, MCFamily: MCFamilyLarge, ORTopology: ORTopologyType2,
		HasClockDiv: true, CrbitWidth: 752, CrbitHeight: 82, Done1X: 9, Done1Y: 80,
		LogicalBaseFuses: 55316,
	},
	XC2C256: {
		FBCount: 16, ZIAWidth: 48, MCFamily: MCFamilySmall, ORTopology: ORTopologyType1,
		HasClockDiv: true, CrbitWidth: 1364, CrbitHeight: 98, Done1X: 9, Done1Y: 96,
		LogicalBaseFuses: 123224,
	},
	XC2C384: {
		FBCount: 24, ZIAWidth: 74, MCFamily: MCFamilyLarge, ORTopology: ORTopologyType2,
		HasClockDiv: true, CrbitWidth: 1868, CrbitHeight: 122, Done1X: 9, Done1Y: 120,
		LogicalBaseFuses: 209328,
	},
	XC2C512: {
		FBCount: 32, ZIAWidth: 88, MCFamily: MCFamilyLarge, ORTopology: ORTopologyType2,
		HasClockDiv: true, CrbitWidth: 1980, CrbitHeight: 162, Done1X: 9, Done1Y: 160,
		LogicalBaseFuses: 296374,
	},
}

// GeometryOf returns the fixed geometry table entry for d.
func GeometryOf(d Device) Geometry {
	g, ok := geometries[d]
	if !ok {
		panic(fmt.Sprintf("xc2device: no geometry table entry for %v", d))
	}
	return g
}

// FuseArrayDims returns the physical ("crbit") plane dimensions for d,
// per spec §6.2.
func FuseArrayDims(d Device) (w, h int) {
	g := GeometryOf(d)
	return g.CrbitWidth, g.CrbitHeight
}

// globalNetsFieldCount is the number of logical fuses XC2GlobalNets
// occupies: 3 GCK enables + GSR enable + GSR invert + 4 GTS enables + 4
// GTS invert + global pull-up, grounded on the literal per-device
// #[offset(...)] annotations retrieved from globalbits.rs (e.g. XC2C32's
// global_pu sits at 12256+13, and XC2C64's at 25792+13).
const globalNetsFieldCount = 14

// clockDivFieldCount is div_ratio (3 bits) + delay + enabled, present on
// devices with >=128 macrocells.
const clockDivFieldCount = 5

// postGlobalNetsGapFuses is the width of the reserved gap observed
// between the end of XC2GlobalNets and the start of the next region
// (XC2ExtraIBuf on XC2C32(A), or the A-variant bank-voltage fuses on
// XC2C64(A)): 25792+14=25806, and the retrieved A-variant bank-voltage
// fuses begin at 25808, a 2-fuse gap; the same 2-fuse gap reproduces
// XC2C32's offset of XC2ExtraIBuf at 12272 (12256+14=12270, +2=12272).
const postGlobalNetsGapFuses = 2

// TotalLogicalFuseCount returns total_logical_fuse_count(device): the
// length of the jed fuse vector, not counting the A-variant's per-bank
// voltage fuses (those are owned by the bank-voltage record, appended
// after this count - see xc2global). Validated to reproduce the two
// literal totals retrieved from bitstream.rs: XC2C32 = 12,274 and
// XC2C64 = 25,808.
func TotalLogicalFuseCount(d Device) int {
	g := GeometryOf(d)
	extra := globalNetsFieldCount + postGlobalNetsGapFuses
	if g.HasClockDiv {
		extra += clockDivFieldCount
	}
	if g.HasExtraIBuf {
		extra += 2 // schmitt_trigger + termination_enabled
	}
	return g.LogicalBaseFuses + extra
}
