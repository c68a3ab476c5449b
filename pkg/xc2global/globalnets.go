// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2global implements the device-wide global control nets: the
// three GCK clock pins, global set/reset (GSR), the four global
// tri-state (GTS) pins, the global pull-up default, the GCK predivider
// (on 128-macrocell and larger devices), and the I/O bank voltage record
// (bankvoltage.go). Every field's placement here is grounded directly on
// the literal fuse offsets and physical-plane coordinates retrieved from
// the reference source's globalbits.rs/bitstream.rs; the single
// exception is ClockDiv's absolute logical-fuse base, whose defining
// function lived in a source file outside the retrieval pack - see
// clockdiv.go and DESIGN.md. GlobalNets and ClockDiv placement is
// expressed as lib/bitlayout BitMaps over literal per-device coordinates
// (an offset of zero, so each entry's Loc is the absolute fuse/grid
// position itself) so that reading it back is the engine's ReadPattern/
// WritePattern, not a hand-rolled loop; bankvoltage.go sets and reads
// its fuses on the planes directly.
package xc2global

import (
	"github.com/xc2cpld/xc2bit/lib/bitlayout"
	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

// GlobalNets holds the device-wide control nets common to every
// Coolrunner-II part.
type GlobalNets struct {
	GCKEnable [3]bool
	GSREnable bool
	GSRInvert bool
	GTSEnable [4]bool
	GTSInvert [4]bool
	GlobalPU  bool
}

// DefaultGlobalNets matches the reference source's Default impl: every
// GCK/GSR/GTS net disabled, GTS sensed active-low, pull-up enabled.
func DefaultGlobalNets() GlobalNets {
	return GlobalNets{
		GTSInvert: [4]bool{true, true, true, true},
		GlobalPU:  true,
	}
}

type jedLayout struct {
	gckBase       int
	gsrEnable     int
	gsrInvert     int
	gtsEnableBase int
	gtsInvertBase int
	globalPU      int
}

var jedLayouts = map[xc2device.Device]jedLayout{
	xc2device.XC2C32:  {gckBase: 12256, gsrInvert: 12259, gsrEnable: 12260, gtsInvertBase: 12261, gtsEnableBase: 12262, globalPU: 12269},
	xc2device.XC2C32A: {gckBase: 12256, gsrInvert: 12259, gsrEnable: 12260, gtsInvertBase: 12261, gtsEnableBase: 12262, globalPU: 12269},
	xc2device.XC2C64:  {gckBase: 25792, gsrInvert: 25795, gsrEnable: 25796, gtsInvertBase: 25797, gtsEnableBase: 25798, globalPU: 25805},
	xc2device.XC2C64A: {gckBase: 25792, gsrInvert: 25795, gsrEnable: 25796, gtsInvertBase: 25797, gtsEnableBase: 25798, globalPU: 25805},
	xc2device.XC2C128: {gckBase: 55316, gsrInvert: 55324, gsrEnable: 55325, gtsInvertBase: 55326, gtsEnableBase: 55327, globalPU: 55334},
	xc2device.XC2C256: {gckBase: 123224, gsrInvert: 123232, gsrEnable: 123233, gtsInvertBase: 123234, gtsEnableBase: 123235, globalPU: 123242},
	xc2device.XC2C384: {gckBase: 209328, gsrInvert: 209336, gsrEnable: 209337, gtsInvertBase: 209338, gtsEnableBase: 209339, globalPU: 209346},
	xc2device.XC2C512: {gckBase: 296374, gsrInvert: 296382, gsrEnable: 296383, gtsInvertBase: 296384, gtsEnableBase: 296385, globalPU: 296392},
}

// globalPuJed returns a device's absolute global_pu logical fuse index,
// grounded on the retrieved literal offset.
func globalPuJed(d xc2device.Device) int {
	return jedLayouts[d].globalPU
}

// bitMap builds the 14-entry engine BitMap for l, in the fixed order
// [gck0 gck1 gck2 gsrInvert gsrEnable gts{Invert,Enable}*4 globalPU]
// that globalNetsBits/fromGlobalNetsBits use to marshal GlobalNets.
func (l jedLayout) bitMap() bitlayout.BitMap {
	m := make(bitlayout.BitMap, 0, 11)
	for i := 0; i < 3; i++ {
		m = append(m, bitlayout.Coord(l.gckBase+i))
	}
	m = append(m, bitlayout.Coord(l.gsrInvert), bitlayout.Coord(l.gsrEnable))
	for i := 0; i < 4; i++ {
		m = append(m, bitlayout.Coord(l.gtsInvertBase+2*i), bitlayout.Coord(l.gtsEnableBase+2*i))
	}
	return append(m, bitlayout.Coord(l.globalPU))
}

var zero1D = bitlayout.Offset{0}
var noMirror1D = bitlayout.Mirror{false}

func globalNetsBits(g GlobalNets) []bool {
	bits := make([]bool, 0, 11)
	bits = append(bits, g.GCKEnable[0], g.GCKEnable[1], g.GCKEnable[2])
	bits = append(bits, g.GSRInvert, g.GSREnable)
	for i := 0; i < 4; i++ {
		bits = append(bits, g.GTSInvert[i], g.GTSEnable[i])
	}
	return append(bits, g.GlobalPU)
}

func fromGlobalNetsBits(bits []bool) GlobalNets {
	var g GlobalNets
	g.GCKEnable[0], g.GCKEnable[1], g.GCKEnable[2] = bits[0], bits[1], bits[2]
	g.GSRInvert, g.GSREnable = bits[3], bits[4]
	for i := 0; i < 4; i++ {
		g.GTSInvert[i] = bits[5+2*i]
		g.GTSEnable[i] = bits[6+2*i]
	}
	g.GlobalPU = bits[13]
	return g
}

func (g GlobalNets) EncodeJed(p *fuseplane.Plane1D, d xc2device.Device) {
	plane := bitlayout.Plane1D{P: p}
	bitlayout.WritePattern(plane, zero1D, noMirror1D, jedLayouts[d].bitMap(), globalNetsBits(g))
}

func (g *GlobalNets) DecodeJed(p *fuseplane.Plane1D, d xc2device.Device) {
	plane := bitlayout.Plane1D{P: p}
	bits := bitlayout.ReadPattern(plane, zero1D, noMirror1D, jedLayouts[d].bitMap())
	*g = fromGlobalNetsBits(bits)
}

type crbitLayout struct {
	gck       [3][2]int
	gsrEnable [2]int
	gsrInvert [2]int
	gtsEnable [4][2]int
	gtsInvert [4][2]int
	globalPU  [2]int
}

var crbitLayouts = map[xc2device.Device]crbitLayout{
	xc2device.XC2C32: {
		gck:       [3][2]int{{126, 23}, {127, 23}, {128, 23}},
		gsrEnable: [2]int{130, 23},
		gsrInvert: [2]int{129, 23},
		gtsEnable: [4][2]int{{127, 24}, {129, 24}, {127, 25}, {129, 25}},
		gtsInvert: [4][2]int{{126, 24}, {128, 24}, {126, 25}, {128, 25}},
		globalPU:  [2]int{131, 23},
	},
	xc2device.XC2C32A: {
		gck:       [3][2]int{{126, 23}, {127, 23}, {128, 23}},
		gsrEnable: [2]int{130, 23},
		gsrInvert: [2]int{129, 23},
		gtsEnable: [4][2]int{{127, 24}, {129, 24}, {127, 25}, {129, 25}},
		gtsInvert: [4][2]int{{126, 24}, {128, 24}, {126, 25}, {128, 25}},
		globalPU:  [2]int{131, 23},
	},
	xc2device.XC2C64: {
		gck:       [3][2]int{{133, 23}, {134, 23}, {135, 23}},
		gsrEnable: [2]int{136, 73},
		gsrInvert: [2]int{135, 73},
		gtsEnable: [4][2]int{{134, 24}, {136, 24}, {138, 73}, {138, 24}},
		gtsInvert: [4][2]int{{133, 24}, {135, 24}, {137, 73}, {137, 24}},
		globalPU:  [2]int{136, 23},
	},
	xc2device.XC2C64A: {
		gck:       [3][2]int{{133, 23}, {134, 23}, {135, 23}},
		gsrEnable: [2]int{136, 73},
		gsrInvert: [2]int{135, 73},
		gtsEnable: [4][2]int{{134, 24}, {136, 24}, {138, 73}, {138, 24}},
		gtsInvert: [4][2]int{{133, 24}, {135, 24}, {137, 73}, {137, 24}},
		globalPU:  [2]int{136, 23},
	},
	xc2device.XC2C128: {
		gck:       [3][2]int{{365, 67}, {366, 67}, {367, 67}},
		gsrEnable: [2]int{2, 67},
		gsrInvert: [2]int{1, 67},
		gtsEnable: [4][2]int{{5, 27}, {7, 27}, {5, 67}, {7, 67}},
		gtsInvert: [4][2]int{{4, 27}, {6, 27}, {4, 67}, {6, 67}},
		globalPU:  [2]int{370, 67},
	},
	xc2device.XC2C256: {
		gck:       [3][2]int{{519, 23}, {520, 23}, {521, 23}},
		gsrEnable: [2]int{179, 23},
		gsrInvert: [2]int{178, 23},
		gtsEnable: [4][2]int{{182, 23}, {177, 24}, {179, 24}, {182, 24}},
		gtsInvert: [4][2]int{{181, 23}, {176, 24}, {178, 24}, {181, 24}},
		globalPU:  [2]int{517, 23},
	},
	xc2device.XC2C384: {
		gck:       [3][2]int{{467, 102}, {468, 102}, {469, 102}},
		gsrEnable: [2]int{2, 97},
		gsrInvert: [2]int{1, 97},
		gtsEnable: [4][2]int{{463, 107}, {464, 107}, {465, 107}, {466, 107}},
		gtsInvert: [4][2]int{{463, 102}, {464, 102}, {465, 102}, {466, 102}},
		globalPU:  [2]int{931, 17},
	},
	xc2device.XC2C512: {
		gck:       [3][2]int{{979, 147}, {980, 147}, {981, 147}},
		gsrEnable: [2]int{2, 27},
		gsrInvert: [2]int{1, 27},
		gtsEnable: [4][2]int{{4, 27}, {481, 27}, {6, 27}, {8, 27}},
		gtsInvert: [4][2]int{{3, 27}, {480, 27}, {5, 27}, {7, 27}},
		globalPU:  [2]int{983, 147},
	},
}

// bitMap builds the same 14-entry ordering as jedLayout.bitMap, but over
// literal (x, y) grid coordinates for the physical plane.
func (l crbitLayout) bitMap() bitlayout.BitMap {
	m := make(bitlayout.BitMap, 0, 11)
	for i := 0; i < 3; i++ {
		m = append(m, bitlayout.Coord(l.gck[i][0], l.gck[i][1]))
	}
	m = append(m, bitlayout.Coord(l.gsrInvert[0], l.gsrInvert[1]), bitlayout.Coord(l.gsrEnable[0], l.gsrEnable[1]))
	for i := 0; i < 4; i++ {
		m = append(m, bitlayout.Coord(l.gtsInvert[i][0], l.gtsInvert[i][1]), bitlayout.Coord(l.gtsEnable[i][0], l.gtsEnable[i][1]))
	}
	return append(m, bitlayout.Coord(l.globalPU[0], l.globalPU[1]))
}

func (g GlobalNets) EncodeCrbit(p *fuseplane.Plane2D, d xc2device.Device) {
	plane := bitlayout.Plane2D{P: p}
	bitlayout.WritePattern(plane, zero2D, noMirror2D, crbitLayouts[d].bitMap(), globalNetsBits(g))
}

func (g *GlobalNets) DecodeCrbit(p *fuseplane.Plane2D, d xc2device.Device) {
	plane := bitlayout.Plane2D{P: p}
	bits := bitlayout.ReadPattern(plane, zero2D, noMirror2D, crbitLayouts[d].bitMap())
	*g = fromGlobalNetsBits(bits)
}
