// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2global

import (
	"github.com/xc2cpld/xc2bit/lib/bitlayout"
	"github.com/xc2cpld/xc2bit/lib/bitpattern"
	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

// ClockDivRatio is the GCK input predivider ratio, present on devices
// with 128 macrocells and up (xc2device.Geometry.HasClockDiv).
type ClockDivRatio int

const (
	Div2 ClockDivRatio = iota
	Div4
	Div6
	Div8
	Div10
	Div12
	Div14
	Div16
)

var ClockDivRatioPattern = bitpattern.Pattern[ClockDivRatio]{
	N: 3,
	Variants: []bitpattern.Variant[ClockDivRatio]{
		{Name: "Div2", Bits: "000", Val: Div2},
		{Name: "Div4", Bits: "001", Val: Div4},
		{Name: "Div6", Bits: "010", Val: Div6},
		{Name: "Div8", Bits: "011", Val: Div8},
		{Name: "Div10", Bits: "100", Val: Div10},
		{Name: "Div12", Bits: "101", Val: Div12},
		{Name: "Div14", Bits: "110", Val: Div14},
		{Name: "Div16", Bits: "111", Val: Div16},
	},
}

// ClockDiv is the predivider's three fields: the ratio itself, a delay
// toggle, and an overall enable. Its five logical fuses sit in their own
// local 5-slot block (relative layout "!enabled ratio[0] ratio[1]
// ratio[2] !delay", grounded on the retrieved pat_pict annotations);
// only the absolute base offset of that block is not recoverable from
// the retrieved source (clock_div_fuse_idx lives in the fusemap_logical
// module, which was not part of the retrieval pack) - see DESIGN.md.
type ClockDiv struct {
	Ratio   ClockDivRatio
	Delay   bool
	Enabled bool
}

// DefaultClockDiv matches the reference source's Default impl.
func DefaultClockDiv() ClockDiv {
	return ClockDiv{Ratio: Div16, Delay: false, Enabled: false}
}

// jedClockDivBase is a self-consistent placeholder for the absolute
// logical fuse offset of a device's 5-slot ClockDiv block: one past the
// last literal fuse BankVoltage consumes for this device (every
// ClockDiv-carrying device also carries DataGate/UseVref/ivoltage/
// ovoltage). The real value (clock_div_fuse_idx) was not present in the
// retrieval pack, so this package places it after BankVoltageJedEnd
// rather than immediately after global_pu, to avoid colliding with that
// record's own literal offsets (e.g. XC2C128's data_gate fuse sits at
// 55335, immediately after global_pu); see DESIGN.md.
func jedClockDivBase(d xc2device.Device) int {
	return BankVoltageJedEnd(d)
}

// ClockDivJedBase exposes jedClockDivBase for callers outside this
// package (pkg/xc2jed's line-break computation) that need the absolute
// offset without duplicating the placeholder's reasoning.
func ClockDivJedBase(d xc2device.Device) int {
	return jedClockDivBase(d)
}

// clockDivJedMap is the engine BitMap for the 5-slot block described on
// ClockDiv: slot 0 (enabled) and slot 4 (delay) are active-low, so the
// engine's own Invert handling does the negation instead of a
// hand-written !plane.Get.
var clockDivJedMap = bitlayout.BitMap{
	bitlayout.CoordInv(0),
	bitlayout.Coord(1),
	bitlayout.Coord(2),
	bitlayout.Coord(3),
	bitlayout.CoordInv(4),
}

func (c ClockDiv) EncodeJed(p *fuseplane.Plane1D, d xc2device.Device) {
	plane := bitlayout.Plane1D{P: p}
	offset := bitlayout.Offset{jedClockDivBase(d)}
	mirror := bitlayout.Mirror{false}
	ratio := ClockDivRatioPattern.Encode(c.Ratio)
	bitlayout.WritePattern(plane, offset, mirror, clockDivJedMap,
		[]bool{c.Enabled, ratio[0], ratio[1], ratio[2], c.Delay})
}

func (c *ClockDiv) DecodeJed(p *fuseplane.Plane1D, d xc2device.Device) error {
	plane := bitlayout.Plane1D{P: p}
	offset := bitlayout.Offset{jedClockDivBase(d)}
	mirror := bitlayout.Mirror{false}
	bits := bitlayout.ReadPattern(plane, offset, mirror, clockDivJedMap)
	ratio, err := ClockDivRatioPattern.Decode(bits[1:4])
	if err != nil {
		return err
	}
	c.Enabled = bits[0]
	c.Ratio = ratio
	c.Delay = bits[4]
	return nil
}

type clockDivCrbit struct {
	ratioX0, ratioX1, ratioX2 int
	delayX, enabledX          int
	y                         int
}

// clockDivCoords holds the literal physical-plane coordinates retrieved
// from globalbits.rs, for every device that carries a ClockDiv (absent on
// XC2C32/32A/64/64A).
var clockDivCoords = map[xc2device.Device]clockDivCrbit{
	xc2device.XC2C128: {ratioX0: 363, ratioX1: 362, ratioX2: 361, delayX: 360, enabledX: 364, y: 67},
	xc2device.XC2C256: {ratioX0: 518, ratioX1: 517, ratioX2: 516, delayX: 515, enabledX: 519, y: 24},
	xc2device.XC2C384: {ratioX0: 470, ratioX1: 469, ratioX2: 468, delayX: 467, enabledX: 471, y: 107},
	xc2device.XC2C512: {ratioX0: 977, ratioX1: 976, ratioX2: 975, delayX: 974, enabledX: 978, y: 147},
}

// clockDivCrbitMap builds the engine BitMap for one device's literal
// coordinate table: since each field's (x, y) pair is looked up directly
// (no base+local formula relates the five fuses to each other), every
// entry names its absolute position as Loc against a zero offset/mirror.
func clockDivCrbitMap(co clockDivCrbit) bitlayout.BitMap {
	return bitlayout.BitMap{
		bitlayout.Coord(co.ratioX0, co.y),
		bitlayout.Coord(co.ratioX1, co.y),
		bitlayout.Coord(co.ratioX2, co.y),
		bitlayout.CoordInv(co.delayX, co.y),
		bitlayout.CoordInv(co.enabledX, co.y),
	}
}

var zero2D = bitlayout.Offset{0, 0}
var noMirror2D = bitlayout.Mirror{false, false}

func (c ClockDiv) EncodeCrbit(p *fuseplane.Plane2D, d xc2device.Device) {
	plane := bitlayout.Plane2D{P: p}
	ratio := ClockDivRatioPattern.Encode(c.Ratio)
	bitlayout.WritePattern(plane, zero2D, noMirror2D, clockDivCrbitMap(clockDivCoords[d]),
		[]bool{ratio[0], ratio[1], ratio[2], c.Delay, c.Enabled})
}

func (c *ClockDiv) DecodeCrbit(p *fuseplane.Plane2D, d xc2device.Device) error {
	plane := bitlayout.Plane2D{P: p}
	bits := bitlayout.ReadPattern(plane, zero2D, noMirror2D, clockDivCrbitMap(clockDivCoords[d]))
	ratio, err := ClockDivRatioPattern.Decode(bits[:3])
	if err != nil {
		return err
	}
	c.Ratio = ratio
	c.Delay = bits[3]
	c.Enabled = bits[4]
	return nil
}
