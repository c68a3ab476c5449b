// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2global

import (
	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

// BankVoltage holds a device's I/O bank voltage-level selections and, on
// the four largest devices, the DataGate and VREF-standards-in-use
// toggles. Not every field applies to every device (see hasLegacyVoltage,
// hasDataGate, bankCount): XC2C32/XC2C64 only ever read Legacy*; their
// A-variants carry both Legacy* (kept for backward compatibility with
// the non-A jed/crbit layout) and the first two elements of IVoltage/
// OVoltage; XC2C128/XC2C256/XC2C384/XC2C512 only ever read IVoltage/
// OVoltage (2 banks on the former pair, 4 on the latter) plus DataGate
// and UseVref.
type BankVoltage struct {
	LegacyIVoltage bool
	LegacyOVoltage bool
	IVoltage       [4]bool
	OVoltage       [4]bool
	DataGate       bool
	UseVref        bool
}

// DefaultBankVoltage matches the reference source's Default impl: every
// bank at its low-voltage setting, DataGate and VREF unused.
func DefaultBankVoltage() BankVoltage {
	return BankVoltage{}
}

func hasLegacyVoltage(d xc2device.Device) bool {
	switch d {
	case xc2device.XC2C32, xc2device.XC2C32A, xc2device.XC2C64, xc2device.XC2C64A:
		return true
	}
	return false
}

func hasDataGate(d xc2device.Device) bool {
	switch d {
	case xc2device.XC2C128, xc2device.XC2C256, xc2device.XC2C384, xc2device.XC2C512:
		return true
	}
	return false
}

// bankCount is the number of IVoltage/OVoltage elements a device reads:
// 0 for the plain (non-A) 32/64 parts, which have no per-bank
// representation at all; 2 for the A-variants and the 128/256 pair; 4 on
// 384/512.
func bankCount(d xc2device.Device) int {
	switch d {
	case xc2device.XC2C32A, xc2device.XC2C64A, xc2device.XC2C128, xc2device.XC2C256:
		return 2
	case xc2device.XC2C384, xc2device.XC2C512:
		return 4
	}
	return 0
}

// invertBankVoltage is false only for XC2C512, whose ivoltage/ovoltage
// fuses are stored uninverted - the sole exception the reference source
// carries for this family of fields (DataGate and UseVref stay inverted
// even there).
func invertBankVoltage(d xc2device.Device) bool {
	return d != xc2device.XC2C512
}

type legacyJedLayout struct{ ovoltage, ivoltage int }

// legacyJedLayouts holds the single ivoltage/ovoltage fuse pair every
// 32/64-family device reads (on the A-variants, this is the "legacy"
// pair kept for compatibility with the non-A layout), transcribed from
// the reference source's to_jed literal jed.f[...] indices.
var legacyJedLayouts = map[xc2device.Device]legacyJedLayout{
	xc2device.XC2C32:  {ovoltage: 12270, ivoltage: 12271},
	xc2device.XC2C32A: {ovoltage: 12270, ivoltage: 12271},
	xc2device.XC2C64:  {ovoltage: 25806, ivoltage: 25807},
	xc2device.XC2C64A: {ovoltage: 25806, ivoltage: 25807},
}

type aVariantJedLayout struct{ ivoltage0, ovoltage0, ivoltage1, ovoltage1 int }

// aVariantJedLayouts holds the per-bank fuses the 32A/64A parts append
// after TotalLogicalFuseCount, interleaved ivoltage/ovoltage per bank -
// transcribed from to_jed's "A-variant bank voltages" match arm.
var aVariantJedLayouts = map[xc2device.Device]aVariantJedLayout{
	xc2device.XC2C32A: {ivoltage0: 12274, ovoltage0: 12275, ivoltage1: 12276, ovoltage1: 12277},
	xc2device.XC2C64A: {ivoltage0: 25808, ovoltage0: 25809, ivoltage1: 25810, ovoltage1: 25811},
}

type miscJedLayout struct{ dataGate, ivoltageBase, ovoltageBase, useVref int }

// miscJedLayouts holds DataGate/ivoltage-block/ovoltage-block/UseVref for
// the four devices that carry them, transcribed from to_jed's per-device
// match arms; ivoltage/ovoltage each occupy bankCount(d) contiguous
// fuses starting at their base.
var miscJedLayouts = map[xc2device.Device]miscJedLayout{
	xc2device.XC2C128: {dataGate: 55335, ivoltageBase: 55336, ovoltageBase: 55338, useVref: 55340},
	xc2device.XC2C256: {dataGate: 123243, ivoltageBase: 123244, ovoltageBase: 123246, useVref: 123248},
	xc2device.XC2C384: {dataGate: 209347, ivoltageBase: 209348, ovoltageBase: 209352, useVref: 209356},
	xc2device.XC2C512: {dataGate: 296393, ivoltageBase: 296394, ovoltageBase: 296398, useVref: 296402},
}

// BankVoltageJedBase returns the lowest absolute logical fuse offset
// BankVoltage's EncodeJed/DecodeJed touch for d, for callers (pkg/xc2jed's
// line-break computation) that want a break immediately before the
// record rather than just its end.
func BankVoltageJedBase(d xc2device.Device) int {
	if l, ok := miscJedLayouts[d]; ok {
		return l.dataGate
	}
	if l, ok := legacyJedLayouts[d]; ok {
		return l.ovoltage
	}
	return 0
}

// BankVoltageJedEnd is one past the highest absolute logical fuse offset
// BankVoltage's EncodeJed/DecodeJed touch for d - the real total jed
// fuse-vector length contributed by this record. It is wider than
// xc2device.TotalLogicalFuseCount on the A-variants (that function's own
// doc comment already notes it excludes the A-variant's appended
// per-bank fuses) and on the four largest devices; on XC2C32 and XC2C64
// it does not exceed that count.
func BankVoltageJedEnd(d xc2device.Device) int {
	if l, ok := miscJedLayouts[d]; ok {
		return l.useVref + 1
	}
	if l, ok := aVariantJedLayouts[d]; ok {
		return l.ovoltage1 + 1
	}
	if l, ok := legacyJedLayouts[d]; ok {
		return l.ivoltage + 1
	}
	return 0
}

func (bv BankVoltage) EncodeJed(plane *fuseplane.Plane1D, d xc2device.Device) {
	if hasLegacyVoltage(d) {
		l := legacyJedLayouts[d]
		plane.Set(l.ovoltage, !bv.LegacyOVoltage)
		plane.Set(l.ivoltage, !bv.LegacyIVoltage)
	}
	if a, ok := aVariantJedLayouts[d]; ok {
		plane.Set(a.ivoltage0, !bv.IVoltage[0])
		plane.Set(a.ovoltage0, !bv.OVoltage[0])
		plane.Set(a.ivoltage1, !bv.IVoltage[1])
		plane.Set(a.ovoltage1, !bv.OVoltage[1])
	}
	if hasDataGate(d) {
		m := miscJedLayouts[d]
		invert := invertBankVoltage(d)
		plane.Set(m.dataGate, !bv.DataGate)
		plane.Set(m.useVref, !bv.UseVref)
		for i := 0; i < bankCount(d); i++ {
			iv, ov := bv.IVoltage[i], bv.OVoltage[i]
			if invert {
				iv, ov = !iv, !ov
			}
			plane.Set(m.ivoltageBase+i, iv)
			plane.Set(m.ovoltageBase+i, ov)
		}
	}
}

func (bv *BankVoltage) DecodeJed(plane *fuseplane.Plane1D, d xc2device.Device) {
	if hasLegacyVoltage(d) {
		l := legacyJedLayouts[d]
		bv.LegacyOVoltage = !plane.Get(l.ovoltage)
		bv.LegacyIVoltage = !plane.Get(l.ivoltage)
	}
	if a, ok := aVariantJedLayouts[d]; ok {
		bv.IVoltage[0] = !plane.Get(a.ivoltage0)
		bv.OVoltage[0] = !plane.Get(a.ovoltage0)
		bv.IVoltage[1] = !plane.Get(a.ivoltage1)
		bv.OVoltage[1] = !plane.Get(a.ovoltage1)
	}
	if hasDataGate(d) {
		m := miscJedLayouts[d]
		invert := invertBankVoltage(d)
		bv.DataGate = !plane.Get(m.dataGate)
		bv.UseVref = !plane.Get(m.useVref)
		for i := 0; i < bankCount(d); i++ {
			iv, ov := plane.Get(m.ivoltageBase+i), plane.Get(m.ovoltageBase+i)
			if invert {
				iv, ov = !iv, !ov
			}
			bv.IVoltage[i], bv.OVoltage[i] = iv, ov
		}
	}
}

type legacyCrbitLayout struct{ ivoltageX, ovoltageX, y int }

// legacyCrbitLayouts mirrors legacyJedLayouts for the physical plane,
// transcribed from each struct's #[pat_bits(frag_variant = Crbit, ...)]
// annotation.
var legacyCrbitLayouts = map[xc2device.Device]legacyCrbitLayout{
	xc2device.XC2C32:  {ivoltageX: 130, ovoltageX: 130, y: 24}, // ovoltage shares column; see EncodeCrbit
	xc2device.XC2C32A: {ivoltageX: 130, ovoltageX: 130, y: 24},
	xc2device.XC2C64:  {ivoltageX: 138, ovoltageX: 137, y: 23},
	xc2device.XC2C64A: {ivoltageX: 138, ovoltageX: 137, y: 23},
}

// legacyCrbitIVoltageCoord returns ivoltage's coordinate; its row is
// relative to legacyCrbitLayout.y, and ovoltage sits on y itself. Only XC2C32/32A offset
// ivoltage onto the next row - 64/64A place both on the same row at
// different columns - transcribed verbatim from the retrieved
// #[pat_bits] coordinates ((130,24)/(130,25) vs (138,23)/(137,23)).
func legacyCrbitIVoltageCoord(d xc2device.Device) (x, y int) {
	l := legacyCrbitLayouts[d]
	switch d {
	case xc2device.XC2C32, xc2device.XC2C32A:
		return l.ivoltageX, l.y + 1
	default:
		return l.ivoltageX, l.y
	}
}

func legacyCrbitOVoltageCoord(d xc2device.Device) (x, y int) {
	l := legacyCrbitLayouts[d]
	return l.ovoltageX, l.y
}

type aVariantCrbitLayout struct{ ivoltage, ovoltage [2][2]int }

// aVariantCrbitLayouts holds the per-bank physical coordinates the
// 32A/64A parts add, transcribed from their #[arr_off] closures.
var aVariantCrbitLayouts = map[xc2device.Device]aVariantCrbitLayout{
	xc2device.XC2C32A: {
		ivoltage: [2][2]int{{131, 25}, {133, 25}},
		ovoltage: [2][2]int{{132, 25}, {134, 25}},
	},
	xc2device.XC2C64A: {
		ivoltage: [2][2]int{{139, 23}, {141, 23}},
		ovoltage: [2][2]int{{140, 23}, {142, 23}},
	},
}

type miscCrbitLayout struct {
	dataGate, useVref  [2]int
	ivoltage, ovoltage [4][2]int
}

// miscCrbitLayouts holds DataGate/UseVref/ivoltage/ovoltage physical
// coordinates for the four largest devices, transcribed from the
// retrieved source's #[pat_bits]/#[arr_off] annotations (XC2C512's
// ivoltage/ovoltage use an uninverted "0" = (0, 0) pattern there; see
// invertBankVoltage).
var miscCrbitLayouts = map[xc2device.Device]miscCrbitLayout{
	xc2device.XC2C128: {
		dataGate: [2]int{371, 67}, useVref: [2]int{10, 67},
		ivoltage: [4][2]int{{8, 67}, {368, 67}},
		ovoltage: [4][2]int{{9, 67}, {369, 67}},
	},
	xc2device.XC2C256: {
		dataGate: [2]int{518, 23}, useVref: [2]int{177, 23},
		ivoltage: [4][2]int{{175, 23}, {515, 23}},
		ovoltage: [4][2]int{{176, 23}, {516, 23}},
	},
	xc2device.XC2C384: {
		dataGate: [2]int{932, 17}, useVref: [2]int{3, 17},
		ivoltage: [4][2]int{{936, 17}, {1864, 17}, {1, 17}, {929, 17}},
		ovoltage: [4][2]int{{937, 17}, {1865, 17}, {2, 17}, {930, 17}},
	},
	xc2device.XC2C512: {
		dataGate: [2]int{982, 147}, useVref: [2]int{1, 147},
		ivoltage: [4][2]int{{992, 147}, {1965, 147}, {3, 147}, {985, 147}},
		ovoltage: [4][2]int{{991, 147}, {1964, 147}, {2, 147}, {984, 147}},
	},
}

func (bv BankVoltage) EncodeCrbit(plane *fuseplane.Plane2D, d xc2device.Device) {
	if hasLegacyVoltage(d) {
		ix, iy := legacyCrbitIVoltageCoord(d)
		ox, oy := legacyCrbitOVoltageCoord(d)
		plane.Set(ix, iy, !bv.LegacyIVoltage)
		plane.Set(ox, oy, !bv.LegacyOVoltage)
	}
	if a, ok := aVariantCrbitLayouts[d]; ok {
		plane.Set(a.ivoltage[0][0], a.ivoltage[0][1], !bv.IVoltage[0])
		plane.Set(a.ovoltage[0][0], a.ovoltage[0][1], !bv.OVoltage[0])
		plane.Set(a.ivoltage[1][0], a.ivoltage[1][1], !bv.IVoltage[1])
		plane.Set(a.ovoltage[1][0], a.ovoltage[1][1], !bv.OVoltage[1])
	}
	if hasDataGate(d) {
		m := miscCrbitLayouts[d]
		invert := invertBankVoltage(d)
		plane.Set(m.dataGate[0], m.dataGate[1], !bv.DataGate)
		plane.Set(m.useVref[0], m.useVref[1], !bv.UseVref)
		for i := 0; i < bankCount(d); i++ {
			iv, ov := bv.IVoltage[i], bv.OVoltage[i]
			if invert {
				iv, ov = !iv, !ov
			}
			plane.Set(m.ivoltage[i][0], m.ivoltage[i][1], iv)
			plane.Set(m.ovoltage[i][0], m.ovoltage[i][1], ov)
		}
	}
}

func (bv *BankVoltage) DecodeCrbit(plane *fuseplane.Plane2D, d xc2device.Device) {
	if hasLegacyVoltage(d) {
		ix, iy := legacyCrbitIVoltageCoord(d)
		ox, oy := legacyCrbitOVoltageCoord(d)
		bv.LegacyIVoltage = !plane.Get(ix, iy)
		bv.LegacyOVoltage = !plane.Get(ox, oy)
	}
	if a, ok := aVariantCrbitLayouts[d]; ok {
		bv.IVoltage[0] = !plane.Get(a.ivoltage[0][0], a.ivoltage[0][1])
		bv.OVoltage[0] = !plane.Get(a.ovoltage[0][0], a.ovoltage[0][1])
		bv.IVoltage[1] = !plane.Get(a.ivoltage[1][0], a.ivoltage[1][1])
		bv.OVoltage[1] = !plane.Get(a.ovoltage[1][0], a.ovoltage[1][1])
	}
	if hasDataGate(d) {
		m := miscCrbitLayouts[d]
		invert := invertBankVoltage(d)
		bv.DataGate = !plane.Get(m.dataGate[0], m.dataGate[1])
		bv.UseVref = !plane.Get(m.useVref[0], m.useVref[1])
		for i := 0; i < bankCount(d); i++ {
			iv, ov := plane.Get(m.ivoltage[i][0], m.ivoltage[i][1]), plane.Get(m.ovoltage[i][0], m.ovoltage[i][1])
			if invert {
				iv, ov = !iv, !ov
			}
			bv.IVoltage[i], bv.OVoltage[i] = iv, ov
		}
	}
}
