// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2pla implements the AND array (product terms) and OR array
// (sum terms) of a function block's PLA: each AndTerm selects, for every
// one of a function block's ZIA rows, whether that row's true and/or
// complemented value feeds the term, and each OrTerm selects which of a
// function block's product terms feed a macrocell's sum.
//
// Both placements are grounded directly on the literal fuse-index
// arithmetic retrieved from the reference source's pla.rs: no
// placeholder tables are used here, unlike pkg/xc2zia. Placement itself
// is expressed as lib/bitlayout BitMaps (inverted-storage CoordInv
// entries under the term's own offset/mirror), not hand-rolled
// plane.Get/Set loops.
package xc2pla

import (
	"github.com/xc2cpld/xc2bit/lib/bitlayout"
	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

// RowsPerFB is the number of ZIA rows (and thus the number of AND-term
// input/input_b bits) per function block.
const RowsPerFB = 40

// ProductTermsPerFB is the number of AND-array product terms (and thus
// OrTerm.Input bits) per function block.
const ProductTermsPerFB = 56

// mcsPerFB is the jed fuse stride between consecutive OrTerm.Input bits,
// grounded on the retrieved "MCS_PER_FB" stride constant in pla.rs.
const mcsPerFB = 16

// AndTerm is one AND-array product term: for each ZIA row, whether the
// row's true value (Input) and/or its complement (InputB) feeds the
// term. Storage on the plane is inverted - a cleared fuse means
// "selected" - so the zero value (all-false, i.e. nothing selected)
// round-trips to an all-set fuse row, matching the source's
// Default impl.
type AndTerm struct {
	Input  []bool
	InputB []bool
}

// NewAndTerm returns an AndTerm with no rows selected.
func NewAndTerm() *AndTerm {
	return &AndTerm{Input: make([]bool, RowsPerFB), InputB: make([]bool, RowsPerFB)}
}

// andJedMap is the engine BitMap for AndTerm.{Encode,Decode}Jed: row i's
// true-value fuse at local offset 2*i, its complement at 2*i+1, both
// active-low.
var andJedMap = func() bitlayout.BitMap {
	m := make(bitlayout.BitMap, 0, 2*RowsPerFB)
	for i := 0; i < RowsPerFB; i++ {
		m = append(m, bitlayout.CoordInv(2*i), bitlayout.CoordInv(2*i+1))
	}
	return m
}()

func andBits(t *AndTerm) []bool {
	bits := make([]bool, 0, 2*RowsPerFB)
	for i := 0; i < RowsPerFB; i++ {
		bits = append(bits, t.Input[i], t.InputB[i])
	}
	return bits
}

func fromAndBits(t *AndTerm, bits []bool) {
	for i := 0; i < RowsPerFB; i++ {
		t.Input[i], t.InputB[i] = bits[2*i], bits[2*i+1]
	}
}

// EncodeJed writes t to the logical plane at the given base offset and
// horizontal mirror flag: row i's true-value fuse sits at offset+2*i*sign,
// its complement at offset+(1+2*i)*sign.
func (t *AndTerm) EncodeJed(p *fuseplane.Plane1D, offset int, mirror bool) {
	plane := bitlayout.Plane1D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{offset}, bitlayout.Mirror{mirror}, andJedMap, andBits(t))
}

// DecodeJed is the inverse of EncodeJed.
func (t *AndTerm) DecodeJed(p *fuseplane.Plane1D, offset int, mirror bool) {
	plane := bitlayout.Plane1D{P: p}
	bits := bitlayout.ReadPattern(plane, bitlayout.Offset{offset}, bitlayout.Mirror{mirror}, andJedMap)
	fromAndBits(t, bits)
}

// andCentralMap builds the engine BitMap for AndTerm's central-OR-array
// physical placement: row i sits at local y=i (pushed down 8 rows past
// ZIA row 19, to make room for the OR array that splits the AND block),
// true value at local x=1 (so offset+sign under mirror), complement at
// local x=0.
var andCentralMap = func() bitlayout.BitMap {
	m := make(bitlayout.BitMap, 0, 2*RowsPerFB)
	for i := 0; i < RowsPerFB; i++ {
		y := i
		if i >= 20 {
			y += 8
		}
		m = append(m, bitlayout.CoordInv(1, y), bitlayout.CoordInv(0, y))
	}
	return m
}()

// andSideMap is andCentralMap's ORTopologyType2 counterpart: identical
// column layout, no 8-row gap.
var andSideMap = func() bitlayout.BitMap {
	m := make(bitlayout.BitMap, 0, 2*RowsPerFB)
	for i := 0; i < RowsPerFB; i++ {
		m = append(m, bitlayout.CoordInv(1, i), bitlayout.CoordInv(0, i))
	}
	return m
}()

// EncodeCrbitCentral writes t to the physical plane for a device with a
// central OR array (ORTopologyType1). baseX, baseY is the term's own
// two-column base within the FB's AND block (the caller has already
// applied the term's column-pair offset, term_idx*2*sign).
func (t *AndTerm) EncodeCrbitCentral(p *fuseplane.Plane2D, baseX, baseY int, mirrorX bool) {
	plane := bitlayout.Plane2D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{mirrorX, false}, andCentralMap, andBits(t))
}

// DecodeCrbitCentral is the inverse of EncodeCrbitCentral.
func (t *AndTerm) DecodeCrbitCentral(p *fuseplane.Plane2D, baseX, baseY int, mirrorX bool) {
	plane := bitlayout.Plane2D{P: p}
	bits := bitlayout.ReadPattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{mirrorX, false}, andCentralMap)
	fromAndBits(t, bits)
}

// EncodeCrbitSide writes t to the physical plane for a device with a
// side OR array (ORTopologyType2): identical column layout to
// EncodeCrbitCentral but with no 8-row gap, since the OR array sits
// beside the AND array rather than splitting it.
func (t *AndTerm) EncodeCrbitSide(p *fuseplane.Plane2D, baseX, baseY int, mirrorX bool) {
	plane := bitlayout.Plane2D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{mirrorX, false}, andSideMap, andBits(t))
}

// DecodeCrbitSide is the inverse of EncodeCrbitSide.
func (t *AndTerm) DecodeCrbitSide(p *fuseplane.Plane2D, baseX, baseY int, mirrorX bool) {
	plane := bitlayout.Plane2D{P: p}
	bits := bitlayout.ReadPattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{mirrorX, false}, andSideMap)
	fromAndBits(t, bits)
}

// OrTerm is one OR-array sum term: for each of a function block's
// product terms, whether it feeds this term's macrocell. Storage is
// inverted, as with AndTerm.
type OrTerm struct {
	Input []bool
}

// NewOrTerm returns an OrTerm with no product terms selected.
func NewOrTerm() *OrTerm {
	return &OrTerm{Input: make([]bool, ProductTermsPerFB)}
}

// orJedMap is the engine BitMap for OrTerm.{Encode,Decode}Jed: product
// term i's fuse sits at local offset mcsPerFB*i, active-low.
var orJedMap = func() bitlayout.BitMap {
	m := make(bitlayout.BitMap, ProductTermsPerFB)
	for i := range m {
		m[i] = bitlayout.CoordInv(mcsPerFB * i)
	}
	return m
}()

// EncodeJed writes t to the logical plane: product term i's fuse sits
// at offset + mcsPerFB*i*sign.
func (t *OrTerm) EncodeJed(p *fuseplane.Plane1D, offset int, mirror bool) {
	plane := bitlayout.Plane1D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{offset}, bitlayout.Mirror{mirror}, orJedMap, t.Input)
}

// DecodeJed is the inverse of EncodeJed.
func (t *OrTerm) DecodeJed(p *fuseplane.Plane1D, offset int, mirror bool) {
	plane := bitlayout.Plane1D{P: p}
	copy(t.Input, bitlayout.ReadPattern(plane, bitlayout.Offset{offset}, bitlayout.Mirror{mirror}, orJedMap))
}

// orCentralMap is the engine BitMap for OrTerm's central-OR-array
// physical placement: product term i's fuse sits at local (2*i, 0).
var orCentralMap = func() bitlayout.BitMap {
	m := make(bitlayout.BitMap, ProductTermsPerFB)
	for i := range m {
		m[i] = bitlayout.CoordInv(2*i, 0)
	}
	return m
}()

// EncodeCrbitCentral writes t to the physical plane for a device with a
// central OR array. baseX, baseY is the term's own base within the FB's
// OR block: the caller has already applied this term's column parity
// (orTermIdx%2) and row (orTermIdx/2) offsets, since - unlike AndTerm's
// Type1 placement - the OR block's row depends on the *term* index and
// its column depends on the *input* index.
func (t *OrTerm) EncodeCrbitCentral(p *fuseplane.Plane2D, baseX, baseY int, mirror bool) {
	plane := bitlayout.Plane2D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{mirror, false}, orCentralMap, t.Input)
}

// DecodeCrbitCentral is the inverse of EncodeCrbitCentral.
func (t *OrTerm) DecodeCrbitCentral(p *fuseplane.Plane2D, baseX, baseY int, mirror bool) {
	plane := bitlayout.Plane2D{P: p}
	copy(t.Input, bitlayout.ReadPattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{mirror, false}, orCentralMap))
}

// OrBlockType2RowMap gives, for each pair of product terms (and_term_idx/2)
// on a side-OR-array device, the OR block's physical row - a fixed
// zig-zag grounded on the retrieved literal table in fb.rs.
var OrBlockType2RowMap = [ProductTermsPerFB / 2]int{
	17, 19, 22, 20, 0, 1, 3, 4, 5, 7, 8, 11, 12, 13, 15, 16,
	23, 24, 26, 27, 28, 31, 32, 34, 35, 36, 38, 39,
}

// AndBlockType2P2LMap maps a Type2 device's physical AND-term column
// index to the logical product-term index it actually stores, grounded
// on the retrieved literal table in fb.rs.
var AndBlockType2P2LMap = [ProductTermsPerFB]int{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
	55, 54, 53,
	11, 12, 13,
	52, 51, 50,
	14, 15, 16,
	49, 48, 47,
	17, 18, 19,
	46, 45, 44,
	20, 21, 22,
	43, 42, 41,
	23, 24, 25,
	40, 39, 38,
	26, 27, 28,
	37, 36, 35,
	29, 30, 31,
	34, 33, 32,
}

// orSideParity returns OrTerm's EncodeCrbitSide/DecodeCrbitSide column
// parity for product term i: row >= 23 is the OR block's "reverse" half,
// where even/odd column assignment flips relative to the first half.
func orSideParity(i, row int) int {
	if row >= 23 {
		if i%2 == 0 {
			return 1
		}
		return 0
	}
	if i%2 == 1 {
		return 1
	}
	return 0
}

// orSideMap builds the engine BitMap for OrTerm's side-OR-array physical
// placement, via OrBlockType2RowMap and orSideParity.
var orSideMap = func() bitlayout.BitMap {
	m := make(bitlayout.BitMap, ProductTermsPerFB)
	for i := range m {
		row := OrBlockType2RowMap[i/2]
		m[i] = bitlayout.CoordInv(orSideParity(i, row), row)
	}
	return m
}()

// EncodeCrbitSide writes t to the physical plane for a device with a
// side OR array: baseX is the term's own two-column base within the FB's
// OR block (the caller has already applied orTermIdx*2*sign); the OR
// block's row for product term i comes from OrBlockType2RowMap[i/2],
// with the column parity flipping depending on whether that row is in
// the block's first or second ("reverse") half.
func (t *OrTerm) EncodeCrbitSide(p *fuseplane.Plane2D, baseX, baseY int, mirror bool) {
	plane := bitlayout.Plane2D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{mirror, false}, orSideMap, t.Input)
}

// DecodeCrbitSide is the inverse of EncodeCrbitSide.
func (t *OrTerm) DecodeCrbitSide(p *fuseplane.Plane2D, baseX, baseY int, mirror bool) {
	plane := bitlayout.Plane2D{P: p}
	copy(t.Input, bitlayout.ReadPattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{mirror, false}, orSideMap))
}

// GapRows returns the number of extra physical rows a function block's
// AND array occupies beyond RowsPerFB due to the central-OR-array gap,
// for device d: 8 on ORTopologyType1 devices, 0 otherwise.
func GapRows(d xc2device.Device) int {
	if xc2device.GeometryOf(d).ORTopology == xc2device.ORTopologyType1 {
		return 8
	}
	return 0
}
