// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2iob

import (
	"github.com/xc2cpld/xc2bit/lib/bitlayout"
	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2mc"
)

// SmallIob is an I/O pin's configuration on a "small" (32/64
// macrocell) device: it shares a fuse block with its associated
// macrocell (pkg/xc2mc), at the local offsets named below.
type SmallIob struct {
	ZiaMode            ZIAMode
	SchmittTrigger     bool
	ObufUsesFF         bool
	ObufMode           OBufMode
	TerminationEnabled bool
	SlewIsFast         bool
}

// DefaultSmallIob returns a pin configuration with output and ZIA
// feedback disabled, matching the reference source's Default impl.
func DefaultSmallIob() SmallIob {
	return SmallIob{
		ZiaMode:            ZIADisabled,
		SchmittTrigger:     true,
		ObufUsesFF:         false,
		ObufMode:           OBufDisabled,
		TerminationEnabled: true,
		SlewIsFast:         true,
	}
}

// mcBlockBase returns the start of macrocell mcIndex's 27-fuse block
// (see xc2mc.JedStride), for the purposes of locating its associated
// IOB's fields.
func mcBlockBase(mcBase, mcIndex int, mirror bool) int {
	if mirror {
		return mcBase - mcIndex*xc2mc.JedStride
	}
	return mcBase + mcIndex*xc2mc.JedStride
}

// smallIobJedMap is the engine BitMap for SmallIob.{Encode,Decode}Jed,
// at the IOB-reserved offsets (11-12, 16, 19, 20-23, 24, 25) of a
// macrocell's fuse block, grounded on the retrieved XC2MCSmallIOB
// bittwiddler_field "jed_internal" annotations. ObufUsesFF and
// SlewIsFast are active-low.
var smallIobJedMap = bitlayout.BitMap{
	bitlayout.Coord(11), bitlayout.Coord(12), // ZiaMode
	bitlayout.Coord(16),    // SchmittTrigger
	bitlayout.CoordInv(19), // ObufUsesFF
	bitlayout.Coord(20), bitlayout.Coord(21), bitlayout.Coord(22), bitlayout.Coord(23), // ObufMode
	bitlayout.Coord(24),    // TerminationEnabled
	bitlayout.CoordInv(25), // SlewIsFast
}

func smallIobBits(io SmallIob) []bool {
	zia := ZIAModePattern.Encode(io.ZiaMode)
	obuf := OBufModePattern.Encode(io.ObufMode)
	return []bool{
		zia[0], zia[1],
		io.SchmittTrigger,
		io.ObufUsesFF,
		obuf[0], obuf[1], obuf[2], obuf[3],
		io.TerminationEnabled,
		io.SlewIsFast,
	}
}

func fromSmallIobBits(bits []bool) (SmallIob, error) {
	var io SmallIob
	var err error
	if io.ZiaMode, err = ZIAModePattern.Decode(bits[0:2]); err != nil {
		return SmallIob{}, err
	}
	io.SchmittTrigger = bits[2]
	io.ObufUsesFF = bits[3]
	if io.ObufMode, err = DecodeOBufMode(bits[4:8]); err != nil {
		return SmallIob{}, err
	}
	io.TerminationEnabled = bits[8]
	io.SlewIsFast = bits[9]
	return io, nil
}

// EncodeJed writes io onto the logical plane, at the IOB-reserved
// offsets of macrocell mcIndex's fuse block.
func (io SmallIob) EncodeJed(p *fuseplane.Plane1D, mcBase, mcIndex int, mirror bool) {
	plane := bitlayout.Plane1D{P: p}
	offset := bitlayout.Offset{mcBlockBase(mcBase, mcIndex, mirror)}
	bitlayout.WritePattern(plane, offset, bitlayout.Mirror{mirror}, smallIobJedMap, smallIobBits(io))
}

// DecodeSmallIobJed is the inverse of EncodeJed.
func DecodeSmallIobJed(p *fuseplane.Plane1D, mcBase, mcIndex int, mirror bool) (SmallIob, error) {
	plane := bitlayout.Plane1D{P: p}
	offset := bitlayout.Offset{mcBlockBase(mcBase, mcIndex, mirror)}
	bits := bitlayout.ReadPattern(plane, offset, bitlayout.Mirror{mirror}, smallIobJedMap)
	return fromSmallIobBits(bits)
}

// crbitCoords names the (col, row) pairs a SmallIob's fields occupy in
// the crbit32 or crbit64 layout, grounded on the retrieved
// bittwiddler_field "crbit32"/"crbit64" annotations.
type crbitCoords struct {
	ziaX0, ziaY0         int
	ziaX1, ziaY1         int
	schmittX, schmittY   int
	obufFFX, obufFFY     int
	obufModeX, obufModeY int // first of four consecutive columns
	termX, termY         int
	slewX, slewY         int
}

var crbit32Coords = crbitCoords{
	ziaX0: 2, ziaY0: 1, ziaX1: 3, ziaY1: 1,
	schmittX: 7, schmittY: 1,
	obufFFX: 1, obufFFY: 2,
	obufModeX: 2, obufModeY: 2,
	termX: 6, termY: 2,
	slewX: 7, slewY: 2,
}

var crbit64Coords = crbitCoords{
	ziaX0: 5, ziaY0: 1, ziaX1: 6, ziaY1: 1,
	schmittX: 1, schmittY: 1,
	obufFFX: 0, obufFFY: 1,
	obufModeX: 3, obufModeY: 2,
	termX: 2, termY: 2,
	slewX: 1, slewY: 2,
}

// bitMap builds the engine BitMap for one SmallIob crbit layout, in the
// same field order as smallIobBits/fromSmallIobBits.
func (c crbitCoords) bitMap() bitlayout.BitMap {
	return bitlayout.BitMap{
		bitlayout.Coord(c.ziaX0, c.ziaY0), bitlayout.Coord(c.ziaX1, c.ziaY1),
		bitlayout.Coord(c.schmittX, c.schmittY),
		bitlayout.CoordInv(c.obufFFX, c.obufFFY),
		bitlayout.Coord(c.obufModeX, c.obufModeY), bitlayout.Coord(c.obufModeX+1, c.obufModeY),
		bitlayout.Coord(c.obufModeX+2, c.obufModeY), bitlayout.Coord(c.obufModeX+3, c.obufModeY),
		bitlayout.Coord(c.termX, c.termY),
		bitlayout.CoordInv(c.slewX, c.slewY),
	}
}

// EncodeCrbit32 and EncodeCrbit64 write io to the physical plane at the
// macrocell grid whose top-left corner is (baseX, baseY) - the caller
// (pkg/xc2fb) has already applied the device's per-macrocell row
// stride.
func (io SmallIob) EncodeCrbit32(plane *fuseplane.Plane2D, baseX, baseY int) {
	io.encodeCrbit(plane, baseX, baseY, crbit32Coords)
}

func (io SmallIob) EncodeCrbit64(plane *fuseplane.Plane2D, baseX, baseY int) {
	io.encodeCrbit(plane, baseX, baseY, crbit64Coords)
}

func (io SmallIob) encodeCrbit(p *fuseplane.Plane2D, baseX, baseY int, c crbitCoords) {
	plane := bitlayout.Plane2D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{false, false}, c.bitMap(), smallIobBits(io))
}

// DecodeCrbit32 and DecodeCrbit64 are the inverse of the Encode methods
// above.
func DecodeCrbit32(plane *fuseplane.Plane2D, baseX, baseY int) (SmallIob, error) {
	return decodeCrbit(plane, baseX, baseY, crbit32Coords)
}

func DecodeCrbit64(plane *fuseplane.Plane2D, baseX, baseY int) (SmallIob, error) {
	return decodeCrbit(plane, baseX, baseY, crbit64Coords)
}

func decodeCrbit(p *fuseplane.Plane2D, baseX, baseY int, c crbitCoords) (SmallIob, error) {
	plane := bitlayout.Plane2D{P: p}
	bits := bitlayout.ReadPattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{false, false}, c.bitMap())
	return fromSmallIobBits(bits)
}

// ExtraIBuf is the single additional input-only pin present on
// XC2C32(A) devices, grounded on the retrieved XC2ExtraIBuf struct's
// absolute (not macrocell-relative) fuse offsets.
type ExtraIBuf struct {
	SchmittTrigger     bool
	TerminationEnabled bool
}

// DefaultExtraIBuf matches the reference source's Default impl.
func DefaultExtraIBuf() ExtraIBuf {
	return ExtraIBuf{SchmittTrigger: true, TerminationEnabled: true}
}

// JedSchmittFuse and JedTerminationFuse are ExtraIBuf's absolute
// logical fuse indices on XC2C32(A), grounded on the retrieved
// "jed 12272"/"jed 12273" annotations.
const (
	JedSchmittFuse     = 12272
	JedTerminationFuse = 12273
)

// CrbitSchmittX, CrbitSchmittY, CrbitTerminationX, CrbitTerminationY are
// ExtraIBuf's absolute physical-plane coordinates on XC2C32(A),
// grounded on the retrieved "crbit 131|24"/"crbit 132|24" annotations.
const (
	CrbitSchmittX     = 131
	CrbitSchmittY     = 24
	CrbitTerminationX = 132
	CrbitTerminationY = 24
)

var extraIBufJedMap = bitlayout.BitMap{bitlayout.Coord(JedSchmittFuse), bitlayout.Coord(JedTerminationFuse)}
var extraIBufCrbitMap = bitlayout.BitMap{
	bitlayout.Coord(CrbitSchmittX, CrbitSchmittY),
	bitlayout.Coord(CrbitTerminationX, CrbitTerminationY),
}

func (e ExtraIBuf) EncodeJed(p *fuseplane.Plane1D) {
	plane := bitlayout.Plane1D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{0}, bitlayout.Mirror{false}, extraIBufJedMap,
		[]bool{e.SchmittTrigger, e.TerminationEnabled})
}

func DecodeExtraIBufJed(p *fuseplane.Plane1D) ExtraIBuf {
	plane := bitlayout.Plane1D{P: p}
	bits := bitlayout.ReadPattern(plane, bitlayout.Offset{0}, bitlayout.Mirror{false}, extraIBufJedMap)
	return ExtraIBuf{SchmittTrigger: bits[0], TerminationEnabled: bits[1]}
}

func (e ExtraIBuf) EncodeCrbit(p *fuseplane.Plane2D) {
	plane := bitlayout.Plane2D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{0, 0}, bitlayout.Mirror{false, false}, extraIBufCrbitMap,
		[]bool{e.SchmittTrigger, e.TerminationEnabled})
}

func DecodeExtraIBufCrbit(p *fuseplane.Plane2D) ExtraIBuf {
	plane := bitlayout.Plane2D{P: p}
	bits := bitlayout.ReadPattern(plane, bitlayout.Offset{0, 0}, bitlayout.Mirror{false, false}, extraIBufCrbitMap)
	return ExtraIBuf{SchmittTrigger: bits[0], TerminationEnabled: bits[1]}
}
