// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2iob

import (
	"github.com/xc2cpld/xc2bit/lib/bitlayout"
	"github.com/xc2cpld/xc2bit/lib/fuseplane"
)

// LargeIob is an I/O pin's configuration on a "large" (128 macrocell
// and greater) device: it adds an IbufMode and a DataGate toggle beyond
// SmallIob's fields, and has its own jed/crbit placements.
type LargeIob struct {
	ZiaMode            ZIAMode
	IbufMode           IbufMode
	ObufUsesFF         bool
	ObufMode           OBufMode
	TerminationEnabled bool
	SlewIsFast         bool
	UsesDataGate       bool
}

// DefaultLargeIob matches the reference source's Default impl.
func DefaultLargeIob() LargeIob {
	return LargeIob{
		ZiaMode:            ZIADisabled,
		IbufMode:           IbufNoVrefSt,
		ObufUsesFF:         false,
		ObufMode:           OBufDisabled,
		TerminationEnabled: true,
		SlewIsFast:         true,
		UsesDataGate:       false,
	}
}

// largeIobJedMap is the engine BitMap for LargeIob.{Encode,Decode}Jed,
// grounded on the retrieved XC2MCLargeIOB "jed_internal" annotations
// (8-9, 11-12, 13-16, 20, 25, 26, 5). ObufUsesFF and SlewIsFast are
// active-low.
var largeIobJedMap = bitlayout.BitMap{
	bitlayout.Coord(11), bitlayout.Coord(12), // ZiaMode
	bitlayout.Coord(8), bitlayout.Coord(9), // IbufMode
	bitlayout.CoordInv(20), // ObufUsesFF
	bitlayout.Coord(13), bitlayout.Coord(14), bitlayout.Coord(15), bitlayout.Coord(16), // ObufMode
	bitlayout.Coord(26),    // TerminationEnabled
	bitlayout.CoordInv(25), // SlewIsFast
	bitlayout.Coord(5),     // UsesDataGate
}

func largeIobBits(io LargeIob) []bool {
	zia := ZIAModePattern.Encode(io.ZiaMode)
	ibuf := IbufModePattern.Encode(io.IbufMode)
	obuf := OBufModePattern.Encode(io.ObufMode)
	return []bool{
		zia[0], zia[1],
		ibuf[0], ibuf[1],
		io.ObufUsesFF,
		obuf[0], obuf[1], obuf[2], obuf[3],
		io.TerminationEnabled,
		io.SlewIsFast,
		io.UsesDataGate,
	}
}

func fromLargeIobBits(bits []bool) (LargeIob, error) {
	var io LargeIob
	var err error
	if io.ZiaMode, err = ZIAModePattern.Decode(bits[0:2]); err != nil {
		return LargeIob{}, err
	}
	if io.IbufMode, err = IbufModePattern.Decode(bits[2:4]); err != nil {
		return LargeIob{}, err
	}
	io.ObufUsesFF = bits[4]
	if io.ObufMode, err = DecodeOBufMode(bits[5:9]); err != nil {
		return LargeIob{}, err
	}
	io.TerminationEnabled = bits[9]
	io.SlewIsFast = bits[10]
	io.UsesDataGate = bits[11]
	return io, nil
}

// EncodeJed writes io onto the logical plane at the IOB-reserved
// offsets of macrocell mcIndex's fuse block.
func (io LargeIob) EncodeJed(p *fuseplane.Plane1D, mcBase, mcIndex int, mirror bool) {
	plane := bitlayout.Plane1D{P: p}
	offset := bitlayout.Offset{mcBlockBase(mcBase, mcIndex, mirror)}
	bitlayout.WritePattern(plane, offset, bitlayout.Mirror{mirror}, largeIobJedMap, largeIobBits(io))
}

// DecodeLargeIobJed is the inverse of EncodeJed.
func DecodeLargeIobJed(p *fuseplane.Plane1D, mcBase, mcIndex int, mirror bool) (LargeIob, error) {
	plane := bitlayout.Plane1D{P: p}
	offset := bitlayout.Offset{mcBlockBase(mcBase, mcIndex, mirror)}
	bits := bitlayout.ReadPattern(plane, offset, bitlayout.Mirror{mirror}, largeIobJedMap)
	return fromLargeIobBits(bits)
}

// crbit256Coords and crbitNot256Coords are the (col, row) pairs a
// LargeIob's fields occupy, grounded on the retrieved bittwiddler_field
// "crbit256"/"crbit_not256" annotations. XC2C256 uses the former (its
// macrocell occupies a 3-row "small family" box, like 32/64); XC2C128,
// XC2C384 and XC2C512 use the latter (a 2-row box).
type largeCrbitCoords struct {
	ziaX0, ziaY0         int
	ziaX1, ziaY1         int
	ibufX0, ibufY0       int
	ibufX1, ibufY1       int
	obufFFX, obufFFY     int
	obufModeX, obufModeY int
	termX, termY         int
	slewX, slewY         int
	dataGateX, dataGateY int
}

var crbit256Coords = largeCrbitCoords{
	ziaX0: 7, ziaY0: 1, ziaX1: 8, ziaY1: 1,
	ibufX0: 0, ibufY0: 0, ibufX1: 1, ibufY1: 0,
	obufFFX: 8, obufFFY: 2,
	obufModeX: 3, obufModeY: 1,
	termX: 2, termY: 2,
	slewX: 3, slewY: 2,
	dataGateX: 4, dataGateY: 0,
}

var crbitNot256Coords = largeCrbitCoords{
	ziaX0: 0, ziaY0: 0, ziaX1: 1, ziaY1: 0,
	ibufX0: 5, ibufY0: 0, ibufX1: 6, ibufY1: 0,
	obufFFX: 8, obufFFY: 1,
	obufModeX: 2, obufModeY: 1,
	termX: 7, termY: 0,
	slewX: 6, slewY: 1,
	dataGateX: 4, dataGateY: 0,
}

// bitMap builds the engine BitMap for one LargeIob crbit layout, in the
// same field order as largeIobBits/fromLargeIobBits.
func (c largeCrbitCoords) bitMap() bitlayout.BitMap {
	return bitlayout.BitMap{
		bitlayout.Coord(c.ziaX0, c.ziaY0), bitlayout.Coord(c.ziaX1, c.ziaY1),
		bitlayout.Coord(c.ibufX0, c.ibufY0), bitlayout.Coord(c.ibufX1, c.ibufY1),
		bitlayout.CoordInv(c.obufFFX, c.obufFFY),
		bitlayout.Coord(c.obufModeX, c.obufModeY), bitlayout.Coord(c.obufModeX+1, c.obufModeY),
		bitlayout.Coord(c.obufModeX+2, c.obufModeY), bitlayout.Coord(c.obufModeX+3, c.obufModeY),
		bitlayout.Coord(c.termX, c.termY),
		bitlayout.CoordInv(c.slewX, c.slewY),
		bitlayout.Coord(c.dataGateX, c.dataGateY),
	}
}

func (io LargeIob) encodeCrbit(p *fuseplane.Plane2D, baseX, baseY int, c largeCrbitCoords) {
	plane := bitlayout.Plane2D{P: p}
	bitlayout.WritePattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{false, false}, c.bitMap(), largeIobBits(io))
}

func decodeLargeCrbit(p *fuseplane.Plane2D, baseX, baseY int, c largeCrbitCoords) (LargeIob, error) {
	plane := bitlayout.Plane2D{P: p}
	bits := bitlayout.ReadPattern(plane, bitlayout.Offset{baseX, baseY}, bitlayout.Mirror{false, false}, c.bitMap())
	return fromLargeIobBits(bits)
}

func (io LargeIob) EncodeCrbit256(plane *fuseplane.Plane2D, baseX, baseY int) {
	io.encodeCrbit(plane, baseX, baseY, crbit256Coords)
}

func (io LargeIob) EncodeCrbitNot256(plane *fuseplane.Plane2D, baseX, baseY int) {
	io.encodeCrbit(plane, baseX, baseY, crbitNot256Coords)
}

func DecodeCrbit256(plane *fuseplane.Plane2D, baseX, baseY int) (LargeIob, error) {
	return decodeLargeCrbit(plane, baseX, baseY, crbit256Coords)
}

func DecodeCrbitNot256(plane *fuseplane.Plane2D, baseX, baseY int) (LargeIob, error) {
	return decodeLargeCrbit(plane, baseX, baseY, crbitNot256Coords)
}
