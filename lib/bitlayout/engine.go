// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package bitlayout is the bit-layout engine: the declarative machinery
// that every record in pkg/xc2* uses to place its fields onto a fuse
// plane. It replaces the source's derive-macro-generated placement
// tables with small, explicit helpers that a record's hand-written
// Encode/Decode methods call - see the design notes on "attribute-driven
// layout -> data-driven layout" for why this is the chosen shape.
//
// A record implements the engine against one or more variant tags (one
// per (representation, device) pair it supports) by writing its own
// Encode/Decode methods; this package supplies the coordinate
// arithmetic, the uniform Plane interface, and the Pattern-field
// read/write helpers so that those methods stay declarative and cannot
// let the two sides of a round trip drift apart.
package bitlayout

import "fmt"

// Offset and Mirror are D-dimensional; D is 1 for the logical ("jed")
// plane and 2 for the physical ("crbit") plane. Every coordinate used by
// this package is a []int/[]bool of matching length.
type Offset []int
type Mirror []bool

// Plane is the uniform interface the engine needs from a fuse plane,
// parameterized over dimension count so the same helpers serve both
// Plane1D and Plane2D.
type Plane interface {
	Get(coord []int) bool
	Set(coord []int, v bool)
}

// Pos computes the effective position of a field declared at local
// coordinates loc, under the given offset and mirror:
//
//	pos[k] = off[k] + (mirror[k] ? -1 : +1) * loc[k]
func Pos(offset Offset, mirror Mirror, loc []int) []int {
	if len(offset) != len(mirror) || len(offset) != len(loc) {
		panic(fmt.Sprintf("bitlayout: dimension mismatch: offset=%d mirror=%d loc=%d", len(offset), len(mirror), len(loc)))
	}
	pos := make([]int, len(offset))
	for k := range offset {
		step := loc[k]
		if mirror[k] {
			step = -step
		}
		pos[k] = offset[k] + step
	}
	return pos
}

// Compose combines a parent's offset/mirror with a child's declared
// base offset/mirror, for sub-fragment recursion: the child's
// base_offset is itself subject to the parent's mirror, and the
// mirror masks XOR together.
func Compose(parentOffset Offset, parentMirror Mirror, childBase Offset, childMirror Mirror) (Offset, Mirror) {
	offset := Pos(parentOffset, parentMirror, childBase)
	mirror := make(Mirror, len(parentMirror))
	for k := range parentMirror {
		mirror[k] = parentMirror[k] != childMirror[k]
	}
	return offset, mirror
}

// ArrayOffsetFunc and ArrayMirrorFunc compute a PatternArray/
// SubFragmentArray element's own base offset/mirror from its index,
// the way a source sub-fragment array's array_offset/array_mirror
// closures do.
type ArrayOffsetFunc func(i int) Offset
type ArrayMirrorFunc func(i int) Mirror

// BitMapEntry is one pattern-bit placement: either a coordinate
// (possibly negative local coordinates, combined with the field's
// mirror mask) with optional inversion, or a hard constant that
// WritePattern does not write and ReadPattern returns as declared
// without reading the plane (see spec §4.3.3).
type BitMapEntry struct {
	IsConst bool
	Const   bool

	Loc    []int
	Invert bool
}

func Coord(loc ...int) BitMapEntry    { return BitMapEntry{Loc: loc} }
func CoordInv(loc ...int) BitMapEntry { return BitMapEntry{Loc: loc, Invert: true} }
func ConstBit(v bool) BitMapEntry     { return BitMapEntry{IsConst: true, Const: v} }

// BitMap is an ordered list of BitMapEntry, one per bit of the field's
// Pattern[T], in the same order as the pattern's bit string.
type BitMap []BitMapEntry

// WritePattern writes bits (as produced by Pattern[T].Encode) to plane
// according to m, composing each entry's local coordinate with offset
// and mirror. Constant entries are not written - encode only needs to
// match them on the decode side, per §4.3.3.
func WritePattern(plane Plane, offset Offset, mirror Mirror, m BitMap, bits []bool) {
	if len(m) != len(bits) {
		panic(fmt.Sprintf("bitlayout: BitMap has %d entries, bits has %d", len(m), len(bits)))
	}
	for i, entry := range m {
		if entry.IsConst {
			continue
		}
		pos := Pos(offset, mirror, entry.Loc)
		v := bits[i]
		if entry.Invert {
			v = !v
		}
		plane.Set(pos, v)
	}
}

// ReadPattern is the inverse of WritePattern: it reads the fuses named
// by m back into a bits[] slice suitable for Pattern[T].Decode. Constant
// entries read their declared constant rather than consulting the
// plane, matching the "lossy for hard-constants" rule in §4.3.3.
func ReadPattern(plane Plane, offset Offset, mirror Mirror, m BitMap) []bool {
	bits := make([]bool, len(m))
	for i, entry := range m {
		if entry.IsConst {
			bits[i] = entry.Const
			continue
		}
		pos := Pos(offset, mirror, entry.Loc)
		v := plane.Get(pos)
		if entry.Invert {
			v = !v
		}
		bits[i] = v
	}
	return bits
}
