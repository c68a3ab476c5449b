// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package bitlayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xc2cpld/xc2bit/lib/fuseplane"
)

func TestPosNoMirror(t *testing.T) {
	t.Parallel()
	pos := Pos(Offset{10, 20}, Mirror{false, false}, []int{3, 4})
	assert.Equal(t, []int{13, 24}, pos)
}

func TestPosMirrorFlipsStep(t *testing.T) {
	t.Parallel()
	pos := Pos(Offset{10, 20}, Mirror{true, false}, []int{3, 4})
	assert.Equal(t, []int{7, 24}, pos)
}

func TestComposeXorsMirrorAndAppliesParentOffset(t *testing.T) {
	t.Parallel()
	offset, mirror := Compose(Offset{100}, Mirror{true}, Offset{5}, Mirror{true})
	// parent mirror true negates the child base offset; mirrors XOR to false.
	assert.Equal(t, Offset{95}, offset)
	assert.Equal(t, Mirror{false}, mirror)
}

func TestWriteReadPatternRoundTrip(t *testing.T) {
	t.Parallel()
	p := fuseplane.NewPlane2D(10, 10)
	plane := Plane2D{P: p}

	m := BitMap{
		Coord(0, 0),
		CoordInv(1, 0),
		ConstBit(true),
	}
	WritePattern(plane, Offset{2, 2}, Mirror{false, false}, m, []bool{true, false, false})

	assert.True(t, p.Get(2, 2))
	assert.True(t, p.Get(3, 2)) // inverted false -> true

	bits := ReadPattern(plane, Offset{2, 2}, Mirror{false, false}, m)
	assert.Equal(t, []bool{true, false, true}, bits) // const entry always reads back true
}

func TestWritePatternRespectsMirror(t *testing.T) {
	t.Parallel()
	p := fuseplane.NewPlane2D(10, 10)
	plane := Plane2D{P: p}

	m := BitMap{Coord(0, 0), Coord(3, 0)}
	WritePattern(plane, Offset{5, 5}, Mirror{true, false}, m, []bool{true, true})

	assert.True(t, p.Get(5, 5))
	assert.True(t, p.Get(2, 5))
}

func TestPlane1DAdapterBounds(t *testing.T) {
	t.Parallel()
	p1 := fuseplane.NewPlane1D(27)
	plane := Plane1D{P: p1}
	plane.Set([]int{5}, true)
	assert.True(t, plane.Get([]int{5}))

	require.Panics(t, func() {
		plane.Get([]int{1, 2})
	})
}
