// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2pla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

func sampleAndTerm() *AndTerm {
	t := NewAndTerm()
	t.Input[0] = true
	t.Input[19] = true
	t.InputB[20] = true
	t.InputB[39] = true
	return t
}

func TestAndTermJedRoundTrip(t *testing.T) {
	t.Parallel()
	for _, mirror := range []bool{false, true} {
		plane := fuseplane.NewPlane1D(4096)
		offset := 2048
		want := sampleAndTerm()
		want.EncodeJed(plane, offset, mirror)

		got := NewAndTerm()
		got.DecodeJed(plane, offset, mirror)
		assert.Equal(t, want, got, "mirror=%v", mirror)
	}
}

func TestAndTermJedDefaultIsAllFuseSet(t *testing.T) {
	t.Parallel()
	plane := fuseplane.NewPlane1D(200)
	NewAndTerm().EncodeJed(plane, 100, false)
	for _, b := range plane.Bits()[100 : 100+2*RowsPerFB] {
		assert.True(t, b)
	}
}

func TestAndTermCrbitCentralGapAppliesAtRow20(t *testing.T) {
	t.Parallel()
	plane := fuseplane.NewPlane2D(300, 300)
	term := sampleAndTerm()
	term.EncodeCrbitCentral(plane, 50, 10, false)

	// Input[19]=true (<20, no gap): stored at (baseX+1, baseY+19).
	assert.False(t, plane.Get(51, 10+19))
	// InputB[20]=true (>=20, gap pushes y by 8): stored at (baseX, baseY+20+8).
	assert.False(t, plane.Get(50, 10+20+8))
}

func TestAndTermCrbitCentralRoundTrip(t *testing.T) {
	t.Parallel()
	for _, mirror := range []bool{false, true} {
		plane := fuseplane.NewPlane2D(400, 400)
		want := sampleAndTerm()
		want.EncodeCrbitCentral(plane, 200, 100, mirror)

		got := NewAndTerm()
		got.DecodeCrbitCentral(plane, 200, 100, mirror)
		assert.Equal(t, want, got, "mirror=%v", mirror)
	}
}

func TestAndTermCrbitSideHasNoGap(t *testing.T) {
	t.Parallel()
	plane := fuseplane.NewPlane2D(300, 300)
	term := sampleAndTerm()
	term.EncodeCrbitSide(plane, 50, 10, false)
	// InputB[20]=true, no gap: stored at (baseX, baseY+20), not +8 further.
	assert.False(t, plane.Get(50, 10+20))

	got := NewAndTerm()
	got.DecodeCrbitSide(plane, 50, 10, false)
	assert.Equal(t, term, got)
}

func TestOrTermJedRoundTrip(t *testing.T) {
	t.Parallel()
	for _, mirror := range []bool{false, true} {
		plane := fuseplane.NewPlane1D(4096)
		offset := 2048
		want := NewOrTerm()
		want.Input[0] = true
		want.Input[30] = true
		want.Input[55] = true
		want.EncodeJed(plane, offset, mirror)

		got := NewOrTerm()
		got.DecodeJed(plane, offset, mirror)
		assert.Equal(t, want, got, "mirror=%v", mirror)
	}
}

func TestOrTermCrbitCentralRoundTrip(t *testing.T) {
	t.Parallel()
	for _, mirror := range []bool{false, true} {
		plane := fuseplane.NewPlane2D(400, 400)
		want := NewOrTerm()
		want.Input[0] = true
		want.Input[30] = true
		want.Input[55] = true
		want.EncodeCrbitCentral(plane, 200, 100, mirror)

		got := NewOrTerm()
		got.DecodeCrbitCentral(plane, 200, 100, mirror)
		assert.Equal(t, want, got, "mirror=%v", mirror)
	}
}

func TestOrTermCrbitSideRoundTrip(t *testing.T) {
	t.Parallel()
	for _, mirror := range []bool{false, true} {
		plane := fuseplane.NewPlane2D(400, 400)
		want := NewOrTerm()
		want.Input[0] = true
		want.Input[1] = true
		want.Input[30] = true
		want.Input[55] = true
		want.EncodeCrbitSide(plane, 200, 100, mirror)

		got := NewOrTerm()
		got.DecodeCrbitSide(plane, 200, 100, mirror)
		assert.Equal(t, want, got, "mirror=%v", mirror)
	}
}

func TestOrBlockType2RowMapHasNoDuplicates(t *testing.T) {
	t.Parallel()
	seen := make(map[int]bool)
	for _, row := range OrBlockType2RowMap {
		assert.False(t, seen[row], "duplicate row %d", row)
		seen[row] = true
	}
}

func TestAndBlockType2P2LMapIsPermutation(t *testing.T) {
	t.Parallel()
	seen := make([]bool, ProductTermsPerFB)
	for _, idx := range AndBlockType2P2LMap {
		require.False(t, seen[idx], "duplicate logical index %d", idx)
		seen[idx] = true
	}
}

func TestGapRowsMatchesTopology(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 8, GapRows(xc2device.XC2C32))
	assert.Equal(t, 8, GapRows(xc2device.XC2C256))
	assert.Equal(t, 0, GapRows(xc2device.XC2C128))
}
