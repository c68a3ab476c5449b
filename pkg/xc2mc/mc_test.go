// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2mc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xc2cpld/xc2bit/lib/fuseplane"
)

func sampleMacrocell() Macrocell {
	return Macrocell{
		ClkSrc:       ClkCTC,
		ClkInvert:    true,
		IsDDR:        false,
		RegMode:      ModeDFFCE,
		ResetSrc:     ResetGSR,
		SetSrc:       SetCTS,
		InitState:    false,
		FeedbackMode: FeedbackReg,
		FFInIbuf:     true,
		XorMode:      XorPTCB,
	}
}

func TestMacrocellJedRoundTrip(t *testing.T) {
	t.Parallel()
	for _, mirror := range []bool{false, true} {
		plane := fuseplane.NewPlane1D(4096)
		want := sampleMacrocell()
		want.EncodeJed(plane, 2048, 5, mirror)

		got, err := DecodeJed(plane, 2048, 5, mirror)
		require.NoError(t, err)
		assert.Equal(t, want, got, "mirror=%v", mirror)
	}
}

// S5: blank macrocell round-trips to itself.
func TestMacrocellDefaultRoundTrip(t *testing.T) {
	t.Parallel()
	plane := fuseplane.NewPlane1D(256)
	want := Default()
	want.EncodeJed(plane, 0, 0, false)

	got, err := DecodeJed(plane, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMacrocellCrbitRoundTripSmallFamily(t *testing.T) {
	t.Parallel()
	plane := fuseplane.NewPlane2D(50, 50)
	want := sampleMacrocell()
	want.EncodeCrbit(plane, 10, 10, false)

	got, err := DecodeCrbit(plane, 10, 10, false)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMacrocellCrbitRoundTripLargeFamily(t *testing.T) {
	t.Parallel()
	plane := fuseplane.NewPlane2D(50, 50)
	want := sampleMacrocell()
	want.EncodeCrbit(plane, 10, 10, true)

	got, err := DecodeCrbit(plane, 10, 10, true)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDistinctMacrocellIndicesDoNotOverlapJed(t *testing.T) {
	t.Parallel()
	plane := fuseplane.NewPlane1D(4096)
	a := sampleMacrocell()
	b := Default()
	a.EncodeJed(plane, 2048, 0, false)
	b.EncodeJed(plane, 2048, 1, false)

	gotA, err := DecodeJed(plane, 2048, 0, false)
	require.NoError(t, err)
	gotB, err := DecodeJed(plane, 2048, 1, false)
	require.NoError(t, err)
	assert.Equal(t, a, gotA)
	assert.Equal(t, b, gotB)
}
