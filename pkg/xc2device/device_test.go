// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviceRoundTrip(t *testing.T) {
	t.Parallel()
	for _, d := range []Device{XC2C32, XC2C32A, XC2C64, XC2C64A, XC2C128, XC2C256, XC2C384, XC2C512} {
		got, err := ParseDevice(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestParseDeviceUnknown(t *testing.T) {
	t.Parallel()
	_, err := ParseDevice("XC2C9999")
	require.Error(t, err)
	var badName *BadDeviceNameError
	assert.ErrorAs(t, err, &badName)
}

func TestParseTriple(t *testing.T) {
	t.Parallel()
	tr, err := ParseTriple("XC2C32-4-VQ44")
	require.NoError(t, err)
	assert.Equal(t, XC2C32, tr.Device)
	assert.Equal(t, Speed("4"), tr.Speed)
	assert.Equal(t, Package("VQ44"), tr.Package)
	assert.Equal(t, "XC2C32-4-VQ44", tr.String())
}

func TestParseTripleMalformed(t *testing.T) {
	t.Parallel()
	_, err := ParseTriple("XC2C32-4")
	require.Error(t, err)
}

func TestFuseArrayDimsMatchesSpecTable(t *testing.T) {
	t.Parallel()
	cases := []struct {
		d    Device
		w, h int
	}{
		{XC2C32, 260, 50},
		{XC2C64, 274, 98},
		{XC2C128, 752, 82},
		{XC2C256, 1364, 98},
		{XC2C384, 1868, 122},
		{XC2C512, 1980, 162},
	}
	for _, c := range cases {
		w, h := FuseArrayDims(c.d)
		assert.Equal(t, c.w, w, c.d)
		assert.Equal(t, c.h, h, c.d)
	}
}

// S1: blank XC2C32 total logical fuse count is 12,274.
func TestTotalLogicalFuseCountXC2C32(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 12274, TotalLogicalFuseCount(XC2C32))
}

func TestTotalLogicalFuseCountXC2C64(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 25808, TotalLogicalFuseCount(XC2C64))
}

func TestIsCompatible(t *testing.T) {
	t.Parallel()
	assert.True(t, IsCompatible(XC2C32, "4", "VQ44"))
	assert.False(t, IsCompatible(XC2C32, "99", "VQ44"))
	assert.False(t, IsCompatible(XC2C32, "4", "FG324"))
}
