// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2jed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2jed"
)

var allDevices = []xc2device.Device{
	xc2device.XC2C32, xc2device.XC2C32A,
	xc2device.XC2C64, xc2device.XC2C64A,
	xc2device.XC2C128, xc2device.XC2C256,
	xc2device.XC2C384, xc2device.XC2C512,
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	for _, d := range allDevices {
		d := d
		t.Run(d.String(), func(t *testing.T) {
			t.Parallel()
			bs := xc2bitstream.Blank(d, "4", "VQ44")
			data, err := xc2jed.Encode(bs)
			require.NoError(t, err)

			got, err := xc2jed.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, bs, got)
		})
	}
}

func TestEncodeIsFramedWithStxEtxAndChecksum(t *testing.T) {
	t.Parallel()
	bs := xc2bitstream.Blank(xc2device.XC2C32, "4", "VQ44")
	data, err := xc2jed.Encode(bs)
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.Equal(t, byte(0x02), data[0])
	assert.Contains(t, string(data), "\x03")
}

func TestDecodeRejectsCorruptedChecksum(t *testing.T) {
	t.Parallel()
	bs := xc2bitstream.Blank(xc2device.XC2C32, "4", "VQ44")
	data, err := xc2jed.Encode(bs)
	require.NoError(t, err)

	corrupt := append([]byte(nil), data...)
	corrupt[10] ^= 0xFF
	_, err = xc2jed.Decode(corrupt)
	require.Error(t, err)
	assert.IsType(t, &xc2jed.FormatError{}, err)
}

func TestDecodeRejectsMissingStx(t *testing.T) {
	t.Parallel()
	_, err := xc2jed.Decode([]byte("not a jed file"))
	require.Error(t, err)
}

func TestLineBreaksSortedUniqueAndWithinBounds(t *testing.T) {
	t.Parallel()
	for _, d := range allDevices {
		breaks := xc2jed.LineBreaks(d)
		require.NotEmpty(t, breaks)
		for i := range breaks {
			assert.GreaterOrEqual(t, breaks[i], 0, "device=%v", d)
			if i > 0 {
				assert.Less(t, breaks[i-1], breaks[i], "device=%v: not strictly increasing", d)
			}
		}
	}
}

func TestLineBreaksIncludeFBStartsExceptZero(t *testing.T) {
	t.Parallel()
	bases := xc2bitstream.FBBases(xc2device.XC2C64)
	breaks := xc2jed.LineBreaks(xc2device.XC2C64)
	breakSet := make(map[int]bool, len(breaks))
	for _, b := range breaks {
		breakSet[b] = true
	}
	for i, base := range bases {
		if base == 0 {
			continue
		}
		assert.True(t, breakSet[base], "fb %d base %d missing from line breaks", i, base)
	}
}

func TestChecksumIsByteSum(t *testing.T) {
	t.Parallel()
	assert.Equal(t, uint16(0x02+'A'+0x03), xc2jed.Checksum([]byte{0x02, 'A', 0x03}))
}
