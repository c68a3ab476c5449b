// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2zia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

func TestRowWidthMatchesDeviceTable(t *testing.T) {
	t.Parallel()
	cases := map[xc2device.Device]int{
		xc2device.XC2C32:  8,
		xc2device.XC2C64:  16,
		xc2device.XC2C128: 28,
		xc2device.XC2C256: 48,
		xc2device.XC2C384: 74,
		xc2device.XC2C512: 88,
	}
	for d, w := range cases {
		assert.Equal(t, w, RowWidth(d), d)
	}
}

// Invariant 6 / S6: round trip for every legal candidate on every row,
// and BadZiaInput for an always-illegal two-active-bit row.
func TestEncodeDecodeRowRoundTrip(t *testing.T) {
	t.Parallel()
	for _, d := range []xc2device.Device{xc2device.XC2C32, xc2device.XC2C64, xc2device.XC2C128} {
		for row := 0; row < RowsPerFB; row++ {
			cs := candidates(d, row)
			for _, c := range cs {
				bits := EncodeRow(d, row, c)
				got, err := DecodeRow(d, row, bits)
				require.NoError(t, err)
				assert.Equal(t, c, got)
			}
			zeroBits := EncodeRow(d, row, Input{Kind: Zero})
			zero, err := DecodeRow(d, row, zeroBits)
			require.NoError(t, err)
			assert.Equal(t, Input{Kind: Zero}, zero)
		}
	}
}

func TestDecodeRowRejectsMultipleActiveBits(t *testing.T) {
	t.Parallel()
	bits := EncodeRow(xc2device.XC2C32, 0, Input{Kind: One})
	bits[1] = false // force a second active-low bit
	_, err := DecodeRow(xc2device.XC2C32, 0, bits)
	require.Error(t, err)
	var bad *BadZiaInputError
	assert.ErrorAs(t, err, &bad)
}

func TestRowYAppliesGapOnlyAtOrAfterRow20(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 119, RowY(100, 19, true))
	assert.Equal(t, 128, RowY(100, 20, true))
	assert.Equal(t, 119, RowY(100, 19, false))
}

func TestBitXReversesOrder(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, BitX(0, 7, 8))
	assert.Equal(t, 14, BitX(0, 0, 8))
}
