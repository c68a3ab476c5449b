// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2crbit_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2crbit"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
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
			data, err := xc2crbit.Encode(bs)
			require.NoError(t, err)

			got, err := xc2crbit.Decode(data, "4", "VQ44")
			require.NoError(t, err)
			assert.Equal(t, bs, got)
		})
	}
}

func TestDecodeReaderMatchesDecode(t *testing.T) {
	t.Parallel()
	bs := xc2bitstream.Blank(xc2device.XC2C32, "4", "VQ44")
	data, err := xc2crbit.Encode(bs)
	require.NoError(t, err)

	fromBytes, err := xc2crbit.Decode(data, "4", "VQ44")
	require.NoError(t, err)

	fromReader, err := xc2crbit.DecodeReader(bytes.NewReader(data), "4", "VQ44")
	require.NoError(t, err)

	assert.Equal(t, fromBytes, fromReader)
}

func TestDecodeRejectsMissingDeviceAnnotation(t *testing.T) {
	t.Parallel()
	// A well-formed ASCII grid with no "// DEVICE ..." comment at all.
	_, err := xc2crbit.Decode([]byte("01\n10\n"), "4", "VQ44")
	require.Error(t, err)
	assert.IsType(t, &xc2crbit.MissingDeviceNameError{}, err)
}

func TestEncodeCarriesDeviceAnnotation(t *testing.T) {
	t.Parallel()
	bs := xc2bitstream.Blank(xc2device.XC2C32, "4", "VQ44")
	data, err := xc2crbit.Encode(bs)
	require.NoError(t, err)
	assert.Contains(t, string(data), "// DEVICE XC2C32\n")
}
