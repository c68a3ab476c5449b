// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2dump_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2dump"
)

var allDevices = []xc2device.Device{
	xc2device.XC2C32, xc2device.XC2C32A,
	xc2device.XC2C64, xc2device.XC2C64A,
	xc2device.XC2C128, xc2device.XC2C256,
	xc2device.XC2C384, xc2device.XC2C512,
}

func TestTextDumpsEveryDeviceWithoutError(t *testing.T) {
	t.Parallel()
	for _, d := range allDevices {
		d := d
		t.Run(d.String(), func(t *testing.T) {
			t.Parallel()
			bs := xc2bitstream.Blank(d, "4", "VQ44")
			var buf bytes.Buffer
			require.NoError(t, xc2dump.Text(&buf, bs))
			out := buf.String()
			assert.Contains(t, out, d.String())
			g := xc2device.GeometryOf(d)
			assert.Contains(t, out, "FB0:")
			assert.Contains(t, out, fmt.Sprintf("FB%d:", g.FBCount-1))
			assert.Contains(t, out, "MC0:")
		})
	}
}

func TestTextReportsBuriedMacrocellsOnLargeDevices(t *testing.T) {
	t.Parallel()
	bs := xc2bitstream.Blank(xc2device.XC2C128, "4", "TQ100")
	var buf bytes.Buffer
	require.NoError(t, xc2dump.Text(&buf, bs))
	assert.Contains(t, buf.String(), "(buried)")
}

func TestSpewProducesNonemptyOutput(t *testing.T) {
	t.Parallel()
	bs := xc2bitstream.Blank(xc2device.XC2C32, "4", "VQ44")
	var buf bytes.Buffer
	xc2dump.Spew(&buf, bs)
	assert.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "Device")
}

func TestJSONEncodesWithoutError(t *testing.T) {
	t.Parallel()
	for _, d := range allDevices {
		d := d
		t.Run(d.String(), func(t *testing.T) {
			t.Parallel()
			bs := xc2bitstream.Blank(d, "4", "VQ44")
			var buf bytes.Buffer
			require.NoError(t, xc2dump.JSON(&buf, bs))
			assert.Contains(t, buf.String(), d.String())
		})
	}
}
