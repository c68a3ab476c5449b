// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2iob_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2iob"
)

func TestFbMcToIobNumIsInverseOfIobNumToFbMc(t *testing.T) {
	t.Parallel()
	devices := []xc2device.Device{
		xc2device.XC2C32, xc2device.XC2C32A,
		xc2device.XC2C64, xc2device.XC2C64A,
		xc2device.XC2C128, xc2device.XC2C256,
		xc2device.XC2C384, xc2device.XC2C512,
	}
	for _, d := range devices {
		d := d
		t.Run(d.String(), func(t *testing.T) {
			t.Parallel()
			g := xc2device.GeometryOf(d)
			total := g.FBCount * 16
			seen := 0
			for iob := 0; iob < total+8; iob++ {
				fm, ok := xc2iob.IobNumToFbMc(d, iob)
				if !ok {
					continue
				}
				seen++
				got, ok := xc2iob.FbMcToIobNum(d, fm.FB, fm.MC)
				assert.True(t, ok, "fb=%d mc=%d should map back to an IOB", fm.FB, fm.MC)
				assert.Equal(t, iob, got, "fb=%d mc=%d", fm.FB, fm.MC)
			}
			assert.Greater(t, seen, 0, "device=%v: no IOB indices resolved at all", d)
		})
	}
}

func TestFbMcToIobNumRejectsOutOfRange(t *testing.T) {
	t.Parallel()
	_, ok := xc2iob.FbMcToIobNum(xc2device.XC2C32, -1, 0)
	assert.False(t, ok)
	_, ok = xc2iob.FbMcToIobNum(xc2device.XC2C32, 0, 99)
	assert.False(t, ok)
}

func TestFbMcToIobNumExcludesBuriedXC2C384Macrocells(t *testing.T) {
	t.Parallel()
	for mc := 5; mc <= 10; mc++ {
		_, ok := xc2iob.FbMcToIobNum(xc2device.XC2C384, 0, mc)
		assert.False(t, ok, "mc=%d should be buried (no IOB)", mc)
	}
}
