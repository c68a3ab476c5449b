// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2fb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xc2cpld/xc2bit/lib/fuseplane"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2iob"
	"github.com/xc2cpld/xc2bit/pkg/xc2mc"
	"github.com/xc2cpld/xc2bit/pkg/xc2zia"
)

func sampleFunctionBlock(d xc2device.Device, fb int) *FunctionBlock {
	fbk := New(d, fb)
	fbk.Zia[0] = xc2zia.Input{Kind: xc2zia.One}
	fbk.Zia[39] = xc2zia.Input{Kind: xc2zia.MacrocellFeedback, FB: 0, MC: 1}
	fbk.And[0].Input[0] = true
	fbk.And[55].InputB[39] = true
	fbk.Or[0].Input[0] = true
	fbk.Or[15].Input[55] = true
	mc := xc2mc.Default()
	mc.ClkSrc = xc2mc.ClkCTC
	mc.XorMode = xc2mc.XorPTC
	for i := range fbk.Mcs {
		if fbk.HasIOB[i] {
			fbk.Mcs[i] = mc
		}
	}
	if usesLargeIob(d) {
		for i := range fbk.Large {
			if fbk.HasIOB[i] {
				io := xc2iob.DefaultLargeIob()
				io.ZiaMode = xc2iob.ZIAPad
				fbk.Large[i] = io
			}
		}
	} else {
		for i := range fbk.Small {
			io := xc2iob.DefaultSmallIob()
			io.ZiaMode = xc2iob.ZIAPad
			fbk.Small[i] = io
		}
	}
	return fbk
}

var testDevices = []xc2device.Device{
	xc2device.XC2C32, xc2device.XC2C64, xc2device.XC2C128, xc2device.XC2C256, xc2device.XC2C384, xc2device.XC2C512,
}

func TestFunctionBlockJedRoundTrip(t *testing.T) {
	t.Parallel()
	for _, d := range testDevices {
		for _, mirror := range []bool{false, true} {
			want := sampleFunctionBlock(d, 0)
			size := want.JedSize(d)
			plane := fuseplane.NewPlane1D(2 * (size + 1))
			base := size + 1
			want.EncodeJed(plane, base, d, mirror)

			got, err := DecodeJed(plane, base, d, 0, mirror)
			require.NoError(t, err, "device=%v mirror=%v", d, mirror)
			assert.Equal(t, want, got, "device=%v mirror=%v", d, mirror)
		}
	}
}

func TestFunctionBlockDefaultRoundTrip(t *testing.T) {
	t.Parallel()
	for _, d := range testDevices {
		want := New(d, 0)
		size := want.JedSize(d)
		plane := fuseplane.NewPlane1D(size)
		want.EncodeJed(plane, 0, d, false)

		got, err := DecodeJed(plane, 0, d, 0, false)
		require.NoError(t, err, "device=%v", d)
		assert.Equal(t, want, got, "device=%v", d)
	}
}

func TestFunctionBlockCrbitRoundTrip(t *testing.T) {
	t.Parallel()
	for _, d := range testDevices {
		for _, mirror := range []bool{false, true} {
			w, h := CrbitFootprint(d)
			plane := fuseplane.NewPlane2D(2*w, h)
			want := sampleFunctionBlock(d, 0)
			baseX := w
			want.EncodeCrbit(plane, baseX, 0, d, mirror)

			got, err := DecodeCrbit(plane, baseX, 0, d, 0, mirror)
			require.NoError(t, err, "device=%v mirror=%v", d, mirror)
			assert.Equal(t, want, got, "device=%v mirror=%v", d, mirror)
		}
	}
}

func TestBuriedMacrocellsUseSmallerFootprint(t *testing.T) {
	t.Parallel()
	// XC2C128's FB0 has four buried macrocells (see fbLayout128): 6+6=12
	// of 16 macrocells have an IOB, so its jed footprint should be
	// smaller than a fully-unburied FB's would be.
	fbk := New(xc2device.XC2C128, 0)
	buried := 0
	for _, has := range fbk.HasIOB {
		if !has {
			buried++
		}
	}
	assert.Equal(t, 4, buried)

	// 28*40 (zia) + 80*56 (and) + 56*16 (or) + 12*27 + 4*16 (mcs).
	assert.Equal(t, 1120+4480+896+12*27+4*16, fbk.JedSize(xc2device.XC2C128))
}
