// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2jed

import (
	"sort"

	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2fb"
	"github.com/xc2cpld/xc2bit/pkg/xc2global"
	"github.com/xc2cpld/xc2bit/pkg/xc2iob"
)

// LineBreaks returns, sorted and deduplicated, every absolute logical
// fuse offset at which a jed pretty-printer should start a new line for
// device d, per spec §6.1:
//
//   - the start of each FB's fuse range (except offset 0)
//   - the start of each ZIA row, AND-term row, OR-term row, and
//     macrocell group within an FB
//   - the start of the global-nets, clock-divider and bank-voltage
//     regions
func LineBreaks(d xc2device.Device) []int {
	g := xc2device.GeometryOf(d)
	bases := xc2bitstream.FBBases(d)

	set := make(map[int]struct{}, 4*len(bases))
	for i, base := range bases {
		if base != 0 {
			set[base] = struct{}{}
		}
		for _, b := range xc2fb.FieldBreaks(d, i, base) {
			set[b] = struct{}{}
		}
	}

	set[g.LogicalBaseFuses] = struct{}{}
	if g.HasClockDiv {
		set[xc2global.ClockDivJedBase(d)] = struct{}{}
	}
	if g.HasExtraIBuf {
		set[xc2iob.JedSchmittFuse] = struct{}{}
	}
	if base := xc2global.BankVoltageJedBase(d); base != 0 {
		set[base] = struct{}{}
	}

	breaks := make([]int, 0, len(set))
	for b := range set {
		breaks = append(breaks, b)
	}
	sort.Ints(breaks)
	return breaks
}
