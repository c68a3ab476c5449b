// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2zia

// RowY returns the y-coordinate of ZIA row `row` relative to the
// top of its function block's ZIA block at baseY, per spec §4.4: on
// devices with the 8-row central-OR-array gap, rows 20..39 are shifted
// down by 8 to make room for the OR array.
func RowY(baseY, row int, hasGap bool) int {
	y := row
	if hasGap && row >= 20 {
		y += 8
	}
	return baseY + y
}

// BitX returns the x-coordinate of bit `bit` (0 == LSB) of a W-wide ZIA
// row based at baseX: the horizontal order is reversed and fuses are
// spaced two apart, so bit W-1 sits at baseX and bit 0 sits at
// baseX + 2*(W-1).
func BitX(baseX, bit, w int) int {
	return baseX + 2*(w-1-bit)
}
