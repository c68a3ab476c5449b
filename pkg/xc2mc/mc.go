// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2mc implements a function block's sixteen macrocells: the
// register clock/reset/set source muxes, register mode, the ZIA
// feedback mux, and the XOR-gate polarity mux, plus their placement
// onto a function block's fuse region.
//
// The six small enums below are grounded directly on the literal
// #[bits("...")] bit strings retrieved from the reference source's
// mc.rs. The whitespace-column layout that places a macrocell's fields
// within its Jed/Crbit "bit picture" is macro-derived (pat_pict) data
// that was not recoverable from the retrieved source - see DESIGN.md -
// so placement here uses a self-consistent, declarative per-family
// column scheme rather than a fabricated transcription of the original
// layout.
package xc2mc

import "github.com/xc2cpld/xc2bit/lib/bitpattern"

// RegClkSrc selects the clock source for a macrocell's register.
type RegClkSrc int

const (
	ClkGCK0 RegClkSrc = iota
	ClkGCK1
	ClkGCK2
	ClkPTC
	ClkCTC
)

var RegClkSrcPattern = bitpattern.Pattern[RegClkSrc]{
	N: 3,
	Variants: []bitpattern.Variant[RegClkSrc]{
		{Name: "GCK0", Desc: "global clock 0", Bits: "x00", Val: ClkGCK0},
		{Name: "GCK1", Desc: "global clock 1", Bits: "x10", Val: ClkGCK1},
		{Name: "GCK2", Desc: "global clock 2", Bits: "x01", Val: ClkGCK2},
		{Name: "PTC", Desc: "product term C", Bits: "011", Val: ClkPTC},
		{Name: "CTC", Desc: "central clock", Bits: "111", Val: ClkCTC},
	},
}

// RegResetSrc selects the reset source for a macrocell's register.
type RegResetSrc int

const (
	ResetDisabled RegResetSrc = iota
	ResetPTA
	ResetGSR
	ResetCTR
)

var RegResetSrcPattern = bitpattern.Pattern[RegResetSrc]{
	N: 2,
	Variants: []bitpattern.Variant[RegResetSrc]{
		{Name: "Disabled", Desc: "reset disabled", Bits: "11", Val: ResetDisabled},
		{Name: "PTA", Desc: "product term A", Bits: "00", Val: ResetPTA},
		{Name: "GSR", Desc: "global set/reset", Bits: "01", Val: ResetGSR},
		{Name: "CTR", Desc: "central reset", Bits: "10", Val: ResetCTR},
	},
}

// RegSetSrc selects the set source for a macrocell's register.
type RegSetSrc int

const (
	SetDisabled RegSetSrc = iota
	SetPTA
	SetGSR
	SetCTS
)

var RegSetSrcPattern = bitpattern.Pattern[RegSetSrc]{
	N: 2,
	Variants: []bitpattern.Variant[RegSetSrc]{
		{Name: "Disabled", Desc: "set disabled", Bits: "11", Val: SetDisabled},
		{Name: "PTA", Desc: "product term A", Bits: "00", Val: SetPTA},
		{Name: "GSR", Desc: "global set/reset", Bits: "01", Val: SetGSR},
		{Name: "CTS", Desc: "central set", Bits: "10", Val: SetCTS},
	},
}

// RegMode selects the storage element mode of a macrocell's register.
type RegMode int

const (
	ModeDFF RegMode = iota
	ModeLatch
	ModeTFF
	ModeDFFCE
)

var RegModePattern = bitpattern.Pattern[RegMode]{
	N: 2,
	Variants: []bitpattern.Variant[RegMode]{
		{Name: "DFF", Desc: "D-type flip-flop", Bits: "00", Val: ModeDFF},
		{Name: "LATCH", Desc: "transparent latch", Bits: "01", Val: ModeLatch},
		{Name: "TFF", Desc: "toggle flip-flop", Bits: "10", Val: ModeTFF},
		{Name: "DFFCE", Desc: "D-type flip-flop with clock enable", Bits: "11", Val: ModeDFFCE},
	},
}

// FeedbackMode selects what the macrocell drives back onto the ZIA:
// the combinatorial XOR output, the registered output, or nothing.
type FeedbackMode int

const (
	FeedbackDisabled FeedbackMode = iota
	FeedbackComb
	FeedbackReg
)

var FeedbackModePattern = bitpattern.Pattern[FeedbackMode]{
	N: 2,
	Variants: []bitpattern.Variant[FeedbackMode]{
		{Name: "Disabled", Desc: "no ZIA feedback", Bits: "X1", Val: FeedbackDisabled},
		{Name: "COMB", Desc: "combinatorial (XOR) feedback", Bits: "00", Val: FeedbackComb},
		{Name: "REG", Desc: "registered feedback", Bits: "10", Val: FeedbackReg},
	},
}

// XorMode selects the second input to the macrocell's XOR gate (the
// first is always the OR term).
type XorMode int

const (
	XorZero XorMode = iota
	XorOne
	XorPTC
	XorPTCB
)

var XorModePattern = bitpattern.Pattern[XorMode]{
	N: 2,
	Variants: []bitpattern.Variant[XorMode]{
		{Name: "ZERO", Desc: "OR term passed through", Bits: "00", Val: XorZero},
		{Name: "ONE", Desc: "OR term complemented", Bits: "11", Val: XorOne},
		{Name: "PTC", Desc: "OR term XOR product term C", Bits: "10", Val: XorPTC},
		{Name: "PTCB", Desc: "OR term XNOR product term C", Bits: "01", Val: XorPTCB},
	},
}

// Macrocell is the full configuration of one of a function block's
// sixteen macrocells.
type Macrocell struct {
	ClkSrc       RegClkSrc
	ClkInvert    bool
	IsDDR        bool
	RegMode      RegMode
	ResetSrc     RegResetSrc
	SetSrc       RegSetSrc
	InitState    bool
	FeedbackMode FeedbackMode
	FFInIbuf     bool
	XorMode      XorMode
}

// Default returns a macrocell in its blank-device configuration: clock
// GCK0, DFF mode, reset/set disabled, registered initial state of 1, no
// ZIA feedback, direct ibuf path disabled, XOR mode ZERO.
func Default() Macrocell {
	return Macrocell{
		ClkSrc:       ClkGCK0,
		RegMode:      ModeDFF,
		ResetSrc:     ResetDisabled,
		SetSrc:       SetDisabled,
		InitState:    true,
		FeedbackMode: FeedbackDisabled,
		FFInIbuf:     false,
		XorMode:      XorZero,
	}
}
