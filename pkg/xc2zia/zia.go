// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2zia implements the ZIA ("ZIA" / AIM interconnect) row codec:
// each of a function block's 40 ZIA rows selects one symbolic input -
// constant zero/one, a macrocell feedback, an I/O pad, or (on
// XC2C32(A) only) the dedicated input - and stores that choice as a
// device-width row of fuses with at most one active-low bit.
//
// WARNING: candidates' row-to-bit-position assignment is NOT the
// silicon table. The real assignment (which bit position within a ZIA
// row names which specific macrocell/pad) is silicon-derived data that
// was not present in the retrieved reference source (see DESIGN.md's
// ZIA entry); there was no way to derive it from first principles, so
// this package substitutes a deterministic, internally-consistent
// rotating-window ordering instead. EncodeRow/DecodeRow round-trip
// correctly against each other and against this package's own fuse
// counts, but a bitstream produced by EncodeRow will NOT program the
// ZIA row a real device expects for that (FB, row, Input) triple, and
// DecodeRow will misreport the symbolic input actually selected by a
// real manufacturer-produced or third-party-tool-produced bitstream's
// ZIA fuses. Do not treat this package's output as silicon-accurate
// until the real table is sourced and candidates is rewritten against
// it.
package xc2zia

import (
	"fmt"

	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

// InputKind discriminates the ZiaInput tagged union.
type InputKind int

const (
	Zero InputKind = iota
	One
	MacrocellFeedback
	IBuf
	DedicatedInput
)

// Input is a symbolic ZIA row source.
type Input struct {
	Kind InputKind
	FB   int // valid when Kind == MacrocellFeedback
	MC   int // valid when Kind == MacrocellFeedback
	IOB  int // valid when Kind == IBuf
}

func (in Input) String() string {
	switch in.Kind {
	case Zero:
		return "Zero"
	case One:
		return "One"
	case MacrocellFeedback:
		return fmt.Sprintf("MacrocellFeedback{fb:%d,mc:%d}", in.FB, in.MC)
	case IBuf:
		return fmt.Sprintf("IBuf{iob:%d}", in.IOB)
	case DedicatedInput:
		return "DedicatedInput"
	default:
		return fmt.Sprintf("Input(kind=%d)", in.Kind)
	}
}

// BadZiaInputError is returned when a ZIA row's fuses match no legal
// input choice: either more than one bit is active-low, or exactly one
// is but it names a candidate out of range.
type BadZiaInputError struct {
	Row  int
	Bits []bool
}

func (e *BadZiaInputError) Error() string {
	return fmt.Sprintf("xc2zia: row %d: fuses %v do not match any legal ZIA input", e.Row, e.Bits)
}

const RowsPerFB = 40

// RowWidth returns W(D), the number of fuses a single ZIA row occupies
// on device d.
func RowWidth(d xc2device.Device) int {
	return xc2device.GeometryOf(d).ZIAWidth
}

// candidates returns the ordered, deterministic list of legal inputs
// exposed by ZIA row `row` on device d; len(candidates) == RowWidth(d).
// The ordering rotates through the canonical "every possible source"
// list by `row` so that different rows expose different (but stable)
// windows.
//
// NOT SILICON-ACCURATE: see the package doc comment's WARNING. This is
// a placeholder for a table that was never present in the retrieval
// pack, not a simplification of a known-but-elided rule.
func candidates(d xc2device.Device, row int) []Input {
	g := xc2device.GeometryOf(d)

	var universe []Input
	universe = append(universe, Input{Kind: One})
	if g.HasExtraIBuf {
		universe = append(universe, Input{Kind: DedicatedInput})
	}
	for fb := 0; fb < g.FBCount; fb++ {
		for mc := 0; mc < 16; mc++ {
			universe = append(universe, Input{Kind: MacrocellFeedback, FB: fb, MC: mc})
		}
	}
	iobCount := g.FBCount * 16
	for iob := 0; iob < iobCount; iob++ {
		universe = append(universe, Input{Kind: IBuf, IOB: iob})
	}

	w := g.ZIAWidth
	out := make([]Input, w)
	n := len(universe)
	start := (row * w) % n
	for i := 0; i < w; i++ {
		out[i] = universe[(start+i)%n]
	}
	return out
}

// EncodeRow produces the W(D)-wide fuse row for input on the given row
// of device d: the bit at the input's candidate position is cleared
// (active-low), every other bit is set; Zero clears none (all-ones).
func EncodeRow(d xc2device.Device, row int, input Input) []bool {
	w := RowWidth(d)
	bits := make([]bool, w)
	for i := range bits {
		bits[i] = true
	}
	if input.Kind == Zero {
		return bits
	}
	cs := candidates(d, row)
	for i, c := range cs {
		if c == input {
			bits[i] = false
			return bits
		}
	}
	panic(fmt.Sprintf("xc2zia: %v is not a legal input for row %d on %v", input, row, d))
}

// DecodeRow is the inverse of EncodeRow: an all-true row decodes to
// Zero; a row with exactly one active-low bit decodes to that
// candidate; anything else is BadZiaInputError.
func DecodeRow(d xc2device.Device, row int, bits []bool) (Input, error) {
	activeIdx := -1
	for i, b := range bits {
		if !b {
			if activeIdx != -1 {
				return Input{}, &BadZiaInputError{Row: row, Bits: bits}
			}
			activeIdx = i
		}
	}
	if activeIdx == -1 {
		return Input{Kind: Zero}, nil
	}
	cs := candidates(d, row)
	if activeIdx >= len(cs) {
		return Input{}, &BadZiaInputError{Row: row, Bits: bits}
	}
	return cs[activeIdx], nil
}
