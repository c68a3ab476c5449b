// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package bitpattern implements the fixed-width boolean-tuple <-> discrete
// variant codec used throughout the bit-layout engine: clock sources,
// reset/set sources, XOR modes, and similar small device enums are all
// Pattern[T] values rather than hand-written switch statements.
package bitpattern

import (
	"fmt"
	"strings"
)

// Variant is one named entry of a Pattern[T]: a value of T, paired with
// the bit string that encode/decode it against. Bits is over the
// alphabet {'0','1','x','X'}; 'x'/'X' match either polarity on decode;
// on encode 'x' is emitted as false and 'X' as true.
type Variant[T any] struct {
	Name string
	Desc string
	Bits string
	Val  T
}

// Pattern describes a conversion between a value of T and a fixed-length
// boolean array, by linear variant match. It is the Go analogue of the
// bittwiddler `BitPattern` trait: a runtime-configured table rather than
// a derive-macro-generated `impl`.
type Pattern[T comparable] struct {
	N        int
	Variants []Variant[T]

	// HasDefault and Default configure the behavior when no variant
	// matches on decode. If HasDefault is false, decode returns
	// ErrNoMatch instead.
	HasDefault bool
	Default    T
}

// ErrNoMatch is returned by Decode when no variant's bit string matches
// and no default is configured.
type ErrNoMatch struct {
	Bits []bool
}

func (e *ErrNoMatch) Error() string {
	return fmt.Sprintf("bitpattern: no variant matches %v", e.Bits)
}

// Encode finds the variant equal to val and returns its bits, with
// 'x' don't-care positions emitted as false and 'X' ones as true. It panics if val names no
// variant; a Pattern whose Variants don't cover T's value space is a
// construction bug, not a runtime error.
func (p *Pattern[T]) Encode(val T) []bool {
	for _, v := range p.Variants {
		if v.Val == val {
			return decodeBitString(v.Bits)
		}
	}
	panic(fmt.Sprintf("bitpattern: %v is not a known variant", val))
}

// Decode matches bits against each variant in order, treating 'x'/'X' as
// wildcards, and returns the first match's value. If nothing matches, it
// falls back to Default (if HasDefault) or returns ErrNoMatch.
func (p *Pattern[T]) Decode(bits []bool) (T, error) {
	for _, v := range p.Variants {
		if matchBitString(v.Bits, bits) {
			return v.Val, nil
		}
	}
	if p.HasDefault {
		return p.Default, nil
	}
	var zero T
	return zero, &ErrNoMatch{Bits: append([]bool(nil), bits...)}
}

func decodeBitString(s string) []bool {
	out := make([]bool, len(s))
	for i, c := range s {
		out[i] = c == '1' || c == 'X'
	}
	return out
}

func matchBitString(pattern string, bits []bool) bool {
	if len(pattern) != len(bits) {
		return false
	}
	for i, c := range pattern {
		switch c {
		case 'x', 'X':
			continue
		case '0':
			if bits[i] {
				return false
			}
		case '1':
			if !bits[i] {
				return false
			}
		}
	}
	return true
}

// NameOf returns the Name of the variant equal to val, for rendering a
// human-readable label (e.g. in pkg/xc2dump) instead of a bare integer.
func (p *Pattern[T]) NameOf(val T) (string, bool) {
	for _, v := range p.Variants {
		if v.Val == val {
			return v.Name, true
		}
	}
	return "", false
}

// DocTable renders the pattern's variant table as a fixed-width ASCII
// table, the way bittwiddler::bitpattern::docs_as_ascii_table does, for
// use in dump output and error messages about unrecognized patterns.
func (p *Pattern[T]) DocTable() string {
	maxName, maxDesc := 0, 0
	for _, v := range p.Variants {
		if len(v.Name) > maxName {
			maxName = len(v.Name)
		}
		if len(v.Desc) > maxDesc {
			maxDesc = len(v.Desc)
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "%s | %s |\n", strings.Repeat(" ", p.N), strings.Repeat(" ", maxName))
	fmt.Fprintf(&out, "%s-+-%s-+-%s\n", strings.Repeat("-", p.N), strings.Repeat("-", maxName), strings.Repeat("-", maxDesc))
	for _, v := range p.Variants {
		fmt.Fprintf(&out, "%s | %-*s | %s\n", v.Bits, maxName, v.Name, v.Desc)
	}
	return out.String()
}
