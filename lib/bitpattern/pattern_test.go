// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package bitpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type choice int

const (
	choice1 choice = iota
	choice2
	choice3
	choice4
)

func choicePattern() *Pattern[choice] {
	return &Pattern[choice]{
		N: 2,
		Variants: []Variant[choice]{
			{Name: "Choice1", Bits: "00", Val: choice1},
			{Name: "Choice2", Bits: "01", Val: choice2},
			{Name: "Choice3", Bits: "10", Val: choice3},
			{Name: "Choice4", Bits: "11", Val: choice4},
		},
	}
}

// S3: a standalone pattern codec for a 2-bit enum.
func TestPatternEncodeDecodeS3(t *testing.T) {
	t.Parallel()
	p := choicePattern()

	assert.Equal(t, []bool{true, false}, p.Encode(choice3))

	got, err := p.Decode([]bool{true, false})
	require.NoError(t, err)
	assert.Equal(t, choice3, got)
}

func TestPatternRoundTripAllVariants(t *testing.T) {
	t.Parallel()
	p := choicePattern()
	for _, v := range p.Variants {
		bits := p.Encode(v.Val)
		got, err := p.Decode(bits)
		require.NoError(t, err)
		assert.Equal(t, v.Val, got)
	}
}

type clkSrc int

const (
	clkGCK0 clkSrc = iota
	clkGCK1
	clkGCK2
)

// S4: a don't-care bit ("x10") matches either polarity at that position
// on decode, and always encodes to false.
func TestPatternDontCareS4(t *testing.T) {
	t.Parallel()
	p := &Pattern[clkSrc]{
		N: 3,
		Variants: []Variant[clkSrc]{
			{Name: "GCK0", Bits: "x00", Val: clkGCK0},
			{Name: "GCK1", Bits: "x10", Val: clkGCK1},
			{Name: "GCK2", Bits: "x11", Val: clkGCK2},
		},
	}

	assert.Equal(t, []bool{false, true, false}, p.Encode(clkGCK1))

	got, err := p.Decode([]bool{false, true, false})
	require.NoError(t, err)
	assert.Equal(t, clkGCK1, got)

	got, err = p.Decode([]bool{true, true, false})
	require.NoError(t, err)
	assert.Equal(t, clkGCK1, got)
}

// Pattern totality: every enum pattern with a declared default decodes
// every bit combination to a variant or the default, never an error.
func TestPatternTotalityWithDefault(t *testing.T) {
	t.Parallel()
	p := &Pattern[choice]{
		N: 2,
		Variants: []Variant[choice]{
			{Name: "Choice1", Bits: "00", Val: choice1},
		},
		HasDefault: true,
		Default:    choice4,
	}
	for _, bits := range [][]bool{{false, false}, {false, true}, {true, false}, {true, true}} {
		_, err := p.Decode(bits)
		require.NoError(t, err)
	}
}

func TestPatternNoMatchWithoutDefault(t *testing.T) {
	t.Parallel()
	p := &Pattern[choice]{
		N: 2,
		Variants: []Variant[choice]{
			{Name: "Choice1", Bits: "00", Val: choice1},
		},
	}
	_, err := p.Decode([]bool{true, true})
	require.Error(t, err)
	var noMatch *ErrNoMatch
	assert.ErrorAs(t, err, &noMatch)
}

func TestPatternNameOf(t *testing.T) {
	t.Parallel()
	p := choicePattern()

	name, ok := p.NameOf(choice3)
	assert.True(t, ok)
	assert.Equal(t, "Choice3", name)

	_, ok = p.NameOf(choice(99))
	assert.False(t, ok)
}

func TestPatternDocTable(t *testing.T) {
	t.Parallel()
	p := choicePattern()
	p.Variants[0].Desc = "the first choice"
	table := p.DocTable()
	assert.Contains(t, table, "Choice1")
	assert.Contains(t, table, "the first choice")
	assert.Contains(t, table, "10 | Choice3")
}
