// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fuseplane provides the two concrete bit-plane representations
// that the bit-layout engine encodes into and decodes out of: a flat,
// order-significant logical plane ("jed"), and a rectangular physical
// plane ("crbit").
package fuseplane

import "fmt"

// Plane1D is an ordered sequence of fuse bits with random-access get/set.
// Its length for a given device is that device's total logical fuse count.
type Plane1D struct {
	bits []bool
}

// NewPlane1D allocates a Plane1D of the given length, all bits cleared.
func NewPlane1D(length int) *Plane1D {
	return &Plane1D{bits: make([]bool, length)}
}

func (p *Plane1D) Len() int { return len(p.bits) }

func (p *Plane1D) Get(i int) bool {
	return p.bits[i]
}

func (p *Plane1D) Set(i int, v bool) {
	p.bits[i] = v
}

// Bits returns the plane's backing slice. Callers must not retain it past
// the next mutation of p.
func (p *Plane1D) Bits() []bool {
	return p.bits
}

// MarshalBinary packs the plane one bit per bool, MSB-first within each
// byte, padding the final byte with zero bits.
func (p *Plane1D) MarshalBinary() ([]byte, error) {
	out := make([]byte, (len(p.bits)+7)/8)
	for i, b := range p.bits {
		if b {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out, nil
}

// UnmarshalBinary is the inverse of MarshalBinary; it does not change the
// plane's length, so the destination must already be sized correctly.
func (p *Plane1D) UnmarshalBinary(data []byte) error {
	want := (len(p.bits) + 7) / 8
	if len(data) != want {
		return fmt.Errorf("fuseplane: UnmarshalBinary: got %d bytes, want %d for a %d-bit plane",
			len(data), want, len(p.bits))
	}
	for i := range p.bits {
		p.bits[i] = data[i/8]&(1<<(7-uint(i%8))) != 0
	}
	return nil
}
