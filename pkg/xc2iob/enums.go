// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2iob implements an I/O pin's configuration: the ZIA-feedback
// mux, input buffer mode, output buffer mode, and the small number of
// per-pin toggles (Schmitt trigger, termination, slew rate, DataGate),
// plus the dedicated extra input buffer present on 32-macrocell devices
// and the iob<->(fb,mc) numbering scheme.
//
// SmallIob, LargeIob and ExtraIBuf's field placements, and the
// iob<->(fb,mc) numbering table for every device including the larger
// ones (128/256/512), are all grounded directly on the literal
// bittwiddler_field offsets and iob_num_to_fb_mc_num match arms
// retrieved from the reference source's iob.rs - see DESIGN.md.
package xc2iob

import "github.com/xc2cpld/xc2bit/lib/bitpattern"

// ZIAMode selects what this pin's ZIA feedback row carries.
type ZIAMode int

const (
	ZIADisabled ZIAMode = iota
	ZIAPad
	ZIAReg
)

var ZIAModePattern = bitpattern.Pattern[ZIAMode]{
	N: 2,
	Variants: []bitpattern.Variant[ZIAMode]{
		{Name: "Disabled", Desc: "no ZIA feedback", Bits: "X1", Val: ZIADisabled},
		{Name: "PAD", Desc: "input pad", Bits: "00", Val: ZIAPad},
		{Name: "REG", Desc: "register output", Bits: "10", Val: ZIAReg},
	},
}

// OBufMode selects the pin's output buffer configuration.
type OBufMode int

const (
	OBufDisabled OBufMode = iota
	OBufPushPull
	OBufOpenDrain
	OBufTriStateGTS0
	OBufTriStateGTS1
	OBufTriStateGTS2
	OBufTriStateGTS3
	OBufTriStatePTB
	OBufTriStateCTE
	OBufCGND
)

// UnsupportedOeConfigurationError is returned when an output buffer's
// four mode fuses match none of the ten known bit patterns.
type UnsupportedOeConfigurationError struct {
	Bits []bool
}

func (e *UnsupportedOeConfigurationError) Error() string {
	return "xc2iob: fuses do not match any supported output-enable configuration"
}

var OBufModePattern = bitpattern.Pattern[OBufMode]{
	N: 4,
	Variants: []bitpattern.Variant[OBufMode]{
		{Name: "Disabled", Desc: "output disabled", Bits: "1111", Val: OBufDisabled},
		{Name: "PushPull", Desc: "push-pull", Bits: "0000", Val: OBufPushPull},
		{Name: "OpenDrain", Desc: "open-drain", Bits: "0001", Val: OBufOpenDrain},
		{Name: "TriStateGTS0", Desc: "GTS0-controlled tri-state", Bits: "1100", Val: OBufTriStateGTS0},
		{Name: "TriStateGTS1", Desc: "GTS1-controlled tri-state", Bits: "0010", Val: OBufTriStateGTS1},
		{Name: "TriStateGTS2", Desc: "GTS2-controlled tri-state", Bits: "1010", Val: OBufTriStateGTS2},
		{Name: "TriStateGTS3", Desc: "GTS3-controlled tri-state", Bits: "0110", Val: OBufTriStateGTS3},
		{Name: "TriStatePTB", Desc: "PTB-controlled tri-state", Bits: "0100", Val: OBufTriStatePTB},
		{Name: "TriStateCTE", Desc: "CTE-controlled tri-state", Bits: "1000", Val: OBufTriStateCTE},
		{Name: "CGND", Desc: "controlled ground", Bits: "1110", Val: OBufCGND},
	},
}

// DecodeOBufMode is the dedicated decoder for OBufMode: unlike the
// other small enums, an unrecognized bit pattern here is a
// domain-level error (spec §7's UnsupportedOeConfiguration), not a
// silent default.
func DecodeOBufMode(bits []bool) (OBufMode, error) {
	v, err := OBufModePattern.Decode(bits)
	if err != nil {
		return 0, &UnsupportedOeConfigurationError{Bits: append([]bool(nil), bits...)}
	}
	return v, nil
}

// IbufMode selects the input buffer configuration on devices with VREF
// support (128 macrocells and larger).
type IbufMode int

const (
	IbufNoVrefNoSt IbufMode = iota
	IbufNoVrefSt
	IbufUsesVref
	IbufIsVref
)

var IbufModePattern = bitpattern.Pattern[IbufMode]{
	N: 2,
	Variants: []bitpattern.Variant[IbufMode]{
		{Name: "NoVrefNoSt", Desc: "no VREF, no Schmitt trigger", Bits: "00", Val: IbufNoVrefNoSt},
		{Name: "NoVrefSt", Desc: "no VREF, Schmitt trigger", Bits: "11", Val: IbufNoVrefSt},
		{Name: "UsesVref", Desc: "uses VREF (HSTL/SSTL)", Bits: "10", Val: IbufUsesVref},
		{Name: "IsVref", Desc: "is a VREF pin", Bits: "01", Val: IbufIsVref},
	},
}
