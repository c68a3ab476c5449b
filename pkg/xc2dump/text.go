// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package xc2dump is the human-readable rendering of a decoded
// Bitstream: an external collaborator of pkg/xc2bitstream (spec §1),
// never imported by it. Text renders a line-oriented summary in the
// manner of the reference source's Display impls for XC2Macrocell and
// the iob types (spec §13's restored feature); Spew renders the full Go
// struct tree via go-spew, in the manner of the teacher's "spew-items"
// inspector subcommand; JSON renders it through lowmemjson, with raw
// fuse bytes split out as hex strings the way lib/jsonutil.Binary[T]
// does for btrfs items.
package xc2dump

import (
	"fmt"
	"io"

	"github.com/xc2cpld/xc2bit/lib/fmtutil"
	"github.com/xc2cpld/xc2bit/lib/textui"
	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
	"github.com/xc2cpld/xc2bit/pkg/xc2fb"
	"github.com/xc2cpld/xc2bit/pkg/xc2global"
	"github.com/xc2cpld/xc2bit/pkg/xc2iob"
	"github.com/xc2cpld/xc2bit/pkg/xc2mc"
)

// Text writes a line-oriented, human-readable rendering of bs to w:
// device header, fuse utilization, global nets, and one section per
// function block with a line per macrocell/IOB.
func Text(w io.Writer, bs *xc2bitstream.Bitstream) error {
	g := xc2device.GeometryOf(bs.Device)

	logical := bs.EncodeLogical()
	used := 0
	for i := 0; i < logical.Len(); i++ {
		if logical.Get(i) {
			used++
		}
	}

	if _, err := textui.Fprintf(w, "device %s-%s-%s\n", bs.Device, bs.Speed, bs.Pkg); err != nil {
		return err
	}
	if _, err := textui.Fprintf(w, "  function blocks: %d\n", g.FBCount); err != nil {
		return err
	}
	if _, err := textui.Fprintf(w, "  logical fuses set: %v\n", textui.Portion[int]{N: used, D: logical.Len()}); err != nil {
		return err
	}
	if err := writeGlobalNets(w, bs.Global); err != nil {
		return err
	}
	if g.HasClockDiv {
		if err := writeClockDiv(w, bs.ClockDiv); err != nil {
			return err
		}
	}
	if err := writeBankVoltage(w, bs.BankVoltage); err != nil {
		return err
	}
	if g.HasExtraIBuf {
		if _, err := textui.Fprintf(w, "extra ibuf: schmitt=%t termination=%t\n",
			bs.ExtraIBuf.SchmittTrigger, bs.ExtraIBuf.TerminationEnabled); err != nil {
			return err
		}
	}

	for i, fb := range bs.FBs {
		if err := writeFunctionBlock(w, bs.Device, i, fb); err != nil {
			return err
		}
	}
	return nil
}

var gckEnableNames = []string{"GCK0", "GCK1", "GCK2"}
var gtsEnableNames = []string{"GTS0", "GTS1", "GTS2", "GTS3"}

func boolsBitfield(bs ...bool) uint8 {
	var v uint8
	for i, b := range bs {
		if b {
			v |= 1 << i
		}
	}
	return v
}

func writeGlobalNets(w io.Writer, gn xc2global.GlobalNets) error {
	_, err := textui.Fprintf(w, "global nets: gck=%s gsr=%t(invert=%t) gts=%s(invert=%v) pullup=%t\n",
		fmtutil.BitfieldString(boolsBitfield(gn.GCKEnable[:]...), gckEnableNames, fmtutil.HexNone),
		gn.GSREnable, gn.GSRInvert,
		fmtutil.BitfieldString(boolsBitfield(gn.GTSEnable[:]...), gtsEnableNames, fmtutil.HexNone),
		gn.GTSInvert, gn.GlobalPU)
	return err
}

func writeClockDiv(w io.Writer, cd xc2global.ClockDiv) error {
	name, ok := xc2global.ClockDivRatioPattern.NameOf(cd.Ratio)
	if !ok {
		name = "?"
	}
	_, err := textui.Fprintf(w, "clock divider: enabled=%t ratio=%s delay=%t\n", cd.Enabled, name, cd.Delay)
	return err
}

func writeBankVoltage(w io.Writer, bv xc2global.BankVoltage) error {
	_, err := textui.Fprintf(w, "bank voltage: legacy(i=%t o=%t) i=%v o=%v datagate=%t usevref=%t\n",
		bv.LegacyIVoltage, bv.LegacyOVoltage, bv.IVoltage, bv.OVoltage, bv.DataGate, bv.UseVref)
	return err
}

func writeFunctionBlock(w io.Writer, d xc2device.Device, fbIdx int, fb *xc2fb.FunctionBlock) error {
	if _, err := textui.Fprintf(w, "FB%d:\n", fbIdx); err != nil {
		return err
	}
	for mc := 0; mc < xc2fb.Macrocells; mc++ {
		if err := writeMacrocell(w, d, fbIdx, mc, fb); err != nil {
			return err
		}
	}
	return nil
}

func writeMacrocell(w io.Writer, d xc2device.Device, fbIdx, mc int, fb *xc2fb.FunctionBlock) error {
	m := fb.Mcs[mc]

	clkSrc, _ := xc2mc.RegClkSrcPattern.NameOf(m.ClkSrc)
	regMode, _ := xc2mc.RegModePattern.NameOf(m.RegMode)
	resetSrc, _ := xc2mc.RegResetSrcPattern.NameOf(m.ResetSrc)
	setSrc, _ := xc2mc.RegSetSrcPattern.NameOf(m.SetSrc)
	fbMode, _ := xc2mc.FeedbackModePattern.NameOf(m.FeedbackMode)
	xorMode, _ := xc2mc.XorModePattern.NameOf(m.XorMode)

	label := fmt.Sprintf("  MC%d: mode=%s clk=%s(invert=%t ddr=%t) reset=%s set=%s init=%t feedback=%s ibuf-direct=%t xor=%s",
		mc, regMode, clkSrc, m.ClkInvert, m.IsDDR, resetSrc, setSrc, m.InitState, fbMode, m.FFInIbuf, xorMode)

	if fb.HasIOB[mc] {
		iobNum, _ := xc2iob.FbMcToIobNum(d, fbIdx, mc)
		label += fmt.Sprintf(" iob=%d", iobNum)
		if xc2device.GeometryOf(d).MCFamily == xc2device.MCFamilyLarge {
			label += " " + describeLargeIob(fb.Large[mc])
		} else {
			label += " " + describeSmallIob(fb.Small[mc])
		}
	} else {
		label += " (buried)"
	}

	_, err := textui.Fprintf(w, "%s\n", label)
	return err
}

func describeSmallIob(io xc2iob.SmallIob) string {
	zia, _ := xc2iob.ZIAModePattern.NameOf(io.ZiaMode)
	obuf, _ := xc2iob.OBufModePattern.NameOf(io.ObufMode)
	return fmt.Sprintf("zia=%s obuf=%s(ff=%t) schmitt=%t termination=%t slew-fast=%t",
		zia, obuf, io.ObufUsesFF, io.SchmittTrigger, io.TerminationEnabled, io.SlewIsFast)
}

func describeLargeIob(io xc2iob.LargeIob) string {
	zia, _ := xc2iob.ZIAModePattern.NameOf(io.ZiaMode)
	obuf, _ := xc2iob.OBufModePattern.NameOf(io.ObufMode)
	ibuf, _ := xc2iob.IbufModePattern.NameOf(io.IbufMode)
	return fmt.Sprintf("zia=%s obuf=%s(ff=%t) ibuf=%s termination=%t slew-fast=%t datagate=%t",
		zia, obuf, io.ObufUsesFF, ibuf, io.TerminationEnabled, io.SlewIsFast, io.UsesDataGate)
}
