// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package xc2dump

import (
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
)

// spewConfig mirrors the teacher's "spew-items" inspector subcommand:
// pointer addresses vary run to run and would make dumps useless for
// diffing, so they're suppressed.
var spewConfig = func() *spew.ConfigState {
	c := spew.NewDefaultConfig()
	c.DisablePointerAddresses = true
	return c
}()

// Spew writes the complete Go struct tree of bs to w via go-spew, for
// inspecting fields the line-oriented Text renderer doesn't surface
// (ZIA row/AND/OR term internals, raw enum values).
func Spew(w io.Writer, bs *xc2bitstream.Bitstream) {
	spewConfig.Fdump(w, bs)
}
