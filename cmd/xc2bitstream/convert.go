// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
)

func newConvertCommand() *cobra.Command {
	var fromFmt, toFmt, speed, pkg string

	cmd := &cobra.Command{
		Use:   "convert INPUT OUTPUT",
		Short: "Convert a bitstream between .jed and .cr",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inPath, outPath := args[0], args[1]

			inFmt, err := resolveFormat(fromFmt, inPath)
			if err != nil {
				return err
			}
			outFmt, err := resolveFormat(toFmt, outPath)
			if err != nil {
				return err
			}

			dlog.Infof(ctx, "reading %s as %s", inPath, inFmt)
			bs, err := readBitstream(inPath, inFmt, xc2bitstream.SpeedGrade(speed), xc2bitstream.Package(pkg))
			if err != nil {
				return err
			}

			dlog.Infof(ctx, "writing %s as %s", outPath, outFmt)
			data, err := encodeBitstream(bs, outFmt)
			if err != nil {
				return err
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&fromFmt, "from", "", "input format: jed or cr (default: inferred from INPUT's extension)")
	cmd.Flags().StringVar(&toFmt, "to", "", "output format: jed or cr (default: inferred from OUTPUT's extension)")
	cmd.Flags().StringVar(&speed, "speed", "", "speed grade; required when the input is a .cr file, which carries no speed/package annotation")
	cmd.Flags().StringVar(&pkg, "package", "", "package code; required when the input is a .cr file")
	return cmd
}
