// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/xc2cpld/xc2bit/pkg/xc2bitstream"
	"github.com/xc2cpld/xc2bit/pkg/xc2dump"
)

func newDumpCommand() *cobra.Command {
	var fromFmt, format, speed, pkg string

	cmd := &cobra.Command{
		Use:   "dump INPUT",
		Short: "Render a bitstream as text, a go-spew struct dump, or JSON",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inPath := args[0]

			inFmt, err := resolveFormat(fromFmt, inPath)
			if err != nil {
				return err
			}

			dlog.Infof(ctx, "reading %s as %s", inPath, inFmt)
			bs, err := readBitstream(inPath, inFmt, xc2bitstream.SpeedGrade(speed), xc2bitstream.Package(pkg))
			if err != nil {
				return err
			}

			switch format {
			case "text":
				return xc2dump.Text(os.Stdout, bs)
			case "spew":
				xc2dump.Spew(os.Stdout, bs)
				return nil
			case "json":
				return xc2dump.JSON(os.Stdout, bs)
			default:
				return fmt.Errorf("xc2bitstream: unrecognized --format %q (want text, spew, or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&fromFmt, "from", "", "input format: jed or cr (default: inferred from INPUT's extension)")
	cmd.Flags().StringVar(&format, "format", "text", "output rendering: text, spew, or json")
	cmd.Flags().StringVar(&speed, "speed", "", "speed grade; required when the input is a .cr file")
	cmd.Flags().StringVar(&pkg, "package", "", "package code; required when the input is a .cr file")
	return cmd
}
