// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"

	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"github.com/xc2cpld/xc2bit/lib/textui"
	"github.com/xc2cpld/xc2bit/pkg/xc2device"
)

var allDevices = []xc2device.Device{
	xc2device.XC2C32, xc2device.XC2C32A,
	xc2device.XC2C64, xc2device.XC2C64A,
	xc2device.XC2C128, xc2device.XC2C256,
	xc2device.XC2C384, xc2device.XC2C512,
}

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [DEVICE]",
		Short: "List supported devices, or a device's legal speed grades and packages",
		Args:  cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, d := range allDevices {
					if _, err := textui.Fprintf(os.Stdout, "%s\n", d); err != nil {
						return err
					}
				}
				return nil
			}

			d, err := xc2device.ParseDevice(args[0])
			if err != nil {
				return err
			}
			g := xc2device.GeometryOf(d)
			if _, err := textui.Fprintf(os.Stdout, "%s: %d function blocks, ZIA width %d\n", d, g.FBCount, g.ZIAWidth); err != nil {
				return err
			}

			speeds := xc2device.SpeedsFor(d)
			if _, err := textui.Fprintf(os.Stdout, "  speed grades: %v\n", speeds); err != nil {
				return err
			}

			pkgs := xc2device.PackagesFor(d)
			if _, err := textui.Fprintf(os.Stdout, "  packages: %v\n", pkgs); err != nil {
				return err
			}
			return nil
		},
	}
	return cmd
}
