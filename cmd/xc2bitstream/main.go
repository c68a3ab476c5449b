// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command xc2bitstream converts Xilinx Coolrunner-II CPLD bitstreams
// between their ".jed" (pkg/xc2jed) and ".cr" (pkg/xc2crbit) file
// formats, and renders them as human-readable text, a go-spew struct
// dump, or JSON (pkg/xc2dump). It is the CLI entry point named in
// spec §6's External Interfaces, grounded on the teacher's
// cmd/btrfs-rec/main.go: the same cobra/dgroup/dlog/cliutil/logrus
// ambient stack, generalized from a filesystem-recovery tool to a
// bitstream codec.
package main

import (
	"context"
	"os"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xc2cpld/xc2bit/lib/profile"
	"github.com/xc2cpld/xc2bit/lib/textui"
)

// logLevelFlag wraps logrus.Level as a pflag.Value, exactly as the
// teacher's cmd/btrfs-rec does.
type logLevelFlag struct {
	logrus.Level
}

func (lvl *logLevelFlag) Type() string { return "loglevel" }

func (lvl *logLevelFlag) Set(str string) error {
	var err error
	lvl.Level, err = logrus.ParseLevel(str)
	return err
}

var _ pflag.Value = (*logLevelFlag)(nil)

func main() {
	lvlFlag := logLevelFlag{Level: logrus.InfoLevel}

	argparser := &cobra.Command{
		Use:   "xc2bitstream {[flags]|SUBCOMMAND}",
		Short: "Convert and inspect Xilinx Coolrunner-II CPLD bitstreams",

		Args: cliutil.WrapPositionalArgs(cliutil.OnlySubcommands),
		RunE: cliutil.RunSubcommands,

		SilenceErrors: true,
		SilenceUsage:  true,

		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
	argparser.PersistentFlags().Var(&lvlFlag, "verbosity", "set the verbosity")
	stopProfiling := profile.AddProfileFlags(argparser.PersistentFlags(), "profile-")

	argparser.AddCommand(newConvertCommand())
	argparser.AddCommand(newDumpCommand())
	argparser.AddCommand(newInfoCommand())

	origRunE := map[*cobra.Command]func(*cobra.Command, []string) error{}
	var wrap func(*cobra.Command)
	wrap = func(cmd *cobra.Command) {
		if cmd.RunE != nil {
			origRunE[cmd] = cmd.RunE
			runE := cmd.RunE
			cmd.RunE = func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				logger := logrus.New()
				logger.SetLevel(lvlFlag.Level)
				ctx = dlog.WithLogger(ctx, dlog.WrapLogrus(logger))

				grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
					EnableSignalHandling: true,
				})
				grp.Go("main", func(ctx context.Context) error {
					cmd.SetContext(ctx)
					return runE(cmd, args)
				})
				return grp.Wait()
			}
		}
		for _, child := range cmd.Commands() {
			wrap(child)
		}
	}
	for _, child := range argparser.Commands() {
		wrap(child)
	}

	err := argparser.ExecuteContext(context.Background())
	if stopErr := stopProfiling(); err == nil {
		err = stopErr
	}
	if err != nil {
		textui.Fprintf(os.Stderr, "%v: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
