// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/internal/config"
	"github.com/lsmkv/kvbench/internal/runner"
	"github.com/lsmkv/kvbench/kvproc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app is the state shared by all commands.
type app struct {
	w, wErr io.Writer
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
}

func kvbench(ctx context.Context, w, wErr io.Writer, args []string) error {
	a := &app{w: w, wErr: wErr, v: viper.New()}
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "kvbench",
		Short:         "Charts, tables and runs for key-value store benchmarks",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(a.v, cmd.Root().PersistentFlags(), "verbose"); err != nil {
				return err
			}
			return a.init()
		},
	}
	root.SetOut(a.w)
	root.SetErr(a.wErr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "read settings from `file` (default ./kvbench.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newPlotCmd(a),
		newTableCmd(a),
		newStatCmd(a),
		newPutPlotCmd(a),
		newRunCmd(a),
		newRebuildCmd(a),
	)
	return root
}

// bindFlags binds each named flag of fs to the viper key of the same
// name.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return errors.Wrapf(err, "binding --%s", name)
		}
	}
	return nil
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.wErr, &slog.HandlerOptions{Level: level}))
	a.log.Debug("configuration", "file", a.v.ConfigFileUsed(), "build_dir", cfg.BuildDir, "log_dir", cfg.LogDir)
	return nil
}

func (a *app) readReport(path string) (*kvproc.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return kvproc.Parse(f, path)
}

func (a *app) runner() *runner.Runner {
	return runner.New(runner.Options{
		SourceDir:    a.cfg.SourceDir,
		BuildDir:     a.cfg.BuildDir,
		LogDir:       a.cfg.LogDir,
		MaxLogSize:   a.cfg.MaxLogSize,
		PollInterval: a.cfg.PollInterval,
		Output:       a.wErr,
	}, a.log)
}
