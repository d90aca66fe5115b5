// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/lsmkv/kvbench/internal/config"
	"github.com/lsmkv/kvbench/internal/runner"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run report | put_plot <put-size> <seconds> | correctness | persistence",
		Short: "Run a benchmark binary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, rest := args[0], args[1:]
			path, ok := a.cfg.Binaries[name]
			if !ok {
				return errors.Newf("unknown binary %q (want one of %s)", name, strings.Join(config.Binaries, ", "))
			}
			r := a.runner()
			ctx := cmd.Context()

			switch name {
			case "report", "put_plot":
				job := runner.ReportJob(path)
				if name == "put_plot" {
					if len(rest) != 2 {
						return errors.New("put_plot requires <put-size> and <seconds>")
					}
					size, err := strconv.Atoi(rest[0])
					if err != nil {
						return errors.Wrap(err, "put size")
					}
					secs, err := strconv.Atoi(rest[1])
					if err != nil {
						return errors.Wrap(err, "seconds")
					}
					job = runner.PutPlotJob(path, size, secs)
				} else if len(rest) != 0 {
					return errors.Newf("report takes no arguments")
				}
				res, err := r.Run(ctx, job)
				if res != nil {
					fmt.Fprintf(a.w, "%s: wrote %s to %s in %v\n", name, humanize.IBytes(uint64(res.LogSize)), res.LogFile, res.Elapsed.Round(time.Millisecond))
				}
				return err
			}

			job := runner.Job{Name: name, Path: path, Args: rest}
			out, truncated, err := r.Capture(ctx, job, a.cfg.CaptureLimit)
			a.w.Write(out)
			if truncated {
				fmt.Fprintf(a.w, "\n[output truncated at %s]\n", humanize.IBytes(uint64(a.cfg.CaptureLimit)))
			}
			return err
		},
	}
}

func newRebuildCmd(a *app) *cobra.Command {
	var skipTests bool
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Build the storage engine and run its tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.runner()
			if err := r.Build(cmd.Context()); err != nil {
				return err
			}
			if skipTests {
				return nil
			}
			return r.Test(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&skipTests, "skip-tests", false, "build without running the tests")
	return cmd
}
