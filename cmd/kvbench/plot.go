// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/internal/chart"
	"github.com/lsmkv/kvbench/kvproc"
	"github.com/spf13/cobra"
)

func newPlotCmd(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "plot [flags] report.txt",
		Short: "Draw throughput charts from a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.readReport(args[0])
			if err != nil {
				return err
			}
			paths, err := a.plot(outDir, rep)
			for _, p := range paths {
				a.log.Debug("wrote chart", "file", p)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.w, "wrote %d charts to %s\n", len(paths), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "imgs", "write charts to `dir`")
	return cmd
}

// plot draws every chart of rep. Groups and sweeps whose records
// cannot be arranged into charts are reported and skipped.
func (a *app) plot(dir string, rep *kvproc.Report) ([]string, error) {
	var paths []string
	for _, g := range rep.Groups {
		p, err := chart.ValueSizeCharts(dir, g)
		paths = append(paths, p...)
		if errors.Is(err, kvproc.ErrBucketSize) {
			a.log.Warn("skipping value size charts", "err", err)
			continue
		} else if err != nil {
			return paths, err
		}
	}
	for i, s := range rep.Sweeps {
		p, err := chart.SweepCharts(dir, i+1, s)
		paths = append(paths, p...)
		if errors.Is(err, kvproc.ErrRaggedSweep) {
			a.log.Warn("skipping sweep charts", "err", err)
			continue
		} else if err != nil {
			return paths, err
		}
	}
	p, err := chart.CompareCharts(dir, rep)
	return append(paths, p...), err
}
