// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/lsmkv/kvbench/internal/chart"
	"github.com/lsmkv/kvbench/kvproc"
	"github.com/spf13/cobra"
)

func newPutPlotCmd(a *app) *cobra.Command {
	var out, name string
	cmd := &cobra.Command{
		Use:   "putplot [flags] put_plot.txt",
		Short: "Draw the put throughput timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			tl, err := kvproc.ParseTimeline(f, args[0], name)
			if err != nil {
				return err
			}
			if err := chart.TimelineChart(out, tl); err != nil {
				return err
			}
			fmt.Fprintf(a.w, "wrote %d samples to %s\n", len(tl.Samples), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "imgs/put_throughput.png", "write the chart to `file`")
	cmd.Flags().StringVar(&name, "name", "put", "plot throughput lines with this `name`")
	return cmd
}
