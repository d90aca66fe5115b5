// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/cmd/kvbench/internal/kvtab"
	"github.com/lsmkv/kvbench/kvfmt"
	"github.com/lsmkv/kvbench/kvproc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// metricFlag is a pflag.Value selecting a kvproc.Metric.
type metricFlag struct{ m kvproc.Metric }

var _ pflag.Value = (*metricFlag)(nil)

func (f *metricFlag) String() string { return f.m.String() }
func (f *metricFlag) Type() string   { return "metric" }

func (f *metricFlag) Set(s string) error {
	switch s {
	case kvproc.Throughput.String():
		f.m = kvproc.Throughput
	case kvproc.Latency.String():
		f.m = kvproc.Latency
	default:
		return errors.Newf("unknown metric %q", s)
	}
	return nil
}

func newStatCmd(a *app) *cobra.Command {
	var (
		format = "text"
		bucket = kvproc.ValueSizeBuckets
		metric = metricFlag{kvproc.Throughput}
	)
	cmd := &cobra.Command{
		Use:   "stat [flags] report.txt",
		Short: "Summarize a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.readReport(args[0])
			if err != nil {
				return err
			}
			switch format {
			case "text":
				return kvtab.ToText(a.w, kvtab.Sections(rep, metric.m, bucket))
			case "csv":
				return kvtab.ToCSV(a.w, a.wErr, kvtab.Sections(rep, metric.m, bucket))
			case "records":
				return kvtab.RecordsCSV(a.w, rep)
			case "report":
				bw := bufio.NewWriter(a.w)
				if err := rep.Write(kvfmt.NewWriter(bw)); err != nil {
					return err
				}
				return bw.Flush()
			}
			return errors.Newf("unknown format %q", format)
		},
	}
	addStatFlags(cmd.Flags(), &format, &bucket, &metric)
	return cmd
}

func addStatFlags(f *pflag.FlagSet, format *string, bucket *int, metric *metricFlag) {
	f.StringVar(format, "format", *format, "print output in `format`: text, csv, records or report")
	f.IntVar(bucket, "bucket", *bucket, "check configurations in buckets of `n` records")
	f.Var(metric, "metric", "summarize `metric`: throughput or latency")
}
