// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvproc

import (
	"github.com/lsmkv/kvbench/kvfmt"
)

// Write writes rep to w in report format.
//
// Throughput lines attach to the preceding operation line, so a
// throughput sample without a matching latency sample is written after
// a zero latency line.
func (rep *Report) Write(w *kvfmt.Writer) error {
	for _, g := range rep.Groups {
		c := g.Config
		if err := w.Write(&kvfmt.Line{Kind: kvfmt.KindFlags, UseBloomFilter: c.UseBloomFilter, UseCache: c.UseCache}); err != nil {
			return err
		}
		if err := w.Write(&kvfmt.Line{Kind: kvfmt.KindFilter, BloomFilterSize: c.BloomFilterSize, HashCount: c.HashCount}); err != nil {
			return err
		}
		if err := writeRecords(w, g.Records); err != nil {
			return err
		}
	}
	for _, s := range rep.Sweeps {
		if err := w.Write(&kvfmt.Line{Kind: kvfmt.KindSweepStart}); err != nil {
			return err
		}
		for _, step := range s.Steps {
			if err := w.Write(&kvfmt.Line{Kind: kvfmt.KindSweepStep, BloomFilterSize: step.Config.BloomFilterSize}); err != nil {
				return err
			}
			if err := writeRecords(w, step.Records); err != nil {
				return err
			}
		}
	}
	return nil
}

var zeroLatency = kvfmt.Value{Unit: "sec", OrigUnit: "us"}

func writeRecords(w *kvfmt.Writer, recs []*Record) error {
	for _, r := range recs {
		if err := w.Write(&kvfmt.Line{Kind: kvfmt.KindParams, ValueSize: r.ValueSize, PrebuiltCount: r.PrebuiltCount}); err != nil {
			return err
		}
		for _, op := range kvfmt.Ops {
			n := len(r.Latency[op])
			if len(r.Throughput[op]) > n {
				n = len(r.Throughput[op])
			}
			for i := 0; i < n; i++ {
				l := kvfmt.Line{Kind: kvfmt.KindOp, Op: op, Value: zeroLatency}
				if i < len(r.Latency[op]) {
					l.Value = r.Latency[op][i]
				}
				if err := w.Write(&l); err != nil {
					return err
				}
				if i < len(r.Throughput[op]) {
					v := r.Throughput[op][i]
					tl := kvfmt.Line{Kind: kvfmt.KindThroughput, Value: kvfmt.Value{Value: v, Unit: "ops/s", OrigValue: v, OrigUnit: "/s"}}
					if err := w.Write(&tl); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
