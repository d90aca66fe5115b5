// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvproc

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/lsmkv/kvbench/kvfmt"
)

// An OpSummary summarizes one metric of one operation across the
// records of a group. Records without a sample are skipped.
type OpSummary struct {
	Op       kvfmt.Op
	N        int
	Mean     float64
	GeoMean  float64
	Min, Max float64
}

// A Summary summarizes a ConfigGroup.
type Summary struct {
	Config Config
	Metric Metric
	Ops    [kvfmt.NumOps]OpSummary
}

// Summarize computes per-operation statistics of metric m over g's
// records. Statistics of operations with no samples are NaN.
func Summarize(g *ConfigGroup, m Metric) *Summary {
	s := &Summary{Config: g.Config, Metric: m}
	for _, op := range kvfmt.Ops {
		var xs []float64
		for _, r := range g.Records {
			if x := r.Get(op, m); !math.IsNaN(x) {
				xs = append(xs, x)
			}
		}
		st := OpSummary{Op: op, N: len(xs)}
		if len(xs) == 0 {
			nan := math.NaN()
			st.Mean, st.GeoMean, st.Min, st.Max = nan, nan, nan, nan
		} else {
			st.Mean = stats.Mean(xs)
			st.GeoMean = stats.GeoMean(xs)
			st.Min, st.Max = stats.Bounds(xs)
		}
		s.Ops[op] = st
	}
	return s
}

// Ratio returns the geometric mean, over operations summarized in
// both s and base, of s's geomean divided by base's. It returns NaN
// if no operation can be compared.
func (s *Summary) Ratio(base *Summary) float64 {
	var ratios []float64
	for _, op := range kvfmt.Ops {
		x, b := s.Ops[op].GeoMean, base.Ops[op].GeoMean
		if x > 0 && b > 0 {
			ratios = append(ratios, x/b)
		}
	}
	if len(ratios) == 0 {
		return math.NaN()
	}
	return stats.GeoMean(ratios)
}
