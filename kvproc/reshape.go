// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvproc

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/kvfmt"
)

// Layout of the reports printed by the benchmark binaries. Each
// configuration measures value sizes 10, 100, 1000 and 10000 bytes
// for 1000, 3000 and 5000 prebuilt entries, with value size varying
// fastest. A sweep has one step per KiB from 1 to 15.
const (
	ValueSizeBuckets = 4
	PrebuiltBuckets  = 3
	RecordsPerGroup  = ValueSizeBuckets * PrebuiltBuckets
	SweepSteps       = 15
)

var (
	// ErrBucketSize is returned when records do not divide evenly
	// into buckets.
	ErrBucketSize = errors.New("record count is not a multiple of the bucket size")

	// ErrRaggedSweep is returned when the steps of a sweep hold
	// different numbers of records.
	ErrRaggedSweep = errors.New("sweep steps have different record counts")
)

// Buckets splits g's records into consecutive buckets of size
// records. With size ValueSizeBuckets, each bucket holds the records
// of one prebuilt data count.
func (g *ConfigGroup) Buckets(size int) ([][]*Record, error) {
	if size <= 0 {
		return nil, errors.Newf("invalid bucket size %d", size)
	}
	n := len(g.Records)
	if n%size != 0 {
		return nil, errors.Wrapf(ErrBucketSize, "%d records, bucket size %d", n, size)
	}
	out := make([][]*Record, 0, n/size)
	for i := 0; i < n; i += size {
		out = append(out, g.Records[i:i+size:i+size])
	}
	return out, nil
}

// Flatten concatenates buckets. It is the inverse of Buckets.
func Flatten(buckets [][]*Record) []*Record {
	var out []*Record
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

// Transpose regroups s by record position: the i'th result holds the
// i'th record of every step, in step order.
func (s *SweepGroup) Transpose() ([][]*Record, error) {
	if len(s.Steps) == 0 {
		return nil, nil
	}
	n := len(s.Steps[0].Records)
	for j, step := range s.Steps {
		if len(step.Records) != n {
			return nil, errors.Wrapf(ErrRaggedSweep, "step %d has %d records, want %d", j+1, len(step.Records), n)
		}
	}
	out := make([][]*Record, n)
	for i := range out {
		out[i] = make([]*Record, len(s.Steps))
		for j, step := range s.Steps {
			out[i][j] = step.Records[i]
		}
	}
	return out, nil
}

// A Series is one line of a chart: a metric of one operation
// across a sequence of records.
type Series struct {
	Label string

	// Ticks labels each point along the x axis.
	Ticks []string

	// Values holds the metric at each tick, or NaN where the record
	// lacks a sample.
	Values []float64
}

func newSeries(label string, recs []*Record, op kvfmt.Op, m Metric, tick func(i int, r *Record) string) Series {
	s := Series{
		Label:  label,
		Ticks:  make([]string, len(recs)),
		Values: make([]float64, len(recs)),
	}
	for i, r := range recs {
		s.Ticks[i] = tick(i, r)
		s.Values[i] = r.Get(op, m)
	}
	return s
}

// ValueSizeSeries returns metric m of op across recs, ticked by value
// size. The series is labeled with the operation name.
func ValueSizeSeries(recs []*Record, op kvfmt.Op, m Metric) Series {
	return newSeries(op.String(), recs, op, m, func(_ int, r *Record) string {
		return strconv.Itoa(r.ValueSize)
	})
}

// SweepSeries returns metric m of op for the record at position pos of
// every step of s, ticked by the step's filter size in KiB.
func SweepSeries(s *SweepGroup, pos int, op kvfmt.Op, m Metric) (Series, error) {
	recs := make([]*Record, len(s.Steps))
	for j, step := range s.Steps {
		if pos < 0 || pos >= len(step.Records) {
			return Series{}, errors.Wrapf(ErrRaggedSweep, "step %d has no record %d", j+1, pos)
		}
		recs[j] = step.Records[pos]
	}
	return newSeries(op.String(), recs, op, m, func(j int, _ *Record) string {
		return strconv.Itoa(s.Steps[j].Config.BloomFilterSize / 1024)
	}), nil
}

// Compare returns one series per entry of Variants holding metric m
// of op across value sizes, for the records with the given prebuilt
// data count. Each series is labeled with its variant. Variants the
// report lacks are skipped.
func Compare(rep *Report, op kvfmt.Op, m Metric, prebuilt int) []Series {
	var out []Series
	for _, v := range Variants {
		g := rep.Group(v)
		if g == nil {
			continue
		}
		var recs []*Record
		for _, r := range g.Records {
			if r.PrebuiltCount == prebuilt {
				recs = append(recs, r)
			}
		}
		s := ValueSizeSeries(recs, op, m)
		s.Label = v.String()
		out = append(out, s)
	}
	return out
}
