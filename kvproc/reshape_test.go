// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvproc

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/kvfmt"
	"github.com/stretchr/testify/require"
)

var (
	valueSizes     = []int{10, 100, 1000, 10000}
	prebuiltCounts = []int{1000, 3000, 5000}
)

// fullGroup returns a group laid out like the benchmark binaries'
// output. Every throughput of each record is its index.
func fullGroup(c Config) *ConfigGroup {
	g := &ConfigGroup{Config: c}
	for _, pb := range prebuiltCounts {
		for _, vs := range valueSizes {
			r := NewRecord(vs, pb)
			for _, op := range kvfmt.Ops {
				r.Throughput[op] = []float64{float64(len(g.Records))}
			}
			g.Records = append(g.Records, r)
		}
	}
	return g
}

func TestBuckets(t *testing.T) {
	g := fullGroup(DefaultConfig)
	require.Len(t, g.Records, RecordsPerGroup)

	buckets, err := g.Buckets(ValueSizeBuckets)
	require.NoError(t, err)
	require.Len(t, buckets, PrebuiltBuckets)
	for i, b := range buckets {
		require.Len(t, b, ValueSizeBuckets)
		for j, r := range b {
			require.Equal(t, prebuiltCounts[i], r.PrebuiltCount)
			require.Equal(t, valueSizes[j], r.ValueSize)
		}
	}
	require.Equal(t, g.Records, Flatten(buckets))
	require.Empty(t, g.Check(ValueSizeBuckets))

	// Appending to a bucket must not clobber the next one.
	_ = append(buckets[0], NewRecord(1, 1))
	require.Equal(t, 3000, buckets[1][0].PrebuiltCount)
}

func TestBucketsUneven(t *testing.T) {
	g := fullGroup(DefaultConfig)
	g.Records = g.Records[:7]
	_, err := g.Buckets(ValueSizeBuckets)
	require.True(t, errors.Is(err, ErrBucketSize), "got %v", err)

	_, err = g.Buckets(0)
	require.Error(t, err)
}

func sweep(steps, records int) *SweepGroup {
	s := &SweepGroup{}
	for j := 0; j < steps; j++ {
		c := DefaultConfig
		c.BloomFilterSize = (j + 1) * 1024
		step := &ConfigGroup{Config: c}
		for i := 0; i < records; i++ {
			r := NewRecord(valueSizes[i%len(valueSizes)], 1000)
			r.Throughput[kvfmt.OpPut] = []float64{float64(100*j + i)}
			step.Records = append(step.Records, r)
		}
		s.Steps = append(s.Steps, step)
	}
	return s
}

func TestTranspose(t *testing.T) {
	s := sweep(SweepSteps, 3)
	cols, err := s.Transpose()
	require.NoError(t, err)
	require.Len(t, cols, 3)
	for i, col := range cols {
		require.Len(t, col, SweepSteps)
		for j, r := range col {
			require.Same(t, s.Steps[j].Records[i], r)
		}
	}

	s.Steps[4].Records = s.Steps[4].Records[:2]
	_, err = s.Transpose()
	require.True(t, errors.Is(err, ErrRaggedSweep), "got %v", err)

	cols, err = (&SweepGroup{}).Transpose()
	require.NoError(t, err)
	require.Empty(t, cols)
}

func TestSweepSeries(t *testing.T) {
	s := sweep(3, 2)
	got, err := SweepSeries(s, 1, kvfmt.OpPut, Throughput)
	require.NoError(t, err)
	require.Equal(t, "Put", got.Label)
	require.Equal(t, []string{"1", "2", "3"}, got.Ticks)
	require.Equal(t, []float64{1, 101, 201}, got.Values)

	_, err = SweepSeries(s, 2, kvfmt.OpPut, Throughput)
	require.Error(t, err)
}

func TestValueSizeSeriesMissing(t *testing.T) {
	g := fullGroup(DefaultConfig)
	buckets, err := g.Buckets(ValueSizeBuckets)
	require.NoError(t, err)

	s := ValueSizeSeries(buckets[1], kvfmt.OpGet, Throughput)
	require.Equal(t, []string{"10", "100", "1000", "10000"}, s.Ticks)
	require.Equal(t, []float64{4, 5, 6, 7}, s.Values)

	for _, r := range buckets[1] {
		r.Throughput[kvfmt.OpScan] = nil
	}
	s = ValueSizeSeries(buckets[1], kvfmt.OpScan, Throughput)
	for i, v := range s.Values {
		require.True(t, math.IsNaN(v), "value %d = %v, want NaN", i, v)
	}
}

func TestCompare(t *testing.T) {
	rep := &Report{Groups: []*ConfigGroup{
		fullGroup(DefaultConfig),
		fullGroup(Config{UseCache: true}),
		fullGroup(Config{}),
	}}
	require.Equal(t, prebuiltCounts, rep.PrebuiltCounts())

	series := Compare(rep, kvfmt.OpGet, Throughput, 3000)
	require.Len(t, series, 3)
	for i, s := range series {
		require.Equal(t, Variants[i].String(), s.Label)
		require.Equal(t, []float64{4, 5, 6, 7}, s.Values)
	}

	// Missing variants are skipped.
	rep.Groups = rep.Groups[:2]
	require.Len(t, Compare(rep, kvfmt.OpGet, Throughput, 3000), 2)
}

func TestConfigNames(t *testing.T) {
	for _, test := range []struct {
		c       Config
		name    string
		variant Variant
	}{
		{DefaultConfig, "bf-cache-65536-3", VariantFilterCache},
		{Config{UseCache: true}, "nobf-cache-0-0", VariantCache},
		{Config{}, "nobf-nocache-0-0", VariantNone},
		{Config{UseBloomFilter: true, BloomFilterSize: 8192, HashCount: 2}, "bf-nocache-8192-2", VariantOther},
	} {
		require.Equal(t, test.name, test.c.Name())
		require.Equal(t, test.variant, test.c.Variant())
	}
	require.Equal(t, "use_bf:true use_cache:true bf_size:65536 bf_func_num:3", DefaultConfig.String())
}

func TestRecordBound(t *testing.T) {
	r := NewRecord(10, 1000)
	for i := 0; i < MaxSamples; i++ {
		require.NoError(t, r.AddThroughput(kvfmt.OpScan, float64(i)))
	}
	err := r.AddThroughput(kvfmt.OpScan, 3)
	require.True(t, errors.Is(err, ErrTooManySamples))
	require.Len(t, r.Throughput[kvfmt.OpScan], MaxSamples)

	require.Error(t, r.AddThroughput(kvfmt.Op(kvfmt.NumOps), 1))
	require.Equal(t, "value_size:10 prebuilt_data_num:1000 Get:[] Put:[] Del:[] Scan:[0 1]", r.String())
}

func TestCheckOrder(t *testing.T) {
	g := fullGroup(DefaultConfig)
	g.Records[1], g.Records[2] = g.Records[2], g.Records[1]
	warnings := g.Check(ValueSizeBuckets)
	require.Len(t, warnings, 1)
	require.Equal(t, "bucket 1: value sizes not increasing (100 after 1000)", warnings[0].Error())
}
