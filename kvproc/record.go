// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvproc

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/kvfmt"
)

// MaxSamples is the maximum number of samples of one kind a Record
// holds for a single operation.
const MaxSamples = 2

// ErrTooManySamples is returned when a Record already holds
// MaxSamples samples for an operation.
var ErrTooManySamples = errors.New("too many samples")

// A Record is the measurement of all operations at one value size and
// prebuilt data count.
type Record struct {
	ValueSize     int
	PrebuiltCount int

	// Throughput holds the throughput samples of each operation, in
	// ops/s, in the order they were read.
	Throughput [kvfmt.NumOps][]float64

	// Latency holds the mean latency samples of each operation.
	Latency [kvfmt.NumOps][]kvfmt.Value
}

// NewRecord returns an empty record for the given parameters.
func NewRecord(valueSize, prebuiltCount int) *Record {
	return &Record{ValueSize: valueSize, PrebuiltCount: prebuiltCount}
}

// AddThroughput appends a throughput sample for op.
func (r *Record) AddThroughput(op kvfmt.Op, v float64) error {
	if !op.Valid() {
		return errors.Newf("unknown operation %s", op)
	}
	if len(r.Throughput[op]) >= MaxSamples {
		return errors.Wrapf(ErrTooManySamples, "%s throughput", op)
	}
	r.Throughput[op] = append(r.Throughput[op], v)
	return nil
}

// AddLatency appends a latency sample for op. Only the first
// MaxSamples latencies are kept; later ones are dropped.
func (r *Record) AddLatency(op kvfmt.Op, v kvfmt.Value) error {
	if !op.Valid() {
		return errors.Newf("unknown operation %s", op)
	}
	if len(r.Latency[op]) < MaxSamples {
		r.Latency[op] = append(r.Latency[op], v)
	}
	return nil
}

// A Metric selects which measurement of an operation to use.
type Metric uint8

const (
	// Throughput is the first throughput sample, in ops/s.
	Throughput Metric = iota
	// Latency is the first latency sample, in seconds.
	Latency
)

func (m Metric) String() string {
	switch m {
	case Throughput:
		return "throughput"
	case Latency:
		return "latency"
	}
	return fmt.Sprintf("Metric(%d)", m)
}

// Unit returns the unit of values of metric m.
func (m Metric) Unit() string {
	if m == Latency {
		return "sec"
	}
	return "ops/s"
}

// Get returns the first sample of metric m for op, or NaN if r has no
// such sample.
func (r *Record) Get(op kvfmt.Op, m Metric) float64 {
	switch m {
	case Throughput:
		if s := r.Throughput[op]; len(s) > 0 {
			return s[0]
		}
	case Latency:
		if s := r.Latency[op]; len(s) > 0 {
			return s[0].Value
		}
	}
	return math.NaN()
}

func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "value_size:%d prebuilt_data_num:%d", r.ValueSize, r.PrebuiltCount)
	for _, op := range kvfmt.Ops {
		fmt.Fprintf(&b, " %s:%v", op, r.Throughput[op])
	}
	return b.String()
}

// A Config is one benchmark configuration of the key-value store.
type Config struct {
	UseBloomFilter bool
	UseCache       bool

	// BloomFilterSize is the filter size as stated in the report:
	// bits in configuration headers, bytes in sweep steps.
	BloomFilterSize int
	HashCount       int
}

// DefaultConfig is the configuration the benchmark binaries use
// unless told otherwise. Sweep steps vary its BloomFilterSize.
var DefaultConfig = Config{
	UseBloomFilter:  true,
	UseCache:        true,
	BloomFilterSize: 65536,
	HashCount:       3,
}

func (c Config) String() string {
	return fmt.Sprintf("use_bf:%t use_cache:%t bf_size:%d bf_func_num:%d",
		c.UseBloomFilter, c.UseCache, c.BloomFilterSize, c.HashCount)
}

// Name returns a short name for c that is safe to use in file names.
func (c Config) Name() string {
	bf, cache := "nobf", "nocache"
	if c.UseBloomFilter {
		bf = "bf"
	}
	if c.UseCache {
		cache = "cache"
	}
	return fmt.Sprintf("%s-%s-%d-%d", bf, cache, c.BloomFilterSize, c.HashCount)
}

// A Variant classifies configurations by which components are
// enabled.
type Variant uint8

const (
	// VariantOther uses a bloom filter without a cache. The benchmark
	// binaries do not run it, but a report may still contain it.
	VariantOther Variant = iota
	VariantFilterCache
	VariantCache
	VariantNone
)

// Variants lists the variants compared by Compare, in order.
var Variants = [...]Variant{VariantFilterCache, VariantCache, VariantNone}

func (v Variant) String() string {
	switch v {
	case VariantFilterCache:
		return "use_bf&use_cache"
	case VariantCache:
		return "no_bf&use_cache"
	case VariantNone:
		return "no_bf&no_cache"
	}
	return "use_bf&no_cache"
}

// Variant returns the variant of c.
func (c Config) Variant() Variant {
	switch {
	case c.UseBloomFilter && c.UseCache:
		return VariantFilterCache
	case !c.UseBloomFilter && c.UseCache:
		return VariantCache
	case !c.UseBloomFilter && !c.UseCache:
		return VariantNone
	}
	return VariantOther
}

// A ConfigGroup is the sequence of records measured under one
// configuration, in report order.
type ConfigGroup struct {
	Config  Config
	Records []*Record
}

// A SweepGroup is a bloom filter size sweep. Each step is a
// ConfigGroup whose Config carries that step's filter size.
type SweepGroup struct {
	Steps []*ConfigGroup
}

// A Report is a parsed benchmark report.
type Report struct {
	// Groups holds one group per configuration header, in the order
	// the headers appear.
	Groups []*ConfigGroup

	// Sweeps holds the bloom filter size sweeps, in order.
	Sweeps []*SweepGroup
}

// Group returns the first group of variant v, or nil.
func (rep *Report) Group(v Variant) *ConfigGroup {
	for _, g := range rep.Groups {
		if g.Config.Variant() == v {
			return g
		}
	}
	return nil
}

// PrebuiltCounts returns the distinct prebuilt data counts of all
// records in rep.Groups, in order of first appearance.
func (rep *Report) PrebuiltCounts() []int {
	var out []int
	seen := make(map[int]bool)
	for _, g := range rep.Groups {
		for _, r := range g.Records {
			if !seen[r.PrebuiltCount] {
				seen[r.PrebuiltCount] = true
				out = append(out, r.PrebuiltCount)
			}
		}
	}
	return out
}
