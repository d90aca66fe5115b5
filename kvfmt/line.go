// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kvfmt provides a reader and writer for the text report
// format printed by the key-value store benchmark binaries.
//
// A report is a sequence of lines. Configuration headers, such as
//
//	use_bf: true, use_cache: true
//	bf_size: 65536, bf_func_num: 3
//
// are followed by measurement records:
//
//	value_size: 10, prebuilt data num:1000
//	Get: 12 us
//		throughput: 83333.333333/s
//	Put: 31 us
//		throughput: 32258.064516/s
//
// A bloom filter size sweep is introduced by a line starting with
// "Test with different BloomFilter size" and divided into steps by
// lines such as "BloomFilter size: 1024 Bytes". Lines of any other
// form are ignored.
//
// The reader is a streaming operation and does not dictate how lines
// are grouped. Package kvproc assembles lines into configurations and
// measurement records.
package kvfmt

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// A Kind identifies the form of a recognized report line.
type Kind uint8

const (
	// KindSweepStart opens a bloom filter size sweep.
	KindSweepStart Kind = iota + 1
	// KindSweepStep starts one bloom filter size step of a sweep.
	KindSweepStep
	// KindFlags is the first configuration header line
	// (use_bf, use_cache).
	KindFlags
	// KindFilter is the second configuration header line
	// (bf_size, bf_func_num).
	KindFilter
	// KindParams starts a measurement record
	// (value_size, prebuilt data num).
	KindParams
	// KindOp gives the mean latency of one operation.
	KindOp
	// KindThroughput gives a throughput measurement.
	KindThroughput
)

var kindNames = [...]string{
	KindSweepStart: "sweep-start",
	KindSweepStep:  "sweep-step",
	KindFlags:      "flags",
	KindFilter:     "filter",
	KindParams:     "params",
	KindOp:         "op",
	KindThroughput: "throughput",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// An Op is a benchmarked key-value store operation.
type Op uint8

const (
	OpGet Op = iota
	OpPut
	OpDel
	OpScan
)

// NumOps is the number of distinct operations.
const NumOps = 4

// Ops lists every operation in report order.
var Ops = [NumOps]Op{OpGet, OpPut, OpDel, OpScan}

var opNames = [NumOps]string{"Get", "Put", "Del", "Scan"}

func (o Op) String() string {
	if o.Valid() {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Valid reports whether o is one of the known operations.
func (o Op) Valid() bool {
	return int(o) < NumOps
}

// ParseOp returns the operation with the given name, as printed in
// reports. Names are case-sensitive.
func ParseOp(name string) (Op, error) {
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return 0, errors.Newf("unknown operation %q", name)
}

// A Value is a single measurement and its unit.
//
// Values are tidied to the base units "sec" and "ops/s" when read.
type Value struct {
	Value float64
	Unit  string

	// OrigValue and OrigUnit, if OrigUnit is non-empty, give the
	// untidied value and unit as read from the report.
	OrigValue float64
	OrigUnit  string
}

// Orig returns the value and unit as they appeared in the input.
func (v Value) Orig() (float64, string) {
	if v.OrigUnit == "" {
		return v.Value, v.Unit
	}
	return v.OrigValue, v.OrigUnit
}

// A Line is a single recognized report line.
//
// Only the fields that belong to the line's Kind are set.
type Line struct {
	Kind Kind

	// Num is the 1-based line number in the input.
	Num int

	// KindFlags.
	UseBloomFilter bool
	UseCache       bool

	// KindFilter and KindSweepStep. BloomFilterSize is reported
	// exactly as it appears in the line.
	BloomFilterSize int
	HashCount       int

	// KindParams.
	ValueSize     int
	PrebuiltCount int

	// KindOp.
	Op Op

	// Name is the word preceding "throughput" on KindThroughput
	// lines, such as "put" in "put throughput: 1200 ops/s". It is
	// empty for the indented per-operation throughput lines.
	Name string

	// Value is the latency of KindOp lines and the throughput of
	// KindThroughput lines.
	Value Value
}
