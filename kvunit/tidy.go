// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kvunit manipulates the units of benchmark report values.
//
// Latencies are tidied to "sec" and throughputs to "ops/s", so that
// values printed with different scales compare directly.
package kvunit

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// A Class is a kind of measurement.
type Class int

const (
	// Other is a unit kvunit does not know how to scale.
	Other Class = iota
	// Latency is a duration, tidied to "sec".
	Latency
	// Throughput is a rate of operations, tidied to "ops/s".
	Throughput
)

// Tidied base units.
const (
	Sec  = "sec"
	OpsS = "ops/s"
)

type tidyEntry struct {
	tidied string
	factor float64
}

var tidyCache sync.Map // unit string -> *tidyEntry

var timeFactors = map[string]float64{
	"ns":  1e-9,
	"us":  1e-6,
	"µs":  1e-6,
	"ms":  1e-3,
	"s":   1,
	"sec": 1,
}

// Tidy normalizes pre-scaled latency units like "us" to "sec" and
// rate units like "/s" or "ops/ms" to "ops/s". It returns the tidied
// version of unit and the multiplicative factor to convert a value in
// unit "unit" to a value in unit "tidied". Units Tidy does not
// recognize are returned unchanged with a factor of 1.
func Tidy(unit string) (tidied string, factor float64) {
	// Fast path for units printed by the benchmark binaries.
	switch unit {
	case "us":
		return Sec, 1e-6
	case "/s", "ops/s":
		return OpsS, 1
	case Sec:
		return Sec, 1
	}

	// Check the cache.
	if tc, ok := tidyCache.Load(unit); ok {
		tc := tc.(*tidyEntry)
		return tc.tidied, tc.factor
	}

	// Do the hard work and cache it.
	tidied, factor = tidy(unit)
	tidyCache.Store(unit, &tidyEntry{tidied, factor})
	return
}

func tidy(unit string) (tidied string, factor float64) {
	num, denom, hasDenom := strings.Cut(unit, "/")
	if hasDenom {
		switch num {
		case "", "op", "ops":
			if f, ok := timeFactors[denom]; ok {
				return OpsS, 1 / f
			}
		}
		return unit, 1
	}
	if f, ok := timeFactors[num]; ok {
		return Sec, f
	}
	return unit, 1
}

// ClassOf returns the class of unit, which may be tidied or not.
func ClassOf(unit string) Class {
	switch tidied, _ := Tidy(unit); tidied {
	case Sec:
		return Latency
	case OpsS:
		return Throughput
	}
	return Other
}

// Format formats value, given in unit, for human consumption.
// Latencies print as durations, so 1.2e-5 sec formats as "12µs".
// Throughputs are scaled with SI prefixes, so 83333 ops/s formats as
// "83.33 kops/s".
func Format(value float64, unit string) string {
	tidied, factor := Tidy(unit)
	value *= factor
	switch tidied {
	case Sec:
		return time.Duration(math.Round(value * 1e9)).String()
	case OpsS:
		return humanize.SIWithDigits(value, 2, OpsS)
	}
	return strconv.FormatFloat(value, 'g', 4, 64) + " " + unit
}
