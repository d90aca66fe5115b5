// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvproc

import (
	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/kvfmt"
)

// Check returns warnings about g when its records are split into
// buckets of size records.
//
// This is useful for warning the user if a bucketed view would mix
// records that do not belong together: each bucket should share one
// prebuilt data count and list value sizes in increasing order.
func (g *ConfigGroup) Check(size int) []error {
	buckets, err := g.Buckets(size)
	if err != nil {
		return []error{err}
	}
	var warnings []error
	for i, b := range buckets {
		for _, r := range b[1:] {
			if r.PrebuiltCount != b[0].PrebuiltCount {
				warnings = append(warnings, errors.Newf("bucket %d: prebuilt data counts vary (%d, %d)", i+1, b[0].PrebuiltCount, r.PrebuiltCount))
				break
			}
		}
		for j := 1; j < len(b); j++ {
			if b[j].ValueSize <= b[j-1].ValueSize {
				warnings = append(warnings, errors.Newf("bucket %d: value sizes not increasing (%d after %d)", i+1, b[j].ValueSize, b[j-1].ValueSize))
				break
			}
		}
		for _, r := range b {
			for _, op := range kvfmt.Ops {
				if len(r.Throughput[op]) == 0 {
					warnings = append(warnings, errors.Newf("bucket %d: value_size %d has no %s throughput", i+1, r.ValueSize, op))
				}
			}
		}
	}
	return warnings
}
