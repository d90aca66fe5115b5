// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kvproc assembles key-value store benchmark reports into
// configurations and measurement records, and reshapes them for
// charts and tables.
//
// The typical steps for processing a report are:
//
// 1. Parse the report with Parse, or feed kvfmt.Lines to a Parser
// one at a time. Parsing is a single linear pass. Structural
// inconsistencies, such as a configuration header inside a bloom
// filter size sweep, are fatal and reported as a *ParseError.
// Records that appear before any configuration are dropped.
//
// 2. Check each ConfigGroup for inconsistencies that would make
// bucketed views misleading. These are warnings, not errors.
//
// 3. Reshape the Report. ConfigGroup.Buckets splits a group's records
// by prebuilt data count, SweepGroup.Transpose regroups a bloom filter
// size sweep by record position, and Compare lines up the same
// measurement across configuration variants. Each view yields Series
// ready for plotting.
//
// 4. Summarize groups into per-operation means and geometric means.
package kvproc
