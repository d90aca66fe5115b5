// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Kvbench turns the reports printed by the key-value store benchmark
// binaries into charts and tables, and runs the benchmarks.
//
// Usage:
//
//	kvbench [flags] command [args...]
//
// The commands are:
//
//	plot     draw throughput charts from a report
//	table    write Markdown and LaTeX tables of operation latencies
//	stat     summarize a report
//	putplot  draw the put throughput timeline
//	run      run a benchmark binary
//	rebuild  build the storage engine and run its tests
//
// A report, conventionally report.txt, lists configurations and the
// measurements taken under each:
//
//	use_bf: true, use_cache: true
//	bf_size: 65536, bf_func_num: 3
//	value_size: 10, prebuilt data num:1000
//	Get: 12 us
//		throughput: 83333.333333/s
//	...
//
// Each configuration measures every combination of four value sizes
// and three prebuilt data counts. The report ends with a bloom filter
// size sweep, in which each step repeats the measurements with a
// different filter size.
//
// # Plot
//
// "kvbench plot report.txt" writes PNG charts to the imgs directory:
// for each configuration and prebuilt data count, the throughput of
// each operation against value size; for each step position of a
// sweep and each operation, the throughput against filter size; and
// for each operation and prebuilt data count, the throughput of the
// configuration variants side by side.
//
// # Stat
//
// "kvbench stat report.txt" prints, for each configuration, the
// geometric mean throughput of each operation across its records and
// the change relative to the first configuration, like this:
//
//	section: groups
//	| config                                            |    Get     |    Put    | ... | vs base |
//	| use_bf:true use_cache:true bf_size:65536 ...      | 100 kops/s | 50 kops/s | ... |         |
//	| use_bf:false use_cache:true bf_size:0 ...         | 50 kops/s  | 50 kops/s | ... | -15.91% |
//
// The --format flag selects csv output, one CSV row per record
// (records), or the report itself in normalized form (report).
// Configurations whose records do not divide into value size buckets
// are flagged with warnings.
//
// # Run
//
// "kvbench run report" runs the report benchmark with its output
// written to report.txt in the log directory. A watchdog kills the
// benchmark if its log grows past watchdog.max_log_size.
// "kvbench run put_plot 4096 30" runs the put throughput benchmark
// with 4096 byte values for at most 30 seconds. The correctness and
// persistence binaries print their output, truncated to
// capture_limit.
//
// # Configuration
//
// Settings are read from kvbench.yaml in the current directory, or
// the file named by --config, and may be overridden by environment
// variables prefixed with KVBENCH_, such as KVBENCH_BUILD_DIR.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := kvbench(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kvbench: %s\n", err)
		stop()
		os.Exit(1)
	}
}
