// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvproc

import (
	"io"
	"strings"

	"github.com/lsmkv/kvbench/kvfmt"
)

// A Timeline is a sequence of throughput samples taken once per
// second, such as the output of the put throughput benchmark.
type Timeline struct {
	Name    string
	Samples []float64 // ops/s
}

// ParseTimeline reads the throughput lines named name from r, for
// example "put throughput: 1200 ops/s" for name "put". Other lines
// are ignored. A malformed throughput line is a *ParseError.
func ParseTimeline(r io.Reader, fileName, name string) (*Timeline, error) {
	tl := &Timeline{Name: name}
	reader := kvfmt.NewReader(r, fileName)
	for reader.Scan() {
		l, err := reader.Line()
		if err != nil {
			se, ok := err.(*kvfmt.SyntaxError)
			if ok && !strings.Contains(reader.Text(), "throughput") {
				// Timelines only care about throughput lines.
				continue
			}
			line := 0
			if ok {
				line = se.Line
			}
			return nil, &ParseError{fileName, line, reader.Text(), err}
		}
		if l.Kind == kvfmt.KindThroughput && l.Name == name {
			tl.Samples = append(tl.Samples, l.Value.Value)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return tl, nil
}
