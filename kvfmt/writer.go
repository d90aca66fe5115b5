// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvfmt

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// A Writer writes the benchmark report format.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewWriter returns a writer that writes report lines to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes line l to w in the form the benchmark binaries print
// it. For Values that have a non-zero OrigUnit, this uses OrigValue
// and OrigUnit in order to better reproduce the original input.
func (w *Writer) Write(l *Line) error {
	switch l.Kind {
	case KindSweepStart:
		w.buf.WriteString("Test with different BloomFilter size\n")
	case KindSweepStep:
		fmt.Fprintf(&w.buf, "BloomFilter size: %d Bytes\n", l.BloomFilterSize)
	case KindFlags:
		fmt.Fprintf(&w.buf, "use_bf: %t, use_cache: %t\n", l.UseBloomFilter, l.UseCache)
	case KindFilter:
		fmt.Fprintf(&w.buf, "bf_size: %d, bf_func_num: %d\n", l.BloomFilterSize, l.HashCount)
	case KindParams:
		fmt.Fprintf(&w.buf, "value_size: %d, prebuilt data num:%d\n", l.ValueSize, l.PrebuiltCount)
	case KindOp:
		v, unit := l.Value.Orig()
		fmt.Fprintf(&w.buf, "%s: %s %s\n", l.Op, strconv.FormatFloat(v, 'f', -1, 64), unit)
	case KindThroughput:
		v, unit := l.Value.Orig()
		if l.Name == "" {
			w.buf.WriteString("\tthroughput: ")
		} else {
			fmt.Fprintf(&w.buf, "%s throughput: ", l.Name)
		}
		w.buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		if !strings.HasPrefix(unit, "/") {
			w.buf.WriteByte(' ')
		}
		w.buf.WriteString(unit)
		w.buf.WriteByte('\n')
	default:
		return errors.Newf("cannot write line of kind %s", l.Kind)
	}

	// Flush the buffer out to the io.Writer. Write to the buffer
	// can't fail, so we only have to check if this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
