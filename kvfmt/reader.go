// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/kvunit"
)

// A Reader reads the benchmark report format.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Line it returns; a caller should copy anything it needs to
// retain.
//
// The zero value of the Reader is a valid Reader, but the user must
// call Reset before using it.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	lineNum  int
	text     string
	err      error // current I/O error

	line    Line
	lineErr error
}

// A SyntaxError represents a syntax error on a particular line of a
// benchmark report.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

var noLine = errors.New("Reader.Scan has not been called")

// NewReader constructs a reader to parse the report format from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.text = ""
	r.err = nil
	r.line = Line{}
	r.lineErr = noLine
}

var (
	sweepStartPrefix = []byte("Test with different BloomFilter size")
	sweepStepPrefix  = []byte("BloomFilter size")
	flagsPrefix      = []byte("use_bf")
	filterPrefix     = []byte("bf_size")
	paramsPrefix     = []byte("value_size")
	throughputKey    = []byte("throughput")

	colon = []byte(":")
	comma = []byte(",")

	bloomFilterSizeRe = regexp.MustCompile(`(\d+) Bytes`)
)

// Scan advances the reader to the next recognized line and reports
// whether a line was read. Lines that are not part of the report
// format are skipped.
// The caller should use the Line method to get the line.
// If Scan reaches EOF or an I/O error occurs, it returns false,
// in which case the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.lineNum++
		line := r.s.Bytes()
		kind := classify(line)
		if kind == 0 {
			// Ignore the line.
			continue
		}
		r.text = string(line)
		r.line = Line{Kind: kind, Num: r.lineNum}
		r.lineErr = r.parseLine(line)
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = errors.Wrapf(err, "%s:%d", r.fileName, r.lineNum)
		return false
	}
	r.err = nil
	return false
}

// classify returns the kind of line, or 0 if line is not part of the
// report format. The first matching form wins.
func classify(line []byte) Kind {
	switch {
	case bytes.HasPrefix(line, sweepStartPrefix):
		return KindSweepStart
	case bytes.HasPrefix(line, sweepStepPrefix):
		return KindSweepStep
	case bytes.HasPrefix(line, flagsPrefix):
		return KindFlags
	case bytes.HasPrefix(line, filterPrefix):
		return KindFilter
	case bytes.HasPrefix(line, paramsPrefix):
		return KindParams
	}
	key, _, ok := bytes.Cut(line, colon)
	if !ok {
		return 0
	}
	if _, err := ParseOp(string(key)); err == nil {
		return KindOp
	}
	if _, ok := throughputName(key); ok {
		return KindThroughput
	}
	return 0
}

// throughputName reports whether key is a throughput key, that is,
// "throughput" optionally preceded by a single name.
func throughputName(key []byte) (name string, ok bool) {
	f, rest := splitField(bytes.TrimSpace(key))
	if bytes.Equal(f, throughputKey) {
		return "", len(rest) == 0
	}
	g, rest := splitField(rest)
	if bytes.Equal(g, throughputKey) && len(rest) == 0 {
		return string(f), true
	}
	return "", false
}

func (r *Reader) parseLine(line []byte) error {
	switch r.line.Kind {
	case KindSweepStart:
		return nil
	case KindSweepStep:
		m := bloomFilterSizeRe.FindSubmatch(line)
		if m == nil {
			return r.syntaxError("missing bloom filter size")
		}
		var err error
		r.line.BloomFilterSize, err = r.atoi("bloom filter size", m[1])
		return err
	case KindFlags:
		vals, err := r.keyValues(line, "use_bf", "use_cache")
		if err != nil {
			return err
		}
		if r.line.UseBloomFilter, err = r.parseBool("use_bf", vals[0]); err != nil {
			return err
		}
		r.line.UseCache, err = r.parseBool("use_cache", vals[1])
		return err
	case KindFilter:
		vals, err := r.keyValues(line, "bf_size", "bf_func_num")
		if err != nil {
			return err
		}
		if r.line.BloomFilterSize, err = r.atoi("bf_size", vals[0]); err != nil {
			return err
		}
		r.line.HashCount, err = r.atoi("bf_func_num", vals[1])
		return err
	case KindParams:
		vals, err := r.keyValues(line, "value_size", "prebuilt_data_num")
		if err != nil {
			return err
		}
		if r.line.ValueSize, err = r.atoi("value_size", vals[0]); err != nil {
			return err
		}
		r.line.PrebuiltCount, err = r.atoi("prebuilt_data_num", vals[1])
		return err
	case KindOp:
		return r.parseOpLine(line)
	case KindThroughput:
		return r.parseThroughputLine(line)
	}
	panic("unknown line kind " + r.line.Kind.String())
}

// parseOpLine parses line as "<op>: <int> <unit>".
// The caller must have already checked that the key is an operation.
func (r *Reader) parseOpLine(line []byte) error {
	key, val, _ := bytes.Cut(line, colon)
	r.line.Op, _ = ParseOp(string(key))

	f, rest := splitField(bytes.TrimSpace(val))
	if len(f) == 0 {
		return r.syntaxError("missing latency")
	}
	n, err := r.atoi("latency", f)
	if err != nil {
		return err
	}
	unit, rest := splitField(rest)
	if len(unit) == 0 {
		return r.syntaxError("missing units")
	}
	if len(rest) != 0 {
		return r.syntaxError("unexpected text after units")
	}
	r.line.Value = tidyValue(float64(n), string(unit))
	return nil
}

// parseThroughputLine parses line as "[<name>] throughput: <float>/<unit>"
// or "[<name>] throughput: <float> <unit>".
func (r *Reader) parseThroughputLine(line []byte) error {
	key, val, _ := bytes.Cut(bytes.TrimSpace(line), colon)
	r.line.Name, _ = throughputName(key)

	val = bytes.TrimSpace(val)
	end := bytes.IndexFunc(val, func(c rune) bool {
		return c == '/' || unicode.IsSpace(c)
	})
	if end == 0 || len(val) == 0 {
		return r.syntaxError("missing throughput")
	}
	if end < 0 {
		return r.syntaxError("missing units")
	}
	x, err := strconv.ParseFloat(string(val[:end]), 64)
	if err != nil {
		return r.syntaxError("parsing throughput: %s", err.(*strconv.NumError).Err)
	}
	unit := bytes.TrimSpace(val[end:])
	if len(unit) == 0 || bytes.Equal(unit, []byte("/")) {
		return r.syntaxError("missing units")
	}
	r.line.Value = tidyValue(x, string(unit))
	return nil
}

func tidyValue(x float64, unit string) Value {
	tidyUnit, factor := kvunit.Tidy(unit)
	if tidyUnit == unit && factor == 1 {
		return Value{Value: x, Unit: unit}
	}
	return Value{Value: x * factor, Unit: tidyUnit, OrigValue: x, OrigUnit: unit}
}

// keyValues splits a comma-separated list of "key: value" pairs and
// returns the values, which must appear under keys in that order.
// Spaces in keys are treated as underscores, so "prebuilt data num"
// matches "prebuilt_data_num".
func (r *Reader) keyValues(line []byte, keys ...string) ([][]byte, error) {
	parts := bytes.Split(line, comma)
	if len(parts) != len(keys) {
		return nil, r.syntaxError("expected %s", strings.Join(keys, ", "))
	}
	vals := make([][]byte, len(keys))
	for i, part := range parts {
		key, val, ok := bytes.Cut(part, colon)
		key = bytes.TrimSpace(key)
		if got := strings.ReplaceAll(string(key), " ", "_"); got != keys[i] {
			return nil, r.syntaxError("expected key %s, found %q", keys[i], key)
		}
		val = bytes.TrimSpace(val)
		if !ok || len(val) == 0 {
			return nil, r.syntaxError("missing %s value", keys[i])
		}
		vals[i] = val
	}
	return vals, nil
}

func (r *Reader) atoi(what string, f []byte) (int, error) {
	n, err := strconv.Atoi(string(f))
	switch err := err.(type) {
	case nil:
		return n, nil
	case *strconv.NumError:
		return 0, r.syntaxError("parsing %s: %s", what, err.Err)
	default:
		return 0, r.syntaxError("%s", err)
	}
}

func (r *Reader) parseBool(what string, f []byte) (bool, error) {
	switch string(f) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, r.syntaxError("parsing %s: %q is not true or false", what, f)
}

func (r *Reader) syntaxError(format string, args ...interface{}) error {
	return &SyntaxError{r.fileName, r.lineNum, fmt.Sprintf(format, args...)}
}

// Line returns the last line read, or an error if the line was
// malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan.
//
// The caller should not retain the Line object, as it will be
// overwritten by the next call to Scan.
func (r *Reader) Line() (*Line, error) {
	if r.lineErr != nil {
		return nil, r.lineErr
	}
	return &r.line, nil
}

// Text returns the raw text of the last line read.
func (r *Reader) Text() string {
	return r.text
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

const isSpace uint64 = 1<<'\t' | 1<<'\n' | 1<<'\v' | 1<<'\f' | 1<<'\r' | 1<<' '

// splitField consumes and returns non-whitespace in x as field,
// consumes whitespace following the field, and then returns the
// remaining bytes of x.
func splitField(x []byte) (field, rest []byte) {
	// Collect non-whitespace into field.
	var i int
	for i = 0; i < len(x); {
		if x[i] < utf8.RuneSelf {
			// Fast path for ASCII
			if (isSpace>>x[i])&1 != 0 {
				rest = x[i+1:]
				break
			}
			i++
		} else {
			// Slow path for Unicode
			r, n := utf8.DecodeRune(x[i:])
			if unicode.IsSpace(r) {
				rest = x[i+n:]
				break
			}
			i += n
		}
	}
	field = x[:i]

	// Strip whitespace from rest.
	for len(rest) > 0 {
		if rest[0] < utf8.RuneSelf {
			if (isSpace>>rest[0])&1 == 0 {
				break
			}
			rest = rest[1:]
		} else {
			r, n := utf8.DecodeRune(rest)
			if !unicode.IsSpace(r) {
				break
			}
			rest = rest[n:]
		}
	}
	return
}
