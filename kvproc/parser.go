// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvproc

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/kvfmt"
)

// Structural errors found by a Parser. These are wrapped in a
// *ParseError.
var (
	ErrConfigInSweep    = errors.New("configuration header inside a bloom filter size sweep")
	ErrStepOutsideSweep = errors.New("bloom filter size step outside of a sweep")
	ErrIncompleteHeader = errors.New("configuration header without bf_size line")
	ErrMissingHeader    = errors.New("bf_size line without use_bf line")
)

// A ParseError is a fatal inconsistency in a report.
type ParseError struct {
	FileName string
	Line     int
	Text     string // the offending line
	Err      error
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	var se *kvfmt.SyntaxError
	if errors.As(e.Err, &se) {
		msg = se.Msg
	}
	return fmt.Sprintf("%s:%d: %s: %q", e.FileName, e.Line, msg, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type mode uint8

const (
	modeConfig mode = iota
	modeSweep
)

// A Parser assembles report lines into a Report.
//
// Lines must be added in report order. After the first error, Add and
// Finish keep returning that error.
type Parser struct {
	fileName string
	mode     mode

	// pending is the configuration of a use_bf line that has not
	// been completed by a bf_size line.
	pending     *Config
	pendingLine kvfmt.Line
	pendingText string

	group  *ConfigGroup // receives new records
	sweep  *SweepGroup
	rec    *Record
	lastOp kvfmt.Op

	report Report
	err    error
}

// NewParser returns a parser for the report named fileName.
// fileName is only used in error messages.
func NewParser(fileName string) *Parser {
	return &Parser{fileName: fileName, lastOp: kvfmt.OpGet}
}

// Add processes the next line of the report. text is the raw line,
// used in error messages.
func (p *Parser) Add(l *kvfmt.Line, text string) error {
	if p.err != nil {
		return p.err
	}
	if err := p.add(l, text); err != nil {
		p.err = &ParseError{p.fileName, l.Num, text, err}
	}
	return p.err
}

func (p *Parser) add(l *kvfmt.Line, text string) error {
	switch l.Kind {
	case kvfmt.KindSweepStart:
		if p.pending != nil {
			return ErrIncompleteHeader
		}
		p.closeGroup()
		p.sweep = &SweepGroup{}
		p.report.Sweeps = append(p.report.Sweeps, p.sweep)
		p.mode = modeSweep

	case kvfmt.KindSweepStep:
		if p.mode != modeSweep {
			return ErrStepOutsideSweep
		}
		p.closeGroup()
		cfg := DefaultConfig
		cfg.BloomFilterSize = l.BloomFilterSize
		p.group = &ConfigGroup{Config: cfg}
		p.sweep.Steps = append(p.sweep.Steps, p.group)

	case kvfmt.KindFlags:
		if p.mode == modeSweep {
			return ErrConfigInSweep
		}
		if p.pending != nil {
			return ErrIncompleteHeader
		}
		p.closeGroup()
		p.pending = &Config{UseBloomFilter: l.UseBloomFilter, UseCache: l.UseCache}
		p.pendingLine, p.pendingText = *l, text

	case kvfmt.KindFilter:
		if p.pending == nil {
			return ErrMissingHeader
		}
		cfg := *p.pending
		cfg.BloomFilterSize = l.BloomFilterSize
		cfg.HashCount = l.HashCount
		p.pending = nil
		p.group = &ConfigGroup{Config: cfg}
		p.report.Groups = append(p.report.Groups, p.group)

	case kvfmt.KindParams:
		p.rec = nil
		if p.pending != nil {
			return ErrIncompleteHeader
		}
		p.rec = NewRecord(l.ValueSize, l.PrebuiltCount)
		if p.group == nil {
			// No configuration to hold it. The record still
			// receives its lines but is left out of the report.
			return nil
		}
		p.group.Records = append(p.group.Records, p.rec)

	case kvfmt.KindOp:
		p.lastOp = l.Op
		if p.rec != nil {
			return p.rec.AddLatency(l.Op, l.Value)
		}

	case kvfmt.KindThroughput:
		if l.Name != "" {
			// Named throughputs belong to timelines.
			return nil
		}
		if p.rec == nil {
			return nil
		}
		return p.rec.AddThroughput(p.lastOp, l.Value.Value)
	}
	return nil
}

// closeGroup ends the current record and group. Groups and records
// are attached to the report when they are opened, so there is
// nothing to flush.
func (p *Parser) closeGroup() {
	p.rec = nil
	p.group = nil
}

// Finish ends the report and returns it. The parser must not be used
// afterwards.
func (p *Parser) Finish() (*Report, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.pending != nil {
		p.err = &ParseError{p.fileName, p.pendingLine.Num, p.pendingText, ErrIncompleteHeader}
		return nil, p.err
	}
	p.closeGroup()
	rep := p.report
	return &rep, nil
}

// Parse reads a complete report from r. fileName is only used in
// error messages.
func Parse(r io.Reader, fileName string) (*Report, error) {
	reader := kvfmt.NewReader(r, fileName)
	p := NewParser(fileName)
	for reader.Scan() {
		l, err := reader.Line()
		if err != nil {
			var se *kvfmt.SyntaxError
			line := 0
			if errors.As(err, &se) {
				line = se.Line
			}
			return nil, &ParseError{fileName, line, reader.Text(), err}
		}
		if err := p.Add(l, reader.Text()); err != nil {
			return nil, err
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return p.Finish()
}

// ParseLines parses a report given as a slice of lines.
func ParseLines(lines []string) (*Report, error) {
	return Parse(strings.NewReader(strings.Join(lines, "\n")), "<lines>")
}
