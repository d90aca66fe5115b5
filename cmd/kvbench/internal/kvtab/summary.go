// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvtab

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lsmkv/kvbench/kvfmt"
	"github.com/lsmkv/kvbench/kvproc"
	"github.com/lsmkv/kvbench/kvunit"
	"github.com/olekukonko/tablewriter"
)

// A Section is a set of configurations summarized together. The first
// row is the baseline the others are compared against.
type Section struct {
	Label string
	Rows  []*Row
}

// A Row summarizes one configuration.
type Row struct {
	Label    string
	Summary  *kvproc.Summary
	Warnings []error
}

// Sections summarizes metric m of every group of rep, followed by one
// section per sweep. Each group is checked with buckets of bucketSize
// records and the resulting warnings are attached to its row.
func Sections(rep *kvproc.Report, m kvproc.Metric, bucketSize int) []*Section {
	var out []*Section
	add := func(label string, groups []*kvproc.ConfigGroup) {
		if len(groups) == 0 {
			return
		}
		s := &Section{Label: label}
		for _, g := range groups {
			s.Rows = append(s.Rows, &Row{
				Label:    g.Config.String(),
				Summary:  kvproc.Summarize(g, m),
				Warnings: g.Check(bucketSize),
			})
		}
		out = append(out, s)
	}
	add("groups", rep.Groups)
	for i, sw := range rep.Sweeps {
		add(fmt.Sprintf("sweep %d", i+1), sw.Steps)
	}
	return out
}

func summaryHeader() []string {
	hdr := []string{"config"}
	for _, op := range kvfmt.Ops {
		hdr = append(hdr, op.String())
	}
	return append(hdr, "vs base")
}

// ratio returns the "vs base" cell of row i.
func (s *Section) ratio(i int) string {
	if i == 0 {
		return ""
	}
	r := s.Rows[i].Summary.Ratio(s.Rows[0].Summary)
	if math.IsNaN(r) {
		return "?"
	}
	return fmt.Sprintf("%+.2f%%", (r-1)*100)
}

// ToText renders sections to w as aligned text tables. Warnings are
// listed after each table and referenced by footnote marks.
func ToText(w io.Writer, sections []*Section) error {
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
		}
		if err := s.toText(w); err != nil {
			return err
		}
	}
	return nil
}

func (s *Section) toText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "section: %s\n", s.Label); err != nil {
		return err
	}

	var warningList []string
	warningSet := make(map[string]int)
	warn := func(msgs []error) string {
		var footnotes []string
		for _, msg := range msgs {
			s := msg.Error()
			i, ok := warningSet[s]
			if !ok {
				i = len(warningList)
				warningSet[s] = i
				warningList = append(warningList, s)
			}
			footnotes = append(footnotes, superscript(i+1))
		}
		return strings.Join(footnotes, " ")
	}

	var b strings.Builder
	t := tablewriter.NewWriter(&b)
	t.SetHeader(summaryHeader())
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	for i, row := range s.Rows {
		label := row.Label
		if notes := warn(row.Warnings); notes != "" {
			label += " " + notes
		}
		cells := []string{label}
		for _, op := range kvfmt.Ops {
			st := row.Summary.Ops[op]
			if st.N == 0 {
				cells = append(cells, "?")
				continue
			}
			cells = append(cells, kvunit.Format(st.GeoMean, row.Summary.Metric.Unit()))
		}
		cells = append(cells, s.ratio(i))
		t.Append(cells)
	}
	t.Render()
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	for i, msg := range warningList {
		if _, err := fmt.Fprintf(w, "%s %s\n", superscript(i+1), msg); err != nil {
			return err
		}
	}
	return nil
}

var superDigits = []rune("⁰¹²³⁴⁵⁶⁷⁸⁹")

func superscript(i int) string {
	if i == 0 {
		return string(superDigits[0])
	}

	var buf [20]rune
	pos := len(buf)
	for i > 0 && pos > 0 {
		pos--
		buf[pos] = superDigits[i%10]
		i /= 10
	}
	return string(buf[pos:])
}

// ToCSV renders sections to w in CSV format, one row per
// configuration. Warnings are written in text format to the
// "warnings" Writer, and prefixed with spreadsheet-style cell
// references.
func ToCSV(w io.Writer, warnings io.Writer, sections []*Section) error {
	o := csv.NewWriter(w)
	o.Write(append([]string{"section"}, summaryHeader()...))
	rowNum := 2
	for _, s := range sections {
		for i, row := range s.Rows {
			for _, msg := range row.Warnings {
				fmt.Fprintf(warnings, "B%d: %s\n", rowNum, msg)
			}
			cells := []string{s.Label, row.Label}
			for _, op := range kvfmt.Ops {
				st := row.Summary.Ops[op]
				if st.N == 0 {
					cells = append(cells, "")
					continue
				}
				cells = append(cells, strconv.FormatFloat(st.GeoMean, 'f', 2, 64))
			}
			cells = append(cells, s.ratio(i))
			o.Write(cells)
			rowNum++
		}
	}
	o.Flush()
	return o.Error()
}

var recordHeader = []string{
	"section", "index", "use_bf", "use_cache", "bf_size", "bf_func_num",
	"value_size", "prebuilt_data_num", "Get", "Put", "Del", "Scan",
}

// RecordsCSV writes every record of rep to w in CSV format, with the
// first throughput sample of each operation. Missing samples are
// empty cells.
func RecordsCSV(w io.Writer, rep *kvproc.Report) error {
	o := csv.NewWriter(w)
	o.Write(recordHeader)
	emit := func(section string, index int, g *kvproc.ConfigGroup) {
		c := g.Config
		for _, r := range g.Records {
			row := []string{
				section, strconv.Itoa(index),
				strconv.FormatBool(c.UseBloomFilter), strconv.FormatBool(c.UseCache),
				strconv.Itoa(c.BloomFilterSize), strconv.Itoa(c.HashCount),
				strconv.Itoa(r.ValueSize), strconv.Itoa(r.PrebuiltCount),
			}
			for _, op := range kvfmt.Ops {
				v := r.Get(op, kvproc.Throughput)
				if math.IsNaN(v) {
					row = append(row, "")
				} else {
					row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
				}
			}
			o.Write(row)
		}
	}
	for i, g := range rep.Groups {
		emit("groups", i+1, g)
	}
	for i, s := range rep.Sweeps {
		for j, step := range s.Steps {
			emit(fmt.Sprintf("sweep %d", i+1), j+1, step)
		}
	}
	o.Flush()
	return o.Error()
}
