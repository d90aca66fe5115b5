// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kvtab renders parsed benchmark reports as tables.
package kvtab

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lsmkv/kvbench/kvfmt"
	"github.com/lsmkv/kvbench/kvproc"
	"github.com/olekukonko/tablewriter"
)

var timingHeader = []string{"value_size", "prebuilt_data_num", "Get", "Put", "Del", "Scan"}

// timingRows returns one row per record of g holding the first latency
// sample of each operation, in the units the report used.
func timingRows(g *kvproc.ConfigGroup) [][]string {
	rows := make([][]string, 0, len(g.Records))
	for _, r := range g.Records {
		row := []string{strconv.Itoa(r.ValueSize), strconv.Itoa(r.PrebuiltCount)}
		for _, op := range kvfmt.Ops {
			cell := "-"
			if s := r.Latency[op]; len(s) > 0 {
				v, _ := s[0].Orig()
				cell = strconv.FormatFloat(v, 'f', -1, 64)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// Markdown writes the per-operation latencies of g's records to w as
// a Markdown table.
func Markdown(w io.Writer, g *kvproc.ConfigGroup) error {
	bw := bufio.NewWriter(w)
	t := tablewriter.NewWriter(bw)
	t.SetHeader(timingHeader)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	t.SetCenterSeparator("|")
	t.AppendBulk(timingRows(g))
	t.Render()
	return bw.Flush()
}

// LaTeX writes the per-operation latencies of g's records to w as a
// LaTeX table float with the given caption.
func LaTeX(w io.Writer, g *kvproc.ConfigGroup, caption string) error {
	var b strings.Builder
	b.WriteString("\\begin{table}[H]\n")
	b.WriteString("\\centering\n")
	fmt.Fprintf(&b, "\\begin{tabular}{|%s|}\n", strings.Repeat("c|", len(timingHeader)-1)+"c")
	b.WriteString("\\hline\n")
	b.WriteString(latexRow(timingHeader))
	b.WriteString("\\hline\n")
	for _, row := range timingRows(g) {
		b.WriteString(latexRow(row))
	}
	b.WriteString("\\hline\n")
	b.WriteString("\\end{tabular}\n")
	fmt.Fprintf(&b, "\\caption{%s}\n", latexEscape(caption))
	b.WriteString("\\end{table}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func latexRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = latexEscape(c)
	}
	return strings.Join(escaped, " & ") + " \\\\\n"
}

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
)

func latexEscape(s string) string {
	return latexReplacer.Replace(s)
}
