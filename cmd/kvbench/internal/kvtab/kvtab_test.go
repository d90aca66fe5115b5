// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kvtab

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/lsmkv/kvbench/kvproc"
	"github.com/stretchr/testify/require"
)

const report = `use_bf: true, use_cache: true
bf_size: 65536, bf_func_num: 3
value_size: 10, prebuilt data num:1000
Get: 5 us
	throughput: 200000.000000/s
Put: 10 us
	throughput: 100000.000000/s
Scan: 40 us
	throughput: 25000.000000/s
value_size: 100, prebuilt data num:1000
Get: 20 us
	throughput: 50000.000000/s
Put: 40 us
	throughput: 25000.000000/s
Scan: 160 us
	throughput: 6250.000000/s
use_bf: false, use_cache: true
bf_size: 0, bf_func_num: 0
value_size: 10, prebuilt data num:1000
Get: 10 us
	throughput: 100000.000000/s
Put: 10 us
	throughput: 100000.000000/s
value_size: 100, prebuilt data num:1000
Get: 40 us
	throughput: 25000.000000/s
Put: 40 us
	throughput: 25000.000000/s
`

func parse(t *testing.T) *kvproc.Report {
	rep, err := kvproc.Parse(strings.NewReader(report), "report.txt")
	require.NoError(t, err)
	return rep
}

// cells splits a Markdown table row into trimmed cells.
func cells(line string) []string {
	parts := strings.Split(strings.Trim(line, "|"), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, parse(t).Groups[0]))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, []string{"value_size", "prebuilt_data_num", "Get", "Put", "Del", "Scan"}, cells(lines[0]))
	require.Regexp(t, regexp.MustCompile(`^\|(-+\|)+$`), lines[1])
	require.Equal(t, []string{"10", "1000", "5", "10", "-", "40"}, cells(lines[2]))
	require.Equal(t, []string{"100", "1000", "20", "40", "-", "160"}, cells(lines[3]))
}

func TestLaTeX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, LaTeX(&buf, parse(t).Groups[0], "gpds"))
	const want = `\begin{table}[H]
\centering
\begin{tabular}{|c|c|c|c|c|c|}
\hline
value\_size & prebuilt\_data\_num & Get & Put & Del & Scan \\
\hline
10 & 1000 & 5 & 10 & - & 40 \\
100 & 1000 & 20 & 40 & - & 160 \\
\hline
\end{tabular}
\caption{gpds}
\end{table}
`
	require.Equal(t, want, buf.String())
}

func TestToCSV(t *testing.T) {
	var out, warnings bytes.Buffer
	require.NoError(t, ToCSV(&out, &warnings, Sections(parse(t), kvproc.Throughput, 2)))
	const want = `section,config,Get,Put,Del,Scan,vs base
groups,use_bf:true use_cache:true bf_size:65536 bf_func_num:3,100000.00,50000.00,,12500.00,
groups,use_bf:false use_cache:true bf_size:0 bf_func_num:0,50000.00,50000.00,,,-29.29%
`
	require.Equal(t, want, out.String())
	const wantWarnings = `B2: bucket 1: value_size 10 has no Del throughput
B2: bucket 1: value_size 100 has no Del throughput
B3: bucket 1: value_size 10 has no Del throughput
B3: bucket 1: value_size 10 has no Scan throughput
B3: bucket 1: value_size 100 has no Del throughput
B3: bucket 1: value_size 100 has no Scan throughput
`
	require.Equal(t, wantWarnings, warnings.String())
}

func TestToText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, ToText(&out, Sections(parse(t), kvproc.Throughput, 2)))
	got := out.String()
	require.True(t, strings.HasPrefix(got, "section: groups\n"), "got:\n%s", got)
	for _, want := range []string{
		"use_bf:true use_cache:true bf_size:65536 bf_func_num:3 ¹ ²",
		"use_bf:false use_cache:true bf_size:0 bf_func_num:0 ¹ ³ ² ⁴",
		"kops/s",
		"-29.29%",
		"¹ bucket 1: value_size 10 has no Del throughput\n",
		"⁴ bucket 1: value_size 100 has no Scan throughput\n",
	} {
		require.Contains(t, got, want)
	}
}

func TestRecordsCSV(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RecordsCSV(&out, parse(t)))
	const want = `section,index,use_bf,use_cache,bf_size,bf_func_num,value_size,prebuilt_data_num,Get,Put,Del,Scan
groups,1,true,true,65536,3,10,1000,200000,100000,,25000
groups,1,true,true,65536,3,100,1000,50000,25000,,6250
groups,2,false,true,0,0,10,1000,100000,100000,,
groups,2,false,true,0,0,100,1000,25000,25000,,
`
	require.Equal(t, want, out.String())
}

func TestSuperscript(t *testing.T) {
	require.Equal(t, "⁰", superscript(0))
	require.Equal(t, "¹²", superscript(12))
}
