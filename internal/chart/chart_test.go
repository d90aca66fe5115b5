// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/kvfmt"
	"github.com/lsmkv/kvbench/kvproc"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func group(c kvproc.Config, prebuilt ...int) *kvproc.ConfigGroup {
	g := &kvproc.ConfigGroup{Config: c}
	for _, pb := range prebuilt {
		for i, vs := range []int{10, 100, 1000, 10000} {
			r := kvproc.NewRecord(vs, pb)
			for _, op := range kvfmt.Ops {
				r.Throughput[op] = []float64{float64(1000 * (i + 1) * (int(op) + 1))}
			}
			g.Records = append(g.Records, r)
		}
	}
	return g
}

func TestChartSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgs", "chart.png")
	c := &Chart{
		Title: "test",
		Series: []kvproc.Series{
			{Label: "a", Ticks: []string{"10", "100"}, Values: []float64{1, 2}},
			{Label: "b", Ticks: []string{"10", "100"}, Values: []float64{math.NaN(), 3}},
		},
	}
	require.NoError(t, c.Save(path))
	requirePNG(t, path)
}

func TestChartNoData(t *testing.T) {
	c := &Chart{
		Title:  "empty",
		Series: []kvproc.Series{{Label: "a", Ticks: []string{"1"}, Values: []float64{math.NaN()}}},
	}
	_, err := c.Plot()
	require.True(t, errors.Is(err, ErrNoData), "got %v", err)
}

func TestValueSizeCharts(t *testing.T) {
	dir := t.TempDir()
	g := group(kvproc.DefaultConfig, 1000, 3000)
	paths, err := ValueSizeCharts(dir, g)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "throughput_bf-cache-65536-3_prebuilt1000.png"),
		filepath.Join(dir, "throughput_bf-cache-65536-3_prebuilt3000.png"),
	}, paths)
	for _, p := range paths {
		requirePNG(t, p)
	}

	g.Records = g.Records[:3]
	_, err = ValueSizeCharts(dir, g)
	require.True(t, errors.Is(err, kvproc.ErrBucketSize), "got %v", err)
}

func TestSweepCharts(t *testing.T) {
	dir := t.TempDir()
	s := &kvproc.SweepGroup{}
	for kib := 1; kib <= 3; kib++ {
		c := kvproc.DefaultConfig
		c.BloomFilterSize = kib * 1024
		r := kvproc.NewRecord(100, 5000)
		r.Throughput[kvfmt.OpGet] = []float64{float64(kib)}
		s.Steps = append(s.Steps, &kvproc.ConfigGroup{Config: c, Records: []*kvproc.Record{r}})
	}
	paths, err := SweepCharts(dir, 2, s)
	require.NoError(t, err)
	// Only Get has samples.
	require.Equal(t, []string{filepath.Join(dir, "sweep2_get_value100_prebuilt5000.png")}, paths)
	requirePNG(t, paths[0])
}

func TestCompareCharts(t *testing.T) {
	dir := t.TempDir()
	rep := &kvproc.Report{Groups: []*kvproc.ConfigGroup{
		group(kvproc.DefaultConfig, 1000),
		group(kvproc.Config{UseCache: true}, 1000),
		group(kvproc.Config{}, 1000),
	}}
	paths, err := CompareCharts(dir, rep)
	require.NoError(t, err)
	var names []string
	for _, p := range paths {
		requirePNG(t, p)
		names = append(names, filepath.Base(p))
	}
	sort.Strings(names)
	require.Equal(t, []string{
		"compare_del_prebuilt1000.png",
		"compare_get_prebuilt1000.png",
		"compare_put_prebuilt1000.png",
		"compare_scan_prebuilt1000.png",
	}, names)
}

func TestTimelineChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "put_throughput.png")
	tl := &kvproc.Timeline{Name: "put", Samples: []float64{1200, 1250, 1100}}
	require.NoError(t, TimelineChart(path, tl))
	requirePNG(t, path)
}
