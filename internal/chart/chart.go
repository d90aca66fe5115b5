// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders benchmark series as PNG line charts.
package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/lsmkv/kvbench/kvfmt"
	"github.com/lsmkv/kvbench/kvproc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when a chart has no points to draw.
var ErrNoData = errors.New("no data to plot")

// Chart size.
const (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

// A Chart is a line chart with one line per series. Points are placed
// at evenly spaced x positions labeled by the series ticks. NaN values
// are left out.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []kvproc.Series
}

// Plot builds the chart.
func (c *Chart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	var ticks []plot.Tick
	points := 0
	for i, s := range c.Series {
		for j := len(ticks); j < len(s.Ticks); j++ {
			ticks = append(ticks, plot.Tick{Value: float64(j), Label: s.Ticks[j]})
		}
		pts := make(plotter.XYs, 0, len(s.Values))
		for j, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(j), Y: v})
		}
		if len(pts) == 0 {
			continue
		}
		line, marks, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "series %s", s.Label)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		marks.Color = plotutil.Color(i)
		marks.Shape = plotutil.Shape(i)
		p.Add(line, marks)
		p.Legend.Add(s.Label, line, marks)
		points += len(pts)
	}
	if points == 0 {
		return nil, errors.Wrapf(ErrNoData, "%s", c.Title)
	}

	p.Legend.Top = true
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
		def := plot.DefaultTicks{}
		defTicks := def.Ticks(min, max)
		for i := range defTicks {
			if defTicks[i].Label != "" {
				defTicks[i].Label = humanize.Commaf(math.Round(defTicks[i].Value))
			}
		}
		return defTicks
	})
	return p, nil
}

// Save renders the chart to path. The image format follows the file
// extension.
func (c *Chart) Save(path string) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return errors.Wrapf(p.Save(Width, Height, path), "saving %s", path)
}

const throughputLabel = "Throughput (ops/s)"

// ValueSizeCharts draws, for each prebuilt data count of g, the
// throughput of every operation against value size. It returns the
// paths of the files written to dir.
func ValueSizeCharts(dir string, g *kvproc.ConfigGroup) ([]string, error) {
	buckets, err := g.Buckets(kvproc.ValueSizeBuckets)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", g.Config)
	}
	var paths []string
	for _, b := range buckets {
		c := &Chart{
			Title:  fmt.Sprintf("Throughput with prebuilt_data_num=%d", b[0].PrebuiltCount),
			XLabel: "value size (bytes)",
			YLabel: throughputLabel,
		}
		for _, op := range kvfmt.Ops {
			c.Series = append(c.Series, kvproc.ValueSizeSeries(b, op, kvproc.Throughput))
		}
		path := filepath.Join(dir, ValueSizeFile(g.Config, b[0].PrebuiltCount))
		if err := c.Save(path); err != nil {
			if errors.Is(err, ErrNoData) {
				continue
			}
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SweepCharts draws, for each record position of sweep s and each
// operation, the throughput against bloom filter size. k is the
// 1-based index of s in its report.
func SweepCharts(dir string, k int, s *kvproc.SweepGroup) ([]string, error) {
	cols, err := s.Transpose()
	if err != nil {
		return nil, errors.Wrapf(err, "sweep %d", k)
	}
	var paths []string
	for pos, col := range cols {
		r := col[0]
		for _, op := range kvfmt.Ops {
			series, err := kvproc.SweepSeries(s, pos, op, kvproc.Throughput)
			if err != nil {
				return paths, err
			}
			c := &Chart{
				Title:  fmt.Sprintf("%s throughput with value_size=%d bytes, prebuilt num=%d", strings.ToUpper(op.String()), r.ValueSize, r.PrebuiltCount),
				XLabel: "BloomFilter Size (KB)",
				YLabel: throughputLabel,
				Series: []kvproc.Series{series},
			}
			path := filepath.Join(dir, SweepFile(k, op, r))
			if err := c.Save(path); err != nil {
				if errors.Is(err, ErrNoData) {
					continue
				}
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// CompareCharts draws, for each prebuilt data count and operation, the
// throughput of the configuration variants of rep side by side.
func CompareCharts(dir string, rep *kvproc.Report) ([]string, error) {
	var paths []string
	for _, pb := range rep.PrebuiltCounts() {
		for _, op := range kvfmt.Ops {
			series := kvproc.Compare(rep, op, kvproc.Throughput, pb)
			if len(series) < 2 {
				continue
			}
			c := &Chart{
				Title:  fmt.Sprintf("%s throughput with prebuilt_data_num=%d", op, pb),
				XLabel: "value size (bytes)",
				YLabel: throughputLabel,
				Series: series,
			}
			path := filepath.Join(dir, CompareFile(op, pb))
			if err := c.Save(path); err != nil {
				if errors.Is(err, ErrNoData) {
					continue
				}
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// TimelineChart draws the samples of tl against time in seconds.
func TimelineChart(path string, tl *kvproc.Timeline) error {
	s := kvproc.Series{Label: tl.Name, Values: tl.Samples}
	for i := range tl.Samples {
		s.Ticks = append(s.Ticks, fmt.Sprint(i+1))
	}
	title := "throughput"
	if tl.Name != "" {
		title = strings.ToUpper(tl.Name[:1]) + tl.Name[1:] + " " + title
	}
	c := &Chart{
		Title:  title,
		XLabel: "time (s)",
		YLabel: throughputLabel,
		Series: []kvproc.Series{s},
	}
	return c.Save(path)
}

// ValueSizeFile returns the file name of the value size chart of
// configuration c and prebuilt data count pb.
func ValueSizeFile(c kvproc.Config, pb int) string {
	return fmt.Sprintf("throughput_%s_prebuilt%d.png", c.Name(), pb)
}

// SweepFile returns the file name of the sweep chart of op for the
// parameters of r in the k'th sweep.
func SweepFile(k int, op kvfmt.Op, r *kvproc.Record) string {
	return fmt.Sprintf("sweep%d_%s_value%d_prebuilt%d.png", k, strings.ToLower(op.String()), r.ValueSize, r.PrebuiltCount)
}

// CompareFile returns the file name of the variant comparison chart
// of op and prebuilt data count pb.
func CompareFile(op kvfmt.Op, pb int) string {
	return fmt.Sprintf("compare_%s_prebuilt%d.png", strings.ToLower(op.String()), pb)
}
