// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/lsmkv/kvbench/cmd/kvbench/internal/kvtab"
	"github.com/spf13/cobra"
)

func newTableCmd(a *app) *cobra.Command {
	var (
		outDir  string
		group   int
		name    string
		caption string
	)
	cmd := &cobra.Command{
		Use:   "table [flags] report.txt",
		Short: "Write Markdown and LaTeX tables of operation latencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.readReport(args[0])
			if err != nil {
				return err
			}
			if group < 0 || group >= len(rep.Groups) {
				return errors.Newf("%s: no configuration %d (have %d)", args[0], group, len(rep.Groups))
			}
			g := rep.Groups[group]

			var md, tex bytes.Buffer
			if err := kvtab.Markdown(&md, g); err != nil {
				return err
			}
			if err := kvtab.LaTeX(&tex, g, caption); err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o777); err != nil {
				return err
			}
			for _, f := range []struct {
				ext  string
				data []byte
			}{{".md", md.Bytes()}, {".tex", tex.Bytes()}} {
				path := filepath.Join(outDir, name+f.ext)
				if err := os.WriteFile(path, f.data, 0o666); err != nil {
					return err
				}
				a.log.Debug("wrote table", "file", path)
			}
			fmt.Fprintf(a.w, "wrote %s tables for %s to %s\n", name, g.Config, outDir)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&outDir, "out", "o", "tables", "write tables to `dir`")
	f.IntVar(&group, "group", 0, "tabulate the configuration at `index`")
	f.StringVar(&name, "name", "gpds-time", "base `name` of the table files")
	f.StringVar(&caption, "caption", "gpds", "LaTeX table `caption`")
	return cmd
}
