// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, "build", c.BuildDir)
	require.Equal(t, "build/put_plot_test", c.Binaries["put_plot"])
	require.Equal(t, int64(1<<30), c.MaxLogSize)
	require.Equal(t, time.Second, c.PollInterval)
	require.Equal(t, int64(64<<10), c.CaptureLimit)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
build_dir: out
binaries:
  report: out/report
watchdog:
  max_log_size: 10MB
  poll_interval: 250ms
`), 0o644))

	c, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, "out", c.BuildDir)
	require.Equal(t, "out/report", c.Binaries["report"])
	// Unset binaries keep their defaults.
	require.Equal(t, "build/correctness", c.Binaries["correctness"])
	require.Equal(t, int64(10_000_000), c.MaxLogSize)
	require.Equal(t, 250*time.Millisecond, c.PollInterval)
}

func TestLoadEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("KVBENCH_LOG_DIR", "/tmp/logs")
	t.Setenv("KVBENCH_WATCHDOG_MAX_LOG_SIZE", "0")
	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, "/tmp/logs", c.LogDir)
	require.Zero(t, c.MaxLogSize)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	chdir(t, t.TempDir())
	t.Setenv("KVBENCH_CAPTURE_LIMIT", "lots")
	_, err = Load(viper.New(), "")
	require.ErrorContains(t, err, "parsing capture_limit")
}
