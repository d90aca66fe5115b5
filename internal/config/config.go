// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads kvbench settings from a configuration file,
// the environment and command-line flags.
package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override settings.
// For example, KVBENCH_WATCHDOG_MAX_LOG_SIZE sets watchdog.max_log_size.
const EnvPrefix = "KVBENCH"

// Binaries are the names of the benchmark binaries built from the
// storage engine sources.
var Binaries = []string{"report", "put_plot", "correctness", "persistence"}

// Config holds kvbench settings.
type Config struct {
	SourceDir string
	BuildDir  string
	LogDir    string

	// Binaries maps each name in Binaries to the path of its
	// executable.
	Binaries map[string]string

	// MaxLogSize is the size in bytes a benchmark log may reach before
	// the benchmark is killed. Zero disables the limit.
	MaxLogSize   int64
	PollInterval time.Duration

	// CaptureLimit bounds the output kept from correctness and
	// persistence runs.
	CaptureLimit int64

	Verbose bool
}

// SetDefaults registers the default settings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source_dir", ".")
	v.SetDefault("build_dir", "build")
	v.SetDefault("log_dir", ".")
	v.SetDefault("binaries.report", "build/test")
	v.SetDefault("binaries.put_plot", "build/put_plot_test")
	v.SetDefault("binaries.correctness", "build/correctness")
	v.SetDefault("binaries.persistence", "build/persistence")
	v.SetDefault("watchdog.max_log_size", "1GiB")
	v.SetDefault("watchdog.poll_interval", "1s")
	v.SetDefault("capture_limit", "64KiB")
	v.SetDefault("verbose", false)
}

// Load reads the settings. If cfgFile is empty, Load looks for an
// optional kvbench.yaml in the current directory; otherwise cfgFile
// must exist. Flags bound to v take precedence over the environment,
// which takes precedence over the file.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("kvbench")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading configuration")
		}
	}

	c := &Config{
		SourceDir:    v.GetString("source_dir"),
		BuildDir:     v.GetString("build_dir"),
		LogDir:       v.GetString("log_dir"),
		Binaries:     make(map[string]string),
		PollInterval: v.GetDuration("watchdog.poll_interval"),
		Verbose:      v.GetBool("verbose"),
	}
	for _, name := range Binaries {
		c.Binaries[name] = v.GetString("binaries." + name)
	}
	var err error
	if c.MaxLogSize, err = parseSize(v, "watchdog.max_log_size"); err != nil {
		return nil, err
	}
	if c.CaptureLimit, err = parseSize(v, "capture_limit"); err != nil {
		return nil, err
	}
	if c.PollInterval <= 0 {
		return nil, errors.Newf("watchdog.poll_interval must be positive, got %s", c.PollInterval)
	}
	return c, nil
}

func parseSize(v *viper.Viper, key string) (int64, error) {
	s := v.GetString(key)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", key)
	}
	return int64(n), nil
}
