// Copyright 2024 The kvbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner builds the storage engine and runs its benchmark
// binaries.
package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// ErrLogLimit is returned when a benchmark is killed because its log
// grew past the configured limit.
var ErrLogLimit = errors.New("log size limit exceeded")

// Options configure a Runner.
type Options struct {
	SourceDir string
	BuildDir  string
	LogDir    string

	// MaxLogSize is the log size in bytes past which a benchmark is
	// killed. Zero disables the watchdog.
	MaxLogSize   int64
	PollInterval time.Duration

	// Output receives the output of build and test commands.
	// Defaults to os.Stderr.
	Output io.Writer
}

// A Runner runs build commands and benchmark binaries.
type Runner struct {
	opts Options
	log  *slog.Logger
}

// New returns a Runner. If logger is nil, slog.Default is used.
func New(opts Options, logger *slog.Logger) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{opts: opts, log: logger}
}

// A Job is one invocation of a benchmark binary.
type Job struct {
	// Name identifies the job. The log file is named after it.
	Name string
	Path string
	Args []string
	Dir  string
}

// ReportJob runs the benchmark binary that prints the performance
// report.
func ReportJob(path string) Job {
	return Job{Name: "report", Path: path}
}

// PutPlotJob runs the put throughput benchmark, which puts values of
// putSize bytes and prints the throughput once a second for at most
// seconds seconds.
func PutPlotJob(path string, putSize, seconds int) Job {
	return Job{Name: "put_plot", Path: path, Args: []string{strconv.Itoa(putSize), strconv.Itoa(seconds)}}
}

// A Result describes a finished job.
type Result struct {
	Job     Job
	LogFile string
	LogSize int64
	Killed  bool
	Elapsed time.Duration
}

// Build configures and builds the sources with cmake.
func (r *Runner) Build(ctx context.Context) error {
	if err := r.command(ctx, "", "cmake", "-S", r.opts.SourceDir, "-B", r.opts.BuildDir); err != nil {
		return err
	}
	return r.command(ctx, "", "cmake", "--build", r.opts.BuildDir)
}

// Test runs ctest in the build directory.
func (r *Runner) Test(ctx context.Context) error {
	return r.command(ctx, r.opts.BuildDir, "ctest")
}

func (r *Runner) command(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.opts.Output
	cmd.Stderr = r.opts.Output
	r.log.Info("running", "cmd", name, "args", strings.Join(args, " "), "dir", dir)
	return errors.Wrapf(cmd.Run(), "%s %s", name, strings.Join(args, " "))
}

// LogFile returns the log file path of job.
func (r *Runner) LogFile(job Job) string {
	return filepath.Join(r.opts.LogDir, job.Name+".txt")
}

// Run runs job with its standard output and error redirected to its
// log file. While the job runs, a watchdog polls the size of the log
// and kills the job once it exceeds MaxLogSize, in which case the
// error wraps ErrLogLimit and the Result is marked Killed.
func (r *Runner) Run(ctx context.Context, job Job) (*Result, error) {
	logPath := r.LogFile(job)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(logPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cmd := exec.CommandContext(ctx, job.Path, job.Args...)
	cmd.Dir = job.Dir
	cmd.Stdout = f
	cmd.Stderr = f

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", job.Name)
	}
	r.log.Info("started", "job", job.Name, "pid", cmd.Process.Pid, "log", logPath)

	var killed atomic.Bool
	done := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(done)
		return cmd.Wait()
	})
	g.Go(func() error {
		r.watch(job, logPath, cmd.Process, done, &killed)
		return nil
	})
	waitErr := g.Wait()

	res := &Result{Job: job, LogFile: logPath, Elapsed: time.Since(start), Killed: killed.Load()}
	if fi, err := os.Stat(logPath); err == nil {
		res.LogSize = fi.Size()
	}
	r.log.Info("finished", "job", job.Name, "elapsed", res.Elapsed, "log_size", humanize.IBytes(uint64(res.LogSize)))

	if res.Killed {
		return res, errors.Wrapf(ErrLogLimit, "%s: %s exceeded %s", job.Name, logPath, humanize.IBytes(uint64(r.opts.MaxLogSize)))
	}
	if waitErr != nil {
		return res, errors.Wrapf(waitErr, "running %s", job.Name)
	}
	return res, nil
}

// watch polls the size of the log at path until done is closed, and
// kills p if the log grows past the limit.
func (r *Runner) watch(job Job, path string, p *os.Process, done <-chan struct{}, killed *atomic.Bool) {
	if r.opts.MaxLogSize <= 0 {
		return
	}
	t := time.NewTicker(r.opts.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
		}
		fi, err := os.Stat(path)
		if err != nil || fi.Size() <= r.opts.MaxLogSize {
			continue
		}
		killed.Store(true)
		r.log.Warn("log size limit exceeded, killing", "job", job.Name, "log_size", humanize.IBytes(uint64(fi.Size())))
		if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			r.log.Error("kill failed", "job", job.Name, "err", err)
		}
		return
	}
}

// Capture runs job and returns its combined output, keeping at most
// limit bytes. truncated reports whether output was dropped. A
// non-positive limit keeps everything.
func (r *Runner) Capture(ctx context.Context, job Job, limit int64) (out []byte, truncated bool, err error) {
	cmd := exec.CommandContext(ctx, job.Path, job.Args...)
	cmd.Dir = job.Dir
	buf := &limitedBuffer{limit: limit}
	cmd.Stdout = buf
	cmd.Stderr = buf
	r.log.Info("running", "job", job.Name)
	err = cmd.Run()
	if buf.truncated {
		r.log.Warn("output truncated", "job", job.Name, "limit", humanize.IBytes(uint64(limit)))
	}
	return buf.buf, buf.truncated, errors.Wrapf(err, "running %s", job.Name)
}

// limitedBuffer keeps the first limit bytes written to it.
type limitedBuffer struct {
	buf       []byte
	limit     int64
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.limit <= 0 {
		b.buf = append(b.buf, p...)
		return len(p), nil
	}
	room := b.limit - int64(len(b.buf))
	if int64(len(p)) > room {
		b.truncated = true
		if room > 0 {
			b.buf = append(b.buf, p[:room]...)
		}
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}
