// SPDX-License-Identifier: AGPL-3.0-or-later
// DMRHub - Run a DMR network server in a single binary
// Copyright (C) 2023-2026 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package logging wires log/slog to the console (tinted, human-readable,
// the teacher's own cmd/root.go style) and to a pair of daily-rolled
// files, and installs a fatal-signal handler that dumps a stack trace to
// a third daily-rolled file before the process exits. It replaces the
// teacher's original atomic.Value-backed GetLogger singleton with an
// explicit *slog.Logger returned from Init, passed down like every other
// dependency rather than fetched from a package global.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
)

// Options configures where Init writes its console and rolled-file output.
type Options struct {
	// Level is the minimum level the console and main log file emit.
	Level slog.Level
	// Root is the base filename rolled log files are stamped with, e.g.
	// "dvmcore" produces "dvmcore-2026-07-30.log".
	Root string
	// Dir is the directory rolled log files are written to; "" means the
	// working directory.
	Dir string
	// Console, when set, also sends tinted human-readable output of
	// every level to stdout.
	Console bool
}

// Handles bundles the loggers and teardown Init produces.
type Handles struct {
	// Logger is the general-purpose logger; Init also installs it as
	// slog.Default().
	Logger *slog.Logger
	// Activity is a second logger writing only to the ".activity.log"
	// file, for the per-connection/per-call activity trail spec.md §7
	// keeps separate from error/diagnostic output (the teacher's
	// AccessType log, renamed to match what it actually records here).
	Activity *slog.Logger

	mainFile     *dailyFile
	activityFile *dailyFile
	stackFile    *dailyFile
	stopSignals  func()
}

// Close stops the fatal-signal handler and closes every rolled file.
func (h *Handles) Close() {
	if h.stopSignals != nil {
		h.stopSignals()
	}
	if h.mainFile != nil {
		_ = h.mainFile.Close()
	}
	if h.activityFile != nil {
		_ = h.activityFile.Close()
	}
	if h.stackFile != nil {
		_ = h.stackFile.Close()
	}
}

// Init builds the general and activity loggers and installs the
// fatal-signal stack-trace dumper described in the package doc comment.
//
// Catching SIGSEGV/SIGABRT this way is best-effort, not a guarantee: the
// Go runtime itself handles most synchronous memory-access faults and
// terminates before a signal.Notify channel ever sees them, so this only
// catches what the OS delivers asynchronously — an operator-sent signal,
// or a raise(2) from a cgo dependency. It is not a substitute for
// recover() at goroutine boundaries, which is how this workspace actually
// contains a single connection's panic (spec.md §7: initialization
// failures are the only fatal ones; everything else is recovered and
// counted).
func Init(opts Options) (*Handles, error) {
	if opts.Root == "" {
		opts.Root = "dvmcore"
	}

	mainFile := newDailyFile(opts.Dir, opts.Root, "")
	activityFile := newDailyFile(opts.Dir, opts.Root, ".activity")
	stackFile := newDailyFile(opts.Dir, opts.Root, ".stacktrace")

	fileHandler := slog.NewJSONHandler(mainFile, &slog.HandlerOptions{Level: opts.Level})
	var handler slog.Handler = fileHandler
	if opts.Console {
		consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{Level: opts.Level})
		handler = fanoutHandler{fileHandler, consoleHandler}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	activityLogger := slog.New(slog.NewJSONHandler(activityFile, &slog.HandlerOptions{Level: slog.LevelInfo}))

	stop := installStackDumper(stackFile, logger)

	return &Handles{
		Logger:       logger,
		Activity:     activityLogger,
		mainFile:     mainFile,
		activityFile: activityFile,
		stackFile:    stackFile,
		stopSignals:  stop,
	}, nil
}

// fanoutHandler forwards every slog record to each of its member
// handlers, letting Init send one log call to both the JSON file sink
// and the tinted console at once without either depending on the other's
// format.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range f {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			return fmt.Errorf("fanout log handler: %w", err)
		}
	}
	return nil
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanoutHandler, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	next := make(fanoutHandler, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}

// dailyFile is an io.WriteCloser that reopens "{root}-YYYY-MM-DD{suffix}.log"
// whenever the UTC date rolls over, so a long-running process never holds
// an open handle to yesterday's file.
type dailyFile struct {
	mu     sync.Mutex
	dir    string
	root   string
	suffix string
	day    string
	file   *os.File
}

func newDailyFile(dir, root, suffix string) *dailyFile {
	return &dailyFile{dir: dir, root: root, suffix: suffix}
}

func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	day := time.Now().UTC().Format("2006-01-02")
	if d.file == nil || day != d.day {
		if d.file != nil {
			_ = d.file.Close()
		}
		name := fmt.Sprintf("%s-%s%s.log", d.root, day, d.suffix)
		path := name
		if d.dir != "" {
			path = filepath.Join(d.dir, name)
		}
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644) //nolint:gomnd
		if err != nil {
			return 0, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		d.file = f
		d.day = day
	}
	return d.file.Write(p) //nolint:wrapcheck
}

func (d *dailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	return d.file.Close() //nolint:wrapcheck
}

// installStackDumper registers SIGSEGV/SIGABRT handling that writes a
// goroutine stack dump to dst and logs a diagnostic line before exiting.
// It returns a func that stops the handler (for Handles.Close).
func installStackDumper(dst *dailyFile, logger *slog.Logger) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGSEGV, syscall.SIGABRT)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			logger.Error("fatal signal received, dumping stack trace", "signal", sig.String())
			_, _ = dst.Write(debug.Stack())
			_ = dst.Close()
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// QualifierByte reports the single-character peer-identity qualifier
// spec.md §7 prefixes steady-state failure log lines with: '@' for a
// sysview peer, '%' for a replica, '+' for a neighbor FNE, and ' ' for an
// ordinary conventional peer. Only one role is expected per peer; when
// more than one flag is set, sysview takes precedence, then replica,
// then neighbor, matching the order spec.md §7 lists them in.
func QualifierByte(sysView, replica, neighbor bool) byte {
	switch {
	case sysView:
		return '@'
	case replica:
		return '%'
	case neighbor:
		return '+'
	default:
		return ' '
	}
}

// PeerPrefix formats the peer-id + identity-with-qualifier marker
// spec.md §7 requires on every steady-state failure log line, e.g.
// "[312000@KW4ABC]" for a sysview peer or "[312000 KW4ABC]" for a
// conventional one.
func PeerPrefix(peerID uint32, identity string, qualifier byte) string {
	return fmt.Sprintf("[%d%c%s]", peerID, qualifier, identity)
}
