// Copyright (c) 2025-2026 Reddit Research MCP Contributors.
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
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rusq/tracer"

	"github.com/redditresearch/redditmcp/logger"
)

// stderr is where the log goes when no log file is set.  With the stdio
// transport stdout carries the protocol and must not be written to.
var stderr io.Writer = os.Stderr

// isJSONLog reports whether the log file should be written in JSON format,
// which is the case for the ".json" and ".jsonl" extensions.
func isJSONLog(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".jsonl":
		return true
	}
	return false
}

// initLog initialises the logging.  If the filename is not empty, the file
// will be opened, and the logger output will be switched to that file.
// Returns the initialised logger, the stop function and an error, if any.
// The stop function must be called in the deferred call, it will close the
// log file, if it is open.  If the error is returned the stop function is
// nil.
func initLog(filename string, jsonHandler bool, verbose bool) (*slog.Logger, func(), error) {
	if filename == "" {
		lg := logger.New(stderr, verbose, jsonHandler)
		slog.SetDefault(lg)
		return lg, func() {}, nil
	}
	lf, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create the log file: %w", err)
	}
	log.SetOutput(lf) // redirect the standard log to the file just in case, panics will be logged there.

	lg := logger.New(lf, verbose, jsonHandler)
	slog.SetDefault(lg)
	lg.Debug("log messages will be written to file", "filename", filename)

	stop := func() {
		log.SetOutput(stderr)
		if err := lf.Close(); err != nil {
			slog.New(slog.NewTextHandler(stderr, nil)).Error("failed to close the log file", "error", err)
		}
	}
	return lg, stop, nil
}

// initTrace initialises the tracing.  If the filename is not empty, the file
// will be opened, trace will write to that file.  Returns the stop function
// that must be called in the deferred call.
func initTrace(filename string) (stop func()) {
	stop = func() {}
	if filename == "" {
		return
	}

	slog.Info("trace will be written to", "filename", filename)

	trc := tracer.New(filename)
	if err := trc.Start(); err != nil {
		slog.Warn("failed to start the trace", "filename", filename, "error", err)
		return
	}

	stop = func() {
		if err := trc.End(); err != nil {
			slog.Warn("failed to write the trace file", "filename", filename, "error", err)
		}
	}
	return
}
