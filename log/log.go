// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small leveled logger used across the max-dump
// components. It mirrors the shape of the teacher project's own
// internal log helper: a Logger interface, a level filter that wraps
// one, and a Helper exposing printf-style methods at each level.
package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Level is a log severity.
type Level int

// Severities, lowest to highest.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger logs one already-formatted line at a given level.
type Logger interface {
	Log(level Level, msg string) error
}

// stdLogger writes lines to an io.Writer, timestamped.
type stdLogger struct {
	w io.Writer
}

// NewStdLogger returns a Logger that writes to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (l *stdLogger) Log(level Level, msg string) error {
	_, err := fmt.Fprintf(l.w, "%s %s %s\n", time.Now().Format(time.RFC3339), level, msg)
	return err
}

// Option configures a filter.
type Option func(*filter)

// FilterLevel drops any record below level.
func FilterLevel(level Level) Option {
	return func(f *filter) {
		f.level = level
	}
}

type filter struct {
	next  Logger
	level Level
}

// NewFilter wraps logger with a minimum-severity filter.
func NewFilter(logger Logger, opts ...Option) Logger {
	f := &filter{next: logger, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, msg string) error {
	if level < f.level {
		return nil
	}
	return f.next.Log(level, msg)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in a Helper.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

// Debug logs at LevelDebug.
func (h *Helper) Debug(args ...interface{}) { h.log(LevelDebug, fmt.Sprint(args...)) }

// Debugf logs a formatted message at LevelDebug.
func (h *Helper) Debugf(format string, args ...interface{}) {
	h.log(LevelDebug, fmt.Sprintf(format, args...))
}

// Warn logs at LevelWarn.
func (h *Helper) Warn(args ...interface{}) { h.log(LevelWarn, fmt.Sprint(args...)) }

// Warnf logs a formatted message at LevelWarn.
func (h *Helper) Warnf(format string, args ...interface{}) {
	h.log(LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs at LevelError.
func (h *Helper) Error(args ...interface{}) { h.log(LevelError, fmt.Sprint(args...)) }

// Errorf logs a formatted message at LevelError.
func (h *Helper) Errorf(format string, args ...interface{}) {
	h.log(LevelError, fmt.Sprintf(format, args...))
}

func (h *Helper) log(level Level, msg string) {
	if h == nil || h.logger == nil {
		return
	}
	_ = h.logger.Log(level, msg)
}

// Discard is a Logger that drops every record.
var Discard Logger = discard{}

type discard struct{}

func (discard) Log(Level, string) error { return nil }

// DefaultHelper returns a Helper writing warnings and above to os.Stderr,
// the default used when a caller does not supply its own Logger.
func DefaultHelper() *Helper {
	return NewHelper(NewFilter(NewStdLogger(os.Stderr), FilterLevel(LevelWarn)))
}
