// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger so it can be passed around the internal packages
type Logger struct {
	*slog.Logger
}

// New returns a Logger that writes text output to stderr
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a Logger that writes text output of the given level to output
func NewLogger(level slog.Level, output io.Writer) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))}
}

// Err returns a slog attribute for the given error
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}

// With returns a Logger that includes the given attributes in each output operation
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}
