// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used by the snapshot
// producer and the widget.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

func configureGlobals() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"
}

// NewLogger constructs a *Logger for the given role label (e.g. "producer")
// writing JSON to os.Stderr, leaving stdout to command output.
//
// Every entry carries a "role" field, a timestamp and the calling function
// name.
func NewLogger(role string) *Logger {
	return newLogger(role, os.Stderr)
}

// NewFileLogger is like NewLogger but appends to logs/<role>.log next to the
// executable. Full-screen programs use it so that log output does not tear
// the terminal. Falls back to io.Discard when the file cannot be opened.
func NewFileLogger(role string) *Logger {
	var out io.Writer = io.Discard

	execPath, err := os.Executable()
	if err == nil {
		logDir := filepath.Join(filepath.Dir(execPath), "logs")
		if err = os.MkdirAll(logDir, 0o755); err == nil {
			logFile, openErr := os.OpenFile(filepath.Join(logDir, role+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if openErr == nil {
				out = logFile
			}
		}
	}

	return newLogger(role, out)
}

func newLogger(role string, out io.Writer) *Logger {
	configureGlobals()

	logger := zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithContext attaches l to ctx so that FromContext can retrieve it.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper and returns it as a *Logger.
//
// If no logger has been attached to ctx, zerolog returns its default context
// logger, so this function never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
