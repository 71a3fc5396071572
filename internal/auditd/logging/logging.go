// Package logging wraps zerolog.Logger with a dedicated "audit" sub-logger
// for challenge/verify events, on top of a single structured zerolog
// pipeline writing to console and optional log files.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin facade over zerolog.Logger with a separate audit stream
// for challenge/verify events, alongside the regular console/file split.
type Logger struct {
	zerolog.Logger
	audit  zerolog.Logger
	file   *os.File
	auditF *os.File
}

// New builds a Logger writing to stderr (console, human-readable) and,
// when non-empty, to logFile and auditFile. level is one of
// debug/info/warn/error.
func New(level, logFile, auditFile string) (*Logger, error) {
	zlvl, err := zerolog.ParseLevel(level)
	if err != nil {
		zlvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	writers := []io.Writer{console}

	l := &Logger{}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}

	base := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zlvl).
		With().
		Timestamp().
		Logger()
	l.Logger = base

	auditWriters := []io.Writer{console}
	if auditFile != "" {
		af, err := os.OpenFile(auditFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, fmt.Errorf("logging: open audit file: %w", err)
		}
		l.auditF = af
		auditWriters = append(auditWriters, af)
	}
	l.audit = zerolog.New(zerolog.MultiLevelWriter(auditWriters...)).
		With().
		Timestamp().
		Str("stream", "audit").
		Logger()

	return l, nil
}

// Audit returns the sub-logger reserved for challenge/verify events.
func (l *Logger) Audit() *zerolog.Logger { return &l.audit }

// Close closes any open log files.
func (l *Logger) Close() error {
	var firstErr error
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			firstErr = err
		}
	}
	if l.auditF != nil {
		if err := l.auditF.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
