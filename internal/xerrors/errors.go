// Package xerrors defines the engine's error taxonomy: a typed error
// carrying an operation name, optional file context, and a recoverability
// flag, wrapping the underlying cause for errors.Is/As.
package xerrors

import (
	"fmt"
	"time"
)

// ErrorType is the closed set of error kinds an analysis operation may
// surface.
type ErrorType string

const (
	UnsupportedLanguage ErrorType = "unsupported_language"
	ParseFailure        ErrorType = "parse_failure"
	FileReadError       ErrorType = "file_read_error"
	Timeout             ErrorType = "timeout"
	MalformedInput      ErrorType = "malformed_input"
	DepthExceeded       ErrorType = "depth_exceeded"
	Internal            ErrorType = "internal"
)

// AnalysisError is the single error type every operation in this module
// returns. A single human-readable Error() string is always safe to log;
// no stack trace crosses the package boundary.
type AnalysisError struct {
	Type        ErrorType
	Op          string
	FilePath    string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// New creates an AnalysisError for operation op wrapping err.
func New(t ErrorType, op string, err error) *AnalysisError {
	return &AnalysisError{Type: t, Op: op, Underlying: err, Timestamp: time.Now()}
}

// WithFile attaches the file path the error occurred on.
func (e *AnalysisError) WithFile(path string) *AnalysisError {
	e.FilePath = path
	return e
}

// WithRecoverable marks whether the caller may retry or fall back.
func (e *AnalysisError) WithRecoverable(recoverable bool) *AnalysisError {
	e.Recoverable = recoverable
	return e
}

func (e *AnalysisError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Type, e.Op, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Type, e.Op, e.Underlying)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *AnalysisError) Unwrap() error { return e.Underlying }

// IsRecoverable reports whether the caller may treat this as non-fatal
// (per-file timeouts and read errors; not global timeouts).
func (e *AnalysisError) IsRecoverable() bool { return e.Recoverable }
