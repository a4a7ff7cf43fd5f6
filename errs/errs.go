// Package errs defines the error taxonomy shared by the corpusfold packages.
//
// Configuration errors are caller mistakes (bad fold count, zero divisor).
// Input errors are data-quality problems in documents, responses or encoded
// vectors. Load errors come from re-reading persisted folds and formatted
// data. Test for a kind with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConfig = errors.New("configuration error")
	ErrInput  = errors.New("input error")
	ErrLoad   = errors.New("load error")
)

// RecordError reports a problem with one record of a file.
type RecordError struct {
	Kind   error
	File   string
	Line   int
	Record string
	Err    error
}

func (e *RecordError) Error() string {
	msg := e.Kind.Error()
	if e.File != "" {
		msg += ": " + e.File
		if e.Line > 0 {
			msg += fmt.Sprintf(":%d", e.Line)
		}
	}
	if e.Record != "" {
		msg += fmt.Sprintf(": record %q", e.Record)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the error kind.
func (e *RecordError) Is(target error) bool {
	return target == e.Kind
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Configf returns a configuration error with a formatted message.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Inputf returns an input error with a formatted message.
func Inputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInput, fmt.Sprintf(format, args...))
}

// Record returns a RecordError of the given kind.
func Record(kind error, file string, line int, record string, err error) *RecordError {
	return &RecordError{Kind: kind, File: file, Line: line, Record: record, Err: err}
}
