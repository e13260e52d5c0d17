// Package errors defines the coded errors shared across the reporting
// pipeline. A DataError marks a data-quality problem in one of the tabular
// inputs; everything else is wrapped with fmt.Errorf and %w at the call site.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes for data-quality failures
const (
	CodeMissingColumn  = "MISSING_COLUMN"
	CodeEmptyInput     = "EMPTY_INPUT"
	CodeBadValue       = "BAD_VALUE"
	CodeUnknownStore   = "UNKNOWN_STORE"
	CodeDuplicateStore = "DUPLICATE_STORE"
	CodeNoContact      = "NO_CONTACT"
)

// DataError represents a data-quality failure in one of the tabular inputs.
// Source names the offending input (file or table), Row is the 1-based row
// when known, zero otherwise.
type DataError struct {
	Code    string
	Source  string
	Row     int
	Message string
	Err     error
}

// Error implements the error interface
func (e *DataError) Error() string {
	switch {
	case e.Row > 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s row %d: %s: %v", e.Code, e.Source, e.Row, e.Message, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("%s: %s row %d: %s", e.Code, e.Source, e.Row, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.Code, e.Source, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Source, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a DataError with the given code, source and message
func NewDataError(code, source, message string) *DataError {
	return &DataError{Code: code, Source: source, Message: message}
}

// WithRow attaches the 1-based input row to the error
func (e *DataError) WithRow(row int) *DataError {
	e.Row = row
	return e
}

// WithCause attaches the underlying error
func (e *DataError) WithCause(err error) *DataError {
	e.Err = err
	return e
}

// IsCode reports whether err is (or wraps) a DataError with the given code
func IsCode(err error, code string) bool {
	var de *DataError
	if stderrors.As(err, &de) {
		return de.Code == code
	}
	return false
}
