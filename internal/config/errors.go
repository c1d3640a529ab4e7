package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrProcessCount indicates the number of processes is out of bounds.
	ErrProcessCount = errors.New("process count out of bounds")

	// ErrValidationFailed indicates a process entry failed validation.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Format is the decoder that was used ("yaml" or "toml").
	Format string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s (%s): %s", e.Path, e.Format, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// BoundsError reports a process list whose length is outside the allowed range.
type BoundsError struct {
	Count int
	Min   int
	Max   int
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("number of processes must be between %d and %d, got %d", e.Min, e.Max, e.Count)
}

// Is reports whether target is ErrProcessCount.
func (e *BoundsError) Is(target error) bool {
	return target == ErrProcessCount
}

// ValidationError describes a validation failure for a single process entry.
type ValidationError struct {
	// Index is the zero-based position of the entry, or -1 for top-level fields.
	Index int
	// Field is the offending field name.
	Field string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("processes[%d].%s: %s", e.Index, e.Field, e.Message)
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
