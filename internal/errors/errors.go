// Package errors defines the pipeline's error taxonomy.
//
// Dataset-level failures are returned as *Error values carrying a Code; callers
// match them with errors.Is against the sentinels below:
//
//	if errors.Is(err, errors.ErrSchemaViolation) {
//	    // a required column is missing
//	}
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code is a machine-readable error code.
type Code string

const (
	CodeSourceUnreadable Code = "SOURCE_UNREADABLE"
	CodeSchemaViolation  Code = "SCHEMA_VIOLATION"
	CodeEmptyResult      Code = "EMPTY_RESULT"
	CodeConfig           Code = "CONFIG"
	CodeValidation       Code = "VALIDATION"
)

// Fatal reports whether an error with this code should abort a run.
func (c Code) Fatal() bool {
	switch c {
	case CodeEmptyResult:
		return false
	default:
		return true
	}
}

// Error is a pipeline error with a code, message and optional details
// (file, column, field errors).
type Error struct {
	Code    Code
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, e.Details[k])
		}
		b.WriteString(")")
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// With returns a copy of e with an extra detail key.
func (e *Error) With(key, value string) *Error {
	d := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		d[k] = v
	}
	d[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: d, cause: e.cause}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Detail returns a detail value, or "".
func (e *Error) Detail(key string) string {
	if e == nil || e.Details == nil {
		return ""
	}
	return e.Details[key]
}

// Sentinel errors for use with errors.Is().
var (
	ErrSourceUnreadable = &Error{Code: CodeSourceUnreadable, Message: "source unreadable"}
	ErrSchemaViolation  = &Error{Code: CodeSchemaViolation, Message: "schema violation"}
	ErrEmptyResult      = &Error{Code: CodeEmptyResult, Message: "empty result set"}
	ErrConfig           = &Error{Code: CodeConfig, Message: "invalid configuration"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation error"}
)

// SourceUnreadable reports a missing or corrupt input file.
func SourceUnreadable(path string, cause error) *Error {
	return ErrSourceUnreadable.With("file", path).WithCause(cause)
}

// MissingColumn reports a required column absent from the source header.
func MissingColumn(path, column string) *Error {
	e := &Error{Code: CodeSchemaViolation, Message: fmt.Sprintf("required column %q not found", column)}
	return e.With("file", path).With("column", column)
}

// EmptyResult reports a stage that reduced the dataset to zero rows.
func EmptyResult(stage string) *Error {
	return ErrEmptyResult.With("stage", stage)
}

// Config creates a configuration error.
func Config(msg string) *Error {
	return &Error{Code: CodeConfig, Message: msg}
}

// ValidationWithDetails creates a validation error with field details.
func ValidationWithDetails(msg string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: fields}
}

// CodeOf returns the Code of err, or "" when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
