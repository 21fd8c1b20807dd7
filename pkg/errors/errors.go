// Package errors provides structured error handling for catflow.
// Errors carry codes, context, and stack traces so a failed run can
// identify which stage broke without guessing from message text.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Code identifies an error class for programmatic handling.
type Code string

const (
	// Input errors (1xx)
	CodeUnsupportedTable Code = "E101"
	CodeNoInputFiles     Code = "E102"
	CodeEncodingError    Code = "E103"
	CodeFileNotFound     Code = "E104"

	// Processing errors (2xx)
	CodeLayoutInvalid   Code = "E201"
	CodeTransformFailed Code = "E202"

	// Output errors (3xx)
	CodeWriteFailed Code = "E301"
	CodeSchemaDrift Code = "E302"

	// Unknown
	CodeUnknown Code = "E999"
)

// CatflowError is the base error type for all catflow errors.
type CatflowError struct {
	Code       Code
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace []Frame
}

// Frame represents a stack frame.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *CatflowError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		sb.WriteString(" (")
		first := true
		for k, v := range e.Context {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s=%v", k, v))
			first = false
		}
		sb.WriteString(")")
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *CatflowError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target error.
func (e *CatflowError) Is(target error) bool {
	if t, ok := target.(*CatflowError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error.
func (e *CatflowError) WithContext(key string, value interface{}) *CatflowError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new CatflowError.
func New(code Code, message string) *CatflowError {
	return &CatflowError{
		Code:       code,
		Message:    message,
		StackTrace: captureStack(2),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, code Code, message string) *CatflowError {
	if err == nil {
		return nil
	}

	return &CatflowError{
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: captureStack(2),
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *CatflowError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// captureStack captures the current stack trace.
func captureStack(skip int) []Frame {
	var frames []Frame
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	pcs = pcs[:n]

	cf := runtime.CallersFrames(pcs)
	for {
		frame, more := cf.Next()
		frames = append(frames, Frame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more || len(frames) >= 10 {
			break
		}
	}
	return frames
}

// FormatStack returns a formatted stack trace.
func (e *CatflowError) FormatStack() string {
	var sb strings.Builder
	for _, f := range e.StackTrace {
		sb.WriteString(fmt.Sprintf("  at %s\n    %s:%d\n", f.Function, f.File, f.Line))
	}
	return sb.String()
}

// --- Convenience constructors ---

// UnsupportedTable creates an unknown record-type error.
func UnsupportedTable(code string, known []string) *CatflowError {
	return New(CodeUnsupportedTable, "unsupported table type").
		WithContext("table", code).
		WithContext("supported", known)
}

// NoInputFiles creates a missing-input error.
func NoInputFiles(dir string) *CatflowError {
	return New(CodeNoInputFiles, "no .CAT files found in input folder").
		WithContext("folder", dir)
}

// FileNotFound creates a file not found error.
func FileNotFound(path string) *CatflowError {
	return New(CodeFileNotFound, "file not found").WithContext("path", path)
}

// LayoutInvalid creates a malformed-layout error.
func LayoutInvalid(table, reason string) *CatflowError {
	return New(CodeLayoutInvalid, "invalid table layout").
		WithContext("table", table).
		WithContext("reason", reason)
}

// SchemaDrift creates a schema-drift error. Drift after the output schema
// has been fixed is always fatal: evolving it would corrupt rows already
// written.
func SchemaDrift(detail string) *CatflowError {
	return New(CodeSchemaDrift, "batch does not conform to the fixed output schema").
		WithContext("detail", detail)
}

// --- Error checking utilities ---

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	var cfErr *CatflowError
	if errors.As(err, &cfErr) {
		return cfErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) Code {
	var cfErr *CatflowError
	if errors.As(err, &cfErr) {
		return cfErr.Code
	}
	return CodeUnknown
}
