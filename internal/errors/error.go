package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryReactive Category = "reactive"
	CategoryPatch    Category = "patch"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Severity distinguishes diagnostics that are only reported from those that
// abort an operation.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

// String returns the label used in formatted output.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARN"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Error is a structured diagnostic with a code, a subject and a hint.
type Error struct {
	// Code is a unique error identifier (e.g., "T050").
	Code string

	// Category is the subsystem that raised the error.
	Category Category

	// Severity controls how the diagnostic is rendered and reported.
	Severity Severity

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Subject names the thing the error is about: a key, a watcher
	// expression, a config field.
	Subject string

	// Trace is the owner chain ("<Root> > <TodoList> > <TodoItem>").
	Trace string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Subject)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches another *Error with the same code, so registry-built errors
// can serve as sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSubject records what the error is about.
func (e *Error) WithSubject(s string) *Error {
	e.Subject = s
	return e
}

// WithSubjectf records a formatted subject.
func (e *Error) WithSubjectf(format string, args ...any) *Error {
	e.Subject = fmt.Sprintf(format, args...)
	return e
}

// WithTrace adds the owner chain to the error.
func (e *Error) WithTrace(trace string) *Error {
	e.Trace = trace
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:     code,
			Severity: SeverityError,
			Message:  "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Severity:   template.Severity,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if stderrors.As(err, &te) {
		return te
	}
	return New(code).Wrap(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
