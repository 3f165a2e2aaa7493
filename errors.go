package argspec

import (
	"errors"
	"fmt"
)

// Parse-time sentinels. Every error returned by Parse wraps exactly one
// of these, so callers can dispatch with errors.Is.
var (
	// ErrHelp is returned by Parse when a help alias was seen. It is a
	// success-shaped outcome, not a failure: help has already been
	// written to the schema's output writer.
	ErrHelp = errors.New("help requested")

	ErrMissingOptionValue = errors.New("missing value for option")
	ErrUnknownArgument    = errors.New("unknown argument")
	ErrInvalidValue       = errors.New("invalid value")
	ErrMissingPositional  = errors.New("missing positional argument")
	ErrExtraPositional    = errors.New("extra positional arguments")
	ErrMissingValue       = errors.New("missing value")
	ErrValidationFailed   = errors.New("validation failed")
)

// SpecError reports a structural problem in a field list. It is raised
// by New, never by Parse, and is meant to fail fast during program
// initialization.
type SpecError struct {
	msg string
}

func (e *SpecError) Error() string {
	return e.msg
}

func specErrorf(format string, args ...any) *SpecError {
	return &SpecError{msg: fmt.Sprintf(format, args...)}
}

// ParseError reports a problem with one invocation's tokens. Field
// names the offending field when known, Token the offending raw token.
// Unwrap exposes the sentinel (and any coercion cause) for errors.Is
// and errors.As.
type ParseError struct {
	Field string
	Token string
	err   error
}

func (e *ParseError) Error() string {
	return e.err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.err
}

func parseErr(sentinel error, field string, format string, args ...any) *ParseError {
	detail := fmt.Sprintf(format, args...)
	return &ParseError{
		Field: field,
		err:   fmt.Errorf("%w%s", sentinel, detail),
	}
}

func invalidValueErr(field, display, raw string, cause error) *ParseError {
	return &ParseError{
		Field: field,
		Token: raw,
		err:   fmt.Errorf("%w for %s: %w", ErrInvalidValue, display, cause),
	}
}
