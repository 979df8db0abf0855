// Package checkerr has the error types shared by the checker and its configuration.
package checkerr

import (
	"fmt"
	"strings"
)

// Error is an error of a known kind, maybe caused by another error.
//
// errors.Is matches both of Kind and Cause.
type Error struct {
	Kind   error
	Cause  error
	Detail string
}

// Wrap makes an Error. The format and args build Detail, and an empty format means no detail.
func Wrap(kind, cause error, format string, args ...interface{}) Error {
	return Error{
		Kind:   kind,
		Cause:  cause,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Error returns the detail and the cause joined by a colon. It is the kind itself if both are empty.
func (e Error) Error() string {
	var parts []string
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	if len(parts) == 0 {
		return e.Kind.Error()
	}
	return strings.Join(parts, ": ")
}

func (e Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// AssertionError reports that a value in a response was not the expected one.
type AssertionError struct {
	Kind error

	// Subject is what was asserted, like "status" or ".N".
	Subject string

	Expected string
	Actual   string
}

// Assertf makes an AssertionError. The format and args build Actual.
func Assertf(kind error, subject, expected string, actualFormat string, args ...interface{}) AssertionError {
	return AssertionError{
		Kind:     kind,
		Subject:  subject,
		Expected: expected,
		Actual:   fmt.Sprintf(actualFormat, args...),
	}
}

func (e AssertionError) Error() string {
	return fmt.Sprintf("%s: %s: expected %s but got %s", e.Kind, e.Subject, e.Expected, e.Actual)
}

func (e AssertionError) Unwrap() error {
	return e.Kind
}
