// Package apperr defines the error kinds shared by taglog's packages and the
// exit codes the CLI maps them to.
package apperr

import (
	"errors"
	"fmt"
)

// Exit codes returned by the taglog binary.
const (
	ExitSuccess  = 0
	ExitRuntime  = 1
	ExitFormat   = 2
	ExitProtocol = 3
)

// FormatError reports input that does not match an expected grammar, such as
// a malformed semantic version or repository URL. Input is echoed back.
type FormatError struct {
	Kind  string
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Input)
}

// NewFormatError returns a FormatError for the given kind and input.
func NewFormatError(kind, input string) *FormatError {
	return &FormatError{Kind: kind, Input: input}
}

// PaginationError reports a paginated response that violates the Link header
// contract. It is never retried.
type PaginationError struct {
	Header string
	Reason string
}

func (e *PaginationError) Error() string {
	if e.Header == "" {
		return "pagination protocol error: " + e.Reason
	}
	return fmt.Sprintf("pagination protocol error: %s (Link: %s)", e.Reason, e.Header)
}

// TransportError wraps any failure from the HTTP layer.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsFormat reports whether err is or wraps a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsPagination reports whether err is or wraps a PaginationError.
func IsPagination(err error) bool {
	var pe *PaginationError
	return errors.As(err, &pe)
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsFormat(err):
		return ExitFormat
	case IsPagination(err), IsTransport(err):
		return ExitProtocol
	default:
		return ExitRuntime
	}
}
