// Package domainerrors provides coded errors shared by all domain services.
// Codes classify failures for transport mapping (HTTP status, severity) without
// leaking infrastructure details to callers.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeVerificationFailed marks an untrusted, expired or missing identity.
	// The identification result could not be validated, so no rule may run.
	CodeVerificationFailed Code = "verification_failed"

	// CodePolicyViolation marks a rule match that denies the action.
	CodePolicyViolation Code = "policy_violation"

	// CodeRateLimited marks a cooldown or attempt-cap denial.
	CodeRateLimited Code = "rate_limited"

	// CodeStorage marks an infrastructure fault in a backing store.
	// Storage faults must never degrade to an allow decision.
	CodeStorage Code = "storage_error"

	// CodeExhausted marks a rule chain that produced no verdict (policy bug).
	CodeExhausted Code = "evaluation_exhausted"

	CodeMethodNotAllowed Code = "method_not_allowed"
	CodeInvalidInput     Code = "invalid_input"
	CodeUnauthorized     Code = "unauthorized"
	CodeNotFound         Code = "not_found"
	CodeInternal         Code = "internal"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's classification code.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message without the cause chain.
func (e *Error) Message() string { return e.message }

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message. Returns nil if err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{code: code, message: message, cause: err}
}

// CodeOf extracts the code from err, unwrapping as needed.
// Non-domain errors report CodeInternal.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
