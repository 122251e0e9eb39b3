// Package errs provides structured, user-friendly errors with machine-parseable codes.
package errs

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	// General
	ErrUnknown    ErrorCode = "ERR-000"
	ErrInternal   ErrorCode = "ERR-001"
	ErrConfig     ErrorCode = "ERR-002"
	ErrValidation ErrorCode = "ERR-003"

	// Probe errors
	ErrProbeTransport ErrorCode = "ERR-PROBE-001"
	ErrProbeStatus    ErrorCode = "ERR-PROBE-002"
	ErrProbeDecode    ErrorCode = "ERR-PROBE-003"

	// Run errors
	ErrRunBusinessFailed ErrorCode = "ERR-RUN-001"
	ErrRunPingFailed     ErrorCode = "ERR-RUN-002"
	ErrRunInterrupted    ErrorCode = "ERR-RUN-003"
)

// ProbeError is the standard structured error type used across apiprobe packages.
type ProbeError struct {
	Code   ErrorCode // Machine-parseable error code
	Op     string    // Operation chain, e.g., "run.business.analyze"
	URL    string    // Target the operation was issued against
	Cause  error     // Wrapped upstream error
	Advice string    // Human-readable remediation hint
}

func (e *ProbeError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.URL, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing error message with remediation advice.
func (e *ProbeError) UserMessage() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Op)
	if e.URL != "" {
		msg += fmt.Sprintf(" (url: %s)", e.URL)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Advice != "" {
		msg += fmt.Sprintf("\n  → %s", e.Advice)
	}
	return msg
}

// New creates a new ProbeError.
func New(code ErrorCode, op string, cause error) *ProbeError {
	return &ProbeError{Code: code, Op: op, Cause: cause}
}

// Newf creates a new ProbeError with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *ProbeError {
	return &ProbeError{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithURL sets the target URL on a ProbeError.
func (e *ProbeError) WithURL(url string) *ProbeError {
	e.URL = url
	return e
}

// WithAdvice sets the human-readable remediation hint on a ProbeError.
func (e *ProbeError) WithAdvice(advice string) *ProbeError {
	e.Advice = advice
	return e
}

// Wrap wraps an existing error as a ProbeError at a new operation boundary.
func Wrap(err error, code ErrorCode, op string) *ProbeError {
	if err == nil {
		return nil
	}
	return &ProbeError{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is a ProbeError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// AsProbe extracts the *ProbeError from err, or returns nil.
func AsProbe(err error) *ProbeError {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}
