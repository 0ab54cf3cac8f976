// Package domain defines the core domain models for famcheck.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories surfaced to callers.
//
// Callers branch on the kind (via KindOf or errors.Is against the sentinel
// errors below) instead of matching error strings.
type ErrorKind string

const (
	KindBadRequest       ErrorKind = "bad_request"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindForbidden        ErrorKind = "forbidden"
	KindNotFound         ErrorKind = "not_found"
	KindConflict         ErrorKind = "conflict"
	KindServerError      ErrorKind = "server_error"
	KindUnexpectedStatus ErrorKind = "unexpected_status"
	KindInvalidResponse  ErrorKind = "invalid_response"
	KindTransportFailure ErrorKind = "transport_failure"
	KindDecodeFailure    ErrorKind = "decode_failure"

	// Construction kinds indicate a programming defect, never a runtime condition.
	KindInvalidURL    ErrorKind = "invalid_url"
	KindSerialization ErrorKind = "serialization"
)

// DomainError represents a classified error with a structured error code.
type DomainError struct {
	Kind    ErrorKind // Closed category used for branching
	Code    string    // Stable error code (e.g., "FC-HTTP-4010")
	Message string    // Human-readable message
	Details string    // Optional additional details
	Status  int       // HTTP status code, when the error came from a response
	Cause   error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Status != 0 && e.Kind == KindUnexpectedStatus {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
// Two domain errors match when their codes are equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given kind, code and message.
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// WithStatus returns a copy of the error carrying the HTTP status code.
func (e *DomainError) WithStatus(status int) *DomainError {
	c := *e
	c.Status = status
	return &c
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// KindOf returns the kind of a DomainError anywhere in err's chain,
// or the empty kind when err carries none.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// StatusOf returns the HTTP status recorded on a DomainError in err's chain.
func StatusOf(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Status
	}
	return 0
}

// ============================================================================
// Protocol Errors (HTTP)
// ============================================================================

var (
	// ErrBadRequest indicates the server rejected the request as malformed (400).
	ErrBadRequest = NewDomainError(KindBadRequest, "FC-HTTP-4000", "bad request")

	// ErrUnauthorized indicates missing or invalid credentials (401).
	ErrUnauthorized = NewDomainError(KindUnauthorized, "FC-HTTP-4010", "unauthorized")

	// ErrForbidden indicates the caller lacks permission (403).
	ErrForbidden = NewDomainError(KindForbidden, "FC-HTTP-4030", "forbidden")

	// ErrNotFound indicates the resource does not exist (404).
	ErrNotFound = NewDomainError(KindNotFound, "FC-HTTP-4040", "not found")

	// ErrConflict indicates the resource already exists (409).
	ErrConflict = NewDomainError(KindConflict, "FC-HTTP-4090", "conflict")

	// ErrServerError indicates a server-side failure (>= 500).
	ErrServerError = NewDomainError(KindServerError, "FC-HTTP-5000", "server error")

	// ErrUnexpectedStatus covers every status code without a dedicated kind.
	ErrUnexpectedStatus = NewDomainError(KindUnexpectedStatus, "FC-HTTP-0000", "unexpected status")
)

// ============================================================================
// Network Errors (NET)
// ============================================================================

var (
	// ErrInvalidResponse indicates a response without a well-formed status.
	ErrInvalidResponse = NewDomainError(KindInvalidResponse, "FC-NET-5020", "invalid response")

	// ErrTransportFailure indicates the request could not be dispatched or completed.
	ErrTransportFailure = NewDomainError(KindTransportFailure, "FC-NET-5030", "transport failure")

	// ErrDecodeFailure indicates the payload did not match the expected shape.
	ErrDecodeFailure = NewDomainError(KindDecodeFailure, "FC-NET-5021", "decode failure")
)

// ============================================================================
// Construction Errors (REQ)
// ============================================================================

var (
	// ErrInvalidURL indicates the base URL and path could not be resolved.
	ErrInvalidURL = NewDomainError(KindInvalidURL, "FC-REQ-1001", "invalid url")

	// ErrSerialization indicates a request body could not be encoded.
	ErrSerialization = NewDomainError(KindSerialization, "FC-REQ-1002", "serialization failed")
)
