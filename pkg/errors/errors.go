package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrFinalized          = New("FINALIZED", http.StatusConflict, "resource finalized")
	ErrInvalidWeights     = New("INVALID_WEIGHTS", http.StatusBadRequest, "invalid component weights")
)

// Scheduling-domain error kinds. A ParseError means a loader or filter file
// could not make sense of its input; an InvariantViolation means the
// catalog or group set the caller assembled breaks a documented precondition
// (e.g. a code appearing in both the mandatory and blacklisted sets); an
// IOError wraps a failure reaching a file, database, or cache; and
// EnumerationEmpty reports that a well-formed request produced zero
// schedules (distinct from an error: the request just has no solution).
var (
	ErrParse              = New("PARSE_ERROR", http.StatusBadRequest, "could not parse input")
	ErrInvariantViolation = New("INVARIANT_VIOLATION", http.StatusBadRequest, "invariant violation")
	ErrIO                 = New("IO_ERROR", http.StatusBadGateway, "io error")
	ErrEnumerationEmpty   = New("ENUMERATION_EMPTY", http.StatusOK, "no schedules satisfy the given constraints")
)

// NewParseError wraps err (or stands alone, if err is nil) as a ParseError
// naming where parsing failed.
func NewParseError(where string, err error) *Error {
	if err == nil {
		return Clone(ErrParse, where)
	}
	return Wrap(err, ErrParse.Code, ErrParse.Status, where)
}

// NewInvariantViolation reports a broken precondition with a specific message.
func NewInvariantViolation(message string) *Error {
	return Clone(ErrInvariantViolation, message)
}

// NewIOError wraps a failure reaching a file, database, or cache.
func NewIOError(where string, err error) *Error {
	return Wrap(err, ErrIO.Code, ErrIO.Status, where)
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
