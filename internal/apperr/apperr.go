// Package apperr defines the error taxonomy shared by the engine, its
// services and its adapters. Every failure surfaced to a caller carries a
// Code; adapters translate codes into transport statuses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure.
type Code string

const (
	CodeValidation              Code = "VALIDATION_ERROR"
	CodeInsufficientPermission  Code = "INSUFFICIENT_PERMISSION"
	CodePermissionDenied        Code = "PERMISSION_DENIED"
	CodeReasonTooShort          Code = "REASON_TOO_SHORT"
	CodeReasonTooLong           Code = "REASON_TOO_LONG"
	CodeScoreNotReached         Code = "SCORE_NOT_REACHED"
	CodeInvalidStatusTransition Code = "INVALID_STATUS_TRANSITION"
	CodeConflict                Code = "CONFLICT"
	CodeAlreadyDecided          Code = "ALREADY_DECIDED"
	CodeNotFound                Code = "NOT_FOUND"
	CodeInternal                Code = "INTERNAL_ERROR"
)

// Error is a coded failure. Details carries machine-readable context such as
// the permission level a gate required.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error.
func Wrap(code Code, err error, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithDetail returns e with key set in its details.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NotFound is shorthand for a missing entity.
func NotFound(entity, id string) *Error {
	return New(CodeNotFound, "%s %s not found", entity, id).WithDetail("id", id)
}

// CodeOf returns the code carried by err, CodeInternal for uncoded errors,
// and the empty code for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// DetailsOf returns the details of the first coded error in err's chain.
func DetailsOf(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// Internal wraps err as INTERNAL_ERROR unless it already carries a code.
func Internal(err error, message string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Wrap(CodeInternal, err, message)
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case "":
		return http.StatusOK
	case CodeValidation, CodeReasonTooShort, CodeReasonTooLong, CodeScoreNotReached:
		return http.StatusBadRequest
	case CodeInsufficientPermission, CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeAlreadyDecided, CodeInvalidStatusTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
