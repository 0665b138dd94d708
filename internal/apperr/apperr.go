// Package apperr defines the error kinds the application engine reports to
// callers. Handlers map codes to HTTP statuses; services branch on codes to
// distinguish state-precondition failures from bad data.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a category of failure.
type Code string

const (
	// CodeValidation covers missing or malformed caller input, including
	// incomplete mandatory sections at submit time.
	CodeValidation Code = "validation"
	// CodeInvalidState covers operations not permitted in the application's
	// current status, such as editing after submission or a double submit.
	CodeInvalidState Code = "invalid_state"
	// CodeInvalidTransition covers status changes that are not legal edges
	// in the lifecycle state machine.
	CodeInvalidTransition Code = "invalid_transition"
	// CodeConflict covers concurrent writes that violate a uniqueness
	// constraint, such as racing draft creation.
	CodeConflict Code = "conflict"
	// CodeNotFound covers unknown application or section identifiers.
	CodeNotFound Code = "not_found"
	// CodeInternal covers storage and infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a coded error with optional per-field detail.
type Error struct {
	Code    Code
	Message string
	// Fields maps an offending field or section name to a description of
	// what is wrong with it. Populated for validation errors.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error wrapping an optional cause.
func New(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}

// NewValidation creates a validation error carrying per-field detail.
func NewValidation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// FieldsOf returns the field detail carried by err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
