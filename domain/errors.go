package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeInvalid       ErrorCode = "INVALID"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeDataIntegrity ErrorCode = "DATA_INTEGRITY"
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	ErrCodeTransport     ErrorCode = "TRANSPORT"
	ErrCodeInternal      ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound          = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound          = NewError(ErrCodeNotFound, "task not found")
	ErrInvalidPayload        = NewError(ErrCodeInvalid, "invalid payload")
	ErrEmailExists           = NewError(ErrCodeConflict, "a user with this email already exists")
	ErrUserNameExists        = NewError(ErrCodeConflict, "a user with this name already exists")
	ErrMissingCompletionDate = NewError(ErrCodeDataIntegrity, "completed task has no completion date")
	ErrEmptyPool             = NewError(ErrCodeConfiguration, "notification pool is empty")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// CodeOf returns the classification of the outermost domain error in err.
func CodeOf(err error) (ErrorCode, bool) {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code, true
	}
	return "", false
}

// FieldError describes a validation failure on a single field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError carries per-field validation failures.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	msg := "validation failed on " + e.Fields[0].Field
	if len(e.Fields) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(e.Fields)-1)
	}
	return msg
}

// FieldErrors extracts field level details from err, if any.
func FieldErrors(err error) []FieldError {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return nil
}
