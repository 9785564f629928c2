// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer maps them to
// status codes and the response envelope. Callers branch on Kind and Code,
// never on Message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates invalid input data.
	KindValidation
	// KindConflict indicates a conflict with existing state (e.g., duplicate).
	KindConflict
	// KindForbidden indicates the action is not allowed for the user.
	KindForbidden
	// KindUnauthorized indicates authentication is required or failed.
	KindUnauthorized
	// KindBadRequest indicates a malformed or invalid request.
	KindBadRequest
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Code is a stable, machine-readable error identifier surfaced to clients.
type Code string

const (
	CodeNoToken           Code = "NO_TOKEN"
	CodeInvalidToken      Code = "INVALID_TOKEN"
	CodeProfileNotFound   Code = "PROFILE_NOT_FOUND"
	CodeInactiveAccount   Code = "INACTIVE_ACCOUNT"
	CodeAuthRequired      Code = "AUTH_REQUIRED"
	CodeForbiddenRole     Code = "FORBIDDEN_ROLE"
	CodeDuplicateEmail    Code = "DUPLICATE_EMAIL"
	CodeEmailInUse        Code = "EMAIL_IN_USE"
	CodeInvalidCreds      Code = "INVALID_CREDENTIALS"
	CodeNotFound          Code = "NOT_FOUND"
	CodeNoValidFields     Code = "NO_VALID_FIELDS"
	CodeIncorrectPassword Code = "INCORRECT_PASSWORD"
	CodeInvalidRole       Code = "INVALID_ROLE"
	CodeSelfModification  Code = "SELF_MODIFICATION"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeConflict          Code = "CONFLICT"
	CodeInvalidReference  Code = "INVALID_REFERENCE"
	CodeInternal          Code = "INTERNAL"
)

// FieldError is a single input violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Op      string       // Operation that failed (optional)
	Err     error        // Underlying error (optional)
	Fields  []FieldError // Field violations for validation errors (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new domain error with the given kind, code and message.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, code Code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// WithOp sets the operation that failed.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// NotFound creates a not found error.
func NotFound(code Code, message string) *Error {
	return New(KindNotFound, code, message)
}

// Validation creates a validation error carrying every field violation.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: "Validation Error", Fields: fields}
}

// Conflict creates a conflict error (e.g., duplicate resource).
func Conflict(code Code, message string) *Error {
	return New(KindConflict, code, message)
}

// Forbidden creates a forbidden error.
func Forbidden(code Code, message string) *Error {
	return New(KindForbidden, code, message)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(code Code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

// BadRequest creates a bad request error.
func BadRequest(code Code, message string) *Error {
	return New(KindBadRequest, code, message)
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, CodeInternal, message, err)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the error chain has no *Error.
func GetKind(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// GetCode extracts the error code, or "" when err carries none.
func GetCode(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// HasCode checks if err is an *Error with the given code.
func HasCode(err error, code Code) bool {
	return GetCode(err) == code
}
