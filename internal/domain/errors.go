package domain

import (
	"errors"
	"net/http"
)

// ErrorCode classifies a domain failure. The set is closed.
type ErrorCode string

// Error codes for domain failures.
const (
	CodeValidation    ErrorCode = "VALIDATION"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeConflict      ErrorCode = "CONFLICT"
	CodeBusinessLogic ErrorCode = "BUSINESS_LOGIC"
	CodeDatabase      ErrorCode = "DATABASE"
	// CodeUnknown is reserved; the CRUD layer never produces it.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Error is a classified failure with an optional cause and metadata.
// Once created it travels up through the service and repository layers
// unchanged and is rendered to the client by pkg.Error.
type Error struct {
	Code    ErrorCode      `json:"error"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the cause for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status for the error's code.
func (e *Error) Status() int {
	return StatusOf(e.Code)
}

// ErrorOption customizes an Error at construction time.
type ErrorOption func(*Error)

// WithCause records the original error.
func WithCause(err error) ErrorOption {
	return func(e *Error) {
		e.Cause = err
	}
}

// WithMeta attaches a metadata entry.
func WithMeta(key string, value any) ErrorOption {
	return func(e *Error) {
		if e.Meta == nil {
			e.Meta = make(map[string]any)
		}
		e.Meta[key] = value
	}
}

// NewError creates an Error with the given code and message.
func NewError(code ErrorCode, message string, opts ...ErrorOption) *Error {
	e := &Error{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewValidationError reports malformed, missing or out-of-range input.
func NewValidationError(message string, opts ...ErrorOption) *Error {
	return NewError(CodeValidation, message, opts...)
}

// NewNotFoundError reports that a referenced record does not exist.
func NewNotFoundError(message string, opts ...ErrorOption) *Error {
	return NewError(CodeNotFound, message, opts...)
}

// NewConflictError reports a uniqueness or relational conflict.
func NewConflictError(message string, opts ...ErrorOption) *Error {
	return NewError(CodeConflict, message, opts...)
}

// NewBusinessLogicError reports that a domain rule blocks the operation.
func NewBusinessLogicError(message string, opts ...ErrorOption) *Error {
	return NewError(CodeBusinessLogic, message, opts...)
}

// NewDatabaseError reports a persistence failure not otherwise classified.
func NewDatabaseError(message string, opts ...ErrorOption) *Error {
	return NewError(CodeDatabase, message, opts...)
}

// StatusOf maps an error code to its HTTP status. Unknown codes map to 500.
func StatusOf(code ErrorCode) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeBusinessLogic:
		return http.StatusUnprocessableEntity
	case CodeDatabase:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// AsDomainError returns the first *Error in err's chain.
func AsDomainError(err error) (*Error, bool) {
	var de *Error
	if err != nil && errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsDomainError reports whether err is or wraps an *Error.
func IsDomainError(err error) bool {
	_, ok := AsDomainError(err)
	return ok
}

// IsValidation reports whether err is or wraps an *Error with CodeValidation.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsNotFound reports whether err is or wraps an *Error with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsConflict reports whether err is or wraps an *Error with CodeConflict.
func IsConflict(err error) bool {
	return hasCode(err, CodeConflict)
}

// IsBusinessLogic reports whether err is or wraps an *Error with CodeBusinessLogic.
func IsBusinessLogic(err error) bool {
	return hasCode(err, CodeBusinessLogic)
}

// IsDatabase reports whether err is or wraps an *Error with CodeDatabase.
func IsDatabase(err error) bool {
	return hasCode(err, CodeDatabase)
}

func hasCode(err error, code ErrorCode) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}

// HTTPStatusCode maps any error to an HTTP status code.
// Non-domain errors and nil map to http.StatusInternalServerError.
func HTTPStatusCode(err error) int {
	if de, ok := AsDomainError(err); ok {
		return StatusOf(de.Code)
	}
	return http.StatusInternalServerError
}
