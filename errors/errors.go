package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status the status server answers with.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Processing failures ---

// ProcessingFailed creates the recoverable failure a processor returns when one
// unit of work could not be completed (bad frame, missing input, ...). The
// message is what ends up in the node's error slot.
func ProcessingFailed(message string) *AppError {
	return &AppError{
		Code: ErrCodeProcessingFailed, Message: message,
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: true,
	}
}

// ProcessingFailedf is ProcessingFailed with fmt.Sprintf formatting.
func ProcessingFailedf(format string, args ...any) *AppError {
	return ProcessingFailed(fmt.Sprintf(format, args...))
}

// Unexpected wraps an unclassified failure or a recovered panic value.
func Unexpected(cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnexpected, Message: "unexpected processing failure",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// FromPanic converts a recovered panic value into an Unexpected error.
func FromPanic(v any) *AppError {
	if err, ok := v.(error); ok {
		return Unexpected(err).WithDetail("panic", true)
	}
	return Unexpected(fmt.Errorf("%v", v)).WithDetail("panic", true)
}

// IsProcessingFailure reports whether err carries a recoverable processing failure.
func IsProcessingFailure(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == ErrCodeProcessingFailed
}

// --- Common Error Constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s %q not found", resource, id),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource, id string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("%s %q already exists", resource, id),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource, "id": id},
	}
}

// Conflict creates a new AppError for a conflict with the current state.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		HTTPStatus: http.StatusConflict, Retryable: true,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Timeout creates a new AppError for an operation that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is and As re-export the standard helpers so callers need a single import.
var (
	Is = stderrors.Is
	As = stderrors.As
)
