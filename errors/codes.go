package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Processing errors raised from inside a node's Process call.
const (
	// ErrCodeProcessingFailed is a recoverable, domain-level node failure.
	// The runner records its message in the node's error slot and moves on.
	ErrCodeProcessingFailed ErrorCode = "PROCESSING_FAILED"
	// ErrCodeUnexpected marks a failure the node did not classify, including
	// recovered panics.
	ErrCodeUnexpected ErrorCode = "UNEXPECTED_FAILURE"
)

// Graph and catalog errors
const (
	// ErrCodeNotFound indicates the requested node, component or pipeline was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates a duplicate edge, node or component.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeConflict indicates the request conflicts with the current run state.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeTimeout indicates an operation exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProcessingFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeConflict:         true,
}

// IsRetryableCode returns true if the error code indicates the operation can
// succeed on a later attempt (for nodes: on the next loop iteration).
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
