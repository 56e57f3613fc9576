package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	err = New(ErrCodeNotFound, "missing", http.StatusNotFound)
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestProcessingFailed(t *testing.T) {
	err := ProcessingFailed("frame has no pixels")
	if err.Code != ErrCodeProcessingFailed {
		t.Errorf("expected PROCESSING_FAILED, got %s", err.Code)
	}
	if err.Message != "frame has no pixels" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if !err.Retryable {
		t.Error("processing failures are retried on the next iteration")
	}
}

func TestProcessingFailedf(t *testing.T) {
	err := ProcessingFailedf("expected %d sources, got %d", 1, 0)
	if err.Message != "expected 1 sources, got 0" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestIsProcessingFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"direct", ProcessingFailed("x"), true},
		{"wrapped", fmt.Errorf("blur: %w", ProcessingFailed("x")), true},
		{"other app error", NotFound("node", "a"), false},
		{"plain error", stderrors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsProcessingFailure(tc.err); got != tc.want {
				t.Errorf("IsProcessingFailure() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFromPanic(t *testing.T) {
	t.Run("error value", func(t *testing.T) {
		cause := stderrors.New("index out of range")
		err := FromPanic(cause)
		if err.Code != ErrCodeUnexpected {
			t.Errorf("expected UNEXPECTED_FAILURE, got %s", err.Code)
		}
		if !stderrors.Is(err, cause) {
			t.Error("expected cause to be unwrappable")
		}
		if err.Details["panic"] != true {
			t.Error("expected panic detail")
		}
	})

	t.Run("non-error value", func(t *testing.T) {
		err := FromPanic("nil map write")
		if !strings.Contains(err.Error(), "nil map write") {
			t.Errorf("Error() should contain panic value, got %q", err.Error())
		}
	})
}

func TestAppError_NotFound(t *testing.T) {
	err := NotFound("component", "processor.blur")
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["id"] != "processor.blur" {
		t.Errorf("expected id detail, got %v", err.Details["id"])
	}

	err = NotFound("pipeline", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Internal(nil).WithCause(cause)
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("Unwrap should return cause")
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", AlreadyExists("edge", "a->b"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError in chain")
	}
	if appErr.Code != ErrCodeAlreadyExists {
		t.Errorf("expected ALREADY_EXISTS, got %s", appErr.Code)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error is not an AppError")
	}
}

func TestToResponse(t *testing.T) {
	resp := InvalidInput("source", "self loop").ToResponse()
	if resp.Error.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "source" {
		t.Errorf("expected field detail, got %v", resp.Error.Details)
	}
}
