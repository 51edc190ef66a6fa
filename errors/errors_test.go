package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Conflict(t *testing.T) {
	err := Conflict("username already exists")
	if err.Code != ErrCodeConflict {
		t.Errorf("expected CONFLICT, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected 409, got %d", err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("Conflict should not be retryable")
	}
}

func TestAppError_Unauthenticated_DefaultMessage(t *testing.T) {
	err := Unauthenticated("")
	if err.Code != ErrCodeUnauthenticated {
		t.Errorf("expected UNAUTHENTICATED, got %s", err.Code)
	}
	if err.Message == "" {
		t.Error("expected a default message")
	}
	if err.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", err.HTTPStatus)
	}
}

func TestAppError_Forbidden(t *testing.T) {
	err := Forbidden("")
	if err.Code != ErrCodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected 403, got %d", err.HTTPStatus)
	}
}

func TestAppError_StorageFailure_Retryable(t *testing.T) {
	cause := fmt.Errorf("relation \"users.customer\" does not exist")
	err := StorageFailure(cause)
	if err.Code != ErrCodeStorageFailure {
		t.Errorf("expected STORAGE_FAILURE, got %s", err.Code)
	}
	if !err.Retryable {
		t.Error("StorageFailure should be retryable by external clients")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be wrapped")
	}
	if !strings.Contains(err.Error(), "cause:") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := Validation("bad payload").WithDetail("field", "username")
	if err.Details["field"] != "username" {
		t.Errorf("expected field=username, got %v", err.Details["field"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := MalformedClaims("permissions is not a list")
	wrapped := fmt.Errorf("verify: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to find the AppError")
	}
	if got.Code != ErrCodeMalformedClaims {
		t.Errorf("expected MALFORMED_CLAIMS, got %s", got.Code)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected plain error to not be an AppError")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("login: %w", Unauthenticated(""))
	if !HasCode(err, ErrCodeUnauthenticated) {
		t.Error("expected HasCode to match UNAUTHENTICATED")
	}
	if HasCode(err, ErrCodeForbidden) {
		t.Error("expected HasCode to reject FORBIDDEN")
	}
}

func TestToResponse(t *testing.T) {
	err := Conflict("duplicate").WithDetail("username", "alice")
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeConflict {
		t.Errorf("expected CONFLICT, got %s", resp.Error.Code)
	}
	if resp.Error.Details["username"] != "alice" {
		t.Errorf("expected username detail, got %v", resp.Error.Details)
	}
}
