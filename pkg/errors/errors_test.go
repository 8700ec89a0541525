package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidRoot, "not a directory: %s", "/tmp/missing")

	if err.Code != ErrCodeInvalidRoot {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidRoot)
	}
	if err.Message != "not a directory: /tmp/missing" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause should be nil, got %v", err.Cause)
	}

	want := "INVALID_ROOT: not a directory: /tmp/missing"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(ErrCodeEntryScan, cause, "read %s", "secrets")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}

	want := "ENTRY_SCAN: read secrets: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidRoot, "bad root")

	if !Is(err, ErrCodeInvalidRoot) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeEntryScan) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeInvalidRoot) {
		t.Error("Is should not match non-structured errors")
	}

	// Code survives an extra layer of wrapping.
	wrapped := fmt.Errorf("scan: %w", err)
	if !Is(wrapped, ErrCodeInvalidRoot) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "missing")); got != ErrCodeNotFound {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeNotFound)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode for plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidRoot, "root does not exist")
	if got := UserMessage(err); got != "root does not exist" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}
