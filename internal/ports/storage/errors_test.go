package storage

import (
	"context"
	"errors"
	"testing"
)

func TestUnavailable_WrapsAndKeepsCause(t *testing.T) {
	cause := context.DeadlineExceeded

	err := Unavailable("tags.get", cause)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}

	// no anida
	again := Unavailable("tags.link", err)
	if again != err {
		t.Fatalf("expected same error when already wrapped")
	}
}

func TestUnavailable_Nil(t *testing.T) {
	if Unavailable("x", nil) != nil {
		t.Fatalf("expected nil")
	}
}
