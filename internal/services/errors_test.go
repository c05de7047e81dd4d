package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"osubot/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "difficulty", "calculate", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"difficulty", "calculate", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestFailureKindMapping(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrUnparseableTitle, "title", "parse", "missing separator", nil), "unparseable_title"},
		{services.Wrap(services.ErrNotFound, "resolver", "resolve", "", nil), "not_found"},
		{services.Wrap(services.ErrAPI, "osuapi", "get_user", "", errors.New("eof")), "api_failure"},
		{services.Wrap(services.ErrExternalTool, "ppcalc", "run", "", nil), "tool_failure"},
		{fmt.Errorf("post: %w", context.DeadlineExceeded), "timeout"},
		{errors.New("other"), "unknown"},
	}
	for _, tt := range tests {
		if got := services.FailureKind(tt.err); got != tt.want {
			t.Fatalf("FailureKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
