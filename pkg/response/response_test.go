package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestError_Is(t *testing.T) {
	sentinel := NewKindError(http.StatusBadRequest, "DECODE_FAILURE", "decode failed")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"same value", sentinel, true},
		{"wrapped", fmt.Errorf("analyze: %w", sentinel), true},
		{"with detail", WithDetail(sentinel, map[string]any{"size": 0}), true},
		{"other code", NewKindError(http.StatusInternalServerError, "DECODE_FAILURE", "decode failed"), false},
		{"other message", NewKindError(http.StatusBadRequest, "DECODE_FAILURE", "something else"), false},
		{"plain error", errors.New("decode failed"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := errors.Is(tc.err, sentinel); got != tc.want {
				t.Errorf("errors.Is = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWithDetail(t *testing.T) {
	sentinel := NewKindError(http.StatusBadRequest, "PROBE_FAILED", "probe failed")

	detailed := WithDetail(sentinel, []string{"a"})

	var got *Error
	if !errors.As(detailed, &got) {
		t.Fatalf("WithDetail returned %T", detailed)
	}
	if got.Kind != "PROBE_FAILED" || got.Code != http.StatusBadRequest {
		t.Errorf("copy lost its identity: %+v", got)
	}
	if got.Detail == nil {
		t.Error("detail missing on copy")
	}

	var orig *Error
	_ = errors.As(sentinel, &orig)
	if orig.Detail != nil {
		t.Error("sentinel was mutated")
	}

	plain := errors.New("plain")
	if WithDetail(plain, 1) != plain {
		t.Error("non response errors should pass through")
	}
}
