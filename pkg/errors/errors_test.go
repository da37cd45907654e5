package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
)

func TestLookupErrorKindSurvivesWrapping(t *testing.T) {
	base := NewLookupError(KindNoConstituency, StagePostcode, "postcode has no constituency", nil)
	wrapped := fmt.Errorf("resolve: %w", base)

	if got := KindOf(wrapped); got != KindNoConstituency {
		t.Fatalf("expected %s, got %s", KindNoConstituency, got)
	}
	if got := StageOf(wrapped); got != StagePostcode {
		t.Fatalf("expected stage %s, got %s", StagePostcode, got)
	}
	if IsKind(wrapped, KindNotFound) {
		t.Fatalf("NoConstituency must not be reported as NotFound")
	}
}

func TestKindOfNonLookupError(t *testing.T) {
	if got := KindOf(stderrors.New("plain")); got != "" {
		t.Fatalf("expected empty kind, got %q", got)
	}
}

func TestClassifyTransport(t *testing.T) {
	timeout := ClassifyTransport(StageProfile, fmt.Errorf("get: %w", context.DeadlineExceeded))
	if timeout.Kind != KindTimeout {
		t.Fatalf("expected timeout, got %s", timeout.Kind)
	}
	if timeout.StatusCode != 504 {
		t.Fatalf("expected 504, got %d", timeout.StatusCode)
	}

	refused := ClassifyTransport(StageProfile, stderrors.New("connection refused"))
	if refused.Kind != KindServiceUnavailable {
		t.Fatalf("expected service unavailable, got %s", refused.Kind)
	}
}

func TestAPIStatus(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewAPIError("boom", 502, nil))
	if got := APIStatus(err); got != 502 {
		t.Fatalf("expected 502, got %d", got)
	}
	if got := APIStatus(stderrors.New("x")); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidInput:         400,
		KindNotFound:             404,
		KindNoConstituency:       404,
		KindConstituencyNotFound: 404,
		KindNoCurrentMember:      404,
		KindProfileFetchFailed:   502,
		KindServiceUnavailable:   503,
		KindTimeout:              504,
	}
	for kind, want := range cases {
		if got := kind.HTTPStatus(); got != want {
			t.Errorf("%s: expected %d, got %d", kind, want, got)
		}
	}
}
