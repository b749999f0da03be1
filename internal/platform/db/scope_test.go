package db

import (
	"context"
	"testing"
)

func TestHospitalIDRoundTrip(t *testing.T) {
	ctx := WithHospitalID(context.Background(), "7f6e0a52-6a55-4f0e-9f3e-1c2d3e4f5a6b")
	if got := HospitalFromContext(ctx); got != "7f6e0a52-6a55-4f0e-9f3e-1c2d3e4f5a6b" {
		t.Errorf("unexpected hospital id: %q", got)
	}
}

func TestHospitalFromContextUnauthenticated(t *testing.T) {
	if got := HospitalFromContext(context.Background()); got != "" {
		t.Errorf("expected empty id on bare context, got %q", got)
	}
}

func TestConnFromContextDefaultsToNil(t *testing.T) {
	if ConnFromContext(context.Background()) != nil {
		t.Error("expected nil conn on bare context")
	}
}

func TestWithConnNilStaysPoolBound(t *testing.T) {
	ctx := WithConn(context.Background(), nil)
	if ConnFromContext(ctx) != nil {
		t.Error("nil pinned conn must not shadow the pool")
	}
}
