package outbox_test

import (
	"errors"
	"testing"

	"caravel/internal/shared/outbox"
)

func TestStatusTransitions(t *testing.T) {
	if !outbox.StatusPending.CanTransitionTo(outbox.StatusSent) {
		t.Fatalf("PENDING to SENT must be legal")
	}
	if !outbox.StatusPending.CanTransitionTo(outbox.StatusFailed) {
		t.Fatalf("PENDING to FAILED must be legal")
	}
	if outbox.StatusSent.CanTransitionTo(outbox.StatusPending) {
		t.Fatalf("SENT is terminal")
	}
	if outbox.StatusSent.CanTransitionTo(outbox.StatusFailed) {
		t.Fatalf("SENT is terminal")
	}
	if outbox.StatusFailed.CanTransitionTo(outbox.StatusSent) {
		t.Fatalf("FAILED is terminal")
	}
	if outbox.StatusPending.IsTerminal() {
		t.Fatalf("PENDING is not terminal")
	}
	if !outbox.StatusSent.IsTerminal() || !outbox.StatusFailed.IsTerminal() {
		t.Fatalf("SENT and FAILED are terminal")
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "SENT", "FAILED"} {
		status, err := outbox.ParseStatus(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if status.String() != raw {
			t.Fatalf("round trip mismatch for %q", raw)
		}
	}
	if _, err := outbox.ParseStatus("pending"); !errors.Is(err, outbox.ErrStatusUnknown) {
		t.Fatalf("expected ErrStatusUnknown, got %v", err)
	}
}
