package outbox

import "fmt"

// Status is an outbox record lifecycle state.
type Status string

const (
	// StatusPending marks a record awaiting delivery. Records are born
	// pending inside the use-case transaction.
	StatusPending Status = "PENDING"
	// StatusSent marks a record acknowledged by the broker. Terminal.
	StatusSent Status = "SENT"
	// StatusFailed marks a record given up on after the attempt ceiling or a
	// non-retryable publish error. Terminal; surfaced for inspection.
	StatusFailed Status = "FAILED"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrStatusUnknown, raw)
	}
	return status, nil
}

// IsValid reports whether the status is part of the record lifecycle.
func (status Status) IsValid() bool {
	switch status {
	case StatusPending, StatusSent, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (status Status) IsTerminal() bool {
	return status == StatusSent || status == StatusFailed
}

// CanTransitionTo reports whether a transition from status to next is legal.
// The only legal transitions are PENDING to SENT and PENDING to FAILED.
func (status Status) CanTransitionTo(next Status) bool {
	if status != StatusPending {
		return false
	}
	return next == StatusSent || next == StatusFailed
}

func (status Status) String() string {
	return string(status)
}
