package outbox

import (
	"context"
	"time"
)

// Appender appends a pending record from inside an already-open unit of
// work. Implementations must fail with uow.ErrNoActiveTransaction when no
// transaction is carried by ctx, and must commit the record atomically with
// the domain state mutation of the same unit of work. No network I/O.
type Appender interface {
	Append(ctx context.Context, aggregateID, eventType string, payload []byte) (Record, error)
}

// Store is the relay-side view of one domain module's outbox table. All
// relay instances of a module share one store; the conditional MarkSent is
// the only coordination between them.
type Store interface {
	// ListPending returns records with status PENDING ordered by created_at,
	// bounded by limit. Records still backing off are included so the relay
	// can hold back the whole aggregate rather than invert its order.
	ListPending(ctx context.Context, limit int) ([]Record, error)
	// MarkSent flips PENDING to SENT iff the record is still PENDING, and
	// counts the successful publish attempt in delivery_attempts. Returns
	// false when a racing relay instance won the flip; that is a benign
	// outcome, not an error.
	MarkSent(ctx context.Context, id string, sentAt time.Time) (bool, error)
	// RecordFailure increments delivery_attempts and schedules the next
	// attempt; the record stays PENDING.
	RecordFailure(ctx context.Context, id string, errMsg string, nextAttemptAt time.Time) error
	// MarkFailed moves the record to the terminal FAILED state so the relay
	// can progress past it. The record is kept for manual inspection.
	MarkFailed(ctx context.Context, id string, errMsg string) error
}

// Clock allows deterministic testing of backoff and ordering rules.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
