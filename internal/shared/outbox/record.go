package outbox

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPayloadBytes bounds the serialized event body stored per record.
const MaxPayloadBytes = 1 << 20

// Record is one emitted integration event awaiting delivery. The payload is
// the bare event body; the relay wraps it in the canonical envelope at
// publish time. A record never references another module's entities, only
// primitive identifiers and value data.
type Record struct {
	ID               uuid.UUID
	AggregateID      string
	EventType        string
	Payload          []byte
	Status           Status
	DeliveryAttempts int
	NextAttemptAt    time.Time
	LastError        string
	CreatedAt        time.Time
	SentAt           *time.Time
}

// NewRecord validates inputs and builds a pending record. CreatedAt comes
// from the caller's clock so records of one aggregate stay monotonic within
// a unit of work.
func NewRecord(aggregateID, eventType string, payload []byte, now time.Time) (Record, error) {
	aggregateID = strings.TrimSpace(aggregateID)
	if aggregateID == "" {
		return Record{}, ErrAggregateIDRequired
	}
	if _, _, err := ParseEventType(eventType); err != nil {
		return Record{}, err
	}
	if len(payload) == 0 {
		return Record{}, ErrPayloadRequired
	}
	if len(payload) > MaxPayloadBytes {
		return Record{}, ErrPayloadTooLarge
	}
	if !json.Valid(payload) {
		return Record{}, ErrPayloadNotJSON
	}

	return Record{
		ID:            uuid.New(),
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       append([]byte(nil), payload...),
		Status:        StatusPending,
		NextAttemptAt: now.UTC(),
		CreatedAt:     now.UTC(),
	}, nil
}
