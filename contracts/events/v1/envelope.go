package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical wire shape for integration events published to
// the broker. Consumers deduplicate by EventID; AggregateID is the broker
// partition key, so all events of one aggregate stay on one partition.
// This package is contract-only and must stay backward compatible.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SchemaVersion int             `json:"schema_version"`
	AggregateID   string          `json:"aggregate_id"`
	SourceModule  string          `json:"source_module"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Data          json.RawMessage `json:"data"`
}
