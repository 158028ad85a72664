package outbox

import "errors"

var (
	ErrStatusUnknown       = errors.New("unknown outbox status")
	ErrAggregateIDRequired = errors.New("outbox aggregate id is required")
	ErrEventTypeRequired   = errors.New("outbox event type is required")
	ErrEventTypeMalformed  = errors.New("outbox event type must be Name@majorVersion")
	ErrPayloadRequired     = errors.New("outbox payload is required")
	ErrPayloadNotJSON      = errors.New("outbox payload must be valid JSON")
	ErrPayloadTooLarge     = errors.New("outbox payload exceeds maximum size")
	ErrStoreRequired       = errors.New("outbox store is required")
	ErrPublisherRequired   = errors.New("outbox publisher is required")
	ErrRecordNotFound      = errors.New("outbox record not found")
	ErrRelayAlreadyRunning = errors.New("outbox relay is already running")
)
