package ports

import (
	"context"
	"time"

	"caravel/domains/sellers/domain/entities"
)

// SellerActivatedEventType tags the event emitted when a seller goes active.
const SellerActivatedEventType = "SellerActivated@1"

// SellerActivatedEvent is the outbound payload for SellerActivated@1.
type SellerActivatedEvent struct {
	SellerID  string `json:"seller_id"`
	StoreName string `json:"store_name"`
}

type SellerRepository interface {
	GetSeller(ctx context.Context, sellerID string) (entities.Seller, error)
	CreateSeller(ctx context.Context, seller entities.Seller) error
	UpdateSeller(ctx context.Context, seller entities.Seller) error
}

// EventDedupStore remembers which event IDs a consumer already processed.
type EventDedupStore interface {
	Seen(ctx context.Context, consumer, eventID string) (bool, error)
	Mark(ctx context.Context, consumer, eventID string) error
}

type UnitOfWork interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

type OutboxAppender interface {
	Append(ctx context.Context, aggregateID, eventType string, payload []byte) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
