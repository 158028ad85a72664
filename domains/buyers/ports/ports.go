package ports

import (
	"context"
	"time"

	"caravel/domains/buyers/domain/entities"
)

// BuyerRegisteredEventType tags the event emitted when a buyer account is
// created.
const BuyerRegisteredEventType = "BuyerRegistered@1"

// BuyerRegisteredEvent is the outbound payload for BuyerRegistered@1.
type BuyerRegisteredEvent struct {
	BuyerID     string `json:"buyer_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type BuyerRepository interface {
	GetBuyer(ctx context.Context, buyerID string) (entities.Buyer, error)
	GetBuyerByEmail(ctx context.Context, email string) (entities.Buyer, error)
	CreateBuyer(ctx context.Context, buyer entities.Buyer) error
}

type UnitOfWork interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

type OutboxAppender interface {
	Append(ctx context.Context, aggregateID, eventType string, payload []byte) (string, error)
}

// BuyerSummary is the value shape the BuyerPort exposes to other modules.
type BuyerSummary struct {
	BuyerID     string `json:"buyer_id"`
	DisplayName string `json:"display_name"`
}

// BuyerPort is the capability this module exposes to the rest of the
// system, resolved through the capability registry under BuyerPortName.
type BuyerPort interface {
	GetBuyerSummary(ctx context.Context, buyerID string) (BuyerSummary, error)
}

// BuyerPortName is the registry binding name for BuyerPort.
const BuyerPortName = "buyers.v1"

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
