package ports

import (
	"context"
	"time"

	"caravel/domains/cart/domain/entities"
)

// CartItemAddedEventType tags the event emitted when a line lands in a cart.
const CartItemAddedEventType = "CartItemAdded@1"

// CartItemAddedEvent is the outbound payload for CartItemAdded@1.
type CartItemAddedEvent struct {
	CartID         string `json:"cart_id"`
	BuyerID        string `json:"buyer_id"`
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Currency       string `json:"currency"`
}

// CartRepository owns cart persistence. Writes join the surrounding unit of
// work; reads outside a unit of work see committed state only.
type CartRepository interface {
	GetCart(ctx context.Context, cartID string) (entities.Cart, error)
	GetCartByBuyer(ctx context.Context, buyerID string) (entities.Cart, error)
	CreateCart(ctx context.Context, cart entities.Cart) error
	UpdateCart(ctx context.Context, cart entities.Cart) error
	// ListCartsWithProduct returns the IDs of carts holding the product, for
	// the price-changed consumer.
	ListCartsWithProduct(ctx context.Context, productID string) ([]string, error)
}

// EventDedupStore remembers which event IDs a consumer already processed.
// At-least-once delivery makes redelivery normal; the store turns it into
// effectively-once handling.
type EventDedupStore interface {
	Seen(ctx context.Context, consumer, eventID string) (bool, error)
	Mark(ctx context.Context, consumer, eventID string) error
}

// UnitOfWork opens one atomic transaction scope around a use-case body.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

// OutboxAppender appends a pending integration event inside the current
// unit of work and returns the assigned event id.
type OutboxAppender interface {
	Append(ctx context.Context, aggregateID, eventType string, payload []byte) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
