package ports

import (
	"context"
	"time"

	"caravel/domains/products/domain/entities"
)

// Event type tags emitted by this module. The major version increments on
// any breaking payload change and maps onto the broker topic segment.
const (
	ProductCreatedEventType      = "ProductCreated@1"
	ProductPriceChangedEventType = "ProductPriceChanged@1"
)

// ProductCreatedEvent is the outbound payload for ProductCreated@1. It
// carries only identifiers and value data, never entity references.
type ProductCreatedEvent struct {
	ProductID  string `json:"product_id"`
	SellerID   string `json:"seller_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

// ProductPriceChangedEvent is the outbound payload for ProductPriceChanged@1.
type ProductPriceChangedEvent struct {
	ProductID     string `json:"product_id"`
	OldPriceCents int64  `json:"old_price_cents"`
	NewPriceCents int64  `json:"new_price_cents"`
	Currency      string `json:"currency"`
}

// ProductListFilter defines read-side filtering and pagination.
type ProductListFilter struct {
	SellerID string
	Status   entities.ProductStatus
	Cursor   string
	Limit    int
}

// ProductRepository owns product persistence. Writes join the surrounding
// unit of work so state and outbox commit together.
type ProductRepository interface {
	GetProduct(ctx context.Context, productID string) (entities.Product, error)
	ListProducts(ctx context.Context, filter ProductListFilter) ([]entities.Product, string, error)
	CreateProduct(ctx context.Context, product entities.Product) error
	UpdatePrice(ctx context.Context, productID string, priceCents int64, updatedAt time.Time) error
}

// UnitOfWork opens one atomic transaction scope around a use-case body. The
// scope never spans another module's store.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

// OutboxAppender appends a pending integration event inside the current
// unit of work and returns the assigned event id.
type OutboxAppender interface {
	Append(ctx context.Context, aggregateID, eventType string, payload []byte) (string, error)
}

// ProductChange is the module-internal notification published after a
// committed product mutation. It carries no durability guarantee and never
// leaves the module.
type ProductChange struct {
	ProductID  string
	Kind       string
	PriceCents int64
	OccurredAt time.Time
}

// ChangeNotifier fans ProductChange out to in-module observers.
type ChangeNotifier interface {
	ProductChanged(ctx context.Context, change ProductChange) error
}

// ProductSnapshot is the value shape the CatalogPort exposes to other
// modules: an ID-only reference plus copied value data.
type ProductSnapshot struct {
	ProductID  string `json:"product_id"`
	SellerID   string `json:"seller_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	Active     bool   `json:"active"`
}

// CatalogPort is the capability this module exposes to the rest of the
// system. Resolved through the capability registry under CatalogPortName;
// callers never see whether the adapter is in-process or remote.
type CatalogPort interface {
	GetProductSnapshot(ctx context.Context, productID string) (ProductSnapshot, error)
}

// CatalogPortName is the registry binding name for CatalogPort.
const CatalogPortName = "catalog.v1"

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts product and event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
