package cart

import (
	"context"
	"log/slog"

	buyerports "caravel/domains/buyers/ports"
	httpadapter "caravel/domains/cart/adapters/http"
	"caravel/domains/cart/adapters/memory"
	"caravel/domains/cart/application/commands"
	"caravel/domains/cart/application/queries"
	"caravel/domains/cart/application/workers"
	"caravel/domains/cart/ports"
	productports "caravel/domains/products/ports"
	"caravel/internal/shared/outbox"
	outboxmemory "caravel/internal/shared/outbox/memory"
	"caravel/internal/shared/uow"
)

// ModuleName is the source-module tag stamped on outgoing envelopes and the
// first topic segment of this module's events.
const ModuleName = "cart"

type Module struct {
	Handler      httpadapter.Handler
	PriceChanged workers.PriceChangedConsumer

	// In-memory composition only; nil when composed against Postgres.
	Store  *memory.Store
	Outbox *outboxmemory.Store
}

type Dependencies struct {
	Carts       ports.CartRepository
	Catalog     productports.CatalogPort
	Buyers      buyerports.BuyerPort
	Dedup       ports.EventDedupStore
	Outbox      ports.OutboxAppender
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	addItem := commands.AddItemUseCase{
		Carts:       deps.Carts,
		Catalog:     deps.Catalog,
		Buyers:      deps.Buyers,
		Outbox:      deps.Outbox,
		UnitOfWork:  deps.UnitOfWork,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	removeItem := commands.RemoveItemUseCase{
		Carts:      deps.Carts,
		UnitOfWork: deps.UnitOfWork,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	getCart := queries.GetCartUseCase{
		Carts:  deps.Carts,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			AddItem:    addItem,
			RemoveItem: removeItem,
			GetCart:    getCart,
			Logger:     deps.Logger,
		},
		PriceChanged: workers.PriceChangedConsumer{
			Carts:      deps.Carts,
			Dedup:      deps.Dedup,
			UnitOfWork: deps.UnitOfWork,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule composes the module against in-memory stores. The
// catalog port comes from the caller so the binding stays a composition
// decision, not a module decision.
func NewInMemoryModule(catalog productports.CatalogPort, buyersPort buyerports.BuyerPort, logger *slog.Logger) Module {
	store := memory.NewStore(nil)
	outboxStore := outboxmemory.NewStore(store)
	module := NewModule(Dependencies{
		Carts:       store,
		Catalog:     catalog,
		Buyers:      buyersPort,
		Dedup:       memory.NewDedup(),
		Outbox:      OutboxAppender{Store: outboxStore},
		UnitOfWork:  uow.Memory{},
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	module.Outbox = outboxStore
	return module
}

// OutboxAppender narrows the shared outbox store to the module-local port so
// application code never imports infrastructure.
type OutboxAppender struct {
	Store outbox.Appender
}

func (a OutboxAppender) Append(ctx context.Context, aggregateID, eventType string, payload []byte) (string, error) {
	record, err := a.Store.Append(ctx, aggregateID, eventType, payload)
	if err != nil {
		return "", err
	}
	return record.ID.String(), nil
}
