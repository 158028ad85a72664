package products

import (
	"context"
	"log/slog"

	capabilityadapter "caravel/domains/products/adapters/capability"
	httpadapter "caravel/domains/products/adapters/http"
	"caravel/domains/products/adapters/memory"
	"caravel/domains/products/application/commands"
	"caravel/domains/products/application/queries"
	"caravel/domains/products/domain/entities"
	"caravel/domains/products/ports"
	"caravel/internal/shared/localbus"
	"caravel/internal/shared/outbox"
	outboxmemory "caravel/internal/shared/outbox/memory"
	"caravel/internal/shared/uow"
)

// ModuleName is the source-module tag stamped on outgoing envelopes and the
// first topic segment of this module's events.
const ModuleName = "products"

type Module struct {
	Handler httpadapter.Handler
	Catalog ports.CatalogPort

	// Notifications carries post-commit in-module change events. Observers
	// subscribe before the first command runs.
	Notifications *localbus.Bus[ports.ProductChange]

	// In-memory composition only; nil when composed against Postgres.
	Store  *memory.Store
	Outbox *outboxmemory.Store
}

type Dependencies struct {
	Products    ports.ProductRepository
	Outbox      ports.OutboxAppender
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	notifications := localbus.New[ports.ProductChange]()
	notifier := busNotifier{bus: notifications}

	createProduct := commands.CreateProductUseCase{
		Products:    deps.Products,
		Outbox:      deps.Outbox,
		UnitOfWork:  deps.UnitOfWork,
		Notifier:    notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	changePrice := commands.ChangePriceUseCase{
		Products:   deps.Products,
		Outbox:     deps.Outbox,
		UnitOfWork: deps.UnitOfWork,
		Notifier:   notifier,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	getProduct := queries.GetProductUseCase{
		Products: deps.Products,
		Logger:   deps.Logger,
	}
	listProducts := queries.ListProductsUseCase{
		Products: deps.Products,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateProduct: createProduct,
			ChangePrice:   changePrice,
			GetProduct:    getProduct,
			ListProducts:  listProducts,
			Logger:        deps.Logger,
		},
		Catalog:       capabilityadapter.NewCatalog(deps.Products),
		Notifications: notifications,
	}
}

// NewInMemoryModule composes the module against in-memory stores. The outbox
// store it returns is the one the relay drains in tests and local runs.
func NewInMemoryModule(seed []entities.Product, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	outboxStore := outboxmemory.NewStore(store)
	module := NewModule(Dependencies{
		Products:    store,
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

type busNotifier struct {
	bus *localbus.Bus[ports.ProductChange]
}

func (n busNotifier) ProductChanged(ctx context.Context, change ports.ProductChange) error {
	return n.bus.Publish(ctx, change)
}
