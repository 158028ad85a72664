package sellers

import (
	"context"
	"log/slog"

	httpadapter "caravel/domains/sellers/adapters/http"
	"caravel/domains/sellers/adapters/memory"
	"caravel/domains/sellers/application/commands"
	"caravel/domains/sellers/application/queries"
	"caravel/domains/sellers/application/workers"
	"caravel/domains/sellers/domain/entities"
	"caravel/domains/sellers/ports"
	"caravel/internal/shared/outbox"
	outboxmemory "caravel/internal/shared/outbox/memory"
	"caravel/internal/shared/uow"
)

// ModuleName is the source-module tag stamped on outgoing envelopes and the
// first topic segment of this module's events.
const ModuleName = "sellers"

type Module struct {
	Handler        httpadapter.Handler
	ProductCreated workers.ProductCreatedConsumer

	Store  *memory.Store
	Outbox *outboxmemory.Store
}

type Dependencies struct {
	Sellers     ports.SellerRepository
	Dedup       ports.EventDedupStore
	Outbox      ports.OutboxAppender
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registerSeller := commands.RegisterSellerUseCase{
		Sellers:     deps.Sellers,
		UnitOfWork:  deps.UnitOfWork,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	activateSeller := commands.ActivateSellerUseCase{
		Sellers:    deps.Sellers,
		Outbox:     deps.Outbox,
		UnitOfWork: deps.UnitOfWork,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	getSeller := queries.GetSellerUseCase{
		Sellers: deps.Sellers,
		Logger:  deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			RegisterSeller: registerSeller,
			ActivateSeller: activateSeller,
			GetSeller:      getSeller,
			Logger:         deps.Logger,
		},
		ProductCreated: workers.ProductCreatedConsumer{
			Sellers:    deps.Sellers,
			Dedup:      deps.Dedup,
			UnitOfWork: deps.UnitOfWork,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Seller, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	outboxStore := outboxmemory.NewStore(store)
	module := NewModule(Dependencies{
		Sellers:     store,
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

// OutboxAppender narrows the shared outbox store to the module-local port.
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
