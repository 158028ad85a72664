package buyers

import (
	"context"
	"log/slog"

	capabilityadapter "caravel/domains/buyers/adapters/capability"
	httpadapter "caravel/domains/buyers/adapters/http"
	"caravel/domains/buyers/adapters/memory"
	"caravel/domains/buyers/application/commands"
	"caravel/domains/buyers/application/queries"
	"caravel/domains/buyers/domain/entities"
	"caravel/domains/buyers/ports"
	"caravel/internal/shared/outbox"
	outboxmemory "caravel/internal/shared/outbox/memory"
	"caravel/internal/shared/uow"
)

// ModuleName is the source-module tag stamped on outgoing envelopes and the
// first topic segment of this module's events.
const ModuleName = "buyers"

type Module struct {
	Handler httpadapter.Handler
	Port    ports.BuyerPort

	Store  *memory.Store
	Outbox *outboxmemory.Store
}

type Dependencies struct {
	Buyers      ports.BuyerRepository
	Outbox      ports.OutboxAppender
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registerBuyer := commands.RegisterBuyerUseCase{
		Buyers:      deps.Buyers,
		Outbox:      deps.Outbox,
		UnitOfWork:  deps.UnitOfWork,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	getBuyer := queries.GetBuyerUseCase{
		Buyers: deps.Buyers,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			RegisterBuyer: registerBuyer,
			GetBuyer:      getBuyer,
			Logger:        deps.Logger,
		},
		Port: capabilityadapter.NewBuyerPort(deps.Buyers),
	}
}

func NewInMemoryModule(seed []entities.Buyer, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	outboxStore := outboxmemory.NewStore(store)
	module := NewModule(Dependencies{
		Buyers:      store,
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
