// Package bootstrap is the composition root. Construction and wiring live
// here so module code stays framework-agnostic.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	contractsv1 "caravel/contracts/events/v1"
	buyers "caravel/domains/buyers"
	buyerports "caravel/domains/buyers/ports"
	cart "caravel/domains/cart"
	cartmemory "caravel/domains/cart/adapters/memory"
	cartpostgres "caravel/domains/cart/adapters/postgres"
	cartredis "caravel/domains/cart/adapters/redis"
	cartworkers "caravel/domains/cart/application/workers"
	cartports "caravel/domains/cart/ports"
	products "caravel/domains/products"
	productspostgres "caravel/domains/products/adapters/postgres"
	"caravel/domains/products/adapters/remotehttp"
	productports "caravel/domains/products/ports"
	sellers "caravel/domains/sellers"
	sellersworkers "caravel/domains/sellers/application/workers"
	"caravel/internal/platform/config"
	"caravel/internal/platform/db"
	"caravel/internal/platform/httpserver"
	"caravel/internal/platform/messaging"
	"caravel/internal/shared/capability"
	"caravel/internal/shared/outbox"
	outboxpostgres "caravel/internal/shared/outbox/postgres"
)

// Modules is the wired set of domain modules plus the capability registry
// they were bound through. Every cross-module edge resolves through the
// registry at composition time, even in a single process.
type Modules struct {
	Products products.Module
	Cart     cart.Module
	Buyers   buyers.Module
	Sellers  sellers.Module

	Registry *capability.Registry

	// One outbox store per emitting module, drained by that module's relay.
	OutboxStores map[string]outbox.Store
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	kafka        *messaging.Kafka
	relays       []*outbox.Relay
	priceChanged cartworkers.PriceChangedConsumer
	productMade  sellersworkers.ProductCreatedConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

// BuildModules wires the four domain modules against either Postgres (DSN
// set) or memory, and binds capability ports. The catalog binding can be
// flipped to the remote HTTP adapter by configuration without touching any
// consumer of the port.
func BuildModules(cfg config.Config, logger *slog.Logger, pg *db.Postgres, redisClient redis.UniversalClient) (Modules, error) {
	registry := capability.NewRegistry()
	outboxStores := make(map[string]outbox.Store)

	var productsModule products.Module
	if pg != nil {
		clock := productspostgres.SystemClock{}
		productsOutbox := outboxpostgres.NewStore(pg.DB, "products_outbox", clock)
		productsModule = products.NewModule(products.Dependencies{
			Products:    productspostgres.NewRepository(pg.DB, logger),
			Outbox:      products.OutboxAppender{Store: productsOutbox},
			UnitOfWork:  pg.Executor(),
			Clock:       clock,
			IDGenerator: productspostgres.UUIDGenerator{},
			Logger:      logger,
		})
		outboxStores[products.ModuleName] = productsOutbox
	} else {
		productsModule = products.NewInMemoryModule(nil, logger)
		outboxStores[products.ModuleName] = productsModule.Outbox
	}

	// Buyers and sellers run on the in-memory adapters in every topology.
	buyersModule := buyers.NewInMemoryModule(nil, logger)
	outboxStores[buyers.ModuleName] = buyersModule.Outbox
	sellersModule := sellers.NewInMemoryModule(nil, logger)
	outboxStores[sellers.ModuleName] = sellersModule.Outbox

	if err := registry.Bind(productports.CatalogPortName, productsModule.Catalog); err != nil {
		return Modules{}, err
	}
	if err := registry.Bind(buyerports.BuyerPortName, buyersModule.Port); err != nil {
		return Modules{}, err
	}

	if cfg.CatalogBinding == config.CatalogBindingRemote {
		if cfg.CatalogRemoteBase == "" {
			return Modules{}, errors.New("CATALOG_REMOTE_BASE_URL is required for remote catalog binding")
		}
		remote := remotehttp.NewCatalogClient(cfg.CatalogRemoteBase, nil)
		if err := registry.Bind(productports.CatalogPortName, remote); err != nil {
			return Modules{}, err
		}
	}

	catalog, err := capability.Resolve[productports.CatalogPort](registry, productports.CatalogPortName)
	if err != nil {
		return Modules{}, err
	}
	buyerPort, err := capability.Resolve[buyerports.BuyerPort](registry, buyerports.BuyerPortName)
	if err != nil {
		return Modules{}, err
	}

	var cartModule cart.Module
	if pg != nil {
		clock := cartpostgres.SystemClock{}
		cartOutbox := outboxpostgres.NewStore(pg.DB, "cart_outbox", clock)
		cartModule = cart.NewModule(cart.Dependencies{
			Carts:       cartpostgres.NewRepository(pg.DB, logger),
			Catalog:     catalog,
			Buyers:      buyerPort,
			Dedup:       cartDedup(redisClient, cfg.DedupTTL),
			Outbox:      cart.OutboxAppender{Store: cartOutbox},
			UnitOfWork:  pg.Executor(),
			Clock:       clock,
			IDGenerator: cartpostgres.UUIDGenerator{},
			Logger:      logger,
		})
		outboxStores[cart.ModuleName] = cartOutbox
	} else {
		cartModule = cart.NewInMemoryModule(catalog, buyerPort, logger)
		outboxStores[cart.ModuleName] = cartModule.Outbox
	}

	return Modules{
		Products:     productsModule,
		Cart:         cartModule,
		Buyers:       buyersModule,
		Sellers:      sellersModule,
		Registry:     registry,
		OutboxStores: outboxStores,
	}, nil
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	var pg *db.Postgres
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
	}

	modules, err := BuildModules(cfg, logger, pg, redisFrom(cfg))
	if err != nil {
		if pg != nil {
			_ = pg.Close()
		}
		return nil, err
	}

	server := httpserver.New(
		modules.Products,
		modules.Cart,
		modules.Buyers,
		modules.Sellers,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	var pg *db.Postgres
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	modules, err := BuildModules(cfg, logger, pg, redisFrom(cfg))
	if err != nil {
		if pg != nil {
			_ = pg.Close()
		}
		return nil, err
	}

	relays := make([]*outbox.Relay, 0, len(modules.OutboxStores))
	for domain, store := range modules.OutboxStores {
		relays = append(relays, &outbox.Relay{
			Store:          store,
			Publisher:      kafka,
			Clock:          outbox.SystemClock{},
			Domain:         domain,
			BatchSize:      cfg.Outbox.BatchSize,
			MaxAttempts:    cfg.Outbox.MaxAttempts,
			BaseBackoff:    cfg.Outbox.BaseBackoff,
			MaxBackoff:     cfg.Outbox.MaxBackoff,
			PublishTimeout: cfg.Outbox.PublishTimeout,
			PollInterval:   cfg.Outbox.PollInterval,
			Logger:         logger,
		})
	}

	return &WorkerApp{
		postgres:     pg,
		kafka:        kafka,
		relays:       relays,
		priceChanged: modules.Cart.PriceChanged,
		productMade:  modules.Sellers.ProductCreated,
		pollInterval: cfg.Outbox.PollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.subscribeConsumers(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"relays", len(w.relays),
		"poll_interval", w.pollInterval.String(),
	)

	for {
		for _, relay := range w.relays {
			if _, err := relay.RunOnce(ctx); err != nil {
				w.logger.Error("relay cycle failed",
					"event", "outbox_relay_cycle_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"domain", relay.Domain,
					"error", err.Error(),
				)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) subscribeConsumers(ctx context.Context) error {
	priceTopic, err := outbox.TopicFor(products.ModuleName, productports.ProductPriceChangedEventType)
	if err != nil {
		return err
	}
	err = w.kafka.Subscribe(ctx, priceTopic, cartworkers.ConsumerName,
		func(ctx context.Context, envelope contractsv1.Envelope) error {
			return w.priceChanged.Handle(ctx, envelope)
		})
	if err != nil {
		return err
	}

	createdTopic, err := outbox.TopicFor(products.ModuleName, productports.ProductCreatedEventType)
	if err != nil {
		return err
	}
	return w.kafka.Subscribe(ctx, createdTopic, sellersworkers.ConsumerName,
		func(ctx context.Context, envelope contractsv1.Envelope) error {
			return w.productMade.Handle(ctx, envelope)
		})
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func cartDedup(client redis.UniversalClient, ttl time.Duration) cartports.EventDedupStore {
	if client != nil {
		return cartredis.NewDedup(client, ttl)
	}
	return cartmemory.NewDedup()
}

func redisFrom(cfg config.Config) redis.UniversalClient {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
