package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "caravel/domains/products/application"
	"caravel/domains/products/domain/entities"
	domainerrors "caravel/domains/products/domain/errors"
	"caravel/domains/products/ports"
)

type CreateProductCommand struct {
	SellerID    string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
}

type CreateProductResult struct {
	Product entities.Product
	EventID string
}

type CreateProductUseCase struct {
	Products    ports.ProductRepository
	Outbox      ports.OutboxAppender
	UnitOfWork  ports.UnitOfWork
	Notifier    ports.ChangeNotifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute validates the product, then persists the product row and the
// ProductCreated outbox record in one unit of work. Domain validation runs
// before the transaction opens, so no event is ever emitted for a state
// change that did not commit.
func (u CreateProductUseCase) Execute(ctx context.Context, cmd CreateProductCommand) (CreateProductResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.SellerID) == "" {
		return CreateProductResult{}, domainerrors.ErrInvalidProduct
	}

	now := u.Clock.Now().UTC()
	productID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateProductResult{}, err
	}

	product, err := entities.NewProduct(
		productID,
		cmd.SellerID,
		cmd.Name,
		cmd.Description,
		cmd.PriceCents,
		cmd.Currency,
		now,
	)
	if err != nil {
		logger.Warn("create product rejected",
			"event", "product_create_rejected",
			"module", "products",
			"layer", "application",
			"seller_id", cmd.SellerID,
			"error", err.Error(),
		)
		return CreateProductResult{}, err
	}

	payload, err := json.Marshal(ports.ProductCreatedEvent{
		ProductID:  product.ProductID,
		SellerID:   product.SellerID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Currency:   product.Currency,
	})
	if err != nil {
		return CreateProductResult{}, err
	}

	var eventID string
	err = u.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
		if err := u.Products.CreateProduct(ctx, product); err != nil {
			return err
		}
		eventID, err = u.Outbox.Append(ctx, product.ProductID, ports.ProductCreatedEventType, payload)
		return err
	})
	if err != nil {
		logger.Error("create product write failed",
			"event", "product_create_write_failed",
			"module", "products",
			"layer", "application",
			"product_id", product.ProductID,
			"error", err.Error(),
		)
		return CreateProductResult{}, err
	}

	if u.Notifier != nil {
		// In-module notification only; cross-module effects ride the outbox.
		_ = u.Notifier.ProductChanged(ctx, ports.ProductChange{
			ProductID:  product.ProductID,
			Kind:       "created",
			PriceCents: product.PriceCents,
			OccurredAt: now,
		})
	}

	logger.Info("product created",
		"event", "product_created",
		"module", "products",
		"layer", "application",
		"product_id", product.ProductID,
		"seller_id", product.SellerID,
		"outbox_event_id", eventID,
	)

	return CreateProductResult{Product: product, EventID: eventID}, nil
}
