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

type ChangePriceCommand struct {
	ProductID     string
	NewPriceCents int64
}

type ChangePriceResult struct {
	Product entities.Product
	EventID string
}

type ChangePriceUseCase struct {
	Products    ports.ProductRepository
	Outbox      ports.OutboxAppender
	UnitOfWork  ports.UnitOfWork
	Notifier    ports.ChangeNotifier
	Clock       ports.Clock
	Logger      *slog.Logger
}

// Execute reprices a product and appends ProductPriceChanged atomically with
// the price update.
func (u ChangePriceUseCase) Execute(ctx context.Context, cmd ChangePriceCommand) (ChangePriceResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.ProductID) == "" {
		return ChangePriceResult{}, domainerrors.ErrInvalidProduct
	}

	current, err := u.Products.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return ChangePriceResult{}, err
	}

	now := u.Clock.Now().UTC()
	repriced, err := current.WithPrice(cmd.NewPriceCents, now)
	if err != nil {
		logger.Warn("change price rejected",
			"event", "product_price_change_rejected",
			"module", "products",
			"layer", "application",
			"product_id", cmd.ProductID,
			"error", err.Error(),
		)
		return ChangePriceResult{}, err
	}

	payload, err := json.Marshal(ports.ProductPriceChangedEvent{
		ProductID:     repriced.ProductID,
		OldPriceCents: current.PriceCents,
		NewPriceCents: repriced.PriceCents,
		Currency:      repriced.Currency,
	})
	if err != nil {
		return ChangePriceResult{}, err
	}

	var eventID string
	err = u.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
		if err := u.Products.UpdatePrice(ctx, repriced.ProductID, repriced.PriceCents, now); err != nil {
			return err
		}
		eventID, err = u.Outbox.Append(ctx, repriced.ProductID, ports.ProductPriceChangedEventType, payload)
		return err
	})
	if err != nil {
		logger.Error("change price write failed",
			"event", "product_price_change_write_failed",
			"module", "products",
			"layer", "application",
			"product_id", repriced.ProductID,
			"error", err.Error(),
		)
		return ChangePriceResult{}, err
	}

	if u.Notifier != nil {
		_ = u.Notifier.ProductChanged(ctx, ports.ProductChange{
			ProductID:  repriced.ProductID,
			Kind:       "repriced",
			PriceCents: repriced.PriceCents,
			OccurredAt: now,
		})
	}

	logger.Info("product price changed",
		"event", "product_price_changed",
		"module", "products",
		"layer", "application",
		"product_id", repriced.ProductID,
		"old_price_cents", current.PriceCents,
		"new_price_cents", repriced.PriceCents,
		"outbox_event_id", eventID,
	)

	return ChangePriceResult{Product: repriced, EventID: eventID}, nil
}
