package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	contractsv1 "caravel/contracts/events/v1"
	productports "caravel/domains/products/ports"
	application "caravel/domains/sellers/application"
	domainerrors "caravel/domains/sellers/domain/errors"
	"caravel/domains/sellers/ports"
)

// ConsumerName namespaces this consumer's dedup entries.
const ConsumerName = "sellers.product-created"

// ProductCreatedConsumer maintains the per-seller catalog count projection
// from product creation events. Delivery is at least once; the dedup store
// keeps redeliveries from double counting.
type ProductCreatedConsumer struct {
	Sellers    ports.SellerRepository
	Dedup      ports.EventDedupStore
	UnitOfWork ports.UnitOfWork
	Logger     *slog.Logger
}

func (c ProductCreatedConsumer) Handle(ctx context.Context, envelope contractsv1.Envelope) error {
	logger := application.ResolveLogger(c.Logger)
	if envelope.EventType != productports.ProductCreatedEventType {
		return nil
	}

	seen, err := c.Dedup.Seen(ctx, ConsumerName, envelope.EventID)
	if err != nil {
		return fmt.Errorf("dedup lookup: %w", err)
	}
	if seen {
		return nil
	}

	var payload productports.ProductCreatedEvent
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return fmt.Errorf("decode %s: %w", envelope.EventType, err)
	}

	err = c.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
		seller, err := c.Sellers.GetSeller(ctx, payload.SellerID)
		if err != nil {
			return err
		}
		return c.Sellers.UpdateSeller(ctx, seller.CountProduct())
	})
	if errors.Is(err, domainerrors.ErrSellerNotFound) {
		// Products created for sellers this module never saw are counted
		// nowhere; dropping beats blocking the whole topic.
		logger.Warn("product event for unknown seller dropped",
			"event", "seller_catalog_count_skipped",
			"module", "sellers",
			"layer", "application",
			"event_id", envelope.EventID,
			"seller_id", payload.SellerID,
		)
	} else if err != nil {
		return err
	}

	if err := c.Dedup.Mark(ctx, ConsumerName, envelope.EventID); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}

	logger.Info("seller catalog count updated",
		"event", "seller_catalog_count_updated",
		"module", "sellers",
		"layer", "application",
		"event_id", envelope.EventID,
		"seller_id", payload.SellerID,
	)
	return nil
}
