package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	contractsv1 "caravel/contracts/events/v1"
	application "caravel/domains/cart/application"
	"caravel/domains/cart/ports"
	productports "caravel/domains/products/ports"
)

// ConsumerName namespaces this consumer's dedup entries so other consumers
// of the same topic keep independent progress.
const ConsumerName = "cart.price-changed"

// PriceChangedConsumer applies product repricing to cart display prices.
// Delivery is at least once; the dedup store drops redelivered events, and
// ApplyPrice is a no-op when the price already matches, so a crash between
// apply and mark stays harmless.
type PriceChangedConsumer struct {
	Carts      ports.CartRepository
	Dedup      ports.EventDedupStore
	UnitOfWork ports.UnitOfWork
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (c PriceChangedConsumer) Handle(ctx context.Context, envelope contractsv1.Envelope) error {
	logger := application.ResolveLogger(c.Logger)
	if envelope.EventType != productports.ProductPriceChangedEventType {
		return nil
	}

	seen, err := c.Dedup.Seen(ctx, ConsumerName, envelope.EventID)
	if err != nil {
		return fmt.Errorf("dedup lookup: %w", err)
	}
	if seen {
		logger.Debug("duplicate delivery dropped",
			"event", "cart_price_change_duplicate",
			"module", "cart",
			"layer", "application",
			"event_id", envelope.EventID,
		)
		return nil
	}

	var payload productports.ProductPriceChangedEvent
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return fmt.Errorf("decode %s: %w", envelope.EventType, err)
	}

	cartIDs, err := c.Carts.ListCartsWithProduct(ctx, payload.ProductID)
	if err != nil {
		return err
	}

	now := c.Clock.Now().UTC()
	updated := 0
	for _, cartID := range cartIDs {
		err := c.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
			cart, err := c.Carts.GetCart(ctx, cartID)
			if err != nil {
				return err
			}
			cart, changed := cart.ApplyPrice(payload.ProductID, payload.NewPriceCents, now)
			if !changed {
				return nil
			}
			updated++
			return c.Carts.UpdateCart(ctx, cart)
		})
		if err != nil {
			return err
		}
	}

	if err := c.Dedup.Mark(ctx, ConsumerName, envelope.EventID); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}

	logger.Info("cart prices refreshed",
		"event", "cart_prices_refreshed",
		"module", "cart",
		"layer", "application",
		"event_id", envelope.EventID,
		"product_id", payload.ProductID,
		"carts_updated", updated,
	)
	return nil
}
