package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	buyerports "caravel/domains/buyers/ports"
	application "caravel/domains/cart/application"
	"caravel/domains/cart/domain/entities"
	domainerrors "caravel/domains/cart/domain/errors"
	"caravel/domains/cart/ports"
	productports "caravel/domains/products/ports"
)

type AddItemCommand struct {
	BuyerID   string
	ProductID string
	Quantity  int
}

type AddItemResult struct {
	Cart    entities.Cart
	EventID string
}

type AddItemUseCase struct {
	Carts       ports.CartRepository
	Catalog     productports.CatalogPort
	Buyers      buyerports.BuyerPort
	Outbox      ports.OutboxAppender
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute resolves the product through the catalog capability, copies its
// price into the cart line, and commits the cart write together with the
// CartItemAdded outbox record. The cart keeps only the product ID; it never
// holds a reference into the products module's state.
func (u AddItemUseCase) Execute(ctx context.Context, cmd AddItemCommand) (AddItemResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.BuyerID) == "" {
		return AddItemResult{}, domainerrors.ErrInvalidCart
	}
	if cmd.Quantity <= 0 {
		return AddItemResult{}, domainerrors.ErrInvalidQuantity
	}

	if u.Buyers != nil {
		if _, err := u.Buyers.GetBuyerSummary(ctx, cmd.BuyerID); err != nil {
			return AddItemResult{}, domainerrors.ErrInvalidCart
		}
	}

	snapshot, err := u.Catalog.GetProductSnapshot(ctx, cmd.ProductID)
	if err != nil {
		logger.Warn("add item rejected by catalog",
			"event", "cart_item_rejected",
			"module", "cart",
			"layer", "application",
			"buyer_id", cmd.BuyerID,
			"product_id", cmd.ProductID,
			"error", err.Error(),
		)
		return AddItemResult{}, domainerrors.ErrProductUnavailable
	}
	if !snapshot.Active {
		return AddItemResult{}, domainerrors.ErrProductUnavailable
	}

	now := u.Clock.Now().UTC()

	cart, err := u.Carts.GetCartByBuyer(ctx, cmd.BuyerID)
	creating := false
	switch {
	case err == nil:
	case errors.Is(err, domainerrors.ErrCartNotFound):
		cartID, idErr := u.IDGenerator.NewID(ctx)
		if idErr != nil {
			return AddItemResult{}, idErr
		}
		cart, err = entities.NewCart(cartID, cmd.BuyerID, now)
		if err != nil {
			return AddItemResult{}, err
		}
		creating = true
	default:
		return AddItemResult{}, err
	}

	cart, err = cart.AddItem(entities.CartItem{
		ProductID:      snapshot.ProductID,
		Name:           snapshot.Name,
		UnitPriceCents: snapshot.PriceCents,
		Currency:       snapshot.Currency,
		Quantity:       cmd.Quantity,
	}, now)
	if err != nil {
		return AddItemResult{}, err
	}

	payload, err := json.Marshal(ports.CartItemAddedEvent{
		CartID:         cart.CartID,
		BuyerID:        cart.BuyerID,
		ProductID:      snapshot.ProductID,
		Quantity:       cmd.Quantity,
		UnitPriceCents: snapshot.PriceCents,
		Currency:       snapshot.Currency,
	})
	if err != nil {
		return AddItemResult{}, err
	}

	var eventID string
	err = u.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
		if creating {
			if err := u.Carts.CreateCart(ctx, cart); err != nil {
				return err
			}
		} else if err := u.Carts.UpdateCart(ctx, cart); err != nil {
			return err
		}
		eventID, err = u.Outbox.Append(ctx, cart.CartID, ports.CartItemAddedEventType, payload)
		return err
	})
	if err != nil {
		logger.Error("add item write failed",
			"event", "cart_item_write_failed",
			"module", "cart",
			"layer", "application",
			"cart_id", cart.CartID,
			"product_id", snapshot.ProductID,
			"error", err.Error(),
		)
		return AddItemResult{}, err
	}

	logger.Info("cart item added",
		"event", "cart_item_added",
		"module", "cart",
		"layer", "application",
		"cart_id", cart.CartID,
		"buyer_id", cart.BuyerID,
		"product_id", snapshot.ProductID,
		"quantity", cmd.Quantity,
		"outbox_event_id", eventID,
	)

	return AddItemResult{Cart: cart, EventID: eventID}, nil
}
