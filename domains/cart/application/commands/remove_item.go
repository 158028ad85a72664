package commands

import (
	"context"
	"log/slog"
	"strings"

	application "caravel/domains/cart/application"
	"caravel/domains/cart/domain/entities"
	domainerrors "caravel/domains/cart/domain/errors"
	"caravel/domains/cart/ports"
)

type RemoveItemCommand struct {
	BuyerID   string
	ProductID string
}

type RemoveItemUseCase struct {
	Carts      ports.CartRepository
	UnitOfWork ports.UnitOfWork
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u RemoveItemUseCase) Execute(ctx context.Context, cmd RemoveItemCommand) (entities.Cart, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.BuyerID) == "" {
		return entities.Cart{}, domainerrors.ErrInvalidCart
	}

	cart, err := u.Carts.GetCartByBuyer(ctx, cmd.BuyerID)
	if err != nil {
		return entities.Cart{}, err
	}

	cart, err = cart.RemoveItem(cmd.ProductID, u.Clock.Now())
	if err != nil {
		return entities.Cart{}, err
	}

	err = u.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
		return u.Carts.UpdateCart(ctx, cart)
	})
	if err != nil {
		return entities.Cart{}, err
	}

	logger.Info("cart item removed",
		"event", "cart_item_removed",
		"module", "cart",
		"layer", "application",
		"cart_id", cart.CartID,
		"product_id", cmd.ProductID,
	)
	return cart, nil
}
