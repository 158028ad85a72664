package queries

import (
	"context"
	"log/slog"
	"strings"

	"caravel/domains/cart/domain/entities"
	domainerrors "caravel/domains/cart/domain/errors"
	"caravel/domains/cart/ports"
)

type GetCartUseCase struct {
	Carts  ports.CartRepository
	Logger *slog.Logger
}

func (u GetCartUseCase) Execute(ctx context.Context, buyerID string) (entities.Cart, error) {
	if strings.TrimSpace(buyerID) == "" {
		return entities.Cart{}, domainerrors.ErrCartNotFound
	}
	return u.Carts.GetCartByBuyer(ctx, buyerID)
}
