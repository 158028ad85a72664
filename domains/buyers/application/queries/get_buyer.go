package queries

import (
	"context"
	"log/slog"
	"strings"

	"caravel/domains/buyers/domain/entities"
	domainerrors "caravel/domains/buyers/domain/errors"
	"caravel/domains/buyers/ports"
)

type GetBuyerUseCase struct {
	Buyers ports.BuyerRepository
	Logger *slog.Logger
}

func (u GetBuyerUseCase) Execute(ctx context.Context, buyerID string) (entities.Buyer, error) {
	if strings.TrimSpace(buyerID) == "" {
		return entities.Buyer{}, domainerrors.ErrBuyerNotFound
	}
	return u.Buyers.GetBuyer(ctx, buyerID)
}
