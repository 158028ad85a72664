package queries

import (
	"context"
	"log/slog"
	"strings"

	"caravel/domains/sellers/domain/entities"
	domainerrors "caravel/domains/sellers/domain/errors"
	"caravel/domains/sellers/ports"
)

type GetSellerUseCase struct {
	Sellers ports.SellerRepository
	Logger  *slog.Logger
}

func (u GetSellerUseCase) Execute(ctx context.Context, sellerID string) (entities.Seller, error) {
	if strings.TrimSpace(sellerID) == "" {
		return entities.Seller{}, domainerrors.ErrSellerNotFound
	}
	return u.Sellers.GetSeller(ctx, sellerID)
}
