package queries

import (
	"context"
	"log/slog"
	"strings"

	"caravel/domains/products/domain/entities"
	domainerrors "caravel/domains/products/domain/errors"
	"caravel/domains/products/ports"
)

type GetProductUseCase struct {
	Products ports.ProductRepository
	Logger   *slog.Logger
}

func (u GetProductUseCase) Execute(ctx context.Context, productID string) (entities.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	return u.Products.GetProduct(ctx, productID)
}
