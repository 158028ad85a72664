package queries

import (
	"context"
	"log/slog"

	"caravel/domains/products/domain/entities"
	domainerrors "caravel/domains/products/domain/errors"
	"caravel/domains/products/ports"
)

const maxListLimit = 100

type ListProductsUseCase struct {
	Products ports.ProductRepository
	Logger   *slog.Logger
}

type ListProductsResult struct {
	Items      []entities.Product
	NextCursor string
}

func (u ListProductsUseCase) Execute(ctx context.Context, filter ports.ProductListFilter) (ListProductsResult, error) {
	if filter.Limit < 0 || filter.Limit > maxListLimit {
		return ListProductsResult{}, domainerrors.ErrInvalidListFilter
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	items, nextCursor, err := u.Products.ListProducts(ctx, filter)
	if err != nil {
		return ListProductsResult{}, err
	}
	return ListProductsResult{Items: items, NextCursor: nextCursor}, nil
}
