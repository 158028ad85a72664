package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"caravel/domains/products/application/commands"
	"caravel/domains/products/application/queries"
	"caravel/domains/products/domain/entities"
	domainerrors "caravel/domains/products/domain/errors"
	"caravel/domains/products/ports"
	httptransport "caravel/domains/products/transport/http"
)

type Handler struct {
	CreateProduct commands.CreateProductUseCase
	ChangePrice   commands.ChangePriceUseCase
	GetProduct    queries.GetProductUseCase
	ListProducts  queries.ListProductsUseCase
	Logger        *slog.Logger
}

func (h Handler) CreateProductHandler(ctx context.Context, req httptransport.CreateProductRequest) (httptransport.CreateProductResponse, error) {
	result, err := h.CreateProduct.Execute(ctx, commands.CreateProductCommand{
		SellerID:    req.SellerID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
	})
	if err != nil {
		return httptransport.CreateProductResponse{}, err
	}
	return httptransport.CreateProductResponse{
		Product: mapProduct(result.Product),
		EventID: result.EventID,
	}, nil
}

func (h Handler) ChangePriceHandler(ctx context.Context, productID string, req httptransport.ChangePriceRequest) (httptransport.ChangePriceResponse, error) {
	result, err := h.ChangePrice.Execute(ctx, commands.ChangePriceCommand{
		ProductID:     productID,
		NewPriceCents: req.PriceCents,
	})
	if err != nil {
		return httptransport.ChangePriceResponse{}, err
	}
	return httptransport.ChangePriceResponse{
		Product: mapProduct(result.Product),
		EventID: result.EventID,
	}, nil
}

func (h Handler) GetProductHandler(ctx context.Context, productID string) (httptransport.GetProductResponse, error) {
	item, err := h.GetProduct.Execute(ctx, productID)
	if err != nil {
		return httptransport.GetProductResponse{}, err
	}
	return httptransport.GetProductResponse{Product: mapProduct(item)}, nil
}

func (h Handler) ListProductsHandler(ctx context.Context, req httptransport.ListProductsRequest) (httptransport.ListProductsResponse, error) {
	status := entities.ProductStatus(req.Status)
	if req.Status != "" && status != entities.ProductStatusActive && status != entities.ProductStatusArchived {
		return httptransport.ListProductsResponse{}, domainerrors.ErrInvalidListFilter
	}
	result, err := h.ListProducts.Execute(ctx, ports.ProductListFilter{
		SellerID: req.SellerID,
		Status:   status,
		Cursor:   req.Cursor,
		Limit:    req.Limit,
	})
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	items := make([]httptransport.ProductDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapProduct(item))
	}
	return httptransport.ListProductsResponse{Items: items, NextCursor: result.NextCursor}, nil
}

func mapProduct(product entities.Product) httptransport.ProductDTO {
	return httptransport.ProductDTO{
		ProductID:   product.ProductID,
		SellerID:    product.SellerID,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Currency:    product.Currency,
		Status:      string(product.Status),
		CreatedAt:   product.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   product.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
