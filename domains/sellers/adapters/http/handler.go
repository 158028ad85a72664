package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"caravel/domains/sellers/application/commands"
	"caravel/domains/sellers/application/queries"
	"caravel/domains/sellers/domain/entities"
	httptransport "caravel/domains/sellers/transport/http"
)

type Handler struct {
	RegisterSeller commands.RegisterSellerUseCase
	ActivateSeller commands.ActivateSellerUseCase
	GetSeller      queries.GetSellerUseCase
	Logger         *slog.Logger
}

func (h Handler) RegisterSellerHandler(ctx context.Context, req httptransport.RegisterSellerRequest) (httptransport.RegisterSellerResponse, error) {
	seller, err := h.RegisterSeller.Execute(ctx, commands.RegisterSellerCommand{
		StoreName: req.StoreName,
	})
	if err != nil {
		return httptransport.RegisterSellerResponse{}, err
	}
	return httptransport.RegisterSellerResponse{Seller: mapSeller(seller)}, nil
}

func (h Handler) ActivateSellerHandler(ctx context.Context, sellerID string) (httptransport.ActivateSellerResponse, error) {
	result, err := h.ActivateSeller.Execute(ctx, commands.ActivateSellerCommand{
		SellerID: sellerID,
	})
	if err != nil {
		return httptransport.ActivateSellerResponse{}, err
	}
	return httptransport.ActivateSellerResponse{
		Seller:  mapSeller(result.Seller),
		EventID: result.EventID,
	}, nil
}

func (h Handler) GetSellerHandler(ctx context.Context, sellerID string) (httptransport.GetSellerResponse, error) {
	seller, err := h.GetSeller.Execute(ctx, sellerID)
	if err != nil {
		return httptransport.GetSellerResponse{}, err
	}
	return httptransport.GetSellerResponse{Seller: mapSeller(seller)}, nil
}

func mapSeller(seller entities.Seller) httptransport.SellerDTO {
	dto := httptransport.SellerDTO{
		SellerID:     seller.SellerID,
		StoreName:    seller.StoreName,
		Status:       string(seller.Status),
		CatalogCount: seller.CatalogCount,
		CreatedAt:    seller.CreatedAt.UTC().Format(time.RFC3339),
	}
	if seller.ActivatedAt != nil {
		dto.ActivatedAt = seller.ActivatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
