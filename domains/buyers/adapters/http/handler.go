package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"caravel/domains/buyers/application/commands"
	"caravel/domains/buyers/application/queries"
	"caravel/domains/buyers/domain/entities"
	httptransport "caravel/domains/buyers/transport/http"
)

type Handler struct {
	RegisterBuyer commands.RegisterBuyerUseCase
	GetBuyer      queries.GetBuyerUseCase
	Logger        *slog.Logger
}

func (h Handler) RegisterBuyerHandler(ctx context.Context, req httptransport.RegisterBuyerRequest) (httptransport.RegisterBuyerResponse, error) {
	result, err := h.RegisterBuyer.Execute(ctx, commands.RegisterBuyerCommand{
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return httptransport.RegisterBuyerResponse{}, err
	}
	return httptransport.RegisterBuyerResponse{
		Buyer:   mapBuyer(result.Buyer),
		EventID: result.EventID,
	}, nil
}

func (h Handler) GetBuyerHandler(ctx context.Context, buyerID string) (httptransport.GetBuyerResponse, error) {
	buyer, err := h.GetBuyer.Execute(ctx, buyerID)
	if err != nil {
		return httptransport.GetBuyerResponse{}, err
	}
	return httptransport.GetBuyerResponse{Buyer: mapBuyer(buyer)}, nil
}

func mapBuyer(buyer entities.Buyer) httptransport.BuyerDTO {
	return httptransport.BuyerDTO{
		BuyerID:     buyer.BuyerID,
		Email:       buyer.Email,
		DisplayName: buyer.DisplayName,
		CreatedAt:   buyer.CreatedAt.UTC().Format(time.RFC3339),
	}
}
