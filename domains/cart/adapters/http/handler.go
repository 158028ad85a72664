package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"caravel/domains/cart/application/commands"
	"caravel/domains/cart/application/queries"
	"caravel/domains/cart/domain/entities"
	httptransport "caravel/domains/cart/transport/http"
)

type Handler struct {
	AddItem    commands.AddItemUseCase
	RemoveItem commands.RemoveItemUseCase
	GetCart    queries.GetCartUseCase
	Logger     *slog.Logger
}

func (h Handler) AddItemHandler(ctx context.Context, buyerID string, req httptransport.AddItemRequest) (httptransport.AddItemResponse, error) {
	result, err := h.AddItem.Execute(ctx, commands.AddItemCommand{
		BuyerID:   buyerID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return httptransport.AddItemResponse{}, err
	}
	return httptransport.AddItemResponse{
		Cart:    mapCart(result.Cart),
		EventID: result.EventID,
	}, nil
}

func (h Handler) RemoveItemHandler(ctx context.Context, buyerID, productID string) (httptransport.RemoveItemResponse, error) {
	cart, err := h.RemoveItem.Execute(ctx, commands.RemoveItemCommand{
		BuyerID:   buyerID,
		ProductID: productID,
	})
	if err != nil {
		return httptransport.RemoveItemResponse{}, err
	}
	return httptransport.RemoveItemResponse{Cart: mapCart(cart)}, nil
}

func (h Handler) GetCartHandler(ctx context.Context, buyerID string) (httptransport.GetCartResponse, error) {
	cart, err := h.GetCart.Execute(ctx, buyerID)
	if err != nil {
		return httptransport.GetCartResponse{}, err
	}
	return httptransport.GetCartResponse{Cart: mapCart(cart)}, nil
}

func mapCart(cart entities.Cart) httptransport.CartDTO {
	items := make([]httptransport.CartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, httptransport.CartItemDTO{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Currency:       item.Currency,
			Quantity:       item.Quantity,
			AddedAt:        item.AddedAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.CartDTO{
		CartID:     cart.CartID,
		BuyerID:    cart.BuyerID,
		Items:      items,
		TotalCents: cart.TotalCents(),
		CreatedAt:  cart.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  cart.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
