// Package capabilityadapter exposes the buyers module's BuyerPort for
// in-process binding.
package capabilityadapter

import (
	"context"

	"caravel/domains/buyers/ports"
)

type BuyerPort struct {
	Buyers ports.BuyerRepository
}

func NewBuyerPort(buyers ports.BuyerRepository) BuyerPort {
	return BuyerPort{Buyers: buyers}
}

func (p BuyerPort) GetBuyerSummary(ctx context.Context, buyerID string) (ports.BuyerSummary, error) {
	buyer, err := p.Buyers.GetBuyer(ctx, buyerID)
	if err != nil {
		return ports.BuyerSummary{}, err
	}
	return ports.BuyerSummary{
		BuyerID:     buyer.BuyerID,
		DisplayName: buyer.DisplayName,
	}, nil
}
