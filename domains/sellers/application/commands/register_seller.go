package commands

import (
	"context"
	"log/slog"

	application "caravel/domains/sellers/application"
	"caravel/domains/sellers/domain/entities"
	"caravel/domains/sellers/ports"
)

type RegisterSellerCommand struct {
	StoreName string
}

type RegisterSellerUseCase struct {
	Sellers     ports.SellerRepository
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute creates a pending seller. No integration event fires until the
// seller activates; a pending account is invisible to other modules.
func (u RegisterSellerUseCase) Execute(ctx context.Context, cmd RegisterSellerCommand) (entities.Seller, error) {
	logger := application.ResolveLogger(u.Logger)

	sellerID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Seller{}, err
	}

	seller, err := entities.NewSeller(sellerID, cmd.StoreName, u.Clock.Now())
	if err != nil {
		return entities.Seller{}, err
	}

	err = u.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
		return u.Sellers.CreateSeller(ctx, seller)
	})
	if err != nil {
		return entities.Seller{}, err
	}

	logger.Info("seller registered",
		"event", "seller_registered",
		"module", "sellers",
		"layer", "application",
		"seller_id", seller.SellerID,
	)
	return seller, nil
}
