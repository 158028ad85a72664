package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "caravel/domains/sellers/application"
	"caravel/domains/sellers/domain/entities"
	domainerrors "caravel/domains/sellers/domain/errors"
	"caravel/domains/sellers/ports"
)

type ActivateSellerCommand struct {
	SellerID string
}

type ActivateSellerResult struct {
	Seller  entities.Seller
	EventID string
}

type ActivateSellerUseCase struct {
	Sellers    ports.SellerRepository
	Outbox     ports.OutboxAppender
	UnitOfWork ports.UnitOfWork
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute activates a seller and appends SellerActivated atomically with the
// status flip.
func (u ActivateSellerUseCase) Execute(ctx context.Context, cmd ActivateSellerCommand) (ActivateSellerResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.SellerID) == "" {
		return ActivateSellerResult{}, domainerrors.ErrSellerNotFound
	}

	seller, err := u.Sellers.GetSeller(ctx, cmd.SellerID)
	if err != nil {
		return ActivateSellerResult{}, err
	}

	activated, err := seller.Activate(u.Clock.Now())
	if err != nil {
		return ActivateSellerResult{}, err
	}

	payload, err := json.Marshal(ports.SellerActivatedEvent{
		SellerID:  activated.SellerID,
		StoreName: activated.StoreName,
	})
	if err != nil {
		return ActivateSellerResult{}, err
	}

	var eventID string
	err = u.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
		if err := u.Sellers.UpdateSeller(ctx, activated); err != nil {
			return err
		}
		eventID, err = u.Outbox.Append(ctx, activated.SellerID, ports.SellerActivatedEventType, payload)
		return err
	})
	if err != nil {
		logger.Error("activate seller write failed",
			"event", "seller_activate_write_failed",
			"module", "sellers",
			"layer", "application",
			"seller_id", activated.SellerID,
			"error", err.Error(),
		)
		return ActivateSellerResult{}, err
	}

	logger.Info("seller activated",
		"event", "seller_activated",
		"module", "sellers",
		"layer", "application",
		"seller_id", activated.SellerID,
		"outbox_event_id", eventID,
	)
	return ActivateSellerResult{Seller: activated, EventID: eventID}, nil
}
