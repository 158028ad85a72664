package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	application "caravel/domains/buyers/application"
	"caravel/domains/buyers/domain/entities"
	domainerrors "caravel/domains/buyers/domain/errors"
	"caravel/domains/buyers/ports"
)

type RegisterBuyerCommand struct {
	Email       string
	DisplayName string
}

type RegisterBuyerResult struct {
	Buyer   entities.Buyer
	EventID string
}

type RegisterBuyerUseCase struct {
	Buyers      ports.BuyerRepository
	Outbox      ports.OutboxAppender
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute registers a buyer and appends BuyerRegistered atomically with the
// account row. Email uniqueness is rechecked by the store inside the unit of
// work; the pre-check only shortens the common failure path.
func (u RegisterBuyerUseCase) Execute(ctx context.Context, cmd RegisterBuyerCommand) (RegisterBuyerResult, error) {
	logger := application.ResolveLogger(u.Logger)

	buyerID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return RegisterBuyerResult{}, err
	}

	buyer, err := entities.NewBuyer(buyerID, cmd.Email, cmd.DisplayName, u.Clock.Now())
	if err != nil {
		logger.Warn("register buyer rejected",
			"event", "buyer_register_rejected",
			"module", "buyers",
			"layer", "application",
			"error", err.Error(),
		)
		return RegisterBuyerResult{}, err
	}

	if _, err := u.Buyers.GetBuyerByEmail(ctx, buyer.Email); err == nil {
		return RegisterBuyerResult{}, domainerrors.ErrEmailTaken
	} else if !errors.Is(err, domainerrors.ErrBuyerNotFound) {
		return RegisterBuyerResult{}, err
	}

	payload, err := json.Marshal(ports.BuyerRegisteredEvent{
		BuyerID:     buyer.BuyerID,
		Email:       buyer.Email,
		DisplayName: buyer.DisplayName,
	})
	if err != nil {
		return RegisterBuyerResult{}, err
	}

	var eventID string
	err = u.UnitOfWork.Execute(ctx, func(ctx context.Context) error {
		if err := u.Buyers.CreateBuyer(ctx, buyer); err != nil {
			return err
		}
		eventID, err = u.Outbox.Append(ctx, buyer.BuyerID, ports.BuyerRegisteredEventType, payload)
		return err
	})
	if err != nil {
		logger.Error("register buyer write failed",
			"event", "buyer_register_write_failed",
			"module", "buyers",
			"layer", "application",
			"buyer_id", buyer.BuyerID,
			"error", err.Error(),
		)
		return RegisterBuyerResult{}, err
	}

	logger.Info("buyer registered",
		"event", "buyer_registered",
		"module", "buyers",
		"layer", "application",
		"buyer_id", buyer.BuyerID,
		"outbox_event_id", eventID,
	)
	return RegisterBuyerResult{Buyer: buyer, EventID: eventID}, nil
}
