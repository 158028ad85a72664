package unit

import (
	"context"
	"errors"
	"testing"

	buyers "caravel/domains/buyers"
	buyercommands "caravel/domains/buyers/application/commands"
	buyererrors "caravel/domains/buyers/domain/errors"
	buyerports "caravel/domains/buyers/ports"
	"caravel/internal/shared/outbox"
)

func TestRegisterBuyerEmitsRegisteredEvent(t *testing.T) {
	module := buyers.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	result, err := module.Handler.RegisterBuyer.Execute(ctx, buyercommands.RegisterBuyerCommand{
		Email:       "ada@example.com",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Buyer.BuyerID == "" {
		t.Fatalf("expected buyer id assigned")
	}

	record, ok := module.Outbox.Record(result.EventID)
	if !ok {
		t.Fatalf("outbox record missing")
	}
	if record.EventType != buyerports.BuyerRegisteredEventType || record.Status != outbox.StatusPending {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.AggregateID != result.Buyer.BuyerID {
		t.Fatalf("buyer events must partition by buyer id")
	}
}

func TestRegisterBuyerValidation(t *testing.T) {
	module := buyers.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.RegisterBuyer.Execute(ctx, buyercommands.RegisterBuyerCommand{
		Email:       "not-an-email",
		DisplayName: "Ada",
	}); !errors.Is(err, buyererrors.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if _, err := module.Handler.RegisterBuyer.Execute(ctx, buyercommands.RegisterBuyerCommand{
		Email: "ada@example.com",
	}); !errors.Is(err, buyererrors.ErrDisplayNameRequired) {
		t.Fatalf("expected ErrDisplayNameRequired, got %v", err)
	}
}

func TestRegisterBuyerRejectsDuplicateEmail(t *testing.T) {
	module := buyers.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.RegisterBuyer.Execute(ctx, buyercommands.RegisterBuyerCommand{
		Email:       "ada@example.com",
		DisplayName: "Ada",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if _, err := module.Handler.RegisterBuyer.Execute(ctx, buyercommands.RegisterBuyerCommand{
		Email:       "ada@example.com",
		DisplayName: "Ada Again",
	}); !errors.Is(err, buyererrors.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestBuyerPortExposesSummary(t *testing.T) {
	module := buyers.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	registered, err := module.Handler.RegisterBuyer.Execute(ctx, buyercommands.RegisterBuyerCommand{
		Email:       "ada@example.com",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	summary, err := module.Port.GetBuyerSummary(ctx, registered.Buyer.BuyerID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.BuyerID != registered.Buyer.BuyerID || summary.DisplayName != "Ada" {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if _, err := module.Port.GetBuyerSummary(ctx, "missing"); !errors.Is(err, buyererrors.ErrBuyerNotFound) {
		t.Fatalf("expected ErrBuyerNotFound, got %v", err)
	}
}
