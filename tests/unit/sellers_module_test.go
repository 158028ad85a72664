package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	contractsv1 "caravel/contracts/events/v1"
	productports "caravel/domains/products/ports"
	sellers "caravel/domains/sellers"
	sellercommands "caravel/domains/sellers/application/commands"
	sellererrors "caravel/domains/sellers/domain/errors"
	sellerports "caravel/domains/sellers/ports"
	"caravel/internal/shared/outbox"

	"github.com/google/uuid"
)

func TestRegisterSellerStartsPendingWithoutEvent(t *testing.T) {
	module := sellers.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	seller, err := module.Handler.RegisterSeller.Execute(ctx, sellercommands.RegisterSellerCommand{
		StoreName: "Ada's Woodshop",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if seller.Status != "pending" {
		t.Fatalf("expected pending status, got %s", seller.Status)
	}

	// Registration is module-private state; nothing crosses the boundary
	// until activation.
	if records := module.Outbox.Records(); len(records) != 0 {
		t.Fatalf("registration must not emit events, got %+v", records)
	}

	if _, err := module.Handler.RegisterSeller.Execute(ctx, sellercommands.RegisterSellerCommand{}); !errors.Is(err, sellererrors.ErrStoreNameRequired) {
		t.Fatalf("expected ErrStoreNameRequired, got %v", err)
	}
}

func TestActivateSellerEmitsActivatedEvent(t *testing.T) {
	module := sellers.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	seller, err := module.Handler.RegisterSeller.Execute(ctx, sellercommands.RegisterSellerCommand{
		StoreName: "Ada's Woodshop",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	activated, err := module.Handler.ActivateSeller.Execute(ctx, sellercommands.ActivateSellerCommand{
		SellerID: seller.SellerID,
	})
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if activated.Seller.Status != "active" || activated.Seller.ActivatedAt == nil {
		t.Fatalf("unexpected seller state %+v", activated.Seller)
	}

	record, ok := module.Outbox.Record(activated.EventID)
	if !ok {
		t.Fatalf("outbox record missing")
	}
	if record.EventType != sellerports.SellerActivatedEventType || record.Status != outbox.StatusPending {
		t.Fatalf("unexpected record %+v", record)
	}

	if _, err := module.Handler.ActivateSeller.Execute(ctx, sellercommands.ActivateSellerCommand{
		SellerID: seller.SellerID,
	}); !errors.Is(err, sellererrors.ErrSellerAlreadyActive) {
		t.Fatalf("expected ErrSellerAlreadyActive, got %v", err)
	}

	if _, err := module.Handler.ActivateSeller.Execute(ctx, sellercommands.ActivateSellerCommand{
		SellerID: "missing",
	}); !errors.Is(err, sellererrors.ErrSellerNotFound) {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}
}

func productCreatedEnvelope(t *testing.T, sellerID string) contractsv1.Envelope {
	t.Helper()
	payload, err := json.Marshal(productports.ProductCreatedEvent{
		ProductID:  uuid.NewString(),
		SellerID:   sellerID,
		Name:       "Walnut Desk",
		PriceCents: 45900,
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return contractsv1.Envelope{
		EventID:       uuid.NewString(),
		EventType:     productports.ProductCreatedEventType,
		SchemaVersion: 1,
		AggregateID:   sellerID,
		SourceModule:  "products",
		OccurredAt:    time.Now().UTC(),
		Data:          payload,
	}
}

func TestProductCreatedConsumerCountsOncePerEvent(t *testing.T) {
	module := sellers.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	seller, err := module.Handler.RegisterSeller.Execute(ctx, sellercommands.RegisterSellerCommand{
		StoreName: "Ada's Woodshop",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	envelope := productCreatedEnvelope(t, seller.SellerID)
	if err := module.ProductCreated.Handle(ctx, envelope); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if err := module.ProductCreated.Handle(ctx, envelope); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}

	loaded, err := module.Handler.GetSeller.Execute(ctx, seller.SellerID)
	if err != nil {
		t.Fatalf("get seller failed: %v", err)
	}
	if loaded.CatalogCount != 1 {
		t.Fatalf("redelivery double counted: %d", loaded.CatalogCount)
	}
}

func TestProductCreatedConsumerDropsUnknownSeller(t *testing.T) {
	module := sellers.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	envelope := productCreatedEnvelope(t, "ghost-seller")
	if err := module.ProductCreated.Handle(ctx, envelope); err != nil {
		t.Fatalf("unknown seller must not fail the topic: %v", err)
	}
	// The event is marked processed so redelivery stays cheap.
	if err := module.ProductCreated.Handle(ctx, envelope); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
}
