package unit

import (
	"context"
	"testing"
	"time"

	buyers "caravel/domains/buyers"
	buyercommands "caravel/domains/buyers/application/commands"
	cart "caravel/domains/cart"
	cartcommands "caravel/domains/cart/application/commands"
	products "caravel/domains/products"
	productcommands "caravel/domains/products/application/commands"
	productports "caravel/domains/products/ports"
	sellers "caravel/domains/sellers"
	sellercommands "caravel/domains/sellers/application/commands"
	"caravel/internal/platform/messaging"
	"caravel/internal/shared/outbox"
)

// TestOutboxPipelineEndToEnd drives the full delivery path: a command commits
// state and outbox record together, the relay publishes to the bus, and the
// consuming modules converge.
func TestOutboxPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	productsModule := products.NewInMemoryModule(nil, nil)
	buyersModule := buyers.NewInMemoryModule(nil, nil)
	sellersModule := sellers.NewInMemoryModule(nil, nil)
	cartModule := cart.NewInMemoryModule(productsModule.Catalog, buyersModule.Port, nil)

	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}

	priceTopic, err := outbox.TopicFor(products.ModuleName, productports.ProductPriceChangedEventType)
	if err != nil {
		t.Fatalf("topic: %v", err)
	}
	createdTopic, err := outbox.TopicFor(products.ModuleName, productports.ProductCreatedEventType)
	if err != nil {
		t.Fatalf("topic: %v", err)
	}
	if err := bus.Subscribe(ctx, priceTopic, "cart.price-changed", cartModule.PriceChanged.Handle); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := bus.Subscribe(ctx, createdTopic, "sellers.product-created", sellersModule.ProductCreated.Handle); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	relay := &outbox.Relay{
		Store:     productsModule.Outbox,
		Publisher: bus,
		Domain:    products.ModuleName,
	}

	seller, err := sellersModule.Handler.RegisterSeller.Execute(ctx, sellercommands.RegisterSellerCommand{
		StoreName: "Ada's Woodshop",
	})
	if err != nil {
		t.Fatalf("register seller: %v", err)
	}
	buyer, err := buyersModule.Handler.RegisterBuyer.Execute(ctx, buyercommands.RegisterBuyerCommand{
		Email:       "ada@example.com",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("register buyer: %v", err)
	}

	created, err := productsModule.Handler.CreateProduct.Execute(ctx, productcommands.CreateProductCommand{
		SellerID:   seller.SellerID,
		Name:       "Walnut Desk",
		PriceCents: 45900,
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if _, err := cartModule.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID:   buyer.Buyer.BuyerID,
		ProductID: created.Product.ProductID,
		Quantity:  1,
	}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	if _, err := productsModule.Handler.ChangePrice.Execute(ctx, productcommands.ChangePriceCommand{
		ProductID:     created.Product.ProductID,
		NewPriceCents: 39900,
	}); err != nil {
		t.Fatalf("change price: %v", err)
	}

	result, err := relay.RunOnce(ctx)
	if err != nil {
		t.Fatalf("relay cycle: %v", err)
	}
	if result.Published != 2 {
		t.Fatalf("expected both product events published, got %+v", result)
	}

	waitFor(t, "cart price convergence", func() bool {
		loaded, err := cartModule.Handler.GetCart.Execute(ctx, buyer.Buyer.BuyerID)
		if err != nil {
			return false
		}
		return len(loaded.Items) == 1 && loaded.Items[0].UnitPriceCents == 39900
	})
	waitFor(t, "seller catalog count", func() bool {
		loaded, err := sellersModule.Handler.GetSeller.Execute(ctx, seller.SellerID)
		if err != nil {
			return false
		}
		return loaded.CatalogCount == 1
	})

	// A second cycle has nothing left to do.
	again, err := relay.RunOnce(ctx)
	if err != nil {
		t.Fatalf("second relay cycle: %v", err)
	}
	if again.Listed != 0 {
		t.Fatalf("expected empty backlog, got %+v", again)
	}
}

func waitFor(t *testing.T, what string, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
