package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	contractsv1 "caravel/contracts/events/v1"
	buyers "caravel/domains/buyers"
	buyercommands "caravel/domains/buyers/application/commands"
	cart "caravel/domains/cart"
	cartcommands "caravel/domains/cart/application/commands"
	carterrors "caravel/domains/cart/domain/errors"
	cartports "caravel/domains/cart/ports"
	products "caravel/domains/products"
	productcommands "caravel/domains/products/application/commands"
	productports "caravel/domains/products/ports"
	"caravel/internal/shared/outbox"

	"github.com/google/uuid"
)

type cartFixture struct {
	products products.Module
	buyers   buyers.Module
	cart     cart.Module
	buyerID  string
}

func newCartFixture(t *testing.T) cartFixture {
	t.Helper()
	productsModule := products.NewInMemoryModule(nil, nil)
	buyersModule := buyers.NewInMemoryModule(nil, nil)
	cartModule := cart.NewInMemoryModule(productsModule.Catalog, buyersModule.Port, nil)

	registered, err := buyersModule.Handler.RegisterBuyer.Execute(context.Background(), buyercommands.RegisterBuyerCommand{
		Email:       "ada@example.com",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("register buyer failed: %v", err)
	}

	return cartFixture{
		products: productsModule,
		buyers:   buyersModule,
		cart:     cartModule,
		buyerID:  registered.Buyer.BuyerID,
	}
}

func (f cartFixture) createProduct(t *testing.T, name string, priceCents int64) string {
	t.Helper()
	result, err := f.products.Handler.CreateProduct.Execute(context.Background(), productcommands.CreateProductCommand{
		SellerID:   "seller-1",
		Name:       name,
		PriceCents: priceCents,
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return result.Product.ProductID
}

func TestAddItemCopiesCatalogPriceAndEmitsEvent(t *testing.T) {
	fixture := newCartFixture(t)
	ctx := context.Background()
	productID := fixture.createProduct(t, "Walnut Desk", 45900)

	result, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID:   fixture.buyerID,
		ProductID: productID,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if len(result.Cart.Items) != 1 {
		t.Fatalf("expected one line, got %+v", result.Cart.Items)
	}
	line := result.Cart.Items[0]
	if line.UnitPriceCents != 45900 || line.Name != "Walnut Desk" || line.Quantity != 2 {
		t.Fatalf("line did not copy catalog values: %+v", line)
	}
	if result.Cart.TotalCents() != 91800 {
		t.Fatalf("unexpected total %d", result.Cart.TotalCents())
	}

	record, ok := fixture.cart.Outbox.Record(result.EventID)
	if !ok {
		t.Fatalf("outbox record missing")
	}
	if record.EventType != cartports.CartItemAddedEventType || record.Status != outbox.StatusPending {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.AggregateID != result.Cart.CartID {
		t.Fatalf("cart events must partition by cart id")
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	fixture := newCartFixture(t)
	ctx := context.Background()
	productID := fixture.createProduct(t, "Walnut Desk", 45900)

	if _, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID: fixture.buyerID, ProductID: productID, Quantity: 1,
	}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	result, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID: fixture.buyerID, ProductID: productID, Quantity: 3,
	})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(result.Cart.Items) != 1 || result.Cart.Items[0].Quantity != 4 {
		t.Fatalf("lines not merged: %+v", result.Cart.Items)
	}
}

func TestAddItemRejections(t *testing.T) {
	fixture := newCartFixture(t)
	ctx := context.Background()
	productID := fixture.createProduct(t, "Walnut Desk", 45900)

	if _, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID: fixture.buyerID, ProductID: "missing", Quantity: 1,
	}); !errors.Is(err, carterrors.ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable for unknown product, got %v", err)
	}

	if _, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID: fixture.buyerID, ProductID: productID, Quantity: 0,
	}); !errors.Is(err, carterrors.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	if _, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID: "ghost-buyer", ProductID: productID, Quantity: 1,
	}); !errors.Is(err, carterrors.ErrInvalidCart) {
		t.Fatalf("expected ErrInvalidCart for unknown buyer, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	fixture := newCartFixture(t)
	ctx := context.Background()
	productID := fixture.createProduct(t, "Walnut Desk", 45900)

	if _, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID: fixture.buyerID, ProductID: productID, Quantity: 1,
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	updated, err := fixture.cart.Handler.RemoveItem.Execute(ctx, cartcommands.RemoveItemCommand{
		BuyerID:   fixture.buyerID,
		ProductID: productID,
	})
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Fatalf("line not removed: %+v", updated.Items)
	}

	if _, err := fixture.cart.Handler.RemoveItem.Execute(ctx, cartcommands.RemoveItemCommand{
		BuyerID:   fixture.buyerID,
		ProductID: productID,
	}); !errors.Is(err, carterrors.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func priceChangedEnvelope(t *testing.T, productID string, oldPrice, newPrice int64) contractsv1.Envelope {
	t.Helper()
	payload, err := json.Marshal(productports.ProductPriceChangedEvent{
		ProductID:     productID,
		OldPriceCents: oldPrice,
		NewPriceCents: newPrice,
		Currency:      "USD",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return contractsv1.Envelope{
		EventID:       uuid.NewString(),
		EventType:     productports.ProductPriceChangedEventType,
		SchemaVersion: 1,
		AggregateID:   productID,
		SourceModule:  "products",
		OccurredAt:    time.Now().UTC(),
		Data:          payload,
	}
}

func TestPriceChangedConsumerUpdatesCartLines(t *testing.T) {
	fixture := newCartFixture(t)
	ctx := context.Background()
	productID := fixture.createProduct(t, "Walnut Desk", 45900)

	if _, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID: fixture.buyerID, ProductID: productID, Quantity: 1,
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	envelope := priceChangedEnvelope(t, productID, 45900, 39900)
	if err := fixture.cart.PriceChanged.Handle(ctx, envelope); err != nil {
		t.Fatalf("consumer failed: %v", err)
	}

	loaded, err := fixture.cart.Handler.GetCart.Execute(ctx, fixture.buyerID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if loaded.Items[0].UnitPriceCents != 39900 {
		t.Fatalf("price not propagated: %+v", loaded.Items[0])
	}
}

func TestPriceChangedConsumerDropsRedelivery(t *testing.T) {
	fixture := newCartFixture(t)
	ctx := context.Background()
	productID := fixture.createProduct(t, "Walnut Desk", 45900)

	if _, err := fixture.cart.Handler.AddItem.Execute(ctx, cartcommands.AddItemCommand{
		BuyerID: fixture.buyerID, ProductID: productID, Quantity: 1,
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	envelope := priceChangedEnvelope(t, productID, 45900, 39900)
	if err := fixture.cart.PriceChanged.Handle(ctx, envelope); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	// Redelivery of the same event id carries a different price; a consumer
	// honoring its dedup store must ignore it.
	redelivered := envelope
	redelivered.Data = priceChangedEnvelope(t, productID, 45900, 99999).Data
	if err := fixture.cart.PriceChanged.Handle(ctx, redelivered); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}

	loaded, err := fixture.cart.Handler.GetCart.Execute(ctx, fixture.buyerID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if loaded.Items[0].UnitPriceCents != 39900 {
		t.Fatalf("redelivered event was applied: %+v", loaded.Items[0])
	}
}

func TestPriceChangedConsumerIgnoresForeignEventTypes(t *testing.T) {
	fixture := newCartFixture(t)

	envelope := contractsv1.Envelope{
		EventID:       uuid.NewString(),
		EventType:     productports.ProductCreatedEventType,
		SchemaVersion: 1,
		AggregateID:   "prod-1",
		SourceModule:  "products",
		OccurredAt:    time.Now().UTC(),
		Data:          []byte(`{}`),
	}
	if err := fixture.cart.PriceChanged.Handle(context.Background(), envelope); err != nil {
		t.Fatalf("foreign event type must be skipped silently: %v", err)
	}
}
