package unit

import (
	"context"
	"errors"
	"testing"

	products "caravel/domains/products"
	productmemory "caravel/domains/products/adapters/memory"
	productcommands "caravel/domains/products/application/commands"
	producterrors "caravel/domains/products/domain/errors"
	productports "caravel/domains/products/ports"
	"caravel/internal/shared/outbox"
	"caravel/internal/shared/uow"
)

func TestCreateProductAppendsOutboxRecordAtomically(t *testing.T) {
	module := products.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	result, err := module.Handler.CreateProduct.Execute(ctx, productcommands.CreateProductCommand{
		SellerID:   "seller-1",
		Name:       "Walnut Desk",
		PriceCents: 45900,
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if result.Product.ProductID == "" || result.EventID == "" {
		t.Fatalf("expected ids assigned, got %+v", result)
	}

	record, ok := module.Outbox.Record(result.EventID)
	if !ok {
		t.Fatalf("outbox record missing for event %s", result.EventID)
	}
	if record.Status != outbox.StatusPending {
		t.Fatalf("expected PENDING record, got %s", record.Status)
	}
	if record.EventType != productports.ProductCreatedEventType {
		t.Fatalf("unexpected event type %q", record.EventType)
	}
	if record.AggregateID != result.Product.ProductID {
		t.Fatalf("aggregate id %q does not match product %q", record.AggregateID, result.Product.ProductID)
	}
}

func TestCreateProductValidation(t *testing.T) {
	module := products.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  productcommands.CreateProductCommand
		want error
	}{
		{
			name: "missing seller",
			cmd:  productcommands.CreateProductCommand{Name: "Desk", PriceCents: 100, Currency: "USD"},
			want: producterrors.ErrInvalidProduct,
		},
		{
			name: "missing name",
			cmd:  productcommands.CreateProductCommand{SellerID: "seller-1", PriceCents: 100, Currency: "USD"},
			want: producterrors.ErrProductNameRequired,
		},
		{
			name: "zero price",
			cmd:  productcommands.CreateProductCommand{SellerID: "seller-1", Name: "Desk", Currency: "USD"},
			want: producterrors.ErrInvalidPrice,
		},
		{
			name: "negative price",
			cmd:  productcommands.CreateProductCommand{SellerID: "seller-1", Name: "Desk", PriceCents: -5, Currency: "USD"},
			want: producterrors.ErrInvalidPrice,
		},
		{
			name: "bad currency",
			cmd:  productcommands.CreateProductCommand{SellerID: "seller-1", Name: "Desk", PriceCents: 100, Currency: "dollars"},
			want: producterrors.ErrInvalidCurrency,
		},
	}
	for _, tc := range cases {
		if _, err := module.Handler.CreateProduct.Execute(ctx, tc.cmd); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if len(module.Outbox.Records()) != 0 {
		t.Fatalf("rejected commands must not emit events")
	}
}

func TestChangePriceAppendsPriceChangedEvent(t *testing.T) {
	module := products.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateProduct.Execute(ctx, productcommands.CreateProductCommand{
		SellerID:   "seller-1",
		Name:       "Walnut Desk",
		PriceCents: 45900,
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	repriced, err := module.Handler.ChangePrice.Execute(ctx, productcommands.ChangePriceCommand{
		ProductID:     created.Product.ProductID,
		NewPriceCents: 39900,
	})
	if err != nil {
		t.Fatalf("change price failed: %v", err)
	}
	if repriced.Product.PriceCents != 39900 {
		t.Fatalf("price not applied: %d", repriced.Product.PriceCents)
	}

	record, ok := module.Outbox.Record(repriced.EventID)
	if !ok {
		t.Fatalf("outbox record missing")
	}
	if record.EventType != productports.ProductPriceChangedEventType {
		t.Fatalf("unexpected event type %q", record.EventType)
	}
	if record.AggregateID != created.Product.ProductID {
		t.Fatalf("price event must partition by product id")
	}
}

func TestChangePriceUnknownProduct(t *testing.T) {
	module := products.NewInMemoryModule(nil, nil)

	_, err := module.Handler.ChangePrice.Execute(context.Background(), productcommands.ChangePriceCommand{
		ProductID:     "missing",
		NewPriceCents: 100,
	})
	if !errors.Is(err, producterrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("outbox unavailable")
}

func TestCreateProductRollsBackWhenOutboxAppendFails(t *testing.T) {
	store := productmemory.NewStore(nil)
	module := products.NewModule(products.Dependencies{
		Products:    store,
		Outbox:      failingAppender{},
		UnitOfWork:  uow.Memory{},
		Clock:       store,
		IDGenerator: store,
	})

	_, err := module.Handler.CreateProduct.Execute(context.Background(), productcommands.CreateProductCommand{
		SellerID:   "seller-1",
		Name:       "Walnut Desk",
		PriceCents: 45900,
		Currency:   "USD",
	})
	if err == nil {
		t.Fatalf("expected unit of work failure")
	}

	listed, _, listErr := store.ListProducts(context.Background(), productports.ProductListFilter{Limit: 10})
	if listErr != nil {
		t.Fatalf("list failed: %v", listErr)
	}
	if len(listed) != 0 {
		t.Fatalf("product persisted despite outbox failure: %+v", listed)
	}
}

func TestProductChangeNotificationFiresAfterCommit(t *testing.T) {
	module := products.NewInMemoryModule(nil, nil)

	var changes []productports.ProductChange
	module.Notifications.Subscribe(func(_ context.Context, change productports.ProductChange) error {
		changes = append(changes, change)
		return nil
	})

	result, err := module.Handler.CreateProduct.Execute(context.Background(), productcommands.CreateProductCommand{
		SellerID:   "seller-1",
		Name:       "Walnut Desk",
		PriceCents: 45900,
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if len(changes) != 1 || changes[0].ProductID != result.Product.ProductID || changes[0].Kind != "created" {
		t.Fatalf("unexpected notifications: %+v", changes)
	}
}

func TestCatalogSnapshotExposesValueCopy(t *testing.T) {
	module := products.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateProduct.Execute(ctx, productcommands.CreateProductCommand{
		SellerID:   "seller-1",
		Name:       "Walnut Desk",
		PriceCents: 45900,
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	snapshot, err := module.Catalog.GetProductSnapshot(ctx, created.Product.ProductID)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snapshot.ProductID != created.Product.ProductID || snapshot.PriceCents != 45900 || !snapshot.Active {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	if _, err := module.Catalog.GetProductSnapshot(ctx, "missing"); !errors.Is(err, producterrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
