package outbox_test

import (
	"errors"
	"testing"

	"caravel/internal/shared/outbox"
)

func TestParseEventType(t *testing.T) {
	name, major, err := outbox.ParseEventType("ProductPriceChanged@2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "ProductPriceChanged" || major != 2 {
		t.Fatalf("got name=%q major=%d", name, major)
	}

	for _, raw := range []string{"", "   ", "ProductCreated", "@1", "ProductCreated@", "ProductCreated@0", "ProductCreated@x"} {
		if _, _, err := outbox.ParseEventType(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}

	if _, _, err := outbox.ParseEventType("ProductCreated@0"); !errors.Is(err, outbox.ErrEventTypeMalformed) {
		t.Fatalf("expected ErrEventTypeMalformed, got %v", err)
	}
}

func TestTopicFor(t *testing.T) {
	cases := []struct {
		domain    string
		eventType string
		want      string
	}{
		{"products", "ProductPriceChanged@1", "products.v1.product-price-changed"},
		{"products", "ProductCreated@1", "products.v1.product-created"},
		{"cart", "CartItemAdded@1", "cart.v1.cart-item-added"},
		{"sellers", "SellerActivated@3", "sellers.v3.seller-activated"},
		{"Buyers", "BuyerRegistered@1", "buyers.v1.buyer-registered"},
	}
	for _, tc := range cases {
		got, err := outbox.TopicFor(tc.domain, tc.eventType)
		if err != nil {
			t.Fatalf("%s/%s: unexpected error: %v", tc.domain, tc.eventType, err)
		}
		if got != tc.want {
			t.Fatalf("%s/%s: got %q want %q", tc.domain, tc.eventType, got, tc.want)
		}
	}

	if _, err := outbox.TopicFor("products", "not-an-event-type"); err == nil {
		t.Fatalf("expected error for malformed event type")
	}
}
