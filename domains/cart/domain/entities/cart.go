package entities

import (
	"strings"
	"time"

	domainerrors "caravel/domains/cart/domain/errors"
)

const maxQuantityPerLine = 99

// CartItem is one line of a cart. ProductID is an ID-only reference into the
// products module; name and price are values copied at add time.
type CartItem struct {
	ProductID      string
	Name           string
	UnitPriceCents int64
	Currency       string
	Quantity       int
	AddedAt        time.Time
}

type Cart struct {
	CartID    string
	BuyerID   string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCart(cartID, buyerID string, now time.Time) (Cart, error) {
	if strings.TrimSpace(cartID) == "" || strings.TrimSpace(buyerID) == "" {
		return Cart{}, domainerrors.ErrInvalidCart
	}
	return Cart{
		CartID:    cartID,
		BuyerID:   buyerID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// AddItem merges quantity into an existing line for the same product, or
// appends a new line. The stored price always reflects the latest add.
func (c Cart) AddItem(item CartItem, now time.Time) (Cart, error) {
	if strings.TrimSpace(item.ProductID) == "" {
		return Cart{}, domainerrors.ErrCartItemNotFound
	}
	if item.Quantity <= 0 {
		return Cart{}, domainerrors.ErrInvalidQuantity
	}

	next := c.cloneItems()
	merged := false
	for i := range next {
		if next[i].ProductID != item.ProductID {
			continue
		}
		if next[i].Quantity+item.Quantity > maxQuantityPerLine {
			return Cart{}, domainerrors.ErrInvalidQuantity
		}
		next[i].Quantity += item.Quantity
		next[i].UnitPriceCents = item.UnitPriceCents
		next[i].Currency = item.Currency
		merged = true
		break
	}
	if !merged {
		if item.Quantity > maxQuantityPerLine {
			return Cart{}, domainerrors.ErrInvalidQuantity
		}
		item.AddedAt = now.UTC()
		next = append(next, item)
	}

	c.Items = next
	c.UpdatedAt = now.UTC()
	return c, nil
}

func (c Cart) RemoveItem(productID string, now time.Time) (Cart, error) {
	next := c.cloneItems()
	for i := range next {
		if next[i].ProductID == productID {
			c.Items = append(next[:i], next[i+1:]...)
			c.UpdatedAt = now.UTC()
			return c, nil
		}
	}
	return Cart{}, domainerrors.ErrCartItemNotFound
}

// ApplyPrice updates the display price of every line holding the product.
// It reports whether any line changed so callers can skip no-op writes.
func (c Cart) ApplyPrice(productID string, unitPriceCents int64, now time.Time) (Cart, bool) {
	next := c.cloneItems()
	changed := false
	for i := range next {
		if next[i].ProductID == productID && next[i].UnitPriceCents != unitPriceCents {
			next[i].UnitPriceCents = unitPriceCents
			changed = true
		}
	}
	if !changed {
		return c, false
	}
	c.Items = next
	c.UpdatedAt = now.UTC()
	return c, true
}

func (c Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

func (c Cart) cloneItems() []CartItem {
	return append([]CartItem(nil), c.Items...)
}
