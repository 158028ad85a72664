package entities

import (
	"strings"
	"time"

	domainerrors "caravel/domains/products/domain/errors"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a catalog item owned by a seller. Prices are integral minor
// units to avoid float drift.
type Product struct {
	ProductID   string
	SellerID    string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct validates and builds an active product.
func NewProduct(
	productID string,
	sellerID string,
	name string,
	description string,
	priceCents int64,
	currency string,
	now time.Time,
) (Product, error) {
	if strings.TrimSpace(productID) == "" || strings.TrimSpace(sellerID) == "" {
		return Product{}, domainerrors.ErrInvalidProduct
	}
	if strings.TrimSpace(name) == "" {
		return Product{}, domainerrors.ErrProductNameRequired
	}
	if priceCents <= 0 {
		return Product{}, domainerrors.ErrInvalidPrice
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Product{}, domainerrors.ErrInvalidCurrency
	}

	return Product{
		ProductID:   productID,
		SellerID:    sellerID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		PriceCents:  priceCents,
		Currency:    currency,
		Status:      ProductStatusActive,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// WithPrice returns a copy of the product repriced at priceCents.
func (p Product) WithPrice(priceCents int64, now time.Time) (Product, error) {
	if priceCents <= 0 {
		return Product{}, domainerrors.ErrInvalidPrice
	}
	if p.Status != ProductStatusActive {
		return Product{}, domainerrors.ErrProductNotActive
	}

	p.PriceCents = priceCents
	p.UpdatedAt = now.UTC()
	return p, nil
}
