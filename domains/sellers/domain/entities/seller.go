package entities

import (
	"strings"
	"time"

	domainerrors "caravel/domains/sellers/domain/errors"
)

type SellerStatus string

const (
	SellerStatusPending SellerStatus = "pending"
	SellerStatusActive  SellerStatus = "active"
)

type Seller struct {
	SellerID     string
	StoreName    string
	Status       SellerStatus
	CatalogCount int
	CreatedAt    time.Time
	ActivatedAt  *time.Time
}

func NewSeller(sellerID, storeName string, now time.Time) (Seller, error) {
	if strings.TrimSpace(sellerID) == "" {
		return Seller{}, domainerrors.ErrInvalidSeller
	}
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return Seller{}, domainerrors.ErrStoreNameRequired
	}
	return Seller{
		SellerID:  sellerID,
		StoreName: storeName,
		Status:    SellerStatusPending,
		CreatedAt: now.UTC(),
	}, nil
}

// Activate moves a pending seller to active. Activation is one-way.
func (s Seller) Activate(now time.Time) (Seller, error) {
	if s.Status == SellerStatusActive {
		return Seller{}, domainerrors.ErrSellerAlreadyActive
	}
	at := now.UTC()
	s.Status = SellerStatusActive
	s.ActivatedAt = &at
	return s, nil
}

// CountProduct bumps the catalog projection.
func (s Seller) CountProduct() Seller {
	s.CatalogCount++
	return s
}
