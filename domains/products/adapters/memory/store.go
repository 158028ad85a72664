// Package memory implements the products ports on in-memory state for local
// runtime and tests. It is not intended as production persistence.
package memory

import (
	"context"
	"encoding/base64"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"caravel/domains/products/domain/entities"
	domainerrors "caravel/domains/products/domain/errors"
	"caravel/domains/products/ports"
	"caravel/internal/shared/uow"
)

type Store struct {
	mu       sync.RWMutex
	products map[string]entities.Product
}

func NewStore(seed []entities.Product) *Store {
	products := make(map[string]entities.Product, len(seed))
	for _, product := range seed {
		products[product.ProductID] = product
	}
	return &Store{products: products}
}

func (s *Store) GetProduct(_ context.Context, productID string) (entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	return product, nil
}

func (s *Store) ListProducts(_ context.Context, filter ports.ProductListFilter) ([]entities.Product, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []entities.Product
	for _, product := range s.products {
		if filter.SellerID != "" && product.SellerID != filter.SellerID {
			continue
		}
		if filter.Status != "" && product.Status != filter.Status {
			continue
		}
		filtered = append(filtered, product)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ProductID < filtered[j].ProductID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	start := decodeCursor(filter.Cursor)
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	nextCursor := ""
	if end < len(filtered) {
		nextCursor = encodeCursor(end)
	}
	return filtered[start:end], nextCursor, nil
}

// CreateProduct stages the insert inside the caller's unit of work so the
// product row and its outbox record become durable together or not at all.
func (s *Store) CreateProduct(ctx context.Context, product entities.Product) error {
	tx, err := uow.MemTxFrom(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.products[product.ProductID]
	s.mu.RUnlock()
	if exists {
		return domainerrors.ErrDuplicateProductID
	}

	tx.Stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.products[product.ProductID] = product
	})
	return nil
}

func (s *Store) UpdatePrice(ctx context.Context, productID string, priceCents int64, updatedAt time.Time) error {
	tx, err := uow.MemTxFrom(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.products[productID]
	s.mu.RUnlock()
	if !exists {
		return domainerrors.ErrProductNotFound
	}

	tx.Stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		product, ok := s.products[productID]
		if !ok {
			return
		}
		product.PriceCents = priceCents
		product.UpdatedAt = updatedAt.UTC()
		s.products[productID] = product
	})
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func decodeCursor(cursor string) int {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
