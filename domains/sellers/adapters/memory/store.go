// Package memory implements the sellers ports on in-memory state. It is the
// wired runtime default for this module.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"caravel/domains/sellers/domain/entities"
	domainerrors "caravel/domains/sellers/domain/errors"
	"caravel/internal/shared/uow"
)

type Store struct {
	mu      sync.RWMutex
	sellers map[string]entities.Seller
}

func NewStore(seed []entities.Seller) *Store {
	sellers := make(map[string]entities.Seller, len(seed))
	for _, seller := range seed {
		sellers[seller.SellerID] = seller
	}
	return &Store{sellers: sellers}
}

func (s *Store) GetSeller(_ context.Context, sellerID string) (entities.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seller, ok := s.sellers[sellerID]
	if !ok {
		return entities.Seller{}, domainerrors.ErrSellerNotFound
	}
	return seller, nil
}

func (s *Store) CreateSeller(ctx context.Context, seller entities.Seller) error {
	tx, err := uow.MemTxFrom(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.sellers[seller.SellerID]
	s.mu.RUnlock()
	if exists {
		return domainerrors.ErrDuplicateSellerID
	}

	tx.Stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.sellers[seller.SellerID] = seller
	})
	return nil
}

func (s *Store) UpdateSeller(ctx context.Context, seller entities.Seller) error {
	tx, err := uow.MemTxFrom(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.sellers[seller.SellerID]
	s.mu.RUnlock()
	if !exists {
		return domainerrors.ErrSellerNotFound
	}

	tx.Stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.sellers[seller.SellerID] = seller
	})
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Dedup is the in-memory EventDedupStore for tests and local runs.
type Dedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]struct{})}
}

func (d *Dedup) Seen(_ context.Context, consumer, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[consumer+"|"+eventID]
	return ok, nil
}

func (d *Dedup) Mark(_ context.Context, consumer, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[consumer+"|"+eventID] = struct{}{}
	return nil
}
