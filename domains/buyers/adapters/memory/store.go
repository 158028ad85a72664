// Package memory implements the buyers ports on in-memory state. It is the
// wired runtime default for this module.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"caravel/domains/buyers/domain/entities"
	domainerrors "caravel/domains/buyers/domain/errors"
	"caravel/internal/shared/uow"
)

type Store struct {
	mu      sync.RWMutex
	buyers  map[string]entities.Buyer
	byEmail map[string]string
}

func NewStore(seed []entities.Buyer) *Store {
	buyers := make(map[string]entities.Buyer, len(seed))
	byEmail := make(map[string]string, len(seed))
	for _, buyer := range seed {
		buyers[buyer.BuyerID] = buyer
		byEmail[buyer.Email] = buyer.BuyerID
	}
	return &Store{buyers: buyers, byEmail: byEmail}
}

func (s *Store) GetBuyer(_ context.Context, buyerID string) (entities.Buyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buyer, ok := s.buyers[buyerID]
	if !ok {
		return entities.Buyer{}, domainerrors.ErrBuyerNotFound
	}
	return buyer, nil
}

func (s *Store) GetBuyerByEmail(_ context.Context, email string) (entities.Buyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buyerID, ok := s.byEmail[email]
	if !ok {
		return entities.Buyer{}, domainerrors.ErrBuyerNotFound
	}
	return s.buyers[buyerID], nil
}

func (s *Store) CreateBuyer(ctx context.Context, buyer entities.Buyer) error {
	tx, err := uow.MemTxFrom(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.byEmail[buyer.Email]
	s.mu.RUnlock()
	if exists {
		return domainerrors.ErrEmailTaken
	}

	tx.Stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.buyers[buyer.BuyerID] = buyer
		s.byEmail[buyer.Email] = buyer.BuyerID
	})
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
