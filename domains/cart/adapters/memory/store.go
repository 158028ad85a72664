// Package memory implements the cart ports on in-memory state for local
// runtime and tests. It is not intended as production persistence.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"caravel/domains/cart/domain/entities"
	domainerrors "caravel/domains/cart/domain/errors"
	"caravel/internal/shared/uow"
)

type Store struct {
	mu      sync.RWMutex
	carts   map[string]entities.Cart
	byBuyer map[string]string
}

func NewStore(seed []entities.Cart) *Store {
	carts := make(map[string]entities.Cart, len(seed))
	byBuyer := make(map[string]string, len(seed))
	for _, cart := range seed {
		carts[cart.CartID] = cloneCart(cart)
		byBuyer[cart.BuyerID] = cart.CartID
	}
	return &Store{carts: carts, byBuyer: byBuyer}
}

func (s *Store) GetCart(_ context.Context, cartID string) (entities.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return entities.Cart{}, domainerrors.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (s *Store) GetCartByBuyer(_ context.Context, buyerID string) (entities.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cartID, ok := s.byBuyer[buyerID]
	if !ok {
		return entities.Cart{}, domainerrors.ErrCartNotFound
	}
	return cloneCart(s.carts[cartID]), nil
}

// CreateCart stages the insert inside the caller's unit of work so the cart
// and its outbox record become durable together or not at all.
func (s *Store) CreateCart(ctx context.Context, cart entities.Cart) error {
	tx, err := uow.MemTxFrom(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.carts[cart.CartID]
	s.mu.RUnlock()
	if exists {
		return domainerrors.ErrDuplicateCartID
	}

	stored := cloneCart(cart)
	tx.Stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.carts[stored.CartID] = stored
		s.byBuyer[stored.BuyerID] = stored.CartID
	})
	return nil
}

func (s *Store) UpdateCart(ctx context.Context, cart entities.Cart) error {
	tx, err := uow.MemTxFrom(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.carts[cart.CartID]
	s.mu.RUnlock()
	if !exists {
		return domainerrors.ErrCartNotFound
	}

	stored := cloneCart(cart)
	tx.Stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.carts[stored.CartID] = stored
	})
	return nil
}

func (s *Store) ListCartsWithProduct(_ context.Context, productID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cartIDs []string
	for cartID, cart := range s.carts {
		for _, item := range cart.Items {
			if item.ProductID == productID {
				cartIDs = append(cartIDs, cartID)
				break
			}
		}
	}
	return cartIDs, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneCart(cart entities.Cart) entities.Cart {
	cart.Items = append([]entities.CartItem(nil), cart.Items...)
	return cart
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
