package uow

import (
	"context"
	"sync"
)

// MemTx is the in-memory unit-of-work staging area. Adapters stage map
// mutations against it; nothing is visible until Commit applies the whole
// batch, so a failing use case leaves no partial state behind.
type MemTx struct {
	mu     sync.Mutex
	staged []func()
}

func NewMemTx() *MemTx {
	return &MemTx{}
}

// Stage records one mutation to apply at commit time.
func (t *MemTx) Stage(apply func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staged = append(t.staged, apply)
}

// Commit applies staged mutations in order.
func (t *MemTx) Commit() {
	t.mu.Lock()
	staged := t.staged
	t.staged = nil
	t.mu.Unlock()

	for _, apply := range staged {
		apply()
	}
}

// MemTxFrom resolves the staging area opened by the surrounding memory unit
// of work.
func MemTxFrom(ctx context.Context) (*MemTx, error) {
	raw, ok := From(ctx)
	if !ok {
		return nil, ErrNoActiveTransaction
	}
	tx, ok := raw.(*MemTx)
	if !ok {
		return nil, ErrNoActiveTransaction
	}
	return tx, nil
}

// Memory runs use-case functions inside an in-memory unit of work. It is the
// developer/test counterpart of the gorm-backed executor in platform/db.
type Memory struct{}

func (Memory) Execute(ctx context.Context, fn func(context.Context) error) error {
	tx := NewMemTx()
	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	tx.Commit()
	return nil
}
