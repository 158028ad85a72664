// Package localbus is a synchronous observer list for notifications that
// stay inside one domain module's unit of work. It carries no durability
// guarantee and must never be used for cross-module effects; those go
// through the outbox pipeline.
package localbus

import (
	"context"
	"errors"
	"sync"
)

// Bus fans one module-internal event out to its subscribers, synchronously
// and in subscription order.
type Bus[E any] struct {
	mu        sync.RWMutex
	observers []func(context.Context, E) error
}

func New[E any]() *Bus[E] {
	return &Bus[E]{}
}

// Subscribe registers an observer. Observers run on the publisher's
// goroutine, inside the publisher's unit of work.
func (b *Bus[E]) Subscribe(observer func(context.Context, E) error) {
	if observer == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, observer)
}

// Publish delivers event to every observer and joins their errors.
func (b *Bus[E]) Publish(ctx context.Context, event E) error {
	b.mu.RLock()
	observers := append([]func(context.Context, E) error(nil), b.observers...)
	b.mu.RUnlock()

	var errs []error
	for _, observer := range observers {
		if err := observer(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
