package uow

import (
	"context"
	"errors"
)

// ErrNoActiveTransaction signals an outbox append or repository write issued
// outside an open unit of work. This is a programming-contract violation,
// not a runtime condition callers should retry.
var ErrNoActiveTransaction = errors.New("no active unit of work in context")

type txContextKey struct{}

// WithTx returns a context carrying the backend transaction handle for the
// current unit of work. Adapters stash their own handle type (a *gorm.DB
// transaction, a memory staging area) and type-assert it back in From.
func WithTx(ctx context.Context, tx any) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// From extracts the transaction handle opened by the surrounding unit of
// work, if any.
func From(ctx context.Context) (any, bool) {
	tx := ctx.Value(txContextKey{})
	if tx == nil {
		return nil, false
	}
	return tx, true
}
