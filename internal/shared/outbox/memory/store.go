// Package memory implements the outbox store and writer on process-local
// state for tests and the in-memory runtime wiring. It is not production
// persistence.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"caravel/internal/shared/outbox"
	"caravel/internal/shared/uow"
)

// Store keeps one domain module's outbox records in memory. Append joins the
// surrounding memory unit of work; the relay-facing methods apply the same
// conditional transitions the postgres store expresses in SQL.
type Store struct {
	mu      sync.Mutex
	records map[string]outbox.Record
	clock   outbox.Clock
}

func NewStore(clock outbox.Clock) *Store {
	if clock == nil {
		clock = outbox.SystemClock{}
	}
	return &Store{
		records: make(map[string]outbox.Record),
		clock:   clock,
	}
}

// Append stages a pending record inside the caller's unit of work. Outside a
// unit of work it fails with uow.ErrNoActiveTransaction.
func (s *Store) Append(ctx context.Context, aggregateID, eventType string, payload []byte) (outbox.Record, error) {
	tx, err := uow.MemTxFrom(ctx)
	if err != nil {
		return outbox.Record{}, err
	}

	record, err := outbox.NewRecord(aggregateID, eventType, payload, s.clock.Now())
	if err != nil {
		return outbox.Record{}, err
	}

	tx.Stage(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.records[record.ID.String()] = record
	})
	return record, nil
}

func (s *Store) ListPending(_ context.Context, limit int) ([]outbox.Record, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]outbox.Record, 0, len(s.records))
	for _, record := range s.records {
		if record.Status == outbox.StatusPending {
			pending = append(pending, cloneRecord(record))
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID.String() < pending[j].ID.String()
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkSent(_ context.Context, id string, sentAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return false, outbox.ErrRecordNotFound
	}
	if record.Status != outbox.StatusPending {
		return false, nil
	}

	sentAt = sentAt.UTC()
	record.Status = outbox.StatusSent
	record.DeliveryAttempts++
	record.SentAt = &sentAt
	s.records[id] = record
	return true, nil
}

func (s *Store) RecordFailure(_ context.Context, id string, errMsg string, nextAttemptAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return outbox.ErrRecordNotFound
	}
	record.DeliveryAttempts++
	record.LastError = errMsg
	record.NextAttemptAt = nextAttemptAt.UTC()
	s.records[id] = record
	return nil
}

func (s *Store) MarkFailed(_ context.Context, id string, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return outbox.ErrRecordNotFound
	}
	record.Status = outbox.StatusFailed
	record.DeliveryAttempts++
	record.LastError = errMsg
	s.records[id] = record
	return nil
}

// Record returns a snapshot of one record for inspection in tests.
func (s *Store) Record(id string) (outbox.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return outbox.Record{}, false
	}
	return cloneRecord(record), true
}

// Records returns snapshots of every record ordered by append time.
func (s *Store) Records() []outbox.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]outbox.Record, 0, len(s.records))
	for _, record := range s.records {
		all = append(all, cloneRecord(record))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all
}

func cloneRecord(record outbox.Record) outbox.Record {
	record.Payload = append([]byte(nil), record.Payload...)
	if record.SentAt != nil {
		sentAt := *record.SentAt
		record.SentAt = &sentAt
	}
	return record
}
