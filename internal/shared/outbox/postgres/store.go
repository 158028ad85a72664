// Package postgres persists one domain module's outbox in its own table,
// co-located with the module's primary tables so the append shares the
// use-case transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"caravel/internal/shared/outbox"
	"caravel/internal/shared/uow"
)

// Store implements outbox.Appender and outbox.Store against a gorm-managed
// table. Each domain module gets its own table name; no module ever reads
// another module's outbox.
type Store struct {
	db    *gorm.DB
	table string
	clock outbox.Clock
}

func NewStore(db *gorm.DB, table string, clock outbox.Clock) *Store {
	if clock == nil {
		clock = outbox.SystemClock{}
	}
	return &Store{
		db:    db,
		table: table,
		clock: clock,
	}
}

// Append writes a pending row using the gorm transaction carried by the
// caller's unit of work. Invoked outside a unit of work it fails with
// uow.ErrNoActiveTransaction.
func (s *Store) Append(ctx context.Context, aggregateID, eventType string, payload []byte) (outbox.Record, error) {
	tx, err := gormTxFrom(ctx)
	if err != nil {
		return outbox.Record{}, err
	}

	record, err := outbox.NewRecord(aggregateID, eventType, payload, s.clock.Now())
	if err != nil {
		return outbox.Record{}, err
	}

	row := modelFromRecord(record)
	if err := tx.Table(s.table).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return outbox.Record{}, fmt.Errorf("outbox append collided on id %s: %w", record.ID, err)
		}
		return outbox.Record{}, err
	}
	return record, nil
}

func (s *Store) ListPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []recordModel
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("status = ?", string(outbox.StatusPending)).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	records := make([]outbox.Record, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// MarkSent is the coordination point between concurrent relay instances: a
// conditional update guarded by status = PENDING. Zero affected rows means a
// racing instance already flipped the record.
func (s *Store) MarkSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Table(s.table).
		Where("id = ? AND status = ?", id, string(outbox.StatusPending)).
		Updates(map[string]any{
			"status":            string(outbox.StatusSent),
			"sent_at":           sentAt.UTC(),
			"delivery_attempts": gorm.Expr("delivery_attempts + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) RecordFailure(ctx context.Context, id string, errMsg string, nextAttemptAt time.Time) error {
	return s.db.WithContext(ctx).
		Table(s.table).
		Where("id = ? AND status = ?", id, string(outbox.StatusPending)).
		Updates(map[string]any{
			"delivery_attempts": gorm.Expr("delivery_attempts + 1"),
			"last_error":        errMsg,
			"next_attempt_at":   nextAttemptAt.UTC(),
		}).
		Error
}

func (s *Store) MarkFailed(ctx context.Context, id string, errMsg string) error {
	return s.db.WithContext(ctx).
		Table(s.table).
		Where("id = ? AND status = ?", id, string(outbox.StatusPending)).
		Updates(map[string]any{
			"status":            string(outbox.StatusFailed),
			"delivery_attempts": gorm.Expr("delivery_attempts + 1"),
			"last_error":        errMsg,
		}).
		Error
}

type recordModel struct {
	ID               string     `gorm:"column:id;primaryKey"`
	AggregateID      string     `gorm:"column:aggregate_id"`
	EventType        string     `gorm:"column:event_type"`
	Payload          []byte     `gorm:"column:payload"`
	Status           string     `gorm:"column:status"`
	DeliveryAttempts int        `gorm:"column:delivery_attempts"`
	NextAttemptAt    time.Time  `gorm:"column:next_attempt_at"`
	LastError        string     `gorm:"column:last_error"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	SentAt           *time.Time `gorm:"column:sent_at"`
}

func modelFromRecord(record outbox.Record) recordModel {
	return recordModel{
		ID:               record.ID.String(),
		AggregateID:      record.AggregateID,
		EventType:        record.EventType,
		Payload:          record.Payload,
		Status:           string(record.Status),
		DeliveryAttempts: record.DeliveryAttempts,
		NextAttemptAt:    record.NextAttemptAt.UTC(),
		LastError:        record.LastError,
		CreatedAt:        record.CreatedAt.UTC(),
		SentAt:           record.SentAt,
	}
}

func (m recordModel) toRecord() (outbox.Record, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return outbox.Record{}, fmt.Errorf("outbox row id: %w", err)
	}
	status, err := outbox.ParseStatus(m.Status)
	if err != nil {
		return outbox.Record{}, err
	}

	return outbox.Record{
		ID:               id,
		AggregateID:      m.AggregateID,
		EventType:        m.EventType,
		Payload:          append([]byte(nil), m.Payload...),
		Status:           status,
		DeliveryAttempts: m.DeliveryAttempts,
		NextAttemptAt:    m.NextAttemptAt.UTC(),
		LastError:        m.LastError,
		CreatedAt:        m.CreatedAt.UTC(),
		SentAt:           m.SentAt,
	}, nil
}

func gormTxFrom(ctx context.Context) (*gorm.DB, error) {
	raw, ok := uow.From(ctx)
	if !ok {
		return nil, uow.ErrNoActiveTransaction
	}
	tx, ok := raw.(*gorm.DB)
	if !ok {
		return nil, uow.ErrNoActiveTransaction
	}
	return tx, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
