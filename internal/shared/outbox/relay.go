package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	contractsv1 "caravel/contracts/events/v1"
	"caravel/internal/shared/backoff"
)

const (
	defaultBatchSize      = 100
	defaultMaxAttempts    = 8
	defaultBaseBackoff    = 500 * time.Millisecond
	defaultMaxBackoff     = time.Minute
	defaultPublishTimeout = 5 * time.Second
	defaultPollInterval   = 2 * time.Second
)

// Publisher is the broker-side contract the relay needs: partitioned publish
// of canonical envelopes, at-least-once semantics.
type Publisher interface {
	Publish(ctx context.Context, topic string, envelope contractsv1.Envelope) error
}

// Relay drains one domain module's outbox and publishes pending records in
// commit order. Multiple relay instances may run against the same store; the
// conditional SENT flip in the store resolves races, duplicate publishes are
// tolerated by consumer idempotence.
type Relay struct {
	Store          Store
	Publisher      Publisher
	Clock          Clock
	Classifier     RetryClassifier
	Domain         string
	BatchSize      int
	MaxAttempts    int
	BaseBackoff    time.Duration
	MaxBackoff     time.Duration
	PublishTimeout time.Duration
	PollInterval   time.Duration
	Logger         *slog.Logger

	runMu   sync.Mutex
	running bool
}

// Result captures one relay cycle outcome.
type Result struct {
	Listed    int
	Published int
	Raced     int
	Retried   int
	Failed    int
	Held      int
}

// Run polls the store until ctx is cancelled. Cycle-level failures (store
// unreachable, broker down) are logged and retried on the next tick, never
// fatal to the loop.
func (r *Relay) Run(ctx context.Context) error {
	if r.Store == nil {
		return ErrStoreRequired
	}
	if r.Publisher == nil {
		return ErrPublisherRequired
	}

	r.runMu.Lock()
	if r.running {
		r.runMu.Unlock()
		return ErrRelayAlreadyRunning
	}
	r.running = true
	r.runMu.Unlock()
	defer func() {
		r.runMu.Lock()
		r.running = false
		r.runMu.Unlock()
	}()

	interval := r.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger().Error("outbox relay cycle failed",
				"event", "outbox_relay_cycle_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"domain", r.Domain,
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce drains one batch. It returns an error only when the pending list
// itself cannot be read; per-record publish failures are absorbed into the
// Result and retried with backoff on later cycles.
func (r *Relay) RunOnce(ctx context.Context) (Result, error) {
	if r.Store == nil {
		return Result{}, ErrStoreRequired
	}
	if r.Publisher == nil {
		return Result{}, ErrPublisherRequired
	}

	limit := r.BatchSize
	if limit <= 0 {
		limit = defaultBatchSize
	}

	pending, err := r.Store.ListPending(ctx, limit)
	if err != nil {
		return Result{}, err
	}

	now := r.now()
	result := Result{Listed: len(pending)}

	// Aggregates whose head record is backing off or just failed a publish
	// stay held for the rest of the cycle so a later record of the same
	// aggregate can never overtake an earlier one.
	held := make(map[string]bool)

	for _, record := range pending {
		if ctx.Err() != nil {
			break
		}

		if held[record.AggregateID] {
			result.Held++
			continue
		}
		if record.NextAttemptAt.After(now) {
			held[record.AggregateID] = true
			result.Held++
			continue
		}

		if err := r.deliver(ctx, record, now, &result); err != nil {
			held[record.AggregateID] = true
		}
	}

	if result.Published > 0 || result.Failed > 0 {
		r.logger().Info("outbox relay cycle completed",
			"event", "outbox_relay_cycle_completed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"domain", r.Domain,
			"listed", result.Listed,
			"published", result.Published,
			"raced", result.Raced,
			"retried", result.Retried,
			"failed", result.Failed,
		)
	}
	return result, nil
}

// deliver publishes one record and applies its state transition. A non-nil
// return means the record stayed pending and its aggregate must be held.
func (r *Relay) deliver(ctx context.Context, record Record, now time.Time, result *Result) error {
	envelope, err := r.envelope(record)
	if err != nil {
		// Malformed records can never publish; park them terminally so the
		// head of the line keeps moving.
		r.markFailed(ctx, record, err)
		result.Failed++
		return nil
	}

	topic, err := TopicFor(r.Domain, record.EventType)
	if err != nil {
		r.markFailed(ctx, record, err)
		result.Failed++
		return nil
	}

	publishCtx := ctx
	if timeout := r.publishTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		publishCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := r.Publisher.Publish(publishCtx, topic, envelope); err != nil {
		return r.handlePublishError(ctx, record, now, err, result)
	}

	flipped, err := r.Store.MarkSent(ctx, record.ID.String(), now)
	if err != nil {
		// Published but the state flip did not persist; the record will be
		// re-published on a later cycle. Consumers dedupe by event id.
		r.logger().Error("outbox record published but SENT flip failed",
			"event", "outbox_mark_sent_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"domain", r.Domain,
			"record_id", record.ID.String(),
			"error", err.Error(),
		)
		return nil
	}
	if !flipped {
		result.Raced++
		return nil
	}

	result.Published++
	return nil
}

func (r *Relay) handlePublishError(ctx context.Context, record Record, now time.Time, publishErr error, result *Result) error {
	if r.Classifier != nil && r.Classifier.IsNonRetryable(publishErr) {
		r.markFailed(ctx, record, publishErr)
		result.Failed++
		return nil
	}

	attempts := record.DeliveryAttempts + 1
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	if attempts >= maxAttempts {
		r.markFailed(ctx, record, publishErr)
		result.Failed++
		return nil
	}

	base := r.BaseBackoff
	if base <= 0 {
		base = defaultBaseBackoff
	}
	maxDelay := r.MaxBackoff
	if maxDelay <= 0 {
		maxDelay = defaultMaxBackoff
	}

	nextAttemptAt := now.Add(backoff.ExponentialWithJitter(base, attempts, maxDelay))
	if err := r.Store.RecordFailure(ctx, record.ID.String(), publishErr.Error(), nextAttemptAt); err != nil {
		r.logger().Error("outbox failure bookkeeping failed",
			"event", "outbox_record_failure_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"domain", r.Domain,
			"record_id", record.ID.String(),
			"error", err.Error(),
		)
	}

	r.logger().Warn("outbox publish failed, will retry",
		"event", "outbox_publish_retry",
		"module", "internal/shared/outbox",
		"layer", "worker",
		"domain", r.Domain,
		"record_id", record.ID.String(),
		"event_type", record.EventType,
		"delivery_attempts", attempts,
		"error", publishErr.Error(),
	)

	result.Retried++
	return publishErr
}

func (r *Relay) markFailed(ctx context.Context, record Record, cause error) {
	if err := r.Store.MarkFailed(ctx, record.ID.String(), cause.Error()); err != nil {
		r.logger().Error("outbox mark failed did not persist",
			"event", "outbox_mark_failed_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"domain", r.Domain,
			"record_id", record.ID.String(),
			"error", err.Error(),
		)
		return
	}

	r.logger().Error("outbox record moved to FAILED",
		"event", "outbox_record_failed",
		"module", "internal/shared/outbox",
		"layer", "worker",
		"domain", r.Domain,
		"record_id", record.ID.String(),
		"event_type", record.EventType,
		"delivery_attempts", record.DeliveryAttempts+1,
		"error", cause.Error(),
	)
}

func (r *Relay) envelope(record Record) (contractsv1.Envelope, error) {
	_, major, err := ParseEventType(record.EventType)
	if err != nil {
		return contractsv1.Envelope{}, err
	}

	return contractsv1.Envelope{
		EventID:       record.ID.String(),
		EventType:     record.EventType,
		SchemaVersion: major,
		AggregateID:   record.AggregateID,
		SourceModule:  r.Domain,
		OccurredAt:    record.CreatedAt,
		Data:          append([]byte(nil), record.Payload...),
	}, nil
}

func (r *Relay) publishTimeout() time.Duration {
	if r.PublishTimeout <= 0 {
		return defaultPublishTimeout
	}
	return r.PublishTimeout
}

func (r *Relay) now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock.Now().UTC()
}

func (r *Relay) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
