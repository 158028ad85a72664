package outbox_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	contractsv1 "caravel/contracts/events/v1"
	"caravel/internal/shared/outbox"
	outboxmemory "caravel/internal/shared/outbox/memory"
	"caravel/internal/shared/uow"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakePublisher fails a configured number of times per event id, then
// succeeds, recording every successful publish in order.
type fakePublisher struct {
	mu        sync.Mutex
	failures  map[string]int
	permanent map[string]error
	published []contractsv1.Envelope
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		failures:  make(map[string]int),
		permanent: make(map[string]error),
	}
}

func (p *fakePublisher) Publish(_ context.Context, _ string, envelope contractsv1.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.permanent[envelope.EventID]; ok {
		return err
	}
	if p.failures[envelope.EventID] > 0 {
		p.failures[envelope.EventID]--
		return fmt.Errorf("broker unavailable for %s", envelope.EventID)
	}
	p.published = append(p.published, envelope)
	return nil
}

func (p *fakePublisher) publishedIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.published))
	for _, envelope := range p.published {
		ids = append(ids, envelope.EventID)
	}
	return ids
}

func appendRecord(t *testing.T, store *outboxmemory.Store, aggregateID, eventType string, payload []byte) outbox.Record {
	t.Helper()
	var record outbox.Record
	err := uow.Memory{}.Execute(context.Background(), func(ctx context.Context) error {
		var appendErr error
		record, appendErr = store.Append(ctx, aggregateID, eventType, payload)
		return appendErr
	})
	if err != nil {
		t.Fatalf("append record failed: %v", err)
	}
	return record
}

func newRelay(store *outboxmemory.Store, publisher outbox.Publisher, clock outbox.Clock) *outbox.Relay {
	return &outbox.Relay{
		Store:       store,
		Publisher:   publisher,
		Clock:       clock,
		Domain:      "products",
		BatchSize:   50,
		MaxAttempts: 8,
		BaseBackoff: 10 * time.Millisecond,
		MaxBackoff:  time.Second,
	}
}

func TestRelayPublishesInCommitOrderWithEnvelope(t *testing.T) {
	clock := newFakeClock()
	store := outboxmemory.NewStore(clock)
	publisher := newFakePublisher()
	relay := newRelay(store, publisher, clock)

	first := appendRecord(t, store, "prod-1", "ProductCreated@1", []byte(`{"product_id":"prod-1"}`))
	second := appendRecord(t, store, "prod-1", "ProductPriceChanged@1", []byte(`{"product_id":"prod-1"}`))

	result, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay cycle failed: %v", err)
	}
	if result.Published != 2 {
		t.Fatalf("expected 2 published, got %+v", result)
	}

	ids := publisher.publishedIDs()
	if len(ids) != 2 || ids[0] != first.ID.String() || ids[1] != second.ID.String() {
		t.Fatalf("expected publish order %s,%s got %v", first.ID, second.ID, ids)
	}

	envelope := publisher.published[0]
	if envelope.EventType != "ProductCreated@1" {
		t.Fatalf("unexpected event type %q", envelope.EventType)
	}
	if envelope.SchemaVersion != 1 {
		t.Fatalf("unexpected schema version %d", envelope.SchemaVersion)
	}
	if envelope.AggregateID != "prod-1" {
		t.Fatalf("unexpected aggregate id %q", envelope.AggregateID)
	}
	if envelope.SourceModule != "products" {
		t.Fatalf("unexpected source module %q", envelope.SourceModule)
	}

	sent, _ := store.Record(first.ID.String())
	if sent.Status != outbox.StatusSent {
		t.Fatalf("expected SENT, got %s", sent.Status)
	}
	if sent.DeliveryAttempts != 1 {
		t.Fatalf("expected 1 delivery attempt, got %d", sent.DeliveryAttempts)
	}
	if sent.SentAt == nil {
		t.Fatalf("expected sent timestamp")
	}
}

func TestRelayRetriesWithBackoffUntilSuccess(t *testing.T) {
	clock := newFakeClock()
	store := outboxmemory.NewStore(clock)
	publisher := newFakePublisher()
	relay := newRelay(store, publisher, clock)
	ctx := context.Background()

	record := appendRecord(t, store, "prod-9", "ProductCreated@1", []byte(`{}`))
	publisher.failures[record.ID.String()] = 3

	for cycle := 0; cycle < 10; cycle++ {
		if _, err := relay.RunOnce(ctx); err != nil {
			t.Fatalf("cycle %d failed: %v", cycle, err)
		}
		snapshot, _ := store.Record(record.ID.String())
		if snapshot.Status == outbox.StatusSent {
			break
		}
		clock.Advance(5 * time.Second)
	}

	final, _ := store.Record(record.ID.String())
	if final.Status != outbox.StatusSent {
		t.Fatalf("expected SENT after retries, got %s", final.Status)
	}
	if final.DeliveryAttempts != 4 {
		t.Fatalf("expected 4 delivery attempts after 3 failures and 1 success, got %d", final.DeliveryAttempts)
	}
	if final.LastError == "" {
		t.Fatalf("expected last error preserved from failed attempts")
	}
}

func TestRelayHoldsLaterRecordsOfBackingOffAggregate(t *testing.T) {
	clock := newFakeClock()
	store := outboxmemory.NewStore(clock)
	publisher := newFakePublisher()
	relay := newRelay(store, publisher, clock)
	ctx := context.Background()

	e1 := appendRecord(t, store, "agg-x", "ProductCreated@1", []byte(`{"n":1}`))
	e2 := appendRecord(t, store, "agg-x", "ProductPriceChanged@1", []byte(`{"n":2}`))
	e3 := appendRecord(t, store, "agg-y", "ProductCreated@1", []byte(`{"n":3}`))

	publisher.failures[e1.ID.String()] = 1

	result, err := relay.RunOnce(ctx)
	if err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}
	if result.Published != 1 {
		t.Fatalf("expected only the agg-y record published, got %+v", result)
	}
	if result.Held != 1 {
		t.Fatalf("expected the second agg-x record held, got %+v", result)
	}

	ids := publisher.publishedIDs()
	if len(ids) != 1 || ids[0] != e3.ID.String() {
		t.Fatalf("expected %s published first, got %v", e3.ID, ids)
	}

	// After the backoff window, agg-x drains in order.
	clock.Advance(5 * time.Second)
	if _, err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}

	ids = publisher.publishedIDs()
	if len(ids) != 3 || ids[1] != e1.ID.String() || ids[2] != e2.ID.String() {
		t.Fatalf("expected agg-x order preserved after retry, got %v", ids)
	}
}

func TestRelayMovesRecordToFailedAfterAttemptCeiling(t *testing.T) {
	clock := newFakeClock()
	store := outboxmemory.NewStore(clock)
	publisher := newFakePublisher()
	relay := newRelay(store, publisher, clock)
	relay.MaxAttempts = 3
	ctx := context.Background()

	record := appendRecord(t, store, "agg-dead", "ProductCreated@1", []byte(`{}`))
	publisher.failures[record.ID.String()] = 100

	for cycle := 0; cycle < 5; cycle++ {
		if _, err := relay.RunOnce(ctx); err != nil {
			t.Fatalf("cycle %d failed: %v", cycle, err)
		}
		clock.Advance(time.Minute)
	}

	final, _ := store.Record(record.ID.String())
	if final.Status != outbox.StatusFailed {
		t.Fatalf("expected FAILED after ceiling, got %s", final.Status)
	}
	if final.LastError == "" {
		t.Fatalf("expected diagnostic error on failed record")
	}
}

func TestRelayFailedRecordDoesNotBlockOtherAggregates(t *testing.T) {
	clock := newFakeClock()
	store := outboxmemory.NewStore(clock)
	publisher := newFakePublisher()
	relay := newRelay(store, publisher, clock)
	relay.Classifier = outbox.RetryClassifierFunc(func(err error) bool {
		return errors.Is(err, errPermanent)
	})
	ctx := context.Background()

	poisoned := appendRecord(t, store, "agg-poison", "ProductCreated@1", []byte(`{}`))
	healthy := appendRecord(t, store, "agg-healthy", "ProductCreated@1", []byte(`{}`))
	publisher.permanent[poisoned.ID.String()] = errPermanent

	result, err := relay.RunOnce(ctx)
	if err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if result.Failed != 1 || result.Published != 1 {
		t.Fatalf("expected one failed and one published, got %+v", result)
	}

	poisonedFinal, _ := store.Record(poisoned.ID.String())
	if poisonedFinal.Status != outbox.StatusFailed {
		t.Fatalf("expected non-retryable record FAILED, got %s", poisonedFinal.Status)
	}
	healthyFinal, _ := store.Record(healthy.ID.String())
	if healthyFinal.Status != outbox.StatusSent {
		t.Fatalf("expected healthy record SENT, got %s", healthyFinal.Status)
	}
}

var errPermanent = errors.New("payload rejected by broker")

// racingPublisher simulates a competing relay instance that flips the record
// to SENT while this relay's publish is still in flight.
type racingPublisher struct {
	store *outboxmemory.Store
	clock outbox.Clock
}

func (p *racingPublisher) Publish(ctx context.Context, _ string, envelope contractsv1.Envelope) error {
	_, err := p.store.MarkSent(ctx, envelope.EventID, p.clock.Now())
	return err
}

func TestRelayLostSentRaceCountsAsRaced(t *testing.T) {
	clock := newFakeClock()
	store := outboxmemory.NewStore(clock)
	relay := newRelay(store, &racingPublisher{store: store, clock: clock}, clock)
	ctx := context.Background()

	record := appendRecord(t, store, "agg-race", "ProductCreated@1", []byte(`{}`))

	result, err := relay.RunOnce(ctx)
	if err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if result.Raced != 1 || result.Published != 0 {
		t.Fatalf("expected the lost flip counted as raced, got %+v", result)
	}

	final, _ := store.Record(record.ID.String())
	if final.Status != outbox.StatusSent {
		t.Fatalf("expected SENT, got %s", final.Status)
	}
	if final.DeliveryAttempts != 1 {
		t.Fatalf("expected exactly one counted attempt, got %d", final.DeliveryAttempts)
	}
}

func TestRelayRunRejectsSecondLoop(t *testing.T) {
	clock := newFakeClock()
	store := outboxmemory.NewStore(clock)
	relay := newRelay(store, newFakePublisher(), clock)
	relay.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	go func() {
		close(started)
		_ = relay.Run(ctx)
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	if err := relay.Run(ctx); !errors.Is(err, outbox.ErrRelayAlreadyRunning) {
		t.Fatalf("expected ErrRelayAlreadyRunning, got %v", err)
	}
	cancel()
}
