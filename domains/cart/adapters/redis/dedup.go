// Package redisadapter backs the cart's event dedup store with Redis so
// multiple worker replicas share one processed-event set.
package redisadapter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds dedup memory. Redelivery of an event older than the TTL
// is absorbed by the consumer's no-op price apply instead.
const DefaultTTL = 7 * 24 * time.Hour

type Dedup struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewDedup(client redis.UniversalClient, ttl time.Duration) *Dedup {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Dedup{client: client, ttl: ttl}
}

func (d *Dedup) Seen(ctx context.Context, consumer, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(consumer, eventID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *Dedup) Mark(ctx context.Context, consumer, eventID string) error {
	return d.client.Set(ctx, dedupKey(consumer, eventID), "1", d.ttl).Err()
}

func dedupKey(consumer, eventID string) string {
	return "dedup:" + consumer + ":" + eventID
}
