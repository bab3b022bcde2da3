package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	deliveryKeyPrefix = "consultation:delivery:"

	// DefaultDeliveryTTL covers the retry window of common chat platforms.
	DefaultDeliveryTTL = 10 * time.Minute
)

// DeliveryDeduplicator remembers webhook delivery IDs so that a message a
// chat platform redelivers is only applied once.
type DeliveryDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDeliveryDeduplicator(client *redis.Client, ttl time.Duration) *DeliveryDeduplicator {
	if ttl <= 0 {
		ttl = DefaultDeliveryTTL
	}
	return &DeliveryDeduplicator{client: client, ttl: ttl}
}

func (d *DeliveryDeduplicator) buildKey(deliveryID string) string {
	return deliveryKeyPrefix + deliveryID
}

// MarkIfFirst atomically records deliveryID. It returns true the first
// time an ID is seen within the TTL and false for repeats.
func (d *DeliveryDeduplicator) MarkIfFirst(ctx context.Context, deliveryID string) (bool, error) {
	acquired, err := d.client.SetNX(ctx, d.buildKey(deliveryID), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record delivery %s: %w", deliveryID, err)
	}
	return acquired, nil
}

// Forget removes deliveryID so that a failed delivery can be retried.
func (d *DeliveryDeduplicator) Forget(ctx context.Context, deliveryID string) error {
	if err := d.client.Del(ctx, d.buildKey(deliveryID)).Err(); err != nil {
		return fmt.Errorf("failed to release delivery %s: %w", deliveryID, err)
	}
	return nil
}
