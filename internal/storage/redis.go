package storage

import (
	"complaintdedup/backend/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// PublishEvent publishes a complaint event to Redis Pub/Sub.
func (s *Service) PublishEvent(ctx context.Context, event models.ComplaintEvent) error {
	if s.Redis == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, EventsChannel, string(payload)).Err()
}

// SubscribeEvents subscribes to the complaint events channel.
func (s *Service) SubscribeEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, EventsChannel)
}

// AcquireLock obtains a short-lived advisory lock on key, retrying briefly.
// Without Redis the returned release is a no-op and no lock is held.
func (s *Service) AcquireLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if s.Locker == nil {
		return func() {}, nil
	}

	lock, err := s.Locker.Obtain(ctx, "lock:"+key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(ttl/(50*time.Millisecond))),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("lock %s busy: %w", key, err)
	}
	if err != nil {
		return nil, err
	}

	return func() {
		// The lock expires on its own if release fails.
		_ = lock.Release(context.Background())
	}, nil
}
