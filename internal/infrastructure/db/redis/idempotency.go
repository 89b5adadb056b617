package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/g6blog/blog-api/internal/core/domain"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingMarker         = "pending"
)

// IdempotencyStore remembers which blog a client-supplied Idempotency-Key
// produced. Key format: idem:blog:<actor_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim reserves the key for the caller. It returns "" when the caller now owns
// the key, the bound blog id when an earlier request already completed, and
// domain.ErrRequestInProgress while another request still holds the key.
func (s *IdempotencyStore) Claim(ctx context.Context, actorID, key string) (string, error) {
	k := s.key(actorID, key)

	// A bound key can expire between SETNX and GET; one retry covers that window.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("idempotency claim: %w", err)
		}
		if ok {
			return "", nil
		}

		val, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("idempotency lookup: %w", err)
		}
		if val == pendingMarker {
			return "", domain.ErrRequestInProgress
		}
		return val, nil
	}
	return "", domain.ErrRequestInProgress
}

// Bind records the blog produced for a claimed key.
func (s *IdempotencyStore) Bind(ctx context.Context, actorID, key, blogID string) error {
	if err := s.client.Set(ctx, s.key(actorID, key), blogID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency bind: %w", err)
	}
	return nil
}

// Release drops a claim so the client can retry after a failed create.
func (s *IdempotencyStore) Release(ctx context.Context, actorID, key string) error {
	if err := s.client.Del(ctx, s.key(actorID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(actorID, key string) string {
	return fmt.Sprintf("idem:blog:%s:%s", actorID, key)
}
