package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps a client's Idempotency-Key to the transaction it created.
// Key format: idempotency:<owner_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Lookup returns the transaction id previously stored under key for ownerID.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID int64, key string) (int64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: corrupt value %q", raw)
	}
	return id, true, nil
}

// Remember stores txID under key. An existing entry is kept.
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID int64, key string, txID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := s.client.SetNX(ctx, s.key(ownerID, key), txID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID int64, key string) string {
	return fmt.Sprintf("idempotency:%d:%s", ownerID, key)
}
