package ports

import "context"

// IdempotencyStore remembers which transaction a client's Idempotency-Key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, ownerID int64, key string) (transactionID int64, found bool, err error)
	Remember(ctx context.Context, ownerID int64, key string, transactionID int64) error
}
