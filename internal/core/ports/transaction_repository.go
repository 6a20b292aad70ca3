package ports

import (
	"context"

	"github.com/paygate/approval-service/internal/core/domain"
)

// ListTransactionsFilter carries the query parameters for listing transactions.
type ListTransactionsFilter struct {
	OwnerID int64 // 0 = no filter (admin); non-zero = scoped to owner
	Offset  int
	Limit   int
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	// Create inserts t and sets its ID and timestamps.
	Create(ctx context.Context, t *domain.Transaction) error
	FindByID(ctx context.Context, id int64) (*domain.Transaction, error)
	// Resolve moves a transaction from `from` to `to` and records the approver.
	// The write only applies while the stored status still equals from;
	// otherwise domain.ErrInvalidTransition is returned.
	Resolve(ctx context.Context, id int64, from, to domain.TransactionStatus, approverID int64) (*domain.Transaction, error)
	// List returns a page of transactions matching filter, ordered by id, and the total count.
	List(ctx context.Context, filter ListTransactionsFilter) ([]*domain.Transaction, int64, error)
}
