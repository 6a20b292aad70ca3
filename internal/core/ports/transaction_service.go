package ports

import (
	"context"

	"github.com/paygate/approval-service/internal/core/domain"
)

// CreateTransactionInput carries the data needed to open a transaction.
type CreateTransactionInput struct {
	Amount         float64
	OwnerID        int64
	IdempotencyKey string
}

// ResolveTransactionInput carries an administrator's decision.
type ResolveTransactionInput struct {
	TransactionID int64
	ActorID       int64
	Status        domain.TransactionStatus
}

// ListTransactionsInput carries the caller and paging parameters for listing.
type ListTransactionsInput struct {
	CallerID   int64
	CallerRole domain.Role
	Page       int
	Limit      int
}

// TransactionView is a transaction with owner and approver identities resolved.
type TransactionView struct {
	ID         int64
	Amount     float64
	Status     domain.TransactionStatus
	Owner      *domain.UserSummary
	ApprovedBy *domain.UserSummary
	// Replayed is true when an Idempotency-Key matched an earlier request.
	Replayed bool
}

// TransactionService defines use-case operations for transactions.
type TransactionService interface {
	Create(ctx context.Context, input CreateTransactionInput) (*TransactionView, error)
	Resolve(ctx context.Context, input ResolveTransactionInput) (*TransactionView, error)
	List(ctx context.Context, input ListTransactionsInput) (*domain.Page[TransactionView], error)
}
