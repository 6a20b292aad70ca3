package domain

import (
	"errors"
	"time"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusDone     TransactionStatus = "DONE"
	StatusRejected TransactionStatus = "REJECTED"
)

// validTransitions is one-way: a resolved transaction never moves again.
var validTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending: {StatusDone, StatusRejected},
}

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsResolution reports whether s is a status an administrator may set.
func (s TransactionStatus) IsResolution() bool {
	return s == StatusDone || s == StatusRejected
}

// Transaction is a value-transfer request awaiting administrative approval.
// ApprovedBy is nil while Status is PENDING and set once it is resolved.
type Transaction struct {
	ID         int64             `json:"id"`
	Amount     float64           `json:"amount"`
	Status     TransactionStatus `json:"status"`
	OwnerID    int64             `json:"owner"`
	ApprovedBy *int64            `json:"approved_by,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
