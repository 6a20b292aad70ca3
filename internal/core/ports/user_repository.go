package ports

import (
	"context"

	"github.com/paygate/approval-service/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores user and returns it with its assigned ID.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.User, error)
}
