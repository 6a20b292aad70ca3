package ports

import (
	"context"

	"github.com/paygate/approval-service/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	ID    int64
	Email string
	Name  string
	Role  domain.Role
	Token string
}

// AuthService defines use-case operations for accounts and sessions.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.UserSummary, error)
	// FindSummaries resolves many ids in one lookup. Unknown ids are omitted.
	FindSummaries(ctx context.Context, ids []int64) (map[int64]domain.UserSummary, error)
}

// TokenVerifier validates a bearer token and returns the caller identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}
