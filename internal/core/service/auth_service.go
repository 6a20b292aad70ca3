package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

// AuthService implements registration, login and user lookups.
type AuthService struct {
	repo       ports.UserRepository
	tokens     *TokenManager
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenManager, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	ve := &domain.ValidationError{}
	if email == "" {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "email", Message: "email is required"})
	}
	if in.Password == "" {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "password", Message: "password is required"})
	}
	if strings.TrimSpace(in.Name) == "" {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if !in.Role.Valid() {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: "role", Message: "role must be one of: ADMIN, CLIENT"})
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrUserExists
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return s.authResult(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Debug().Int64("user_id", user.ID).Msg("password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	return s.authResult(user)
}

func (s *AuthService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

func (s *AuthService) FindByID(ctx context.Context, id int64) (*domain.UserSummary, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *AuthService) FindSummaries(ctx context.Context, ids []int64) (map[int64]domain.UserSummary, error) {
	out := make(map[int64]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	users, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

func (s *AuthService) authResult(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		Token: token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
