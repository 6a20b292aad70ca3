package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

// UserDirectory resolves user ids to public summaries.
type UserDirectory interface {
	FindByID(ctx context.Context, id int64) (*domain.UserSummary, error)
	FindSummaries(ctx context.Context, ids []int64) (map[int64]domain.UserSummary, error)
}

type TransactionService struct {
	repo        ports.TransactionRepository
	users       UserDirectory
	idempotency ports.IdempotencyStore // optional
	logger      zerolog.Logger
}

// NewTransactionService wires the workflow. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewTransactionService(
	repo ports.TransactionRepository,
	users UserDirectory,
	idempotency ports.IdempotencyStore,
	logger zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		repo:        repo,
		users:       users,
		idempotency: idempotency,
		logger:      logger,
	}
}

// Create opens a PENDING transaction owned by the caller. If an idempotency key
// is provided and already seen for this owner, the earlier transaction is
// returned without side effects.
func (s *TransactionService) Create(ctx context.Context, in ports.CreateTransactionInput) (*ports.TransactionView, error) {
	if in.OwnerID <= 0 {
		return nil, domain.ErrUnauthorized
	}

	if replay := s.replay(ctx, in); replay != nil {
		return replay, nil
	}

	now := time.Now().UTC()
	t := &domain.Transaction{
		Amount:    in.Amount,
		Status:    domain.StatusPending,
		OwnerID:   in.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error().Err(err).Int64("owner_id", in.OwnerID).Msg("failed to create transaction")
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, in.OwnerID, in.IdempotencyKey, t.ID); err != nil {
			s.logger.Warn().Err(err).Int64("transaction_id", t.ID).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Int64("transaction_id", t.ID).Int64("owner_id", t.OwnerID).Float64("amount", t.Amount).Msg("transaction created")
	return s.view(ctx, t)
}

func (s *TransactionService) replay(ctx context.Context, in ports.CreateTransactionInput) *ports.TransactionView {
	if in.IdempotencyKey == "" || s.idempotency == nil {
		return nil
	}

	id, found, err := s.idempotency.Lookup(ctx, in.OwnerID, in.IdempotencyKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil || t.OwnerID != in.OwnerID {
		s.logger.Warn().Err(err).Int64("transaction_id", id).Msg("idempotency key points to unusable transaction")
		return nil
	}

	view, err := s.view(ctx, t)
	if err != nil {
		s.logger.Warn().Err(err).Int64("transaction_id", id).Msg("idempotent replay failed")
		return nil
	}
	view.Replayed = true
	s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Int64("transaction_id", id).Msg("idempotent replay")
	return view
}

// Resolve applies an administrator's decision to a PENDING transaction.
func (s *TransactionService) Resolve(ctx context.Context, in ports.ResolveTransactionInput) (*ports.TransactionView, error) {
	if !in.Status.IsResolution() {
		return nil, domain.NewValidationError("status", "status must be one of: DONE, REJECTED")
	}

	current, err := s.repo.FindByID(ctx, in.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("resolve transaction %d: %w", in.TransactionID, err)
	}

	if !current.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("resolve transaction %d: %w (from %s to %s)",
			in.TransactionID, domain.ErrInvalidTransition, current.Status, in.Status)
	}

	updated, err := s.repo.Resolve(ctx, in.TransactionID, current.Status, in.Status, in.ActorID)
	if err != nil {
		return nil, fmt.Errorf("resolve transaction %d: %w", in.TransactionID, err)
	}

	s.logger.Info().
		Int64("transaction_id", updated.ID).
		Int64("approved_by", in.ActorID).
		Str("status", string(updated.Status)).
		Msg("transaction resolved")

	return s.view(ctx, updated)
}

// List returns a page of transactions. Admins see every owner; other roles
// only their own transactions.
func (s *TransactionService) List(ctx context.Context, in ports.ListTransactionsInput) (*domain.Page[ports.TransactionView], error) {
	page, limit := domain.NormalizePaging(in.Page, in.Limit)

	filter := ports.ListTransactionsFilter{
		Offset: domain.Offset(page, limit),
		Limit:  limit,
	}
	if in.CallerRole != domain.RoleAdmin {
		if in.CallerID <= 0 {
			return nil, domain.ErrUnauthorized
		}
		filter.OwnerID = in.CallerID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	summaries, err := s.users.FindSummaries(ctx, referencedUsers(items))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	views := make([]ports.TransactionView, 0, len(items))
	for _, t := range items {
		views = append(views, toView(t, lookup(summaries, t.OwnerID), lookup(summaries, deref(t.ApprovedBy))))
	}

	result := domain.NewPage(views, total, page, limit)
	return &result, nil
}

func (s *TransactionService) view(ctx context.Context, t *domain.Transaction) (*ports.TransactionView, error) {
	owner, err := s.summary(ctx, t.OwnerID)
	if err != nil {
		return nil, err
	}
	var approver *domain.UserSummary
	if t.ApprovedBy != nil {
		if approver, err = s.summary(ctx, *t.ApprovedBy); err != nil {
			return nil, err
		}
	}
	v := toView(t, owner, approver)
	return &v, nil
}

// summary resolves one user; a missing user yields nil rather than an error.
func (s *TransactionService) summary(ctx context.Context, id int64) (*domain.UserSummary, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve user %d: %w", id, err)
	}
	return u, nil
}

func toView(t *domain.Transaction, owner, approver *domain.UserSummary) ports.TransactionView {
	return ports.TransactionView{
		ID:         t.ID,
		Amount:     t.Amount,
		Status:     t.Status,
		Owner:      owner,
		ApprovedBy: approver,
	}
}

// referencedUsers collects the distinct owner and approver ids of items.
func referencedUsers(items []*domain.Transaction) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	add := func(id int64) {
		if id <= 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, t := range items {
		add(t.OwnerID)
		add(deref(t.ApprovedBy))
	}
	return ids
}

func lookup(m map[int64]domain.UserSummary, id int64) *domain.UserSummary {
	if id <= 0 {
		return nil
	}
	u, ok := m[id]
	if !ok {
		return nil
	}
	return &u
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
