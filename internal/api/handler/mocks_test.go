package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*ports.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*ports.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockAuthService) FindByID(ctx context.Context, id int64) (*domain.UserSummary, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.UserSummary)
	return u, args.Error(1)
}

func (m *mockAuthService) FindSummaries(ctx context.Context, ids []int64) (map[int64]domain.UserSummary, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).(map[int64]domain.UserSummary)
	return out, args.Error(1)
}

type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) Create(ctx context.Context, in ports.CreateTransactionInput) (*ports.TransactionView, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*ports.TransactionView)
	return v, args.Error(1)
}

func (m *mockTransactionService) Resolve(ctx context.Context, in ports.ResolveTransactionInput) (*ports.TransactionView, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*ports.TransactionView)
	return v, args.Error(1)
}

func (m *mockTransactionService) List(ctx context.Context, in ports.ListTransactionsInput) (*domain.Page[ports.TransactionView], error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*domain.Page[ports.TransactionView])
	return p, args.Error(1)
}
