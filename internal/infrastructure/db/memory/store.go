// Package memory is a process-local store used for local runs
// (STORE_DRIVER=memory) and end-to-end tests. Data is lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

// Store holds users and transactions behind one mutex.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]domain.User
	byEmail  map[string]int64
	txs      map[int64]domain.Transaction
	nextUser int64
	nextTx   int64
}

func NewStore() *Store {
	return &Store{
		users:   make(map[int64]domain.User),
		byEmail: make(map[string]int64),
		txs:     make(map[int64]domain.Transaction),
	}
}

// Users returns a ports.UserRepository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Transactions returns a ports.TransactionRepository view of the store.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{s: s} }

func (s *Store) Ping(context.Context) error { return nil }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.s.nextUser++
	u := *user
	u.ID = r.s.nextUser
	r.s.users[u.ID] = u
	r.s.byEmail[u.Email] = u.ID
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []int64) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, &u)
		}
	}
	return out, nil
}

type TransactionRepository struct{ s *Store }

func (r *TransactionRepository) Create(_ context.Context, t *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextTx++
	t.ID = r.s.nextTx
	r.s.txs[t.ID] = *t
	return nil
}

func (r *TransactionRepository) FindByID(_ context.Context, id int64) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &t, nil
}

func (r *TransactionRepository) Resolve(_ context.Context, id int64, from, to domain.TransactionStatus, approverID int64) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if t.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	t.Status = to
	t.ApprovedBy = &approverID
	t.UpdatedAt = time.Now().UTC()
	r.s.txs[id] = t
	return &t, nil
}

func (r *TransactionRepository) List(_ context.Context, f ports.ListTransactionsFilter) ([]*domain.Transaction, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]int64, 0, len(r.s.txs))
	for id, t := range r.s.txs {
		if f.OwnerID == 0 || t.OwnerID == f.OwnerID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	total := int64(len(ids))
	start := min(max(f.Offset, 0), len(ids))
	end := min(start+max(f.Limit, 0), len(ids))

	items := make([]*domain.Transaction, 0, end-start)
	for _, id := range ids[start:end] {
		t := r.s.txs[id]
		items = append(items, &t)
	}
	return items, total, nil
}
