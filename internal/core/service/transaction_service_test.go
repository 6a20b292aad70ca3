package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubTransactionRepo struct {
	byID       map[int64]*domain.Transaction
	nextID     int64
	createErr  error
	resolves   int
	lastFilter ports.ListTransactionsFilter
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{byID: make(map[int64]*domain.Transaction), nextID: 1}
}

func (r *stubTransactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	if r.createErr != nil {
		return r.createErr
	}
	t.ID = r.nextID
	r.nextID++
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id int64) (*domain.Transaction, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	clone := *t
	return &clone, nil
}

// Resolve mirrors the conditional update of the real repositories.
func (r *stubTransactionRepo) Resolve(_ context.Context, id int64, from, to domain.TransactionStatus, approverID int64) (*domain.Transaction, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if t.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	r.resolves++
	t.Status = to
	approver := approverID
	t.ApprovedBy = &approver
	clone := *t
	return &clone, nil
}

func (r *stubTransactionRepo) List(_ context.Context, f ports.ListTransactionsFilter) ([]*domain.Transaction, int64, error) {
	r.lastFilter = f

	ids := make([]int64, 0, len(r.byID))
	for id, t := range r.byID {
		if f.OwnerID != 0 && t.OwnerID != f.OwnerID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if f.Offset >= len(ids) {
		return []*domain.Transaction{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]*domain.Transaction, 0, end-f.Offset)
	for _, id := range ids[f.Offset:end] {
		clone := *r.byID[id]
		out = append(out, &clone)
	}
	return out, total, nil
}

type stubDirectory struct {
	users       map[int64]domain.UserSummary
	batchCalls  int
	singleCalls int
}

func (d *stubDirectory) FindByID(_ context.Context, id int64) (*domain.UserSummary, error) {
	d.singleCalls++
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (d *stubDirectory) FindSummaries(_ context.Context, ids []int64) (map[int64]domain.UserSummary, error) {
	d.batchCalls++
	out := make(map[int64]domain.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type stubIdempotency struct {
	keys      map[string]int64
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Lookup(_ context.Context, ownerID int64, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.keys[idemKey(ownerID, key)]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, ownerID int64, key string, id int64) error {
	s.keys[idemKey(ownerID, key)] = id
	return nil
}

func idemKey(ownerID int64, key string) string {
	return fmt.Sprintf("%d:%s", ownerID, key)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const (
	clientID int64 = 7
	otherID  int64 = 8
	adminID  int64 = 1
)

func newDirectory() *stubDirectory {
	return &stubDirectory{users: map[int64]domain.UserSummary{
		adminID:  {ID: adminID, Email: "admin@x.com", Name: "Admin", Role: domain.RoleAdmin},
		clientID: {ID: clientID, Email: "a@x.com", Name: "A", Role: domain.RoleClient},
		otherID:  {ID: otherID, Email: "b@x.com", Name: "B", Role: domain.RoleClient},
	}}
}

func newTestTransactionService() (*TransactionService, *stubTransactionRepo, *stubDirectory) {
	repo := newStubTransactionRepo()
	dir := newDirectory()
	return NewTransactionService(repo, dir, nil, discardLogger), repo, dir
}

func mustCreate(t *testing.T, svc *TransactionService, owner int64, amount float64) *ports.TransactionView {
	t.Helper()
	v, err := svc.Create(context.Background(), ports.CreateTransactionInput{Amount: amount, OwnerID: owner})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return v
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTransactionService_Create_Pending(t *testing.T) {
	svc, repo, _ := newTestTransactionService()

	v := mustCreate(t, svc, clientID, 50)

	if v.Status != domain.StatusPending {
		t.Errorf("expected PENDING, got %s", v.Status)
	}
	if v.Amount != 50 {
		t.Errorf("expected amount 50, got %v", v.Amount)
	}
	if v.Owner == nil || v.Owner.ID != clientID || v.Owner.Email != "a@x.com" {
		t.Errorf("owner not resolved: %+v", v.Owner)
	}
	if v.ApprovedBy != nil {
		t.Errorf("approvedBy must be unset, got %+v", v.ApprovedBy)
	}

	stored := repo.byID[v.ID]
	if stored.OwnerID != clientID || stored.ApprovedBy != nil || stored.CreatedAt.IsZero() {
		t.Errorf("unexpected stored transaction: %+v", stored)
	}
}

func TestTransactionService_Create_RepoError(t *testing.T) {
	svc, repo, _ := newTestTransactionService()
	repo.createErr = errors.New("db unavailable")

	if _, err := svc.Create(context.Background(), ports.CreateTransactionInput{Amount: 1, OwnerID: clientID}); err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

func TestTransactionService_Create_RequiresOwner(t *testing.T) {
	svc, _, _ := newTestTransactionService()

	_, err := svc.Create(context.Background(), ports.CreateTransactionInput{Amount: 1})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTransactionService_Create_IdempotencyReplay(t *testing.T) {
	repo := newStubTransactionRepo()
	idem := newStubIdempotency()
	svc := NewTransactionService(repo, newDirectory(), idem, discardLogger)

	in := ports.CreateTransactionInput{Amount: 10, OwnerID: clientID, IdempotencyKey: "key-1"}
	first, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if second.ID != first.ID || !second.Replayed || first.Replayed {
		t.Errorf("replay must return the first transaction: first=%+v second=%+v", first, second)
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected 1 stored transaction, got %d", len(repo.byID))
	}

	// Same key from a different owner is a different request.
	if _, err := svc.Create(context.Background(), ports.CreateTransactionInput{Amount: 10, OwnerID: otherID, IdempotencyKey: "key-1"}); err != nil {
		t.Fatalf("create for other owner failed: %v", err)
	}
	if len(repo.byID) != 2 {
		t.Errorf("expected 2 stored transactions, got %d", len(repo.byID))
	}
}

func TestTransactionService_Create_IdempotencyStoreDown(t *testing.T) {
	repo := newStubTransactionRepo()
	idem := newStubIdempotency()
	idem.lookupErr = errors.New("redis down")
	svc := NewTransactionService(repo, newDirectory(), idem, discardLogger)

	if _, err := svc.Create(context.Background(), ports.CreateTransactionInput{Amount: 10, OwnerID: clientID, IdempotencyKey: "k"}); err != nil {
		t.Fatalf("idempotency failures must not fail the request: %v", err)
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected 1 stored transaction, got %d", len(repo.byID))
	}
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestTransactionService_Resolve(t *testing.T) {
	for _, status := range []domain.TransactionStatus{domain.StatusDone, domain.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			svc, repo, _ := newTestTransactionService()
			created := mustCreate(t, svc, clientID, 25)

			v, err := svc.Resolve(context.Background(), ports.ResolveTransactionInput{
				TransactionID: created.ID,
				ActorID:       adminID,
				Status:        status,
			})
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if v.Status != status {
				t.Errorf("expected %s, got %s", status, v.Status)
			}
			if v.ApprovedBy == nil || v.ApprovedBy.ID != adminID {
				t.Errorf("approvedBy not set to admin: %+v", v.ApprovedBy)
			}
			if v.Owner == nil || v.Owner.ID != clientID {
				t.Errorf("owner not resolved: %+v", v.Owner)
			}
			stored := repo.byID[created.ID]
			if stored.Status != status || stored.ApprovedBy == nil || *stored.ApprovedBy != adminID {
				t.Errorf("store not updated: %+v", stored)
			}
		})
	}
}

func TestTransactionService_Resolve_NotFound(t *testing.T) {
	svc, repo, _ := newTestTransactionService()

	_, err := svc.Resolve(context.Background(), ports.ResolveTransactionInput{TransactionID: 99, ActorID: adminID, Status: domain.StatusDone})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if repo.resolves != 0 {
		t.Errorf("expected no write, got %d", repo.resolves)
	}
}

func TestTransactionService_Resolve_AlreadyResolved(t *testing.T) {
	svc, repo, _ := newTestTransactionService()
	created := mustCreate(t, svc, clientID, 25)

	in := ports.ResolveTransactionInput{TransactionID: created.ID, ActorID: adminID, Status: domain.StatusDone}
	if _, err := svc.Resolve(context.Background(), in); err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}

	in.Status = domain.StatusRejected
	if _, err := svc.Resolve(context.Background(), in); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if repo.byID[created.ID].Status != domain.StatusDone || repo.resolves != 1 {
		t.Errorf("terminal transaction must not change: %+v", repo.byID[created.ID])
	}
}

func TestTransactionService_Resolve_RejectsNonTerminalStatus(t *testing.T) {
	svc, _, _ := newTestTransactionService()
	created := mustCreate(t, svc, clientID, 25)

	_, err := svc.Resolve(context.Background(), ports.ResolveTransactionInput{TransactionID: created.ID, ActorID: adminID, Status: domain.StatusPending})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestTransactionService_List_ClientSeesOnlyOwn(t *testing.T) {
	svc, repo, _ := newTestTransactionService()
	for i := 0; i < 3; i++ {
		mustCreate(t, svc, clientID, float64(i+1))
		mustCreate(t, svc, otherID, float64(i+1))
	}

	page, err := svc.List(context.Background(), ports.ListTransactionsInput{CallerID: clientID, CallerRole: domain.RoleClient, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.OwnerID != clientID {
		t.Errorf("expected owner filter %d, got %d", clientID, repo.lastFilter.OwnerID)
	}
	if page.Total != 3 || len(page.Data) != 3 {
		t.Fatalf("expected 3 items, got total=%d len=%d", page.Total, len(page.Data))
	}
	for _, v := range page.Data {
		if v.Owner == nil || v.Owner.ID != clientID {
			t.Errorf("client saw a foreign transaction: %+v", v)
		}
	}
}

func TestTransactionService_List_AdminSeesAll(t *testing.T) {
	svc, repo, dir := newTestTransactionService()
	a := mustCreate(t, svc, clientID, 1)
	mustCreate(t, svc, otherID, 2)
	if _, err := svc.Resolve(context.Background(), ports.ResolveTransactionInput{TransactionID: a.ID, ActorID: adminID, Status: domain.StatusDone}); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	dir.batchCalls = 0
	page, err := svc.List(context.Background(), ports.ListTransactionsInput{CallerID: adminID, CallerRole: domain.RoleAdmin, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.OwnerID != 0 {
		t.Errorf("admin listing must not filter by owner, got %d", repo.lastFilter.OwnerID)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2, got %d", page.Total)
	}
	if page.Data[0].ApprovedBy == nil || page.Data[0].ApprovedBy.ID != adminID {
		t.Errorf("approver not resolved: %+v", page.Data[0])
	}
	if page.Data[1].ApprovedBy != nil {
		t.Errorf("pending transaction must have no approver: %+v", page.Data[1])
	}
	if dir.batchCalls != 1 {
		t.Errorf("expected one batched user lookup, got %d", dir.batchCalls)
	}
}

func TestTransactionService_List_Paging(t *testing.T) {
	svc, repo, _ := newTestTransactionService()
	for i := 0; i < 25; i++ {
		mustCreate(t, svc, clientID, 1)
	}

	page, err := svc.List(context.Background(), ports.ListTransactionsInput{CallerID: clientID, CallerRole: domain.RoleClient, Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Offset != 10 || repo.lastFilter.Limit != 10 {
		t.Errorf("unexpected filter: %+v", repo.lastFilter)
	}
	if len(page.Data) != 10 || !page.HasNext || !page.HasPrev {
		t.Errorf("unexpected page: len=%d next=%v prev=%v", len(page.Data), page.HasNext, page.HasPrev)
	}
	if page.Data[0].ID != 11 {
		t.Errorf("expected first item id 11, got %d", page.Data[0].ID)
	}
}

func TestTransactionService_List_ClampsLimitAndPage(t *testing.T) {
	svc, repo, _ := newTestTransactionService()

	for _, limit := range []int{100, 101, 500, 1 << 20} {
		if _, err := svc.List(context.Background(), ports.ListTransactionsInput{CallerID: clientID, CallerRole: domain.RoleClient, Page: -3, Limit: limit}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if repo.lastFilter.Limit != domain.MaxPageLimit {
			t.Errorf("limit %d: expected clamp to %d, got %d", limit, domain.MaxPageLimit, repo.lastFilter.Limit)
		}
		if repo.lastFilter.Offset != 0 {
			t.Errorf("page must clamp to 1, got offset %d", repo.lastFilter.Offset)
		}
	}

	if _, err := svc.List(context.Background(), ports.ListTransactionsInput{CallerID: clientID, CallerRole: domain.RoleClient, Page: 1, Limit: 0}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Limit != domain.DefaultPageLimit {
		t.Errorf("zero limit must use default, got %d", repo.lastFilter.Limit)
	}
}

func TestTransactionService_List_EmptyPageHasData(t *testing.T) {
	svc, _, _ := newTestTransactionService()

	page, err := svc.List(context.Background(), ports.ListTransactionsInput{CallerID: clientID, CallerRole: domain.RoleClient, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Data == nil || len(page.Data) != 0 || page.HasNext || page.HasPrev {
		t.Errorf("unexpected empty page: %+v", page)
	}
}

func TestTransactionService_List_HugePageIsPastTheEnd(t *testing.T) {
	for _, pageNo := range []int{92233720368547759, 92233720368547760, math.MaxInt} {
		svc, repo, _ := newTestTransactionService()
		for i := 0; i < 3; i++ {
			mustCreate(t, svc, clientID, 1)
		}

		page, err := svc.List(context.Background(), ports.ListTransactionsInput{CallerID: clientID, CallerRole: domain.RoleClient, Page: pageNo, Limit: 100})
		if err != nil {
			t.Fatalf("page %d: list failed: %v", pageNo, err)
		}
		if repo.lastFilter.Offset < 0 {
			t.Errorf("page %d: negative offset %d", pageNo, repo.lastFilter.Offset)
		}
		if len(page.Data) != 0 || page.HasNext || !page.HasPrev || page.Total != 3 {
			t.Errorf("page %d: unexpected page len=%d next=%v prev=%v total=%d",
				pageNo, len(page.Data), page.HasNext, page.HasPrev, page.Total)
		}
	}
}
