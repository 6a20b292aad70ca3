package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

const transactionColumns = `id, amount, status, owner_id, approved_by, created_at, updated_at`

// TransactionRepository implements ports.TransactionRepository on PostgreSQL.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (amount, status, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.Amount, string(t.Status), t.OwnerID, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	t, err := scanTransaction(r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return t, nil
}

// Resolve updates status and approver in one statement guarded by the expected
// current status, so two concurrent resolutions cannot both succeed.
func (r *TransactionRepository) Resolve(ctx context.Context, id int64, from, to domain.TransactionStatus, approverID int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	t, err := scanTransaction(r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET status = $3, approved_by = $4, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+transactionColumns,
		id, string(from), string(to), approverID))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resolve transaction: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check transaction: %w", err)
	}
	if !exists {
		return nil, domain.ErrTransactionNotFound
	}
	return nil, domain.ErrInvalidTransition
}

func (r *TransactionRepository) List(ctx context.Context, f ports.ListTransactionsFilter) ([]*domain.Transaction, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const where = `WHERE ($1::bigint = 0 OR owner_id = $1)`

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions `+where, f.OwnerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions `+where+` ORDER BY id LIMIT $2 OFFSET $3`,
		f.OwnerID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Transaction, 0, max(f.Limit, 0))
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return items, total, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		status string
	)
	if err := row.Scan(&t.ID, &t.Amount, &status, &t.OwnerID, &t.ApprovedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.TransactionStatus(status)
	return &t, nil
}
