package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paygate/approval-service/internal/core/domain"
	"github.com/paygate/approval-service/internal/core/ports"
)

// TransactionRepository implements ports.TransactionRepository on MongoDB.
type TransactionRepository struct {
	col *mongo.Collection
	ids *sequence
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		col: db.Collection(collectionTransactions),
		ids: newSequence(db, collectionTransactions),
	}
}

type mongoTransaction struct {
	ID         int64     `bson:"_id"`
	Amount     float64   `bson:"amount"`
	Status     string    `bson:"status"`
	OwnerID    int64     `bson:"owner_id"`
	ApprovedBy *int64    `bson:"approved_by"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func (m mongoTransaction) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:         m.ID,
		Amount:     m.Amount,
		Status:     domain.TransactionStatus(m.Status),
		OwnerID:    m.OwnerID,
		ApprovedBy: m.ApprovedBy,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

// Create inserts a new transaction document.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}

	doc := mongoTransaction{
		ID:        id,
		Amount:    t.Amount,
		Status:    string(t.Status),
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	t.ID = id
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTransaction
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Resolve atomically sets the new status and approver, matching on the
// expected current status.
func (r *TransactionRepository) Resolve(ctx context.Context, id int64, from, to domain.TransactionStatus, approverID int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": string(from)}
	update := bson.M{"$set": bson.M{
		"status":      string(to),
		"approved_by": approverID,
		"updated_at":  time.Now().UTC(),
	}}

	var doc mongoTransaction
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("resolve transaction: %w", err)
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("check transaction: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return nil, domain.ErrInvalidTransition
}

// List returns a page of transactions ordered by id and the total match count.
func (r *TransactionRepository) List(ctx context.Context, f ports.ListTransactionsFilter) ([]*domain.Transaction, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.OwnerID != 0 {
		filter["owner_id"] = f.OwnerID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	var docs []mongoTransaction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode transactions: %w", err)
	}

	items := make([]*domain.Transaction, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}
