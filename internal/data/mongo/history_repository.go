// Package mongo provides the MongoDB implementation of the payment history
// read model. History records are projected from payment events and serve the
// paginated per-user transaction listings.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/history"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// HistoryCollectionName is the name of the payment history collection
	HistoryCollectionName = "payment_history"
)

// HistoryRepository implements the history.Repository interface for MongoDB
type HistoryRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewHistoryRepository creates a new MongoDB history repository
func NewHistoryRepository(logger *slog.Logger, db *mongo.Database) history.Repository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert stores or replaces the history record for a transaction. Keying on
// the transaction ID makes replayed payment events idempotent.
func (r *HistoryRepository) Upsert(ctx context.Context, record *history.Record) error {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"transaction_id": record.TransactionID}
	opts := options.Replace().SetUpsert(true)

	_, err := collection.ReplaceOne(ctx, filter, record, opts)
	if err != nil {
		r.logger.Error("Failed to upsert history record",
			"transaction_id", record.TransactionID.String(),
			"error", err)
		return fmt.Errorf("failed to upsert history record: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves a history record by its transaction ID.
// Returns ErrRecordNotFound if no record exists for the given transaction.
func (r *HistoryRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*history.Record, error) {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	var record history.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, history.ErrRecordNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get history record",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}

	return &record, nil
}

// userFilter matches records where the user is either party
func userFilter(userID uuid.UUID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"from_user_id": userID},
		bson.M{"to_user_id": userID},
	}}
}

// GetByUserID retrieves paginated history records where the user is sender or
// receiver. Results are sorted by creation time in descending order.
func (r *HistoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*history.Record, error) {
	collection := r.db.Collection(HistoryCollectionName)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, userFilter(userID), opts)
	if err != nil {
		r.logger.Error("Failed to get history records by user",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get history records by user: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*history.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode history records",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode history records: %w", err)
	}

	return records, nil
}

// CountByUserID counts the history records where the user is either party
func (r *HistoryRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	collection := r.db.Collection(HistoryCollectionName)

	count, err := collection.CountDocuments(ctx, userFilter(userID))
	if err != nil {
		r.logger.Error("Failed to count history records by user",
			"user_id", userID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count history records by user: %w", err)
	}

	return count, nil
}
