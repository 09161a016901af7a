package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"covercart-backend/internal/domain"
)

type mongoSummaryStore struct {
	col *mongo.Collection
}

func NewSummaryStore(db *mongo.Database) domain.SummaryStore {
	return &mongoSummaryStore{col: db.Collection(summariesCollection)}
}

// Upsert bumps the lifetime counter and the last-order timestamp in one
// atomic single-document operation keyed by phone.
func (s *mongoSummaryStore) Upsert(ctx context.Context, phone string, when time.Time) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": phone},
		bson.M{
			"$inc": bson.M{"totalOrders": 1},
			"$set": bson.M{"lastOrderDate": when},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

func (s *mongoSummaryStore) FindByPhone(ctx context.Context, phone string) (domain.OrderSummary, error) {
	var summary domain.OrderSummary
	err := s.col.FindOne(ctx, bson.M{"_id": phone}).Decode(&summary)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.OrderSummary{}, domain.ErrSummaryNotFound
	}
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("find summary: %w", err)
	}
	return summary, nil
}
