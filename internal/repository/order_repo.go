package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"covercart-backend/internal/domain"
)

type mongoOrderStore struct {
	col *mongo.Collection
}

func NewOrderStore(db *mongo.Database) domain.OrderStore {
	return &mongoOrderStore{col: db.Collection(ordersCollection)}
}

func (s *mongoOrderStore) Insert(ctx context.Context, order domain.Order) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert order: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *mongoOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Order, error) {
	var order domain.Order
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *mongoOrderStore) List(ctx context.Context, q domain.OrderQuery) ([]domain.Order, int64, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Phone != "" {
		filter["phone"] = q.Phone
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
		if q.Page > 1 {
			opts.SetSkip(int64((q.Page - 1) * q.Limit))
		}
	}
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var orders []domain.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus transitions the order only if it is not cancelled, as a
// single conditional update, so concurrent cancels cannot both win.
func (s *mongoOrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": domain.StatusCancelled}},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	// Nothing matched: the order is gone or already cancelled.
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("update order status: %w", err)
	}
	return domain.ErrOrderCancelled
}

// SetConsignment writes the consignment id only if none is stored yet.
func (s *mongoOrderStore) SetConsignment(ctx context.Context, id primitive.ObjectID, consignmentID string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "consignmentId": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"consignmentId": consignmentID}},
	)
	if err != nil {
		return fmt.Errorf("set consignment: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("set consignment: %w", err)
	}
	return domain.ErrConsignmentBooked
}

func (s *mongoOrderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
