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

type mongoCoverStore struct {
	col *mongo.Collection
}

func NewCoverStore(db *mongo.Database) domain.CoverStore {
	return &mongoCoverStore{col: db.Collection(coversCollection)}
}

func (s *mongoCoverStore) FindByID(ctx context.Context, id primitive.ObjectID) (domain.Cover, error) {
	var cover domain.Cover
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cover)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Cover{}, domain.ErrCoverNotFound
	}
	if err != nil {
		return domain.Cover{}, fmt.Errorf("find cover: %w", err)
	}
	return cover, nil
}

func (s *mongoCoverStore) List(ctx context.Context, q domain.CoverQuery) ([]domain.Cover, int64, error) {
	filter := bson.M{}
	if q.Search != "" {
		filter["name"] = bson.M{"$regex": q.Search, "$options": "i"}
	}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count covers: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
		if q.Page > 1 {
			opts.SetSkip(int64((q.Page - 1) * q.Limit))
		}
	}
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list covers: %w", err)
	}
	var covers []domain.Cover
	if err := cur.All(ctx, &covers); err != nil {
		return nil, 0, fmt.Errorf("decode covers: %w", err)
	}
	return covers, total, nil
}

func (s *mongoCoverStore) Insert(ctx context.Context, cover domain.Cover) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, cover)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert cover: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *mongoCoverStore) Update(ctx context.Context, id primitive.ObjectID, cover domain.Cover) error {
	update := bson.M{"$set": bson.M{
		"name":        cover.Name,
		"brand":       cover.Brand,
		"price":       cover.Price,
		"image":       cover.Image,
		"description": cover.Description,
		"stock":       cover.Stock,
	}}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update cover: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCoverNotFound
	}
	return nil
}

func (s *mongoCoverStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete cover: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCoverNotFound
	}
	return nil
}

// DecrementStock applies "decrement by qty only if stock >= qty" as a single
// conditional update, so two orders racing on the last unit cannot both win.
func (s *mongoCoverStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	// Nothing matched: the cover is gone or the stock fell short. Re-read to
	// tell the two apart and report the available quantity.
	cover, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return &domain.InsufficientStockError{Cover: cover.Name, Available: cover.Stock}
}

func (s *mongoCoverStore) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}},
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCoverNotFound
	}
	return nil
}
