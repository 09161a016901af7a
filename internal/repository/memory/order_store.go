package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"covercart-backend/internal/domain"
)

type orderStore struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func NewOrderStore() domain.OrderStore {
	return &orderStore{orders: make(map[string]domain.Order)}
}

func (s *orderStore) Insert(_ context.Context, order domain.Order) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders[order.ID.Hex()] = order
	return order.ID, nil
}

func (s *orderStore) FindByID(_ context.Context, id primitive.ObjectID) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id.Hex()]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderStore) List(_ context.Context, q domain.OrderQuery) ([]domain.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if q.Status != "" && order.Status != q.Status {
			continue
		}
		if q.Phone != "" && order.Phone != q.Phone {
			continue
		}
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.Hex() > result[j].ID.Hex()
	})

	total := int64(len(result))
	if q.Limit > 0 {
		start := 0
		if q.Page > 1 {
			start = (q.Page - 1) * q.Limit
		}
		if start > len(result) {
			start = len(result)
		}
		end := start + q.Limit
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, total, nil
}

func (s *orderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id.Hex()]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status == domain.StatusCancelled {
		return domain.ErrOrderCancelled
	}
	order.Status = status
	s.orders[id.Hex()] = order
	return nil
}

func (s *orderStore) SetConsignment(_ context.Context, id primitive.ObjectID, consignmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id.Hex()]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.ConsignmentID != "" {
		return domain.ErrConsignmentBooked
	}
	order.ConsignmentID = consignmentID
	s.orders[id.Hex()] = order
	return nil
}

func (s *orderStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id.Hex()]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id.Hex())
	return nil
}
