package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"covercart-backend/internal/domain"
)

type coverStore struct {
	mu     sync.Mutex
	covers map[string]domain.Cover
}

// NewCoverStore returns an in-memory catalog for tests and local runs. Its
// DecrementStock holds the same guarantee as the Mongo implementation: the
// check and the write happen under one lock, so stock never goes negative.
func NewCoverStore(seed ...domain.Cover) domain.CoverStore {
	s := &coverStore{covers: make(map[string]domain.Cover)}
	for _, c := range seed {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		s.covers[c.ID.Hex()] = c
	}
	return s
}

func (s *coverStore) FindByID(_ context.Context, id primitive.ObjectID) (domain.Cover, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cover, ok := s.covers[id.Hex()]
	if !ok {
		return domain.Cover{}, domain.ErrCoverNotFound
	}
	return cover, nil
}

func (s *coverStore) List(_ context.Context, q domain.CoverQuery) ([]domain.Cover, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Cover, 0, len(s.covers))
	for _, cover := range s.covers {
		if q.Search != "" && !strings.Contains(strings.ToLower(cover.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.Brand != "" && cover.Brand != q.Brand {
			continue
		}
		result = append(result, cover)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

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

func (s *coverStore) Insert(_ context.Context, cover domain.Cover) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cover.ID.IsZero() {
		cover.ID = primitive.NewObjectID()
	}
	s.covers[cover.ID.Hex()] = cover
	return cover.ID, nil
}

func (s *coverStore) Update(_ context.Context, id primitive.ObjectID, cover domain.Cover) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.covers[id.Hex()]; !ok {
		return domain.ErrCoverNotFound
	}
	cover.ID = id
	s.covers[id.Hex()] = cover
	return nil
}

func (s *coverStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.covers[id.Hex()]; !ok {
		return domain.ErrCoverNotFound
	}
	delete(s.covers, id.Hex())
	return nil
}

func (s *coverStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cover, ok := s.covers[id.Hex()]
	if !ok {
		return domain.ErrCoverNotFound
	}
	if cover.Stock < qty {
		return &domain.InsufficientStockError{Cover: cover.Name, Available: cover.Stock}
	}
	cover.Stock -= qty
	s.covers[id.Hex()] = cover
	return nil
}

func (s *coverStore) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cover, ok := s.covers[id.Hex()]
	if !ok {
		return domain.ErrCoverNotFound
	}
	cover.Stock += qty
	s.covers[id.Hex()] = cover
	return nil
}
