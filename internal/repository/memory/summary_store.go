package memory

import (
	"context"
	"sync"
	"time"

	"covercart-backend/internal/domain"
)

type summaryStore struct {
	mu        sync.Mutex
	summaries map[string]domain.OrderSummary
}

func NewSummaryStore() domain.SummaryStore {
	return &summaryStore{summaries: make(map[string]domain.OrderSummary)}
}

func (s *summaryStore) Upsert(_ context.Context, phone string, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.summaries[phone]
	if !ok {
		summary = domain.OrderSummary{Phone: phone}
	}
	summary.TotalOrders++
	summary.LastOrderDate = when
	s.summaries[phone] = summary
	return nil
}

func (s *summaryStore) FindByPhone(_ context.Context, phone string) (domain.OrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.summaries[phone]
	if !ok {
		return domain.OrderSummary{}, domain.ErrSummaryNotFound
	}
	return summary, nil
}
