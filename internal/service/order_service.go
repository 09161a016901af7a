package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"covercart-backend/internal/courier"
	"covercart-backend/internal/domain"
	"covercart-backend/internal/metrics"
)

// CourierAPI is the slice of the courier client the order service needs.
type CourierAPI interface {
	CreateConsignment(ctx context.Context, req courier.ConsignmentRequest) (courier.Consignment, error)
	ConsignmentStatus(ctx context.Context, consignmentID string) (string, error)
}

// OrderService owns the write path for stock reservation and order creation.
// No other component decrements catalog stock.
type OrderService struct {
	covers    domain.CoverStore
	orders    domain.OrderStore
	summaries domain.SummaryStore
	courier   CourierAPI
	metrics   *metrics.OrderMetrics
	log       *logrus.Logger
	now       func() time.Time
}

func NewOrderService(covers domain.CoverStore, orders domain.OrderStore, summaries domain.SummaryStore, courierAPI CourierAPI, m *metrics.OrderMetrics, logger *logrus.Logger) *OrderService {
	return &OrderService{
		covers:    covers,
		orders:    orders,
		summaries: summaries,
		courier:   courierAPI,
		metrics:   m,
		log:       logger,
		now:       time.Now,
	}
}

// PlaceOrder validates the request, reserves stock for every line item,
// persists the order and bumps the customer's summary.
//
// The reservation runs in two phases. Phase one reads every referenced cover
// in cart order and fails fast on a missing cover or an obvious shortfall,
// before anything is written. Phase two commits the decrements one by one via
// the store's conditional update; a shortfall at commit time (a concurrent
// order took the last unit between phases) rolls back every decrement already
// made and surfaces as insufficient stock. The order document is only written
// after all decrements succeeded; if that insert fails, the decrements are
// rolled back too. Either all stock decrements and the order insert happen,
// or none do.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.OrderRequest) (primitive.ObjectID, error) {
	if err := req.Validate(); err != nil {
		s.metrics.OrderRejected("invalid_input")
		return primitive.NilObjectID, err
	}

	// Phase one: existence and availability, in cart order, no writes.
	for _, item := range req.CartItems {
		cover, err := s.covers.FindByID(ctx, item.CoverID)
		if errors.Is(err, domain.ErrCoverNotFound) {
			s.metrics.OrderRejected("not_found")
			return primitive.NilObjectID, &domain.NotFoundError{Cover: itemLabel(item)}
		}
		if err != nil {
			s.metrics.OrderRejected("store_error")
			return primitive.NilObjectID, err
		}
		if cover.Stock < item.Quantity {
			s.metrics.OrderRejected("insufficient_stock")
			return primitive.NilObjectID, &domain.InsufficientStockError{Cover: cover.Name, Available: cover.Stock}
		}
	}

	// Phase two: commit the decrements, compensating on any failure.
	committed := make([]domain.CartItem, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		if err := s.covers.DecrementStock(ctx, item.CoverID, item.Quantity); err != nil {
			s.rollbackStock(ctx, committed)
			var short *domain.InsufficientStockError
			switch {
			case errors.As(err, &short):
				s.metrics.OrderRejected("insufficient_stock")
			case errors.Is(err, domain.ErrCoverNotFound):
				s.metrics.OrderRejected("not_found")
				err = &domain.NotFoundError{Cover: itemLabel(item)}
			default:
				s.metrics.OrderRejected("store_error")
			}
			return primitive.NilObjectID, err
		}
		committed = append(committed, item)
	}

	now := s.now().UTC()
	order := domain.Order{
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		CartItems:      req.CartItems,
		DeliveryCharge: *req.DeliveryCharge,
		TotalPrice:     *req.TotalPrice,
		Status:         domain.StatusPending,
		CreatedAt:      now,
	}
	id, err := s.orders.Insert(ctx, order)
	if err != nil {
		s.rollbackStock(ctx, committed)
		s.metrics.OrderRejected("store_error")
		return primitive.NilObjectID, fmt.Errorf("persist order: %w", err)
	}

	if err := s.summaries.Upsert(ctx, req.Phone, now); err != nil {
		// The order stands; the summary is a display aggregate and drifts at
		// worst by one until the next successful order.
		s.log.Errorf("Order %s placed but summary update for %s failed: %v", id.Hex(), req.Phone, err)
	}

	s.metrics.OrderPlaced()
	s.log.Infof("Order %s placed for %s (%d items)", id.Hex(), req.Phone, len(req.CartItems))
	return id, nil
}

func (s *OrderService) rollbackStock(ctx context.Context, committed []domain.CartItem) {
	for i := len(committed) - 1; i >= 0; i-- {
		item := committed[i]
		if err := s.covers.IncrementStock(ctx, item.CoverID, item.Quantity); err != nil {
			s.log.Errorf("CRITICAL: failed to roll back stock for cover %s (qty %d): %v. Manual adjustment required.",
				item.CoverID.Hex(), item.Quantity, err)
			continue
		}
		s.metrics.StockRolledBack()
	}
}

func itemLabel(item domain.CartItem) string {
	if item.Name != "" {
		return item.Name
	}
	return item.CoverID.Hex()
}

func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID) (domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, q domain.OrderQuery) ([]domain.Order, int64, error) {
	return s.orders.List(ctx, q)
}

// UpdateStatus transitions an order. Cancelling a not-yet-cancelled order
// returns its units to the catalog; a cancelled order cannot change again.
//
// The transition itself is the store's conditional update, so when two
// cancels race, only the winner restocks. The units are returned only after
// the status write succeeded: a failed write must not leave stock restocked
// against a still-active order.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return domain.Order{}, domain.ErrInvalidStatus
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return domain.Order{}, err
	}

	if status == domain.StatusCancelled {
		for _, item := range order.CartItems {
			if err := s.covers.IncrementStock(ctx, item.CoverID, item.Quantity); err != nil {
				s.log.Errorf("Failed to restock cover %s (qty %d) for cancelled order %s: %v",
					item.CoverID.Hex(), item.Quantity, id.Hex(), err)
			}
		}
	}

	order.Status = status
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	return s.orders.Delete(ctx, id)
}

// BookConsignment registers the order with the courier and stores the
// returned consignment id. Booking twice returns the existing consignment.
func (s *OrderService) BookConsignment(ctx context.Context, id primitive.ObjectID) (courier.Consignment, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return courier.Consignment{}, err
	}
	if order.ConsignmentID != "" {
		return courier.Consignment{ConsignmentID: order.ConsignmentID, Status: string(order.Status)}, nil
	}

	consignment, err := s.courier.CreateConsignment(ctx, courier.ConsignmentRequest{
		InvoiceID:        uuid.NewString(),
		RecipientName:    order.Name,
		RecipientPhone:   order.Phone,
		RecipientAddress: order.Address,
		CODAmount:        order.TotalPrice + order.DeliveryCharge,
	})
	if err != nil {
		return courier.Consignment{}, fmt.Errorf("book consignment: %w", err)
	}

	if err := s.orders.SetConsignment(ctx, id, consignment.ConsignmentID); err != nil {
		if errors.Is(err, domain.ErrConsignmentBooked) {
			// A concurrent booking won; keep its consignment and surface it.
			s.log.Warnf("Duplicate consignment %s created for order %s, keeping the stored one", consignment.ConsignmentID, id.Hex())
			current, findErr := s.orders.FindByID(ctx, id)
			if findErr != nil {
				return courier.Consignment{}, findErr
			}
			return courier.Consignment{ConsignmentID: current.ConsignmentID, Status: string(current.Status)}, nil
		}
		s.log.Errorf("Consignment %s booked but not stored on order %s: %v", consignment.ConsignmentID, id.Hex(), err)
		return courier.Consignment{}, err
	}
	if err := s.orders.UpdateStatus(ctx, id, domain.StatusProcessing); err != nil {
		s.log.Warnf("Failed to move order %s to Processing after booking: %v", id.Hex(), err)
	}
	s.log.Infof("Consignment %s booked for order %s", consignment.ConsignmentID, id.Hex())
	return consignment, nil
}

// TrackConsignment proxies the courier's delivery status for an order.
func (s *OrderService) TrackConsignment(ctx context.Context, id primitive.ObjectID) (string, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if order.ConsignmentID == "" {
		return "", fmt.Errorf("order %s has no consignment", id.Hex())
	}
	return s.courier.ConsignmentStatus(ctx, order.ConsignmentID)
}

func (s *OrderService) Summary(ctx context.Context, phone string) (domain.OrderSummary, error) {
	return s.summaries.FindByPhone(ctx, phone)
}
