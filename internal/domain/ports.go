package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoverQuery narrows and pages a catalog listing.
type CoverQuery struct {
	Search string
	Brand  string
	Page   int
	Limit  int
}

// OrderQuery narrows and pages the back-office order listing.
type OrderQuery struct {
	Status OrderStatus
	Phone  string
	Page   int
	Limit  int
}

// CoverStore is the catalog collection. DecrementStock is the only write the
// order intake path performs against it and must be atomic: the decrement
// succeeds only if stock >= qty at write time, never as a separate read
// followed by an unconditional write.
type CoverStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (Cover, error)
	List(ctx context.Context, q CoverQuery) ([]Cover, int64, error)
	Insert(ctx context.Context, cover Cover) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, cover Cover) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// OrderStore persists orders. The two mutating operations below are
// conditional single-document updates, like CoverStore.DecrementStock:
// UpdateStatus only transitions orders that are not cancelled (returning
// ErrOrderCancelled otherwise) and SetConsignment only writes an order with
// no consignment yet (returning ErrConsignmentBooked otherwise), so racing
// admin requests cannot both win.
type OrderStore interface {
	Insert(ctx context.Context, order Order) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Order, error)
	List(ctx context.Context, q OrderQuery) ([]Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status OrderStatus) error
	SetConsignment(ctx context.Context, id primitive.ObjectID, consignmentID string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SummaryStore keeps the per-phone lifetime order counter. Upsert increments
// totalOrders by one and moves lastOrderDate forward in a single operation.
type SummaryStore interface {
	Upsert(ctx context.Context, phone string, when time.Time) error
	FindByPhone(ctx context.Context, phone string) (OrderSummary, error)
}
