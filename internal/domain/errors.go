package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCoverNotFound is returned when a catalog lookup by id matches nothing.
	ErrCoverNotFound = errors.New("cover not found")
	// ErrOrderNotFound is returned when an order lookup by id matches nothing.
	ErrOrderNotFound = errors.New("order not found")
	// ErrSummaryNotFound is returned when no summary exists for a phone number.
	ErrSummaryNotFound = errors.New("order summary not found")
	// ErrInvalidStatus is returned for a status value outside the known set.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrOrderCancelled is returned when a status transition loses to a
	// cancellation: cancelled orders are terminal.
	ErrOrderCancelled = errors.New("order is cancelled")
	// ErrConsignmentBooked is returned when an order already carries a
	// consignment id at write time.
	ErrConsignmentBooked = errors.New("consignment already booked")
)

// InvalidInputError reports which field of an order request failed validation.
// It is always raised before any datastore call.
type InvalidInputError struct {
	Field string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Field)
}

// NotFoundError reports a cart line referencing a cover that does not exist.
// Cover carries the customer-facing name supplied with the cart item.
type NotFoundError struct {
	Cover string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.Cover)
}

func (e *NotFoundError) Unwrap() error { return ErrCoverNotFound }

// InsufficientStockError reports that a requested quantity exceeds the units
// available at commit time. A concurrent order consuming the last unit between
// check and commit surfaces through the same type.
type InsufficientStockError struct {
	Cover     string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.Cover, e.Available)
}
