package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrStockConflict        = errors.New("stock would go negative")
	ErrTransitionInProgress = errors.New("order is already being updated")
	ErrEmptyCart            = errors.New("cart is empty")
)

type InsufficientStockError struct {
	ProductID string
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (available: %d, requested: %d)", e.Product, e.Available, e.Requested)
}

// PartialStockUpdateError lists line items whose stock could not be read or
// written while confirming an order.
type PartialStockUpdateError struct {
	Items []string
}

func (e *PartialStockUpdateError) Error() string {
	return "failed to update stock: " + strings.Join(e.Items, ", ")
}

type StatusUpdateError struct {
	OrderID string
	Err     error
}

func (e *StatusUpdateError) Error() string {
	return fmt.Sprintf("failed to update status of order %s: %v", e.OrderID, e.Err)
}

func (e *StatusUpdateError) Unwrap() error { return e.Err }
