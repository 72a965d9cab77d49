package orders

import (
	"context"
	"strings"
)

// Store is the record store the order workflows run against. Postgres backs it
// in production (Repo), memstore in tests.
type Store interface {
	GetOrder(ctx context.Context, id string) (Order, error)
	ListOrders(ctx context.Context, f Filter) ([]Order, error)
	DeleteOrder(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]Product, error)
	ListProductsBelowThreshold(ctx context.Context, threshold int) ([]Product, error)

	// WithinTx runs fn in a single transaction. If fn returns an error every
	// write made through tx is rolled back.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx reads lock the row until the transaction ends.
type Tx interface {
	GetOrder(ctx context.Context, id string) (Order, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	// AdjustStock adds delta to the product's stock. It returns
	// ErrStockConflict instead of letting stock drop below zero.
	AdjustStock(ctx context.Context, productID string, delta int) (int, error)
	UpdateOrderStatus(ctx context.Context, id string, status Status) error
	InsertOrder(ctx context.Context, o *Order) error
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
