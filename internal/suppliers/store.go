package suppliers

import "context"

// Store persists suppliers, their orders and invoices. Lists come back newest
// first, except suppliers which are sorted by name.
type Store interface {
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	CreateSupplier(ctx context.Context, s *Supplier) error

	ListOrders(ctx context.Context) ([]Order, error)
	// CreateOrder fails with ErrSupplierNotFound for an unknown supplier.
	CreateOrder(ctx context.Context, o *Order) error
	UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error

	ListInvoices(ctx context.Context) ([]Invoice, error)
	CreateInvoice(ctx context.Context, i *Invoice) error
}
