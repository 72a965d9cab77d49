package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-realtime-storefront/internal/suppliers"
)

// Suppliers is the in-memory suppliers.Store.
type Suppliers struct {
	mu        sync.Mutex
	suppliers map[string]suppliers.Supplier
	orders    map[string]suppliers.Order
	invoices  map[string]suppliers.Invoice
}

var _ suppliers.Store = (*Suppliers)(nil)

func NewSuppliers() *Suppliers {
	return &Suppliers{
		suppliers: make(map[string]suppliers.Supplier),
		orders:    make(map[string]suppliers.Order),
		invoices:  make(map[string]suppliers.Invoice),
	}
}

func (s *Suppliers) ListSuppliers(_ context.Context) ([]suppliers.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]suppliers.Supplier, 0, len(s.suppliers))
	for _, sp := range s.suppliers {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Suppliers) CreateSupplier(_ context.Context, sp *suppliers.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp.ID = uuid.NewString()
	sp.CreatedAt = time.Now().UTC()
	s.suppliers[sp.ID] = *sp
	return nil
}

func (s *Suppliers) ListOrders(_ context.Context) ([]suppliers.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]suppliers.Order, 0, len(s.orders))
	for _, o := range s.orders {
		o.SupplierName = s.suppliers[o.SupplierID].Name
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Suppliers) CreateOrder(_ context.Context, o *suppliers.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.suppliers[o.SupplierID]
	if !ok {
		return suppliers.ErrSupplierNotFound
	}
	o.ID = uuid.NewString()
	o.SupplierName = sp.Name
	o.CreatedAt = time.Now().UTC()
	s.orders[o.ID] = *o
	return nil
}

func (s *Suppliers) UpdateOrderStatus(_ context.Context, id string, status suppliers.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return suppliers.ErrOrderNotFound
	}
	o.Status = status
	s.orders[id] = o
	return nil
}

func (s *Suppliers) ListInvoices(_ context.Context) ([]suppliers.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]suppliers.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		inv.SupplierName = s.suppliers[inv.SupplierID].Name
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IssuedOn.Equal(out[j].IssuedOn) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].IssuedOn.After(out[j].IssuedOn)
	})
	return out, nil
}

func (s *Suppliers) CreateInvoice(_ context.Context, inv *suppliers.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.suppliers[inv.SupplierID]
	if !ok {
		return suppliers.ErrSupplierNotFound
	}
	inv.ID = uuid.NewString()
	inv.SupplierName = sp.Name
	inv.CreatedAt = time.Now().UTC()
	s.invoices[inv.ID] = *inv
	return nil
}
