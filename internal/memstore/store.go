// Package memstore keeps orders and products in process memory. It honours the
// same transactional contract as the Postgres store: a transaction holds the
// store mutex for its whole duration and restores a snapshot on error.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
)

type Store struct {
	mu       sync.Mutex
	orders   map[string]orders.Order
	products map[string]orders.Product

	// FailStatusUpdate, when set, makes UpdateOrderStatus fail. Tests use it
	// to exercise the status-write failure path.
	FailStatusUpdate error
}

var _ orders.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		orders:   make(map[string]orders.Order),
		products: make(map[string]orders.Product),
	}
}

// PutProduct inserts or replaces a product.
func (s *Store) PutProduct(p orders.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.products[p.ID] = p
}

// PutOrder inserts or replaces an order and returns its id.
func (s *Store) PutOrder(o orders.Order) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.LineItems = append([]orders.LineItem(nil), o.LineItems...)
	s.orders[o.ID] = o
	return o.ID
}

func (s *Store) GetOrder(_ context.Context, id string) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrder(id)
}

func (s *Store) ListOrders(_ context.Context, f orders.Filter) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []orders.Order
	for _, o := range s.orders {
		if f.Match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return orders.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *Store) GetProduct(_ context.Context, id string) (orders.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getProduct(id)
}

func (s *Store) ListProducts(_ context.Context, f orders.ProductFilter) ([]orders.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []orders.Product
	for _, p := range s.products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListProductsBelowThreshold(_ context.Context, threshold int) ([]orders.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []orders.Product
	for _, p := range s.products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock == out[j].Stock {
			return out[i].Name < out[j].Name
		}
		return out[i].Stock < out[j].Stock
	})
	return out, nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx orders.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapOrders := make(map[string]orders.Order, len(s.orders))
	for k, v := range s.orders {
		snapOrders[k] = v
	}
	snapProducts := make(map[string]orders.Product, len(s.products))
	for k, v := range s.products {
		snapProducts[k] = v
	}

	if err := fn(&tx{s: s}); err != nil {
		s.orders = snapOrders
		s.products = snapProducts
		return err
	}
	return nil
}

func (s *Store) getOrder(id string) (orders.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (s *Store) getProduct(id string) (orders.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return orders.Product{}, orders.ErrProductNotFound
	}
	return p, nil
}

func cloneOrder(o orders.Order) orders.Order {
	o.LineItems = append([]orders.LineItem(nil), o.LineItems...)
	return o
}

// tx runs with Store.mu already held.
type tx struct{ s *Store }

func (t *tx) GetOrder(_ context.Context, id string) (orders.Order, error) {
	return t.s.getOrder(id)
}

func (t *tx) GetProduct(_ context.Context, id string) (orders.Product, error) {
	return t.s.getProduct(id)
}

func (t *tx) AdjustStock(_ context.Context, productID string, delta int) (int, error) {
	p, ok := t.s.products[productID]
	if !ok {
		return 0, orders.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return 0, orders.ErrStockConflict
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()
	t.s.products[productID] = p
	return p.Stock, nil
}

func (t *tx) UpdateOrderStatus(_ context.Context, id string, status orders.Status) error {
	if t.s.FailStatusUpdate != nil {
		return t.s.FailStatusUpdate
	}
	o, ok := t.s.orders[id]
	if !ok {
		return orders.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	t.s.orders[id] = o
	return nil
}

func (t *tx) InsertOrder(_ context.Context, o *orders.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if _, exists := t.s.orders[o.ID]; exists {
		return errors.New("order already exists: " + o.ID)
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	t.s.orders[o.ID] = cloneOrder(*o)
	return nil
}
