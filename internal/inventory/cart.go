package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
)

var (
	ErrOutOfStock      = errors.New("product out of stock")
	ErrNoMoreStock     = errors.New("no more stock available")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("product not in cart")
)

type CartLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`

	// stock seen when the line was last added
	knownStock int
}

// Cart is a point-of-sale basket assembled before checkout. Its stock checks
// use the stock seen while adding; Checkout re-validates against the store.
type Cart struct {
	lines []CartLine
}

func (c *Cart) find(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of p in the cart.
func (c *Cart) Add(p orders.Product) error {
	if p.Stock <= 0 {
		return ErrOutOfStock
	}
	if i := c.find(p.ID); i >= 0 {
		if c.lines[i].Quantity >= p.Stock {
			return ErrNoMoreStock
		}
		c.lines[i].Quantity++
		c.lines[i].knownStock = p.Stock
		return nil
	}
	c.lines = append(c.lines, CartLine{
		ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1, knownStock: p.Stock,
	})
	return nil
}

func (c *Cart) SetQuantity(productID string, qty int) error {
	i := c.find(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if ks := c.lines[i].knownStock; ks > 0 && qty > ks {
		return &orders.InsufficientStockError{
			ProductID: productID, Product: c.lines[i].Name, Available: ks, Requested: qty,
		}
	}
	c.lines[i].Quantity = qty
	return nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Total() int {
	total := 0
	for _, l := range c.lines {
		total += l.Price * l.Quantity
	}
	return total
}

func (c *Cart) Clear() { c.lines = nil }

func (c *Cart) quantity(productID string) int {
	if i := c.find(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// BuildCart assembles a cart from requested lines against the live catalog:
// names and prices come from the store, and every line goes through the
// same stock checks as a cart filled item by item at the counter.
func (s *Service) BuildCart(ctx context.Context, lines []CartLine) (*Cart, error) {
	c := &Cart{}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		p, err := s.Store.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", orders.LineItem{ProductID: l.ProductID, Name: l.Name}.Label(), err)
		}
		want := c.quantity(p.ID) + l.Quantity
		if err := c.Add(p); err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		if err := c.SetQuantity(p.ID, want); err != nil {
			return nil, err
		}
	}
	return c, nil
}
