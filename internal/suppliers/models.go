// Package suppliers tracks purchasing: suppliers, the orders placed with
// them and the invoices they send.
package suppliers

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderReceived  OrderStatus = "received"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Known() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderReceived, OrderCancelled:
		return true
	}
	return false
}

var (
	ErrInvalid          = errors.New("invalid supplier record")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrOrderNotFound    = errors.New("supplier order not found")
)

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a purchase placed with a supplier. SupplierName is filled on reads.
type Order struct {
	ID           string      `json:"id"`
	SupplierID   string      `json:"supplier_id"`
	SupplierName string      `json:"supplier_name"`
	Status       OrderStatus `json:"status"`
	Total        int         `json:"total"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Invoice struct {
	ID           string    `json:"id"`
	SupplierID   string    `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Number       string    `json:"number"`
	Amount       int       `json:"amount"`
	IssuedOn     time.Time `json:"issued_on"`
	CreatedAt    time.Time `json:"created_at"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Normalize trims input fields and checks the supplier can be stored.
func (s *Supplier) Normalize() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Contact = strings.TrimSpace(s.Contact)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Email = strings.TrimSpace(s.Email)
	if s.Name == "" {
		return invalid("name is required")
	}
	return nil
}

// Normalize defaults the status to pending and validates the order.
func (o *Order) Normalize() error {
	o.SupplierID = strings.TrimSpace(o.SupplierID)
	if o.SupplierID == "" {
		return invalid("supplier_id is required")
	}
	if o.Status == "" {
		o.Status = OrderPending
	}
	if !o.Status.Known() {
		return invalid("unknown status %q", o.Status)
	}
	if o.Total < 0 {
		return invalid("total must not be negative")
	}
	return nil
}

// Normalize defaults the issue date to today (UTC) and validates the invoice.
func (i *Invoice) Normalize(now time.Time) error {
	i.SupplierID = strings.TrimSpace(i.SupplierID)
	i.Number = strings.TrimSpace(i.Number)
	if i.SupplierID == "" {
		return invalid("supplier_id is required")
	}
	if i.Number == "" {
		return invalid("number is required")
	}
	if i.Amount < 0 {
		return invalid("amount must not be negative")
	}
	if i.IssuedOn.IsZero() {
		y, m, d := now.UTC().Date()
		i.IssuedOn = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return nil
}
