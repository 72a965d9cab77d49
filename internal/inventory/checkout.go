package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
)

const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"

	walkInCustomer = "Walk-in sale"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard:
		return true
	}
	return false
}

type CheckoutOptions struct {
	CustomerName  string
	PaymentMethod string // defaults to cash
}

// Checkout registers a counter sale: it re-reads live stock for every cart
// line, inserts a confirmed pickup order and debits stock, all in one
// transaction. The cart is cleared only on success.
func (s *Service) Checkout(ctx context.Context, cart *Cart, opts CheckoutOptions) (orders.Order, error) {
	if cart == nil || cart.Len() == 0 {
		return orders.Order{}, orders.ErrEmptyCart
	}
	if opts.PaymentMethod == "" {
		opts.PaymentMethod = PaymentCash
	}
	if !ValidPaymentMethod(opts.PaymentMethod) {
		return orders.Order{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, opts.PaymentMethod)
	}
	if opts.CustomerName == "" {
		opts.CustomerName = walkInCustomer
	}

	lines := cart.Lines()
	order := orders.Order{
		Status:        orders.StatusConfirmed,
		DeliveryType:  orders.DeliveryPickup,
		PaymentMethod: opts.PaymentMethod,
		CustomerName:  opts.CustomerName,
		LineItems:     make([]orders.LineItem, 0, len(lines)),
	}
	for _, l := range lines {
		order.LineItems = append(order.LineItems, orders.LineItem{
			ProductID: l.ProductID, Name: l.Name, UnitPrice: l.Price, Quantity: l.Quantity,
		})
	}
	order.Subtotal = cart.Total()
	order.Total = order.Subtotal

	var changes []orders.StockChange
	err := s.Store.WithinTx(ctx, func(tx orders.Tx) error {
		changes = changes[:0]
		for _, li := range order.LineItems {
			p, err := tx.GetProduct(ctx, li.ProductID)
			if err != nil {
				return fmt.Errorf("%s: %w", li.Label(), err)
			}
			if p.Stock < li.Quantity {
				return &orders.InsufficientStockError{
					ProductID: li.ProductID, Product: li.Label(), Available: p.Stock, Requested: li.Quantity,
				}
			}
		}

		if err := tx.InsertOrder(ctx, &order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, li := range order.LineItems {
			stock, err := tx.AdjustStock(ctx, li.ProductID, -li.Quantity)
			if err != nil {
				return fmt.Errorf("debit %s: %w", li.Label(), err)
			}
			changes = append(changes, orders.StockChange{
				ProductID: li.ProductID, Name: li.Name, Delta: -li.Quantity, Stock: stock,
			})
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger(), "pos checkout failed", err)
		return orders.Order{}, err
	}

	cart.Clear()
	s.cacheStatus(ctx, order.ID, order.Status)
	s.publishSale(order)
	s.publishStockAdjusted(order.ID, "pos_sale", changes)
	s.logger().Info("pos sale registered",
		zap.String("order_id", order.ID),
		zap.Int("total", order.Total),
		zap.String("payment_method", order.PaymentMethod),
		zap.Int("lines", len(order.LineItems)),
	)
	return order, nil
}

func (s *Service) publishSale(o orders.Order) {
	if s.StatusEvents == nil {
		return
	}
	b := s.envelope(orders.EventSaleRegistered, o.ID, orders.SaleRegisteredPayload{
		OrderID: o.ID, Total: o.Total, PaymentMethod: o.PaymentMethod,
	})
	s.StatusEvents.Publish(orders.PartitionKey(o.ID), b, kafkax.EventHeaders(orders.EventSaleRegistered, 1)...)
}
