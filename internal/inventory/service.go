package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Locker guards one order against concurrent transitions.
type Locker interface {
	Lock(ctx context.Context, orderID string) (release func(), err error)
}

// Service reconciles product stock with order status changes. Redis, Locker
// and the publishers are optional; a nil one is skipped.
type Service struct {
	Store        orders.Store
	Redis        *redis.Client
	Locker       Locker
	StatusEvents Publisher // publish order.status
	StockEvents  Publisher // publish stock.adjusted
	ServiceName  string
	Log          *zap.Logger
}

type TransitionResult struct {
	OrderID string               `json:"order_id"`
	From    orders.Status        `json:"from"`
	To      orders.Status        `json:"to"`
	Effect  string               `json:"stock_effect"`
	Changed bool                 `json:"changed"`
	Changes []orders.StockChange `json:"stock_changes,omitempty"`
	Message string               `json:"message"`
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// TransitionOrder moves an order to target and applies the matching stock
// side-effect. Everything happens in one store transaction: if any line item
// fails, no stock is touched and the status stays as it was.
func (s *Service) TransitionOrder(ctx context.Context, orderID string, target orders.Status) (TransitionResult, error) {
	log := s.logger().With(zap.String("order_id", orderID), zap.String("target", string(target)))
	if target == "" {
		return TransitionResult{}, orders.ErrInvalidStatus
	}

	if s.Locker != nil {
		release, err := s.Locker.Lock(ctx, orderID)
		switch {
		case errors.Is(err, redisx.ErrLocked):
			return TransitionResult{}, orders.ErrTransitionInProgress
		case err != nil:
			// row locks still serialize us; the redis lock only short-circuits double clicks
			log.Warn("order lock unavailable", zap.Error(err))
		default:
			defer release()
		}
	}

	var res TransitionResult
	err := s.Store.WithinTx(ctx, func(tx orders.Tx) error {
		o, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		effect := orders.PlanTransition(o.Status, target)
		res = TransitionResult{OrderID: o.ID, From: o.Status, To: target, Effect: effect.String()}
		if o.Status == target {
			return nil
		}

		switch effect {
		case orders.EffectDebit:
			res.Changes, err = debit(ctx, tx, o.LineItems)
		case orders.EffectRestock:
			res.Changes, err = restock(ctx, tx, o.LineItems, log)
		}
		if err != nil {
			return err
		}

		if err := tx.UpdateOrderStatus(ctx, o.ID, target); err != nil {
			return &orders.StatusUpdateError{OrderID: o.ID, Err: err}
		}
		res.Changed = true
		return nil
	})
	if err != nil {
		logFailure(log, "order transition failed", err)
		return TransitionResult{}, err
	}

	res.Message = transitionMessage(res)
	if res.Changed {
		s.cacheStatus(ctx, res.OrderID, res.To)
		s.publishStatusChanged(res)
		s.publishStockAdjusted(res.OrderID, reasonFor(res.To), res.Changes)
	}
	log.Info("order transitioned",
		zap.String("from", string(res.From)),
		zap.String("stock_effect", res.Effect),
		zap.Bool("changed", res.Changed),
		zap.Int("stock_changes", len(res.Changes)),
	)
	return res, nil
}

// debit takes every line item out of stock. It stops at the first item that
// does not have enough stock; items that could not be read or written are
// collected and reported together.
func debit(ctx context.Context, tx orders.Tx, items []orders.LineItem) ([]orders.StockChange, error) {
	var (
		failed  []string
		changes = make([]orders.StockChange, 0, len(items))
	)
	for _, li := range items {
		if li.Quantity <= 0 {
			failed = append(failed, li.Label())
			continue
		}
		p, err := tx.GetProduct(ctx, li.ProductID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			failed = append(failed, li.Label())
			continue
		}
		if p.Stock-li.Quantity < 0 {
			name := li.Name
			if name == "" {
				name = p.Name
			}
			return nil, &orders.InsufficientStockError{
				ProductID: li.ProductID, Product: name, Available: p.Stock, Requested: li.Quantity,
			}
		}
		stock, err := tx.AdjustStock(ctx, li.ProductID, -li.Quantity)
		if err != nil {
			failed = append(failed, li.Label())
			continue
		}
		changes = append(changes, orders.StockChange{
			ProductID: li.ProductID, Name: p.Name, Delta: -li.Quantity, Stock: stock,
		})
	}
	if len(failed) > 0 {
		return nil, &orders.PartialStockUpdateError{Items: failed}
	}
	return changes, nil
}

// restock puts line items back. Products that no longer exist are skipped.
func restock(ctx context.Context, tx orders.Tx, items []orders.LineItem, log *zap.Logger) ([]orders.StockChange, error) {
	changes := make([]orders.StockChange, 0, len(items))
	for _, li := range items {
		if li.Quantity <= 0 {
			continue
		}
		p, err := tx.GetProduct(ctx, li.ProductID)
		if errors.Is(err, orders.ErrProductNotFound) {
			log.Warn("restock skipped, product missing", zap.String("product_id", li.ProductID))
			continue
		}
		if err != nil {
			return nil, err
		}
		stock, err := tx.AdjustStock(ctx, li.ProductID, li.Quantity)
		if err != nil {
			return nil, fmt.Errorf("restock %s: %w", li.Label(), err)
		}
		changes = append(changes, orders.StockChange{
			ProductID: li.ProductID, Name: p.Name, Delta: li.Quantity, Stock: stock,
		})
	}
	return changes, nil
}

func transitionMessage(r TransitionResult) string {
	switch {
	case !r.Changed:
		return "order already " + string(r.To)
	case r.To == orders.StatusConfirmed:
		return "order confirmed and stock updated"
	case r.To == orders.StatusCancelled && r.Effect == orders.EffectRestock.String():
		return "order cancelled and stock returned"
	case r.To == orders.StatusCancelled:
		return "order cancelled"
	default:
		return "status updated"
	}
}

func reasonFor(to orders.Status) string {
	if to == orders.StatusConfirmed {
		return "confirm"
	}
	return "cancel"
}

// logFailure keeps expected business failures at warn level.
func logFailure(log *zap.Logger, msg string, err error) {
	var (
		insufficient *orders.InsufficientStockError
		partial      *orders.PartialStockUpdateError
	)
	switch {
	case errors.As(err, &insufficient), errors.As(err, &partial),
		errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrProductNotFound):
		log.Warn(msg, zap.Error(err))
	default:
		log.Error(msg, zap.Error(err))
	}
}

// ---- passthroughs used by the admin dashboard ----

func (s *Service) GetOrder(ctx context.Context, id string) (orders.Order, error) {
	return s.Store.GetOrder(ctx, id)
}

func (s *Service) GetProduct(ctx context.Context, id string) (orders.Product, error) {
	return s.Store.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, f orders.ProductFilter) ([]orders.Product, error) {
	return s.Store.ListProducts(ctx, f)
}

func (s *Service) ListOrders(ctx context.Context, f orders.Filter) ([]orders.Order, error) {
	return s.Store.ListOrders(ctx, f)
}

// DeleteOrder removes an order permanently. Stock is never touched, even for
// confirmed orders.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.Store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, id)).Err()
	}
	s.logger().Info("order deleted", zap.String("order_id", id))
	return nil
}

// OrderStatus answers from the redis cache when it can.
func (s *Service) OrderStatus(ctx context.Context, id string) (orders.Status, error) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if s.Redis != nil {
		if v, err := s.Redis.Get(ctx, key).Result(); err == nil && v != "" {
			return orders.Status(v), nil
		}
	}
	o, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return "", err
	}
	s.cacheStatus(ctx, id, o.Status)
	return o.Status, nil
}

func (s *Service) cacheStatus(ctx context.Context, orderID string, st orders.Status) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if err := s.Redis.Set(ctx, key, string(st), redisx.TTLStatusCache).Err(); err != nil {
		s.logger().Warn("cache order status", zap.String("order_id", orderID), zap.Error(err))
	}
}

// ---- events ----

func (s *Service) envelope(eventType, orderID string, payload any) []byte {
	return kafkax.MustMarshal(orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	})
}

func (s *Service) publishStatusChanged(r TransitionResult) {
	if s.StatusEvents == nil {
		return
	}
	b := s.envelope(orders.EventOrderStatusChanged, r.OrderID, orders.OrderStatusChangedPayload{
		OrderID: r.OrderID, From: r.From, To: r.To, Effect: r.Effect,
	})
	s.StatusEvents.Publish(orders.PartitionKey(r.OrderID), b, kafkax.EventHeaders(orders.EventOrderStatusChanged, 1)...)
}

func (s *Service) publishStockAdjusted(orderID, reason string, changes []orders.StockChange) {
	if s.StockEvents == nil || len(changes) == 0 {
		return
	}
	b := s.envelope(orders.EventStockAdjusted, orderID, orders.StockAdjustedPayload{
		OrderID: orderID, Reason: reason, Changes: changes,
	})
	s.StockEvents.Publish(orders.PartitionKey(orderID), b, kafkax.EventHeaders(orders.EventStockAdjusted, 1)...)
}
