package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// pgTx locks every row it reads (FOR UPDATE) so concurrent confirmations of
// overlapping products serialize on the product rows.
type pgTx struct{ tx pgx.Tx }

func (t *pgTx) GetOrder(ctx context.Context, id string) (Order, error) {
	return getOrder(ctx, t.tx, id, true)
}

func (t *pgTx) GetProduct(ctx context.Context, id string) (Product, error) {
	return getProduct(ctx, t.tx, id, true)
}

func (t *pgTx) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	var stock int
	err := t.tx.QueryRow(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id=$1 AND stock + $2 >= 0
		RETURNING stock`, productID, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	// no row updated: either missing, or the guard refused
	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrProductNotFound
	}
	return 0, ErrStockConflict
}

func (t *pgTx) UpdateOrderStatus(ctx context.Context, id string, status Status) error {
	ct, err := t.tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, string(status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrOrderNotFound
	}
	return nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	items, err := json.Marshal(o.LineItems)
	if err != nil {
		return err
	}
	var address any
	if o.CustomerAddress != "" {
		address = o.CustomerAddress
	}
	_, err = t.tx.Exec(ctx, `
		INSERT INTO orders(id, status, line_items, subtotal, delivery_fee, total, delivery_type,
		                   payment_method, customer_name, customer_address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, string(o.Status), items, o.Subtotal, o.DeliveryFee, o.Total, o.DeliveryType,
		o.PaymentMethod, o.CustomerName, address, o.CreatedAt, o.UpdatedAt,
	)
	return err
}
