package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repo is the PostgreSQL implementation of Store.
type Repo struct{ DB DB }

var (
	_ Store = (*Repo)(nil)
	_ DB    = (*pgxpool.Pool)(nil)
)

const orderColumns = `id, status, line_items, subtotal, delivery_fee, total, delivery_type,
	payment_method, customer_name, COALESCE(customer_address, ''), created_at, updated_at`

const productColumns = `id, name, price, COALESCE(category_id, ''), COALESCE(image_url, ''),
	stock, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o      Order
		status string
		items  []byte
	)
	err := row.Scan(&o.ID, &status, &items, &o.Subtotal, &o.DeliveryFee, &o.Total, &o.DeliveryType,
		&o.PaymentMethod, &o.CustomerName, &o.CustomerAddress, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.LineItems); err != nil {
			return Order{}, fmt.Errorf("decode line items of order %s: %w", o.ID, err)
		}
	}
	return o, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.CategoryID, &p.ImageURL, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func getOrder(ctx context.Context, q querier, id string, lock bool) (Order, error) {
	sql := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	if lock {
		sql += ` FOR UPDATE`
	}
	o, err := scanOrder(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func getProduct(ctx context.Context, q querier, id string, lock bool) (Product, error) {
	sql := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	if lock {
		sql += ` FOR UPDATE`
	}
	p, err := scanProduct(q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *Repo) GetOrder(ctx context.Context, id string) (Order, error) {
	return getOrder(ctx, r.DB, id, false)
}

func (r *Repo) ListOrders(ctx context.Context, f Filter) ([]Order, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	if f.Customer != "" {
		// plain substring match; ILIKE would treat % and _ in the input as wildcards
		where = append(where, "strpos(lower(customer_name), lower("+arg(f.Customer)+")) > 0")
	}
	if !f.From.IsZero() {
		where = append(where, "created_at >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "created_at < "+arg(f.To))
	}

	sql := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		sql += ` LIMIT ` + arg(f.Limit)
	}
	if f.Offset > 0 {
		sql += ` OFFSET ` + arg(f.Offset)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteOrder(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	return getProduct(ctx, r.DB, id, false)
}

func (r *Repo) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Query != "" {
		args = append(args, f.Query)
		where = append(where, fmt.Sprintf("strpos(lower(name), lower($%d)) > 0", len(args)))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	sql := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY name ASC`

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *Repo) ListProductsBelowThreshold(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+`
		FROM products WHERE stock <= $1 ORDER BY stock ASC, name ASC`, threshold)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err // rollback via defer
	}
	return tx.Commit(ctx)
}
