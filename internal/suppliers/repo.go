package suppliers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct{ DB DB }

var _ Store = (*Repo)(nil)

func (r *Repo) supplierName(ctx context.Context, id string) (string, error) {
	var name string
	err := r.DB.QueryRow(ctx, `SELECT name FROM suppliers WHERE id=$1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrSupplierNotFound
	}
	return name, err
}

func (r *Repo) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, contact, phone, email, created_at
		FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Phone, &s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) CreateSupplier(ctx context.Context, s *Supplier) error {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO suppliers(id, name, contact, phone, email, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.Name, s.Contact, s.Phone, s.Email, s.CreatedAt)
	return err
}

func (r *Repo) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.supplier_id, s.name, o.status, o.total, o.notes, o.created_at
		FROM supplier_orders o JOIN suppliers s ON s.id = o.supplier_id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var (
			o      Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.SupplierName, &status, &o.Total, &o.Notes, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = OrderStatus(status)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) CreateOrder(ctx context.Context, o *Order) error {
	name, err := r.supplierName(ctx, o.SupplierID)
	if err != nil {
		return err
	}
	o.ID = uuid.NewString()
	o.SupplierName = name
	o.CreatedAt = time.Now().UTC()
	_, err = r.DB.Exec(ctx, `
		INSERT INTO supplier_orders(id, supplier_id, status, total, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		o.ID, o.SupplierID, string(o.Status), o.Total, o.Notes, o.CreatedAt)
	return err
}

func (r *Repo) UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) error {
	ct, err := r.DB.Exec(ctx, `UPDATE supplier_orders SET status=$2 WHERE id=$1`, id, string(status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repo) ListInvoices(ctx context.Context) ([]Invoice, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT i.id, i.supplier_id, s.name, i.number, i.amount, i.issued_on, i.created_at
		FROM invoices i JOIN suppliers s ON s.id = i.supplier_id
		ORDER BY i.issued_on DESC, i.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var i Invoice
		if err := rows.Scan(&i.ID, &i.SupplierID, &i.SupplierName, &i.Number, &i.Amount, &i.IssuedOn, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *Repo) CreateInvoice(ctx context.Context, i *Invoice) error {
	name, err := r.supplierName(ctx, i.SupplierID)
	if err != nil {
		return err
	}
	i.ID = uuid.NewString()
	i.SupplierName = name
	i.CreatedAt = time.Now().UTC()
	_, err = r.DB.Exec(ctx, `
		INSERT INTO invoices(id, supplier_id, number, amount, issued_on, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		i.ID, i.SupplierID, i.Number, i.Amount, i.IssuedOn, i.CreatedAt)
	return err
}
