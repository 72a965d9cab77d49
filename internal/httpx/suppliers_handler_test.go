package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-realtime-storefront/internal/reports"
	"github.com/ariefcatur/go-realtime-storefront/internal/suppliers"
)

func TestSuppliersFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/suppliers", map[string]string{"name": "Harinas del Valle", "phone": "300 000 0000"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sp := decode[suppliers.Supplier](t, rec)
	require.NotEmpty(t, sp.ID)

	rec = s.do(t, http.MethodPost, "/suppliers/orders", map[string]any{"supplier_id": sp.ID, "total": 50000})
	require.Equal(t, http.StatusCreated, rec.Code)
	received := decode[suppliers.Order](t, rec)
	require.Equal(t, suppliers.OrderPending, received.Status)
	require.Equal(t, "Harinas del Valle", received.SupplierName)

	rec = s.do(t, http.MethodPost, "/suppliers/orders", map[string]any{"supplier_id": sp.ID, "total": 7000})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/suppliers/orders/"+received.ID+"/status", TransitionReq{Status: "received"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/suppliers/invoices", InvoiceReq{SupplierID: sp.ID, Number: "F-001", Amount: 42000})
	require.Equal(t, http.StatusCreated, rec.Code)
	inv := decode[suppliers.Invoice](t, rec)
	require.Equal(t, "2024-05-10", inv.IssuedOn.Format(dateLayout))

	rec = s.do(t, http.MethodGet, "/suppliers/orders", nil)
	require.Len(t, decode[[]suppliers.Order](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/suppliers/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, reports.SupplierSummary{
		Suppliers: 1, Spent: 50000, PendingSpend: 7000, Invoiced: 42000, Invoices: 1,
	}, decode[reports.SupplierSummary](t, rec))
}

func TestSuppliersValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/suppliers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(t, http.MethodPost, "/suppliers", map[string]string{"name": " "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/suppliers/orders", map[string]any{"supplier_id": "ghost", "total": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/suppliers/orders", map[string]any{"supplier_id": "s1", "total": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/suppliers/orders/ghost/status", TransitionReq{Status: "received"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/suppliers/orders/ghost/status", TransitionReq{Status: "lost"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/suppliers/invoices", InvoiceReq{SupplierID: "s1", Number: "F-1", IssuedOn: "10/05/2024"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
