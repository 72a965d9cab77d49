package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-storefront/internal/inventory"
	"github.com/ariefcatur/go-realtime-storefront/internal/memstore"
	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
	"github.com/ariefcatur/go-realtime-storefront/internal/storeflag"
)

type testServer struct {
	router *chi.Mux
	store  *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := memstore.New()
	svc := &inventory.Service{Store: store, Redis: rdb, Log: zap.NewNop()}
	router := NewRouter()
	(&OrdersHandler{
		Service:   svc,
		Redis:     rdb,
		Threshold: inventory.DefaultLowStockThreshold,
		Log:       zap.NewNop(),
		Now:       func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) },
	}).Register(router)
	(&StoreHandler{Flag: &storeflag.Flag{RDB: rdb, Log: zap.NewNop()}, Log: zap.NewNop()}).Register(router)
	(&SuppliersHandler{
		Store: memstore.NewSuppliers(),
		Log:   zap.NewNop(),
		Now:   func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) },
	}).Register(router)
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestTransitionEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.store.PutProduct(orders.Product{ID: "1", Name: "Arepa", Stock: 5})
	id := s.store.PutOrder(orders.Order{
		Status:    orders.StatusPending,
		LineItems: []orders.LineItem{{ProductID: "1", Name: "Arepa", Quantity: 2}},
	})

	rec := s.do(t, http.MethodPost, "/orders/"+id+"/status", TransitionReq{Status: "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[inventory.TransitionResult](t, rec)
	require.Equal(t, "order confirmed and stock updated", res.Message)

	rec = s.do(t, http.MethodGet, "/orders/"+id+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "confirmed", decode[map[string]any](t, rec)["status"])

	rec = s.do(t, http.MethodPost, "/orders/missing/status", TransitionReq{Status: "confirmed"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/orders/"+id+"/status", TransitionReq{Status: "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionEndpointInsufficientStock(t *testing.T) {
	s := newTestServer(t)
	s.store.PutProduct(orders.Product{ID: "1", Name: "Arepa", Stock: 3})
	id := s.store.PutOrder(orders.Order{
		Status:    orders.StatusPending,
		LineItems: []orders.LineItem{{ProductID: "1", Name: "Arepa", Quantity: 10}},
	})

	rec := s.do(t, http.MethodPost, "/orders/"+id+"/status", TransitionReq{Status: "confirmed"})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]any](t, rec)
	require.Equal(t, "Arepa", body["product"])
	require.EqualValues(t, 3, body["available"])
	require.EqualValues(t, 10, body["requested"])
}

func TestTransitionEndpointPartialFailure(t *testing.T) {
	s := newTestServer(t)
	id := s.store.PutOrder(orders.Order{
		Status:    orders.StatusPending,
		LineItems: []orders.LineItem{{ProductID: "ghost", Quantity: 1}},
	})

	rec := s.do(t, http.MethodPost, "/orders/"+id+"/status", TransitionReq{Status: "confirmed"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, []any{"ID: ghost"}, decode[map[string]any](t, rec)["items"])
}

func TestCheckoutEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.store.PutProduct(orders.Product{ID: "1", Name: "Arepa", Price: 1000, Stock: 4})

	// price and name come from the catalog, not the request
	rec := s.do(t, http.MethodPost, "/pos/checkout", CheckoutReq{
		PaymentMethod: "transfer",
		Items:         []inventory.CartLine{{ProductID: "1", Name: "Free arepa", Price: 1, Quantity: 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decode[orders.Order](t, rec)
	require.Equal(t, orders.StatusConfirmed, o.Status)
	require.Equal(t, 3000, o.Total)
	require.Equal(t, "Arepa", o.LineItems[0].Name)

	rec = s.do(t, http.MethodPost, "/pos/checkout", CheckoutReq{
		Items: []inventory.CartLine{{ProductID: "1", Name: "Arepa", Price: 1000, Quantity: 2}},
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/pos/checkout", CheckoutReq{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/pos/checkout", CheckoutReq{
		Items: []inventory.CartLine{{ProductID: "ghost", Quantity: 1}},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProductsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.store.PutProduct(orders.Product{ID: "1", Name: "Arepa de queso", CategoryID: "food", Stock: 3})
	s.store.PutProduct(orders.Product{ID: "2", Name: "Jugo 100%", CategoryID: "drinks", Stock: 3})
	s.store.PutProduct(orders.Product{ID: "3", Name: "Arepa sola", CategoryID: "food", Stock: 0})

	rec := s.do(t, http.MethodGet, "/products?q=arepa", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ps := decode[[]orders.Product](t, rec)
	require.Len(t, ps, 2)
	require.Equal(t, "Arepa de queso", ps[0].Name)

	rec = s.do(t, http.MethodGet, "/products?category=drinks", nil)
	require.Len(t, decode[[]orders.Product](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/products?q=%25", nil)
	ps = decode[[]orders.Product](t, rec)
	require.Len(t, ps, 1)
	require.Equal(t, "2", ps[0].ID)

	rec = s.do(t, http.MethodGet, "/products?q=nothing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestListAndDeleteOrders(t *testing.T) {
	s := newTestServer(t)
	base := time.Date(2024, 5, 9, 10, 0, 0, 0, time.UTC)
	a := s.store.PutOrder(orders.Order{Status: orders.StatusPending, CustomerName: "Ana", CreatedAt: base})
	b := s.store.PutOrder(orders.Order{Status: orders.StatusConfirmed, CustomerName: "Beto", CreatedAt: base.Add(time.Hour)})

	rec := s.do(t, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]orders.Order](t, rec)
	require.Len(t, list, 2)
	require.Equal(t, b, list[0].ID)

	rec = s.do(t, http.MethodGet, "/orders?status=pending&from=2024-05-09&to=2024-05-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode[[]orders.Order](t, rec)
	require.Len(t, list, 1)
	require.Equal(t, a, list[0].ID)

	rec = s.do(t, http.MethodGet, "/orders?from=yesterday", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/orders?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	// would overflow the offset if multiplied unchecked
	rec = s.do(t, http.MethodGet, "/orders?page=922337203685477580", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/orders/"+b, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodDelete, "/orders/"+b, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/orders?q=beto", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestLowStockEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.store.PutProduct(orders.Product{ID: "1", Name: "Arepa", Stock: 2})
	s.store.PutProduct(orders.Product{ID: "2", Name: "Jugo", Stock: 30})

	rec := s.do(t, http.MethodGet, "/products/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]inventory.LowStockItem](t, rec)
	require.Len(t, items, 1)
	require.Equal(t, inventory.LevelCritical, items[0].Level)

	rec = s.do(t, http.MethodGet, "/products/low-stock?threshold=50", nil)
	require.Len(t, decode[[]inventory.LowStockItem](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/alerts/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestSalesReportEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.store.PutOrder(orders.Order{
		Status: orders.StatusConfirmed, Total: 2000,
		CreatedAt: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
	})

	rec := s.do(t, http.MethodGet, "/reports/sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	require.EqualValues(t, 2000, body["sales_today"])
	require.EqualValues(t, 1, body["confirmed_count"])
}

func TestStoreStatusEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/store/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"closed":false}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/store/status", map[string]bool{"closed": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/store/status", nil)
	require.JSONEq(t, `{"closed":true}`, rec.Body.String())
}
