package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-storefront/internal/inventory"
	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
	"github.com/ariefcatur/go-realtime-storefront/internal/reports"
)

const (
	ordersPerPage   = 12
	maxPage         = 100_000
	reportRangeDays = 30
	dateLayout      = "2006-01-02"
)

type OrdersHandler struct {
	Service   *inventory.Service
	Redis     *redis.Client // low-stock alert feed; nil disables /alerts
	Threshold int
	Log       *zap.Logger
	Now       func() time.Time
}

type TransitionReq struct {
	Status string `json:"status"`
}

type CheckoutReq struct {
	CustomerName  string               `json:"customer_name"`
	PaymentMethod string               `json:"payment_method"`
	Items         []inventory.CartLine `json:"items"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/orders/{id}/status", h.getOrderStatus)
		r.Post("/orders/{id}/status", h.transitionOrder)
		r.Delete("/orders/{id}", h.deleteOrder)
		r.Get("/products", h.listProducts)
		r.Post("/pos/checkout", h.checkout)
		r.Get("/products/low-stock", h.lowStock)
		r.Get("/alerts/low-stock", h.lowStockAlerts)
		r.Get("/reports/sales", h.salesReport)
	})
}

func (h *OrdersHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// parseRange reads from/to (YYYY-MM-DD, both inclusive) into [from, to+1d).
func parseRange(r *http.Request, loc *time.Location) (from, to time.Time, err error) {
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = time.ParseInLocation(dateLayout, s, loc); err != nil {
			return
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = time.ParseInLocation(dateLayout, s, loc); err != nil {
			return
		}
		to = to.AddDate(0, 0, 1)
	}
	return
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r, h.now().Location())
	if err != nil {
		badRequest(w, "dates must be YYYY-MM-DD")
		return
	}
	f := orders.Filter{
		Status:   orders.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Customer: strings.TrimSpace(r.URL.Query().Get("q")),
		From:     from,
		To:       to,
	}
	if s := r.URL.Query().Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 || page > maxPage {
			badRequest(w, "page must be between 1 and 100000")
			return
		}
		f.Limit = ordersPerPage
		f.Offset = (page - 1) * ordersPerPage
	}

	list, err := h.Service.ListOrders(r.Context(), f)
	if err != nil {
		h.Log.Error("list orders", zap.Error(err))
		writeError(w, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := h.Service.OrderStatus(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": id, "status": st})
}

// transitionOrder backs the Confirm / Cancel buttons.
func (h *OrdersHandler) transitionOrder(w http.ResponseWriter, r *http.Request) {
	var req TransitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	// the workflow must finish even if the client goes away mid-request
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 10*time.Second)
	defer cancel()

	res, err := h.Service.TransitionOrder(ctx, chi.URLParam(r, "id"), orders.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteOrder(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": "order deleted"})
}

// checkout backs the POS "confirm sale" action.
func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	for _, it := range req.Items {
		if it.ProductID == "" {
			badRequest(w, "product_id is required")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 10*time.Second)
	defer cancel()

	cart, err := h.Service.BuildCart(ctx, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	o, err := h.Service.Checkout(ctx, cart, inventory.CheckoutOptions{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// listProducts backs the POS catalog: ?q= searches names, ?category= filters.
func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Service.ListProducts(r.Context(), orders.ProductFilter{
		Query:      strings.TrimSpace(r.URL.Query().Get("q")),
		CategoryID: strings.TrimSpace(r.URL.Query().Get("category")),
	})
	if err != nil {
		h.Log.Error("list products", zap.Error(err))
		writeError(w, err)
		return
	}
	if ps == nil {
		ps = []orders.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *OrdersHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold := h.Threshold
	if s := r.URL.Query().Get("threshold"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			badRequest(w, "threshold must be a non-negative integer")
			return
		}
		threshold = n
	}
	items, err := h.Service.LowStock(r.Context(), threshold)
	if err != nil {
		h.Log.Error("low stock", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *OrdersHandler) lowStockAlerts(w http.ResponseWriter, r *http.Request) {
	if h.Redis == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "alert feed not configured"})
		return
	}
	alerts, err := inventory.LowStockAlerts(r.Context(), h.Redis, 50)
	if err != nil {
		h.Log.Error("low stock alerts", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *OrdersHandler) salesReport(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	from, to, err := parseRange(r, now.Location())
	if err != nil {
		badRequest(w, "dates must be YYYY-MM-DD")
		return
	}
	if from.IsZero() {
		y, m, d := now.AddDate(0, 0, -reportRangeDays).Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}

	list, err := h.Service.ListOrders(r.Context(), orders.Filter{From: from, To: to})
	if err != nil {
		h.Log.Error("sales report", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.Summarize(list, now))
}
