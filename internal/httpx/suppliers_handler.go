package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-storefront/internal/reports"
	"github.com/ariefcatur/go-realtime-storefront/internal/suppliers"
)

type SuppliersHandler struct {
	Store suppliers.Store
	Log   *zap.Logger
	Now   func() time.Time
}

type InvoiceReq struct {
	SupplierID string `json:"supplier_id"`
	Number     string `json:"number"`
	Amount     int    `json:"amount"`
	IssuedOn   string `json:"issued_on"` // YYYY-MM-DD, defaults to today
}

func (h *SuppliersHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/suppliers", h.listSuppliers)
		r.Post("/suppliers", h.createSupplier)
		r.Get("/suppliers/orders", h.listOrders)
		r.Post("/suppliers/orders", h.createOrder)
		r.Post("/suppliers/orders/{id}/status", h.updateOrderStatus)
		r.Get("/suppliers/invoices", h.listInvoices)
		r.Post("/suppliers/invoices", h.createInvoice)
		r.Get("/suppliers/summary", h.summary)
	})
}

func (h *SuppliersHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *SuppliersHandler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListSuppliers(r.Context())
	if err != nil {
		h.Log.Error("list suppliers", zap.Error(err))
		writeError(w, err)
		return
	}
	if list == nil {
		list = []suppliers.Supplier{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SuppliersHandler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var s suppliers.Supplier
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if err := s.Normalize(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Store.CreateSupplier(r.Context(), &s); err != nil {
		h.Log.Error("create supplier", zap.Error(err))
		writeError(w, err)
		return
	}
	h.Log.Info("supplier created", zap.String("supplier_id", s.ID), zap.String("name", s.Name))
	writeJSON(w, http.StatusCreated, s)
}

func (h *SuppliersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListOrders(r.Context())
	if err != nil {
		h.Log.Error("list supplier orders", zap.Error(err))
		writeError(w, err)
		return
	}
	if list == nil {
		list = []suppliers.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SuppliersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var o suppliers.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if err := o.Normalize(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Store.CreateOrder(r.Context(), &o); err != nil {
		writeError(w, err)
		return
	}
	h.Log.Info("supplier order created",
		zap.String("supplier_order_id", o.ID),
		zap.String("supplier_id", o.SupplierID),
		zap.Int("total", o.Total),
	)
	writeJSON(w, http.StatusCreated, o)
}

func (h *SuppliersHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req TransitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	status := suppliers.OrderStatus(strings.TrimSpace(req.Status))
	if !status.Known() {
		badRequest(w, "unknown status")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Store.UpdateOrderStatus(r.Context(), id, status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": status})
}

func (h *SuppliersHandler) listInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListInvoices(r.Context())
	if err != nil {
		h.Log.Error("list invoices", zap.Error(err))
		writeError(w, err)
		return
	}
	if list == nil {
		list = []suppliers.Invoice{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SuppliersHandler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req InvoiceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	inv := suppliers.Invoice{SupplierID: req.SupplierID, Number: req.Number, Amount: req.Amount}
	if req.IssuedOn != "" {
		d, err := time.Parse(dateLayout, req.IssuedOn)
		if err != nil {
			badRequest(w, "issued_on must be YYYY-MM-DD")
			return
		}
		inv.IssuedOn = d
	}
	if err := inv.Normalize(h.now()); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Store.CreateInvoice(r.Context(), &inv); err != nil {
		writeError(w, err)
		return
	}
	h.Log.Info("invoice registered", zap.String("invoice_id", inv.ID), zap.Int("amount", inv.Amount))
	writeJSON(w, http.StatusCreated, inv)
}

func (h *SuppliersHandler) summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ss, err := h.Store.ListSuppliers(ctx)
	if err != nil {
		h.Log.Error("supplier summary", zap.Error(err))
		writeError(w, err)
		return
	}
	purchases, err := h.Store.ListOrders(ctx)
	if err != nil {
		h.Log.Error("supplier summary", zap.Error(err))
		writeError(w, err)
		return
	}
	invs, err := h.Store.ListInvoices(ctx)
	if err != nil {
		h.Log.Error("supplier summary", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.SummarizeSuppliers(ss, purchases, invs))
}
