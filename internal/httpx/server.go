package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-realtime-storefront/internal/inventory"
	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
	"github.com/ariefcatur/go-realtime-storefront/internal/suppliers"
)

const requestTimeout = 15 * time.Second

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
}

// writeError maps workflow errors onto HTTP codes. The body always carries a
// message fit for a staff notification.
func writeError(w http.ResponseWriter, err error) {
	var (
		insufficient *orders.InsufficientStockError
		partial      *orders.PartialStockUpdateError
		statusErr    *orders.StatusUpdateError
	)
	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      err.Error(),
			"product_id": insufficient.ProductID,
			"product":    insufficient.Product,
			"available":  insufficient.Available,
			"requested":  insufficient.Requested,
		})
	case errors.As(err, &partial):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "items": partial.Items})
	case errors.As(err, &statusErr):
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, suppliers.ErrSupplierNotFound), errors.Is(err, suppliers.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
	case errors.Is(err, orders.ErrTransitionInProgress), errors.Is(err, orders.ErrStockConflict),
		errors.Is(err, inventory.ErrOutOfStock), errors.Is(err, inventory.ErrNoMoreStock):
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
	case errors.Is(err, orders.ErrInvalidStatus), errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, inventory.ErrInvalidPaymentMethod), errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, suppliers.ErrInvalid):
		badRequest(w, err.Error())
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "unexpected error processing the request"})
	}
}
