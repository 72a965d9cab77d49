package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-storefront/internal/storeflag"
)

type StoreHandler struct {
	Flag *storeflag.Flag
	Log  *zap.Logger
}

type storeStatus struct {
	Closed bool `json:"closed"`
}

func (h *StoreHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/store/status", h.getStatus)
		r.Put("/store/status", h.putStatus)
	})
	// long-lived stream, no request timeout
	r.Get("/store/events", h.events)
}

func (h *StoreHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	closed, err := h.Flag.Closed(r.Context())
	if err != nil {
		h.Log.Error("read store flag", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, storeStatus{Closed: closed})
}

func (h *StoreHandler) putStatus(w http.ResponseWriter, r *http.Request) {
	var req storeStatus
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if err := h.Flag.SetClosed(r.Context(), req.Closed); err != nil {
		h.Log.Error("write store flag", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// events streams the store flag as server-sent events: the current value
// first, then one event per change.
func (h *StoreHandler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "streaming unsupported"})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	updates := make(chan bool, 8)
	unsubscribe, err := h.Flag.Subscribe(ctx, func(closed bool) {
		select {
		case updates <- closed:
		case <-ctx.Done():
		}
	})
	if err != nil {
		cancel()
		h.Log.Error("subscribe store flag", zap.Error(err))
		writeError(w, err)
		return
	}
	defer unsubscribe()
	defer cancel() // runs first, unblocking a pending delivery

	closed, err := h.Flag.Closed(ctx)
	if err != nil {
		h.Log.Error("read store flag", zap.Error(err))
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for {
		b, _ := json.Marshal(storeStatus{Closed: closed})
		if _, err := fmt.Fprintf(w, "event: store-status\ndata: %s\n\n", b); err != nil {
			return
		}
		flusher.Flush()

		select {
		case <-ctx.Done():
			return
		case closed = <-updates:
		}
	}
}
