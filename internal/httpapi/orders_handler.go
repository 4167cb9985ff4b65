package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/orders"
)

type OrdersHandler struct {
	tracker *orders.Tracker
	timeout time.Duration
}

func NewOrdersHandler(tracker *orders.Tracker, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{tracker: tracker, timeout: timeout}
}

// OrderDTO decorates a domain order with the derived presentation fields
// the order history view renders directly.
type OrderDTO struct {
	domain.Order
	Progress     int  `json:"progress"`
	ShowProgress bool `json:"show_progress"`
	CanCancel    bool `json:"can_cancel"`
}

func toOrderDTO(o domain.Order) OrderDTO {
	progress, show := o.Status.Progress()
	return OrderDTO{
		Order:        o,
		Progress:     progress,
		ShowProgress: show,
		CanCancel:    o.Status.CanCancel(),
	}
}

// GET /api/v1/orders?status=
//
// Refreshes from the order service first; a refresh failure is logged and
// the last known (possibly stale) orders are served instead.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.tracker.Refresh(ctx); err != nil {
		log.Printf("order refresh failed, serving last known orders: %v", err)
	}

	var list []domain.Order
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !status.IsValid() {
			respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
			return
		}
		list = h.tracker.FilterByStatus(status)
	} else {
		list = h.tracker.Orders()
	}

	dtos := make([]OrderDTO, 0, len(list))
	for _, o := range list {
		dtos = append(dtos, toOrderDTO(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, found := h.tracker.Get(id)
	if !found {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

// PUT /api/v1/orders/{order_id}/cancel
func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.tracker.Cancel(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		case errors.Is(err, orders.ErrCancelNotAllowed):
			respondError(w, http.StatusConflict, "cancel_not_allowed",
				"order can no longer be cancelled")
		default:
			respondError(w, http.StatusBadGateway, "order_service_unavailable",
				"failed to cancel order, please try again")
		}
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "order_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return 0, false
	}
	return id, true
}
