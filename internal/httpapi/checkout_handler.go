package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopkart/storefront/internal/cart"
	"github.com/shopkart/storefront/internal/checkout"
	"github.com/shopkart/storefront/internal/domain"
	"github.com/shopkart/storefront/internal/promo"
)

type CheckoutHandler struct {
	manager   *checkout.Manager
	engine    *cart.Engine
	evaluator *promo.Evaluator
	timeout   time.Duration
}

func NewCheckoutHandler(manager *checkout.Manager, engine *cart.Engine, evaluator *promo.Evaluator, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		manager:   manager,
		engine:    engine,
		evaluator: evaluator,
		timeout:   timeout,
	}
}

type BeginCheckoutRequestDTO struct {
	PromoCode string `json:"promo_code"`
}

type CheckoutSessionDTO struct {
	SessionID string                   `json:"session_id"`
	Snapshot  domain.CheckoutSnapshot  `json:"snapshot"`
	Promo     *domain.PromoApplication `json:"promo,omitempty"`
}

type ValidateResponseDTO struct {
	OK         bool   `json:"ok"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type PlaceOrderRequestDTO struct {
	AddressLine1 string `json:"address_line1"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// POST /api/v1/checkout
//
// Begins a checkout: evaluates the promo code (if any) against the current
// subtotal and freezes the cart into an immutable snapshot. A checkout of
// an empty cart is rejected up front.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req BeginCheckoutRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	state := h.engine.State()
	if state.IsEmpty() {
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
		return
	}

	var application domain.PromoApplication
	if req.PromoCode != "" {
		application = h.evaluator.Evaluate(ctx, req.PromoCode, state.TotalAmount)
	}

	session := h.manager.Begin(state, application)

	dto := CheckoutSessionDTO{SessionID: session.ID, Snapshot: session.Snapshot}
	if req.PromoCode != "" {
		dto.Promo = &application
	}
	respondJSON(w, http.StatusCreated, dto)
}

// GET /api/v1/checkout/{session_id}/validate
//
// Reconciles the frozen snapshot against the live cart. A mismatch is not
// an error: the response tells the client to send the user back to the
// cart view. The client calls this on checkout entry and again on every
// cart change while the checkout view is open.
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	if !h.manager.ValidateAtEntry(session, h.engine.State()) {
		respondJSON(w, http.StatusConflict, ValidateResponseDTO{OK: false, RedirectTo: "/cart"})
		return
	}
	respondJSON(w, http.StatusOK, ValidateResponseDTO{OK: true})
}

// POST /api/v1/checkout/{session_id}/order
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	// drift re-check at submit time; item-level drift sends the user back
	if !h.manager.ValidateAtEntry(session, h.engine.State()) {
		respondJSON(w, http.StatusConflict, ValidateResponseDTO{OK: false, RedirectTo: "/cart"})
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	addr := domain.Address{Line1: req.AddressLine1, State: req.State, Pincode: req.Pincode}
	order, fieldErrs, err := h.manager.PlaceOrder(ctx, session.ID, addr)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidAddress):
			respondFieldErrors(w, fieldErrs)
		case errors.Is(err, checkout.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "session_not_found", "checkout session not found")
		default:
			respondError(w, http.StatusBadGateway, "order_service_unavailable",
				"failed to place order, please try again")
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// DELETE /api/v1/checkout/{session_id}
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "session_id is required")
		return
	}
	h.manager.Abandon(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "session_id is required")
		return nil, false
	}

	session, ok := h.manager.Get(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "session_not_found", "checkout session not found")
		return nil, false
	}
	return session, true
}
