package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/payment"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/service"
)

// CheckoutService is the slice of the lifecycle controller the handlers
// depend on.
type CheckoutService interface {
	Create(ctx context.Context, req *service.CreateRequest) (*domain.CheckoutSession, error)
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Update(ctx context.Context, id string, req *service.UpdateRequest) (*domain.CheckoutSession, error)
	Complete(ctx context.Context, id, token string) (*service.CompleteResult, error)
	Cancel(ctx context.Context, id, reason string) (*domain.CheckoutSession, error)
}

type CheckoutHandler struct {
	service CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: svc}
}

// Routes mounts the checkout endpoints on the given router. Auth is the
// caller's concern; these handlers assume the request already passed it.
func (h *CheckoutHandler) Routes(r chi.Router) {
	r.Post("/checkouts", h.CreateCheckout)
	r.Get("/checkouts/{id}", h.GetCheckout)
	r.Put("/checkouts/{id}", h.UpdateCheckout)
	r.Post("/checkouts/{id}/complete", h.CompleteCheckout)
	r.Post("/checkouts/{id}/cancel", h.CancelCheckout)
}

type CreateCheckoutDTO struct {
	Items              []domain.Item   `json:"items"`
	Buyer              *domain.Buyer   `json:"buyer,omitempty"`
	FulfillmentAddress *domain.Address `json:"fulfillment_address,omitempty"`
}

type UpdateCheckoutDTO struct {
	Items               []domain.Item   `json:"items,omitempty"`
	FulfillmentAddress  *domain.Address `json:"fulfillment_address,omitempty"`
	FulfillmentOptionID *string         `json:"fulfillment_option_id,omitempty"`
}

type CompleteCheckoutDTO struct {
	PaymentData struct {
		Token string `json:"token"`
	} `json:"payment_data"`
}

type CancelCheckoutDTO struct {
	Reason string `json:"reason,omitempty"`
}

type CompleteResponseDTO struct {
	Status          string `json:"status"`
	OrderID         string `json:"order_id,omitempty"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	ClientSecret    string `json:"client_secret,omitempty"`
}

type CancelResponseDTO struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// POST /checkouts
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request_error", "invalid_body", "invalid JSON body")
		return
	}

	session, err := h.service.Create(r.Context(), &service.CreateRequest{
		Items:              req.Items,
		Buyer:              req.Buyer,
		FulfillmentAddress: req.FulfillmentAddress,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// GET /checkouts/{id}
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// PUT /checkouts/{id}
func (h *CheckoutHandler) UpdateCheckout(w http.ResponseWriter, r *http.Request) {
	var req UpdateCheckoutDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request_error", "invalid_body", "invalid JSON body")
		return
	}

	session, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &service.UpdateRequest{
		Items:               req.Items,
		FulfillmentAddress:  req.FulfillmentAddress,
		FulfillmentOptionID: req.FulfillmentOptionID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// POST /checkouts/{id}/complete
func (h *CheckoutHandler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	var req CompleteCheckoutDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request_error", "invalid_body", "invalid JSON body")
		return
	}

	result, err := h.service.Complete(r.Context(), chi.URLParam(r, "id"), req.PaymentData.Token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := CompleteResponseDTO{
		PaymentIntentID: result.PaymentIntentID,
	}
	switch result.Outcome {
	case payment.OutcomeSucceeded:
		resp.Status = string(domain.StatusCompleted)
		resp.OrderID = result.OrderID
	case payment.OutcomeRequiresAction:
		resp.Status = string(payment.OutcomeRequiresAction)
		resp.ClientSecret = result.ClientSecret
	}
	respondJSON(w, http.StatusOK, resp)
}

// POST /checkouts/{id}/cancel
func (h *CheckoutHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	var req CancelCheckoutDTO
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request_error", "invalid_body", "invalid JSON body")
			return
		}
	}

	session, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CancelResponseDTO{
		Status:    string(session.Status),
		SessionID: session.ID,
	})
}
