package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/catalog"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/service"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/store"
)

type ErrorDetail struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, errType, code, message string) {
	respondJSON(w, status, ErrorBody{Error: ErrorDetail{
		Type:    errType,
		Code:    code,
		Message: message,
	}})
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// State conflicts stay 400 with a distinguishing code so agents can tell
// "already completed" from "payment running" without parsing messages.
func handleServiceError(w http.ResponseWriter, err error) {
	var payErr *service.PaymentError
	if errors.As(err, &payErr) {
		respondError(w, http.StatusBadRequest, "payment_error", "payment_declined", payErr.Reason)
		return
	}

	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "not_found_error", "not_found", "checkout session not found")
	case errors.Is(err, store.ErrVersionConflict):
		respondError(w, http.StatusConflict, "conflict_error", "concurrent_update", "session was modified concurrently, retry with fresh state")
	case errors.Is(err, service.ErrEmptyItems):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "empty_items", "items must not be empty")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "invalid_quantity", "item quantity must be positive")
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "unknown_item", "unknown product in items")
	case errors.Is(err, service.ErrInvalidFulfillmentOption):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "invalid_fulfillment_option", "fulfillment option is not available for this session")
	case errors.Is(err, service.ErrSessionClosed):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "session_closed", "session is in a terminal state")
	case errors.Is(err, service.ErrAlreadyCompleted):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "already_completed", "session is already completed")
	case errors.Is(err, service.ErrAlreadyCanceled):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "already_canceled", "session is already canceled")
	case errors.Is(err, service.ErrPaymentInProgress):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "payment_in_progress", "a payment attempt is in progress")
	case errors.Is(err, service.ErrNotReadyForPayment):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "not_ready_for_payment", "session is not ready for payment")
	case errors.Is(err, service.ErrMissingPaymentToken):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "missing_payment_token", "payment_data.token is required")
	case errors.Is(err, service.ErrMissingTotal):
		respondError(w, http.StatusBadRequest, "invalid_request_error", "missing_total", "session has no resolved total")
	default:
		log.Printf("unhandled service error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "", "internal server error")
	}
}
