package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/webhook"
)

const maxWebhookBodySize = 1 << 20

// WebhookHandler authenticates events claimed to come from the agent
// platform. Secrets are an ordered list so rotation keeps in-flight
// events verifiable.
type WebhookHandler struct {
	secrets []string
	now     func() time.Time
}

func NewWebhookHandler(secrets []string) *WebhookHandler {
	return &WebhookHandler{secrets: secrets, now: time.Now}
}

type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// POST /webhooks/inbound
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if len(h.secrets) == 0 {
		respondError(w, http.StatusInternalServerError, "internal_error", "", "no webhook secret configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request_error", "invalid_body", "unreadable request body")
		return
	}

	signature := r.Header.Get("X-Signature")
	timestamp, parseErr := strconv.ParseInt(r.Header.Get("X-Timestamp"), 10, 64)
	if signature == "" || parseErr != nil {
		h.reject(w)
		return
	}
	if !webhook.WithinSkew(timestamp, h.now()) {
		h.reject(w)
		return
	}
	matched, ok := webhook.Verify(body, signature, timestamp, h.secrets)
	if !ok {
		h.reject(w)
		return
	}
	log.Printf("inbound webhook verified with secret index %d", matched)

	var event inboundEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request_error", "invalid_body", "invalid JSON body")
		return
	}
	h.dispatch(event)

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *WebhookHandler) dispatch(event inboundEvent) {
	switch event.Event {
	case "order.updated", "order.refund_requested":
		log.Printf("received %s event", event.Event)
	default:
		log.Printf("ignoring unrecognized event type %q", event.Event)
	}
}

// reject is deliberately uniform: the response must not reveal whether
// the timestamp or the signature check failed.
func (h *WebhookHandler) reject(w http.ResponseWriter) {
	respondError(w, http.StatusUnauthorized, "authentication_error", "", "invalid signature or timestamp")
}
