package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

// Envelope is the outbound event body.
type Envelope struct {
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// Notifier delivers signed lifecycle events to the agent platform.
// Delivery is fire-and-forget relative to the triggering request: Emit
// returns immediately and failures never propagate to the caller.
type Notifier struct {
	url         string
	secret      string
	client      *http.Client
	now         func() time.Time
	maxAttempts int
	baseBackoff time.Duration
	timeout     time.Duration
}

func NewNotifier(url, secret string) *Notifier {
	return &Notifier{
		url:         url,
		secret:      secret,
		client:      &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
		maxAttempts: 3,
		baseBackoff: 500 * time.Millisecond,
		timeout:     30 * time.Second,
	}
}

func (n *Notifier) Emit(event string, data any) {
	if n.url == "" || n.secret == "" {
		log.Printf("webhook url or secret not configured, skipping %s", event)
		return
	}
	go n.deliver(event, data)
}

func (n *Notifier) deliver(event string, data any) {
	// Delivery runs on its own deadline, decoupled from the request that
	// triggered it.
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	timestamp := n.now().UnixMilli()
	payload, err := json.Marshal(Envelope{Event: event, Data: data, Timestamp: timestamp})
	if err != nil {
		log.Printf("failed to marshal webhook payload for %s: %v", event, err)
		return
	}
	signature := Sign(payload, n.secret, timestamp)

	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := n.baseBackoff << (attempt - 2)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				log.Printf("webhook delivery for %s abandoned: %v", event, ctx.Err())
				return
			}
		}

		err = n.post(ctx, payload, signature, timestamp)
		if err == nil {
			return
		}
		log.Printf("webhook delivery attempt %d/%d for %s failed: %v", attempt, n.maxAttempts, event, err)
	}

	// TODO: park exhausted events in a dead-letter queue instead of dropping.
	log.Printf("webhook event %s dropped after %d attempts", event, n.maxAttempts)
}

func (n *Notifier) post(ctx context.Context, payload []byte, signature string, timestamp int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", signature)
	req.Header.Set("X-Timestamp", strconv.FormatInt(timestamp, 10))

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
