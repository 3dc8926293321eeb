package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/payment"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/pricing"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/store"
)

const sessionLifetime = 24 * time.Hour

// Notifier delivers signed lifecycle events to the agent platform.
type Notifier interface {
	Emit(event string, data any)
}

// EventPublisher emits lifecycle events for internal downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, sessionID string, payload any) error
}

// Service owns the checkout session lifecycle. All session mutation goes
// through here; sessions are read from and written back to the store
// within a single request, never cached across requests.
type Service struct {
	store         store.SessionStore
	pricing       *pricing.Engine
	processor     payment.Processor
	notifier      Notifier
	events        EventPublisher
	chargeTimeout time.Duration
	now           func() time.Time
	newID         func() string
}

func New(st store.SessionStore, engine *pricing.Engine, processor payment.Processor, notifier Notifier, events EventPublisher, chargeTimeout time.Duration) *Service {
	return &Service{
		store:         st,
		pricing:       engine,
		processor:     processor,
		notifier:      notifier,
		events:        events,
		chargeTimeout: chargeTimeout,
		now:           time.Now,
		newID: func() string {
			return fmt.Sprintf("cs_%s", uuid.NewString())
		},
	}
}

type CreateRequest struct {
	Items              []domain.Item
	Buyer              *domain.Buyer
	FulfillmentAddress *domain.Address
}

// Create prices the requested items and persists a new session. A created
// session is always not_ready_for_payment: readiness additionally needs a
// selected fulfillment option, which the create payload cannot carry.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*domain.CheckoutSession, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	lineItems, err := s.pricing.LineItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	options := s.pricing.ShippingOptions(req.FulfillmentAddress)
	tax := s.pricing.Tax(ctx, lineItems, req.FulfillmentAddress)

	now := s.now().UnixMilli()
	session := &domain.CheckoutSession{
		ID:                 s.newID(),
		Status:             domain.StatusNotReadyForPayment,
		Currency:           "usd",
		Items:              req.Items,
		FulfillmentAddress: req.FulfillmentAddress,
		Buyer:              req.Buyer,
		LineItems:          lineItems,
		FulfillmentOptions: options,
		CreatedAt:          now,
		UpdatedAt:          now,
		ExpiresAt:          now + sessionLifetime.Milliseconds(),
		Version:            1,
	}
	session.Totals = pricing.Totals(lineItems, options, "", tax)
	deriveStatus(session)

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Get is read-only: no pricing recompute on retrieval.
func (s *Service) Get(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	return s.store.Get(ctx, id)
}

type UpdateRequest struct {
	Items               []domain.Item
	FulfillmentAddress  *domain.Address
	FulfillmentOptionID *string
}

// Update applies partial changes and recomputes pricing: line items when
// the item set changes, fulfillment options when the address changes, tax
// when either changes. Totals are always rebuilt from scratch.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, ErrSessionClosed
	}
	if session.Status == domain.StatusInProgress {
		return nil, ErrPaymentInProgress
	}

	expected := session.Version
	itemsChanged := false
	addressChanged := false

	if req.Items != nil {
		if err := validateItems(req.Items); err != nil {
			return nil, err
		}
		session.Items = req.Items
		session.LineItems, err = s.pricing.LineItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		itemsChanged = true
	}

	if req.FulfillmentAddress != nil {
		session.FulfillmentAddress = req.FulfillmentAddress
		session.FulfillmentOptions = s.pricing.ShippingOptions(req.FulfillmentAddress)
		// A previously selected option may not exist for the new address.
		if _, ok := session.SelectedFulfillmentOption(); !ok {
			session.FulfillmentOptionID = ""
		}
		addressChanged = true
	}

	if req.FulfillmentOptionID != nil {
		session.FulfillmentOptionID = *req.FulfillmentOptionID
		if session.FulfillmentOptionID != "" {
			if _, ok := session.SelectedFulfillmentOption(); !ok {
				return nil, ErrInvalidFulfillmentOption
			}
		}
	}

	var tax int64
	if itemsChanged || addressChanged {
		tax = s.pricing.Tax(ctx, session.LineItems, session.FulfillmentAddress)
	} else {
		tax = currentTax(session)
	}
	session.Totals = pricing.Totals(session.LineItems, session.FulfillmentOptions, session.FulfillmentOptionID, tax)
	session.UpdatedAt = s.now().UnixMilli()
	deriveStatus(session)

	if err := s.store.Update(ctx, session, expected); err != nil {
		return nil, err
	}
	return session, nil
}

func validateItems(items []domain.Item) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// deriveStatus resolves not_ready/ready after a pricing recompute. It is
// only called on sessions in one of those two states.
func deriveStatus(session *domain.CheckoutSession) {
	ready := false
	if session.FulfillmentAddress != nil {
		if _, ok := session.SelectedFulfillmentOption(); ok {
			if total, hasTotal := session.Total(); hasTotal && total > 0 {
				ready = true
			}
		}
	}
	if ready {
		session.Status = domain.StatusReadyForPayment
	} else {
		session.Status = domain.StatusNotReadyForPayment
	}
}

func currentTax(session *domain.CheckoutSession) int64 {
	for _, t := range session.Totals {
		if t.Type == domain.TotalTypeTax {
			return t.Amount
		}
	}
	return 0
}

// publishEvent forwards a lifecycle event to the internal event stream.
// Failures are logged and never surfaced to the triggering request.
func (s *Service) publishEvent(eventType, sessionID string, payload any) {
	if s.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.events.Publish(ctx, eventType, sessionID, payload); err != nil {
			log.Printf("failed to publish %s event for session %s: %v", eventType, sessionID, err)
		}
	}()
}
