package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/catalog"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/payment"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/pricing"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/store"
)

// fakeStore implements store.SessionStore in memory with the same
// version-CAS semantics as the Redis store.
type fakeStore struct {
	mu        sync.Mutex
	sessions  map[string][]byte
	PutErr    error
	UpdateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string][]byte)}
}

func (f *fakeStore) Put(_ context.Context, session *domain.CheckoutSession) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	f.sessions[session.ID] = data
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*domain.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	var session domain.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (f *fakeStore) Update(_ context.Context, session *domain.CheckoutSession, expectedVersion int64) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.sessions[session.ID]
	if !ok {
		return store.ErrSessionNotFound
	}
	var current domain.CheckoutSession
	if err := json.Unmarshal(data, &current); err != nil {
		return err
	}
	if current.Version != expectedVersion {
		return store.ErrVersionConflict
	}
	session.Version = expectedVersion + 1
	updated, err := json.Marshal(session)
	if err != nil {
		return err
	}
	f.sessions[session.ID] = updated
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

// raw returns the stored bytes for byte-identity assertions.
func (f *fakeStore) raw(id string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id]
}

// MockProcessor implements payment.Processor for testing
type MockProcessor struct {
	Result      *payment.ChargeResult
	Err         error
	LastRequest *payment.ChargeRequest
}

func (m *MockProcessor) Charge(_ context.Context, req *payment.ChargeRequest) (*payment.ChargeResult, error) {
	m.LastRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

type emittedEvent struct {
	Event string
	Data  any
}

// MockNotifier records emitted webhook events
type MockNotifier struct {
	mu     sync.Mutex
	Events []emittedEvent
}

func (m *MockNotifier) Emit(event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, emittedEvent{Event: event, Data: data})
}

func (m *MockNotifier) emitted() []emittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]emittedEvent{}, m.Events...)
}

// MockPublisher records lifecycle events published to the event stream
type MockPublisher struct {
	mu     sync.Mutex
	Events []emittedEvent
}

func (m *MockPublisher) Publish(_ context.Context, eventType, _ string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, emittedEvent{Event: eventType, Data: payload})
	return nil
}

func (m *MockPublisher) published() []emittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]emittedEvent{}, m.Events...)
}

// newTestService creates a fully wired Service over in-memory collaborators
func newTestService(t *testing.T) (*Service, *fakeStore, *MockProcessor, *MockNotifier, *MockPublisher) {
	t.Helper()

	cat := catalog.NewMemoryCatalog(
		&catalog.Product{Handle: "a-ok-classic-tee", Title: "A-OK Classic Tee", UnitPrice: 2800, Currency: "usd"},
		&catalog.Product{Handle: "a-ok-sticker-pack", Title: "A-OK Sticker Pack", UnitPrice: 800, Currency: "usd"},
	)
	engine := pricing.NewEngine(cat, pricing.NewRateTableCalculator())
	st := newFakeStore()
	processor := &MockProcessor{
		Result: &payment.ChargeResult{Outcome: payment.OutcomeSucceeded, PaymentIntentID: "pi_test_123"},
	}
	notifier := &MockNotifier{}
	publisher := &MockPublisher{}

	svc := New(st, engine, processor, notifier, publisher, 5*time.Second)
	return svc, st, processor, notifier, publisher
}

func usTestAddress(state string) *domain.Address {
	return &domain.Address{
		Name:       "Test Buyer",
		LineOne:    "123 Main St",
		City:       "San Francisco",
		State:      state,
		Country:    "US",
		PostalCode: "94105",
	}
}

func twoItems() []domain.Item {
	return []domain.Item{
		{ID: "a-ok-classic-tee", Quantity: 2},  // 5600
		{ID: "a-ok-sticker-pack", Quantity: 3}, // 2400
	}
}
