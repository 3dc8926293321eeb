package service

import (
	"context"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
)

const defaultCancellationReason = "user_canceled"

// Cancel moves a session to the canceled terminal state. Cancellation is
// rejected while a payment attempt is outstanding; voiding an in-flight
// charge is the reconciliation job's problem, not a race to run here.
func (s *Service) Cancel(ctx context.Context, id, reason string) (*domain.CheckoutSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case domain.StatusCompleted:
		return nil, ErrAlreadyCompleted
	case domain.StatusCanceled:
		return nil, ErrAlreadyCanceled
	case domain.StatusInProgress:
		return nil, ErrPaymentInProgress
	}

	if reason == "" {
		reason = defaultCancellationReason
	}

	session.Status = domain.StatusCanceled
	session.CancellationReason = reason
	session.CanceledAt = s.now().UnixMilli()
	session.UpdatedAt = session.CanceledAt

	if err := s.store.Update(ctx, session, session.Version); err != nil {
		return nil, err
	}

	s.notifier.Emit("checkout.canceled", map[string]any{
		"session_id": session.ID,
		"reason":     reason,
	})
	s.publishEvent("checkout.canceled", session.ID, map[string]any{
		"session_id":  session.ID,
		"reason":      reason,
		"canceled_at": session.CanceledAt,
	})

	return session, nil
}
