package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
	"github.com/lucasdickey/a-ok-shop-sub000/internal/payment"
)

type CompleteResult struct {
	Session         *domain.CheckoutSession
	Outcome         payment.Outcome
	OrderID         string
	PaymentIntentID string
	ClientSecret    string
}

// Complete runs the three-phase payment sequence: persist in_progress so
// concurrent readers observe the in-flight attempt, charge the resolved
// total, then finalize. Every non-success branch of the charge rolls the
// session back to ready_for_payment; it must never stay in_progress
// because of a decline or a processor failure.
func (s *Service) Complete(ctx context.Context, id, token string) (*CompleteResult, error) {
	if token == "" {
		return nil, ErrMissingPaymentToken
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case domain.StatusReadyForPayment:
	case domain.StatusCompleted:
		return nil, ErrAlreadyCompleted
	case domain.StatusCanceled:
		return nil, ErrAlreadyCanceled
	case domain.StatusInProgress:
		return nil, ErrPaymentInProgress
	default:
		return nil, ErrNotReadyForPayment
	}

	total, ok := session.Total()
	if !ok {
		return nil, ErrMissingTotal
	}

	session.Status = domain.StatusInProgress
	session.UpdatedAt = s.now().UnixMilli()
	if err := s.store.Update(ctx, session, session.Version); err != nil {
		return nil, err
	}

	// From here on the session is persisted as in_progress; leave that
	// state behind on every path except a successful or pending charge.
	finalized := false
	defer func() {
		if !finalized {
			s.rollback(session)
		}
	}()

	chargeCtx, cancel := context.WithTimeout(ctx, s.chargeTimeout)
	defer cancel()
	result, err := s.processor.Charge(chargeCtx, &payment.ChargeRequest{
		SessionID: session.ID,
		Amount:    total,
		Currency:  session.Currency,
		Token:     token,
	})
	if err != nil {
		log.Printf("charge attempt for session %s failed: %v", session.ID, err)
		return nil, &PaymentError{Reason: "payment processing failed"}
	}

	switch result.Outcome {
	case payment.OutcomeSucceeded:
		finalized = true
		session.Status = domain.StatusCompleted
		session.PaymentIntentID = result.PaymentIntentID
		session.CompletedAt = s.now().UnixMilli()
		session.UpdatedAt = session.CompletedAt
		if err := s.store.Update(ctx, session, session.Version); err != nil {
			// Funds are captured; the stale in_progress record is the
			// reconciliation job's signal, not a reason to refund.
			log.Printf("session %s charged but not finalized: %v", session.ID, err)
			return nil, fmt.Errorf("persist completed session: %w", err)
		}

		s.notifier.Emit("checkout.completed", map[string]any{
			"session_id":        session.ID,
			"payment_intent_id": session.PaymentIntentID,
		})
		s.publishEvent("checkout.completed", session.ID, completedEvent(session))

		return &CompleteResult{
			Session:         session,
			Outcome:         payment.OutcomeSucceeded,
			OrderID:         fmt.Sprintf("order_%s", session.ID),
			PaymentIntentID: session.PaymentIntentID,
		}, nil

	case payment.OutcomeRequiresAction:
		// The persisted state stays in_progress pending the out-of-band
		// challenge; only the caller gets the client secret.
		finalized = true
		return &CompleteResult{
			Session:         session,
			Outcome:         payment.OutcomeRequiresAction,
			PaymentIntentID: result.PaymentIntentID,
			ClientSecret:    result.ClientSecret,
		}, nil

	default:
		reason := result.DeclineReason
		if reason == "" {
			reason = "payment declined"
		}
		return nil, &PaymentError{Reason: reason}
	}
}

// rollback returns a session to ready_for_payment after a failed charge.
// It runs on a fresh context so it still lands when the triggering
// request's context is already canceled or timed out.
func (s *Service) rollback(session *domain.CheckoutSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session.Status = domain.StatusReadyForPayment
	session.UpdatedAt = s.now().UnixMilli()
	if err := s.store.Update(ctx, session, session.Version); err != nil {
		log.Printf("failed to roll back session %s to ready_for_payment: %v", session.ID, err)
	}
}

func completedEvent(session *domain.CheckoutSession) map[string]any {
	total, _ := session.Total()
	return map[string]any{
		"session_id":        session.ID,
		"payment_intent_id": session.PaymentIntentID,
		"items":             session.Items,
		"total_amount":      total,
		"currency":          session.Currency,
		"completed_at":      session.CompletedAt,
	}
}
