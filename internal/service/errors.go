package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyItems               = errors.New("items must not be empty")
	ErrInvalidQuantity          = errors.New("item quantity must be positive")
	ErrSessionClosed            = errors.New("cannot update completed or canceled session")
	ErrAlreadyCompleted         = errors.New("session already completed")
	ErrAlreadyCanceled          = errors.New("session already canceled")
	ErrPaymentInProgress        = errors.New("payment attempt in progress")
	ErrNotReadyForPayment       = errors.New("session not ready for payment")
	ErrMissingPaymentToken      = errors.New("payment token required")
	ErrMissingTotal             = errors.New("session has no total amount")
	ErrInvalidFulfillmentOption = errors.New("unknown fulfillment option")
)

// PaymentError carries the processor-facing reason for a failed charge.
// The session has already been rolled back to ready_for_payment when one
// of these is returned.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}
