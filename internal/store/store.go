package store

import (
	"context"
	"errors"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
)

var (
	// ErrSessionNotFound covers both never-existed and expired sessions;
	// callers must not be able to tell the two apart.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrVersionConflict means another writer updated the session between
	// this caller's read and its write.
	ErrVersionConflict = errors.New("checkout session version conflict")
)

type SessionStore interface {
	Put(ctx context.Context, session *domain.CheckoutSession) error
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Update(ctx context.Context, session *domain.CheckoutSession, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}
