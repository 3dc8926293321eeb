package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucasdickey/a-ok-shop-sub000/internal/domain"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// Put writes a session unconditionally. Used at creation time only;
// subsequent writes go through Update so version conflicts are detected.
func (s *RedisStore) Put(ctx context.Context, session *domain.CheckoutSession) error {
	key := sessionKey(session.ID)

	ttl, err := s.remainingTTL(session)
	if err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	key := sessionKey(id)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var session domain.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}

	// expires_at is an absolute ceiling fixed at creation; a record the
	// store has not physically evicted yet is still logically gone.
	if session.ExpiresAt <= s.now().UnixMilli() {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

// Update performs a compare-and-swap on the session's version counter
// using a WATCH transaction. On success the session's Version field is
// advanced in place.
func (s *RedisStore) Update(ctx context.Context, session *domain.CheckoutSession, expectedVersion int64) error {
	key := sessionKey(session.ID)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get failed: %w", err)
		}

		var current domain.CheckoutSession
		if err := json.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("unmarshal session failed: %w", err)
		}
		if current.ExpiresAt <= s.now().UnixMilli() {
			return ErrSessionNotFound
		}
		if current.Version != expectedVersion {
			return ErrVersionConflict
		}

		session.Version = expectedVersion + 1
		ttl, err := s.remainingTTL(session)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// The key changed under WATCH before the pipeline ran.
		return ErrVersionConflict
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// remainingTTL computes the physical TTL from the session's fixed
// expires_at. Writes never extend a session's lifetime past the ceiling
// set at creation.
func (s *RedisStore) remainingTTL(session *domain.CheckoutSession) (time.Duration, error) {
	remaining := time.Duration(session.ExpiresAt-s.now().UnixMilli()) * time.Millisecond
	if remaining <= 0 {
		return 0, ErrSessionNotFound
	}
	return remaining, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("checkout:%s", id)
}
