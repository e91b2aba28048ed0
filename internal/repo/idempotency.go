// Package repo implements the persistence collaborators of the recognition
// core. This file provides helpers for the Idempotency model used to replay
// the stored response of a retried POST /kudos instead of recording the
// recognition twice.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-kudos-backend/internal/domain"
)

// ErrDuplicate indicates that an idempotency record already exists for the
// given (user_id, key) pair.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency stores the response of a completed submission. It returns
// ErrDuplicate when another request already claimed the same key.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, key, requestHash, transactionID string, status int, response []byte, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	if response == nil {
		response = []byte{}
	}
	rec := &domain.Idempotency{
		ID:            uuid.NewString(),
		UserID:        userID,
		Key:           key,
		RequestHash:   requestHash,
		TransactionID: transactionID,
		Status:        status,
		Response:      response,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records whose TTL elapsed before now and
// returns how many were removed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// IdempotencyStore binds the idempotency functions to one handle and TTL.
type IdempotencyStore struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyStore returns an IdempotencyStore; ttl <= 0 means 24h.
func NewIdempotencyStore(db *gorm.DB, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{DB: db, TTL: ttl}
}

// Lookup returns the live record for (userID, key) or ErrNotFound.
func (s *IdempotencyStore) Lookup(ctx context.Context, userID, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, userID, key, now)
}

// Exists reports whether a live record exists for (userID, key).
func (s *IdempotencyStore) Exists(ctx context.Context, userID, key string, now time.Time) (bool, error) {
	_, err := s.Lookup(ctx, userID, key, now)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Save stores the response for (userID, key) together with the hash of the
// request that produced it. ErrDuplicate means a concurrent request with the
// same key saved first.
func (s *IdempotencyStore) Save(ctx context.Context, userID, key, requestHash, transactionID string, status int, response []byte) error {
	_, err := CreateIdempotency(ctx, s.DB, userID, key, requestHash, transactionID, status, response, s.TTL)
	return err
}

// Purge deletes records that expired at or before now.
func (s *IdempotencyStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	return PurgeExpiredIdempotency(ctx, s.DB, now)
}
