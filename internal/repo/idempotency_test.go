package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-kudos-backend/internal/domain"
)

func TestGetIdempotency_BlankKey_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	rec, err := GetIdempotency(context.Background(), db, "u1", "   ", time.Now().UTC())
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected (nil, ErrNotFound), got (%v, %v)", rec, err)
	}
}

func TestIdempotency_CreateGetDuplicateExpire(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, &domain.Idempotency{})

	rec, err := CreateIdempotency(ctx, db, "u1", "k1", "h1", "tx-1", 201, []byte(`{"ok":true}`), time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.TransactionID != "tx-1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "k1", time.Now().UTC())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Response) != `{"ok":true}` {
		t.Fatalf("response not stored: %q", got.Response)
	}

	if _, err := CreateIdempotency(ctx, db, "u1", "k1", "h2", "tx-2", 201, nil, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	// Same key under a different user is independent.
	if _, err := CreateIdempotency(ctx, db, "u2", "k1", "h1", "tx-3", 201, nil, time.Hour); err != nil {
		t.Fatalf("other user: %v", err)
	}

	later := time.Now().UTC().Add(2 * time.Hour)
	if _, err := GetIdempotency(ctx, db, "u1", "k1", later); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record should be ErrNotFound, got %v", err)
	}
	n, err := PurgeExpiredIdempotency(ctx, db, later)
	if err != nil || n != 2 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
}

func TestIdempotencyStore_ExistsAndSave(t *testing.T) {
	ctx := context.Background()
	s := NewIdempotencyStore(newTestDB(t, &domain.Idempotency{}), 0)
	if s.TTL != 24*time.Hour {
		t.Fatalf("default TTL = %v", s.TTL)
	}
	now := time.Now().UTC()

	if ok, err := s.Exists(ctx, "u1", "k1", now); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	if err := s.Save(ctx, "u1", "k1", "h1", "tx-1", 201, []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ok, err := s.Exists(ctx, "u1", "k1", now); !ok || err != nil {
		t.Fatalf("after save: ok=%v err=%v", ok, err)
	}
	if err := s.Save(ctx, "u1", "k1", "h2", "tx-2", 201, []byte(`{}`)); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	n, err := s.Purge(ctx, now.Add(25*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
	if ok, _ := s.Exists(ctx, "u1", "k1", now); ok {
		t.Fatalf("record survived purge")
	}
}
