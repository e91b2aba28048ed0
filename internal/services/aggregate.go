package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-kudos-backend/internal/domain"
	"github.com/tbourn/go-kudos-backend/internal/observability"
	"github.com/tbourn/go-kudos-backend/internal/repo"
)

// UserStore is the persistence contract for receiver aggregates. A missing
// aggregate is reported as repo.ErrNotFound and a lost conditional write as
// repo.ErrVersionConflict.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*domain.UserAggregate, error)
	PutUser(ctx context.Context, u *domain.UserAggregate) error
	PutUserIfVersion(ctx context.Context, u *domain.UserAggregate, prevVersion int64) error
	ListUsers(ctx context.Context, offset, limit int) ([]domain.UserAggregate, int64, error)
}

// DefaultRewardPoints is credited per recognition when no value is configured.
const DefaultRewardPoints = 5

// AggregateUpdater applies one recognition to the receiver's aggregate with a
// read-modify-write against Store.
//
// With Optimistic false the write is an unconditional upsert, so two
// concurrent updates of the same receiver can lose one entry. With Optimistic
// true the write is conditional on the version read and the loser gets
// repo.ErrVersionConflict; no retry is attempted.
type AggregateUpdater struct {
	Store        UserStore
	RewardPoints int
	Optimistic   bool
	Now          func() time.Time
}

func (a *AggregateUpdater) reward() int {
	if a.RewardPoints <= 0 {
		return DefaultRewardPoints
	}
	return a.RewardPoints
}

// appendRecognition returns a copy of u with e appended, reward added and
// the version bumped. u itself is not modified.
func appendRecognition(u *domain.UserAggregate, e domain.RecognitionEntry, reward int, now time.Time) *domain.UserAggregate {
	next := u.Clone()
	next.ReceivedNKudos = append(next.ReceivedNKudos, e)
	next.GivingPoints += reward
	next.Version++
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	return next
}

// Apply loads the aggregate for receiverID (initializing it when absent),
// appends e, credits the reward and persists the result in one write.
// Persistence errors are returned unchanged.
func (a *AggregateUpdater) Apply(ctx context.Context, receiverID string, e domain.RecognitionEntry) (*domain.UserAggregate, error) {
	ctx, span := observability.Tracer("services/aggregate").Start(ctx, "Apply",
		trace.WithAttributes(
			attribute.String("receiver.id", receiverID),
			attribute.Bool("optimistic", a.Optimistic),
		),
	)
	defer span.End()

	cur, err := a.Store.GetUser(ctx, receiverID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		cur = domain.NewUserAggregate(receiverID)
	case err != nil:
		span.RecordError(err)
		return nil, err
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	next := appendRecognition(cur, e, a.reward(), now().UTC())

	if a.Optimistic {
		err = a.Store.PutUserIfVersion(ctx, next, cur.Version)
	} else {
		err = a.Store.PutUser(ctx, next)
	}
	if err != nil {
		if errors.Is(err, repo.ErrVersionConflict) {
			observability.VersionConflictsTotal.Inc()
			zerolog.Ctx(ctx).Warn().
				Str("receiver", receiverID).
				Int64("version", cur.Version).
				Msg("aggregate changed concurrently")
		}
		span.RecordError(err)
		return nil, err
	}
	return next, nil
}
