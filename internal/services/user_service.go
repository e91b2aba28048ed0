package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-kudos-backend/internal/domain"
	"github.com/tbourn/go-kudos-backend/internal/observability"
	"github.com/tbourn/go-kudos-backend/internal/repo"
	"github.com/tbourn/go-kudos-backend/internal/utils"
)

const defaultPageSize = 20

// UserService serves the read side: single aggregates, the leaderboard and a
// user's received history.
type UserService struct {
	Store UserStore
}

// GetUser returns the aggregate for id or ErrUserNotFound.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.UserAggregate, error) {
	ctx, span := observability.Tracer("services/users").Start(ctx, "GetUser",
		trace.WithAttributes(attribute.String("user.id", id)),
	)
	defer span.End()

	u, err := s.Store.GetUser(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Leaderboard returns one page (1-based) of aggregates ordered by points.
func (s *UserService) Leaderboard(ctx context.Context, page, pageSize int) ([]domain.UserAggregate, int64, error) {
	ctx, span := observability.Tracer("services/users").Start(ctx, "Leaderboard",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	page, pageSize = utils.ClampPage(page, pageSize, defaultPageSize, 0)
	return s.Store.ListUsers(ctx, utils.Offset(page, pageSize), pageSize)
}

// History returns one page (1-based) of the entries id received, oldest first,
// and the total number of entries.
func (s *UserService) History(ctx context.Context, id string, page, pageSize int) ([]domain.RecognitionEntry, int64, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	page, pageSize = utils.ClampPage(page, pageSize, defaultPageSize, 0)

	total := len(u.ReceivedNKudos)
	start := utils.Offset(page, pageSize)
	if start >= total {
		return []domain.RecognitionEntry{}, int64(total), nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	out := make([]domain.RecognitionEntry, end-start)
	copy(out, u.ReceivedNKudos[start:end])
	return out, int64(total), nil
}
