package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-kudos-backend/internal/domain"
)

// UsersStats returns the number of stored aggregates and the greatest
// UpdatedAt among them (nil when there are none). The HTTP layer derives the
// leaderboard ETag from it.
func UsersStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.UserAggregate{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Avoid MAX() -> TEXT in SQLite.
	var row struct {
		UpdatedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.UserAggregate{}).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// Stats implements the optional stats capability the leaderboard handler
// checks for.
func (s *SQLStore) Stats(ctx context.Context) (int64, *time.Time, error) {
	return UsersStats(ctx, s.DB)
}
