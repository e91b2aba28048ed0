// Package repo implements the persistence collaborators of the recognition
// core. This file provides GORM functions for the UserAggregate model and the
// SQLStore adapter that exposes them through the store contract.
//
// Write semantics:
//   - UpsertUser writes the full aggregate keyed by id; the last writer wins.
//   - UpdateUserIfVersion writes only when the stored version still equals
//     prevVersion and returns ErrVersionConflict otherwise.
//
// Error semantics:
//   - A missing aggregate is reported as ErrNotFound.
//   - Other database errors are propagated unchanged.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-kudos-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so GORM callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrVersionConflict is returned by conditional writes when another writer
// updated the aggregate after it was read.
var ErrVersionConflict = errors.New("aggregate version conflict")

// GetUser loads the aggregate for id, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.UserAggregate, error) {
	var u domain.UserAggregate
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	if u.ReceivedNKudos == nil {
		u.ReceivedNKudos = domain.NewUserAggregate(id).ReceivedNKudos
	}
	return &u, nil
}

// UpsertUser inserts the aggregate or replaces the stored row with it.
func UpsertUser(ctx context.Context, db *gorm.DB, u *domain.UserAggregate) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"giving_points", "received_nkudos", "version", "updated_at"}),
		}).
		Create(u).Error
}

// UpdateUserIfVersion writes u only if the stored version equals prevVersion.
// A prevVersion of 0 means the caller saw no stored aggregate, so the write is
// an insert that fails when a row already exists.
func UpdateUserIfVersion(ctx context.Context, db *gorm.DB, u *domain.UserAggregate, prevVersion int64) error {
	if prevVersion == 0 {
		res := db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(u)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	res := db.WithContext(ctx).
		Model(&domain.UserAggregate{}).
		Where("id = ? AND version = ?", u.ID, prevVersion).
		Updates(map[string]any{
			"giving_points":   u.GivingPoints,
			"received_nkudos": u.ReceivedNKudos,
			"version":         u.Version,
			"updated_at":      u.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// CountUsers returns the number of stored aggregates.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.UserAggregate{}).Count(&total).Error
	return total, err
}

// ListUsersPage returns aggregates ordered by points (desc) then id (asc).
func ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.UserAggregate, error) {
	var out []domain.UserAggregate
	err := db.WithContext(ctx).
		Order("giving_points DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SQLStore exposes the GORM user functions as a store bound to one handle.
type SQLStore struct {
	DB *gorm.DB
}

// NewSQLStore returns a SQLStore over db.
func NewSQLStore(db *gorm.DB) *SQLStore { return &SQLStore{DB: db} }

// GetUser implements the store contract.
func (s *SQLStore) GetUser(ctx context.Context, id string) (*domain.UserAggregate, error) {
	return GetUser(ctx, s.DB, id)
}

// PutUser implements the store contract.
func (s *SQLStore) PutUser(ctx context.Context, u *domain.UserAggregate) error {
	return UpsertUser(ctx, s.DB, u)
}

// PutUserIfVersion implements the store contract.
func (s *SQLStore) PutUserIfVersion(ctx context.Context, u *domain.UserAggregate, prevVersion int64) error {
	return UpdateUserIfVersion(ctx, s.DB, u, prevVersion)
}

// ListUsers implements the store contract.
func (s *SQLStore) ListUsers(ctx context.Context, offset, limit int) ([]domain.UserAggregate, int64, error) {
	total, err := CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.UserAggregate{}, 0, nil
	}
	items, err := ListUsersPage(ctx, s.DB, offset, limit)
	return items, total, err
}
