package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-kudos-backend/internal/domain"
)

// CreateObject inserts one legacy transaction record. Object IDs are fresh
// UUIDs, so a collision surfaces as a plain database error.
func CreateObject(ctx context.Context, db *gorm.DB, rec *domain.ObjectRecord) error {
	return db.WithContext(ctx).Create(rec).Error
}

// GetObject loads the record for id, or ErrNotFound.
func GetObject(ctx context.Context, db *gorm.DB, id string) (*domain.ObjectRecord, error) {
	var rec domain.ObjectRecord
	if err := db.WithContext(ctx).Where("object_id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ObjectStore binds the object functions to one handle.
type ObjectStore struct {
	DB *gorm.DB
}

// NewObjectStore returns an ObjectStore over db.
func NewObjectStore(db *gorm.DB) *ObjectStore { return &ObjectStore{DB: db} }

// PutObject stores rec.
func (s *ObjectStore) PutObject(ctx context.Context, rec *domain.ObjectRecord) error {
	return CreateObject(ctx, s.DB, rec)
}

// GetObject loads the record for id.
func (s *ObjectStore) GetObject(ctx context.Context, id string) (*domain.ObjectRecord, error) {
	return GetObject(ctx, s.DB, id)
}
