// Package domain defines the recognition data model: the per-receiver
// aggregate with its append-only history, the legacy transaction record, and
// the idempotency record used by the HTTP layer. The types are mapped with
// GORM and also serialized as JSON by the non-SQL stores.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// RecognitionEntry is one received kudo. It is created once per transaction
// and never mutated afterwards.
type RecognitionEntry struct {
	From       string `json:"from"`
	Value      string `json:"value"`
	Message    string `json:"message"`
	ReceivedAt string `json:"received_at"`
}

// UserAggregate is the accumulated recognition state of a receiving user.
//
// Fields:
//   - ID: opaque user identifier of the receiver (primary key).
//   - GivingPoints: point balance; only ever increases.
//   - ReceivedNKudos: received entries in insertion order; append-only.
//   - Version: write counter used as an optimistic-concurrency token.
//   - CreatedAt / UpdatedAt: set by the aggregate updater's clock.
type UserAggregate struct {
	ID             string                               `json:"id"              gorm:"type:varchar(64);primaryKey"`
	GivingPoints   int                                  `json:"giving_points"   gorm:"not null;default:0;index:idx_users_points;check:giving_points >= 0"`
	ReceivedNKudos datatypes.JSONSlice[RecognitionEntry] `json:"received_nkudos" gorm:"column:received_nkudos;not null"`
	Version        int64                                `json:"version"         gorm:"not null;default:0"`
	CreatedAt      time.Time                            `json:"created_at"`
	UpdatedAt      time.Time                            `json:"updated_at"`
}

// TableName returns the database table name for UserAggregate.
func (UserAggregate) TableName() string { return "users" }

// NewUserAggregate returns the initial aggregate for a user that has not
// received anything yet.
func NewUserAggregate(id string) *UserAggregate {
	return &UserAggregate{
		ID:             id,
		ReceivedNKudos: datatypes.JSONSlice[RecognitionEntry]{},
	}
}

// Clone returns a deep copy so callers can mutate the history without
// aliasing a stored value.
func (u *UserAggregate) Clone() *UserAggregate {
	if u == nil {
		return nil
	}
	cp := *u
	cp.ReceivedNKudos = make(datatypes.JSONSlice[RecognitionEntry], len(u.ReceivedNKudos))
	copy(cp.ReceivedNKudos, u.ReceivedNKudos)
	return &cp
}

// ObjectRecord is the legacy persistence shape of a processed recognition:
// one row per transaction holding the original and the rendered message.
type ObjectRecord struct {
	ObjectID    string    `json:"object_id"    gorm:"type:char(36);primaryKey"`
	OriginalMsg string    `json:"original_msg" gorm:"type:text;not null"`
	UpdatedMsg  string    `json:"updated_msg"  gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for ObjectRecord.
func (ObjectRecord) TableName() string { return "objects" }
