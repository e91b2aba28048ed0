package domain

import "time"

// Idempotency represents the stored outcome of a recognition submission keyed
// by (user_id, key). A retried request carrying the same Idempotency-Key is
// answered with Response instead of recording a second recognition, provided
// its body hashes to RequestHash.
type Idempotency struct {
	ID            string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_user_key,priority:1"`
	Key           string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_user_key,priority:2"`
	RequestHash   string    `gorm:"type:TEXT NOT NULL;default:''"`
	TransactionID string    `gorm:"type:TEXT NOT NULL"`
	Status        int       `gorm:"type:INTEGER NOT NULL"`
	Response      []byte    `gorm:"type:BLOB NOT NULL"`
	CreatedAt     time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt     time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
