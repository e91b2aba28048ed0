package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-kudos-backend/internal/domain"
)

// Record is the output of RecordBuilder: the history entry to append and the
// identifier of the transaction that produced it.
type Record struct {
	TransactionID string
	Entry         domain.RecognitionEntry
}

// RecordBuilder stamps recognition entries. NewID and Now are injectable for
// tests; nil means uuid.New and time.Now.
type RecordBuilder struct {
	NewID func() uuid.UUID
	Now   func() time.Time
}

// Build creates the entry for one recognition. ReceivedAt is the builder's
// clock in UTC, RFC 3339 with nanoseconds.
func (b RecordBuilder) Build(sender string, category domain.Category, body string) Record {
	newID, now := b.NewID, b.Now
	if newID == nil {
		newID = uuid.New
	}
	if now == nil {
		now = time.Now
	}
	return Record{
		TransactionID: newID().String(),
		Entry: domain.RecognitionEntry{
			From:       sender,
			Value:      category.Label(),
			Message:    body,
			ReceivedAt: now().UTC().Format(time.RFC3339Nano),
		},
	}
}
