package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/tbourn/go-kudos-backend/internal/domain"
)

// MemoryStore is a process-local user store. Values are cloned on the way in
// and out so callers never share history slices with the map.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*domain.UserAggregate
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*domain.UserAggregate)}
}

// GetUser returns a copy of the aggregate for id, or ErrNotFound.
func (s *MemoryStore) GetUser(_ context.Context, id string) (*domain.UserAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

// PutUser stores a copy of u, replacing any previous aggregate.
func (s *MemoryStore) PutUser(_ context.Context, u *domain.UserAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u.Clone()
	return nil
}

// PutUserIfVersion stores u only if the current version equals prevVersion.
func (s *MemoryStore) PutUserIfVersion(_ context.Context, u *domain.UserAggregate, prevVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current int64
	if cur, ok := s.users[u.ID]; ok {
		current = cur.Version
	}
	if current != prevVersion {
		return ErrVersionConflict
	}
	s.users[u.ID] = u.Clone()
	return nil
}

// ListUsers returns a page ordered by points (desc) then id (asc).
func (s *MemoryStore) ListUsers(_ context.Context, offset, limit int) ([]domain.UserAggregate, int64, error) {
	s.mu.RLock()
	all := make([]domain.UserAggregate, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, *u.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].GivingPoints != all[j].GivingPoints {
			return all[i].GivingPoints > all[j].GivingPoints
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) || limit <= 0 {
		return []domain.UserAggregate{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}
