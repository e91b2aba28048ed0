// Package repo implements the persistence collaborators of the recognition
// core. This file provides a Redis-backed user store: each aggregate is a JSON
// document under "nkudos:user:<id>" and a sorted set ranks users by points for
// the leaderboard. Conditional writes use WATCH/MULTI so a concurrent update
// aborts the transaction instead of being overwritten.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tbourn/go-kudos-backend/internal/config"
	"github.com/tbourn/go-kudos-backend/internal/domain"
)

const (
	redisUserPrefix     = "nkudos:user:"
	redisLeaderboardKey = "nkudos:leaderboard"
)

// NewRedisClient builds a go-redis client from cfg and verifies it with PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisStore stores user aggregates in Redis.
type RedisStore struct {
	Client *redis.Client
}

// NewRedisStore returns a RedisStore over client.
func NewRedisStore(client *redis.Client) *RedisStore { return &RedisStore{Client: client} }

func redisUserKey(id string) string { return redisUserPrefix + id }

// GetUser loads the aggregate for id, or ErrNotFound.
func (s *RedisStore) GetUser(ctx context.Context, id string) (*domain.UserAggregate, error) {
	return getRedisUser(ctx, s.Client, id)
}

// PutUser overwrites the aggregate unconditionally.
func (s *RedisStore) PutUser(ctx context.Context, u *domain.UserAggregate) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisUserKey(u.ID), b, 0)
		pipe.ZAdd(ctx, redisLeaderboardKey, redis.Z{Score: float64(u.GivingPoints), Member: u.ID})
		return nil
	})
	return err
}

// PutUserIfVersion writes u only if the stored version equals prevVersion
// (0 meaning "no stored aggregate"). Losing a race yields ErrVersionConflict.
func (s *RedisStore) PutUserIfVersion(ctx context.Context, u *domain.UserAggregate, prevVersion int64) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	key := redisUserKey(u.ID)

	err = s.Client.Watch(ctx, func(tx *redis.Tx) error {
		var current int64
		cur, err := getRedisUser(ctx, tx, u.ID)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return err
		default:
			current = cur.Version
		}
		if current != prevVersion {
			return ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			pipe.ZAdd(ctx, redisLeaderboardKey, redis.Z{Score: float64(u.GivingPoints), Member: u.ID})
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}
	return err
}

// ListUsers returns a leaderboard page ordered by points (desc); ties are
// broken by id (desc), as kept by the sorted set.
func (s *RedisStore) ListUsers(ctx context.Context, offset, limit int) ([]domain.UserAggregate, int64, error) {
	total, err := s.Client.ZCard(ctx, redisLeaderboardKey).Result()
	if err != nil {
		return nil, 0, err
	}
	if total == 0 || limit <= 0 {
		return []domain.UserAggregate{}, total, nil
	}

	ids, err := s.Client.ZRevRange(ctx, redisLeaderboardKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []domain.UserAggregate{}, total, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisUserKey(id)
	}
	vals, err := s.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.UserAggregate, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // removed between ZREVRANGE and MGET
		}
		u, err := decodeRedisUser(raw)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	return out, total, nil
}

// getRedisUser reads one aggregate through any command executor, so the same
// code serves plain reads and reads inside a WATCH transaction.
func getRedisUser(ctx context.Context, c redis.Cmdable, id string) (*domain.UserAggregate, error) {
	raw, err := c.Get(ctx, redisUserKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRedisUser(raw)
}

func decodeRedisUser(raw string) (*domain.UserAggregate, error) {
	var u domain.UserAggregate
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode user aggregate: %w", err)
	}
	if u.ReceivedNKudos == nil {
		u.ReceivedNKudos = domain.NewUserAggregate(u.ID).ReceivedNKudos
	}
	return &u, nil
}
