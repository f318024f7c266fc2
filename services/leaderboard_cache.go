package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"spacedodge/models"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardCacheKey   = "leaderboard:top"
	leaderboardVersionKey = "leaderboard:version"
)

var errStaleLeaderboard = errors.New("leaderboard changed while it was read")

// LeaderboardCache keeps the latest top-scores read in Redis. A cache built
// on a nil client misses on every read and ignores writes.
type LeaderboardCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewLeaderboardCache(redis *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		redis: redis,
		ttl:   ttl,
	}
}

func (c *LeaderboardCache) enabled() bool {
	return c != nil && c.redis != nil
}

// Get returns the cached leaderboard. Redis errors are logged and reported
// as a miss.
func (c *LeaderboardCache) Get(ctx context.Context) ([]models.Score, bool) {
	if !c.enabled() {
		return nil, false
	}

	data, err := c.redis.Get(ctx, leaderboardCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error reading leaderboard cache: %v", err)
		}
		return nil, false
	}

	var scores []models.Score
	if err := json.Unmarshal([]byte(data), &scores); err != nil {
		log.Printf("Failed to unmarshal cached leaderboard: %v", err)
		return nil, false
	}
	return scores, true
}

// Version returns the invalidation counter to pass to Set. ok is false when
// there is no usable cache, in which case the read should not be cached.
func (c *LeaderboardCache) Version(ctx context.Context) (int64, bool) {
	if !c.enabled() {
		return 0, false
	}

	version, err := c.redis.Get(ctx, leaderboardVersionKey).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("Redis error reading leaderboard version: %v", err)
		return 0, false
	}
	return version, true
}

// Set stores scores only if no Invalidate ran since version was read. A
// board loaded before a concurrent submit is dropped instead of cached.
func (c *LeaderboardCache) Set(ctx context.Context, version int64, scores []models.Score) error {
	if !c.enabled() {
		return nil
	}

	data, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, leaderboardVersionKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != version {
			return errStaleLeaderboard
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, leaderboardCacheKey, data, c.ttl)
			return nil
		})
		return err
	}, leaderboardVersionKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errStaleLeaderboard), errors.Is(err, redis.TxFailedErr):
		log.Printf("Leaderboard changed during read, not caching")
		return nil
	default:
		return fmt.Errorf("failed to store leaderboard in Redis: %w", err)
	}
}

// Invalidate bumps the version and drops the cached board in one
// transaction, so reads already in flight cannot repopulate it.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, leaderboardVersionKey)
		pipe.Del(ctx, leaderboardCacheKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate leaderboard cache: %w", err)
	}
	return nil
}
