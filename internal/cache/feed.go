// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// feed.go caches the merged post+video listing per category in Valkey, so
// anonymous browsing of a topic page skips both table scans. Entries are
// opaque bytes; the feed package owns the encoding.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Valkey key prefix for cached listings.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL bounds staleness if an invalidation is ever missed.
	DefaultFeedTTL = 5 * time.Minute

	// allCategoriesKey caches the unfiltered listing.
	allCategoriesKey = "_all"
)

// FeedCache stores encoded feed listings in Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a new feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Key returns the cache key for a category slug; "" means all categories.
func Key(categorySlug string) string {
	if categorySlug == "" {
		return allCategoriesKey
	}
	return categorySlug
}

// Get retrieves a cached listing. Errors are logged and reported as a miss.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores an encoded listing with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, data []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, data, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached listing. Any content mutation can move
// an item between categories, so all keys are dropped together.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("feed cache cleared", "deleted", deleted)
	}
}
