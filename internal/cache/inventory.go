package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	ListingKeyPrefix      = "listing:%d"
	ListingStatsKeyPrefix = "listing:%d:stats"
	ListingsListKey       = "listings:list"
)

const (
	UserTTL         = 5 * time.Minute
	ListingTTL      = 30 * time.Minute
	ListingStatsTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ListingKey(listingID uint) string {
	return fmt.Sprintf(ListingKeyPrefix, listingID)
}

func ListingStatsKey(listingID uint) string {
	return fmt.Sprintf(ListingStatsKeyPrefix, listingID)
}

// Aside implements the cache-aside pattern: on a hit, dest is populated from
// the cached JSON; on a miss, fill is called and its result cached with the
// given TTL. Cache failures fall through to fill.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fill func() error) error {
	if client != nil {
		if raw, err := client.Get(ctx, key).Bytes(); err == nil {
			if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
				return nil
			}
			// Corrupt entry; drop it and refill.
			client.Del(ctx, key)
		}
	}

	if err := fill(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateListing(ctx context.Context, listingID uint) {
	Invalidate(ctx, ListingKey(listingID))
	Invalidate(ctx, ListingStatsKey(listingID))
}

func InvalidateListingsList(ctx context.Context) {
	Invalidate(ctx, ListingsListKey)
}
