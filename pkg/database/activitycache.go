package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	gocachestore "github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const activityCacheExpiration = 90 * time.Minute

// ActivityCache is a read-through redis cache for activity metadata.
// Samples are passed straight to the underlying store.
type ActivityCache struct {
	Store Store
	Cache *cache.Cache[string]
}

func NewActivityCache(store Store, client *redis.Client) *ActivityCache {
	redisStore := redisstore.NewRedis(client, gocachestore.WithExpiration(activityCacheExpiration))

	return &ActivityCache{
		Store: store,
		Cache: cache.New[string](redisStore),
	}
}

func activityCacheKey(identifier string) string {
	return fmt.Sprintf("activity:%s", identifier)
}

// Maps a storage document id back to the activity identifier it was cached under
func activityDocumentCacheKey(documentID string) string {
	return fmt.Sprintf("activity-document:%s", documentID)
}

func (c *ActivityCache) GetActivity(ctx context.Context, identifier string) (*trackdata.Activity, error) {
	cacheKey := activityCacheKey(identifier)

	cachedValue, err := c.Cache.Get(ctx, cacheKey)
	if err == nil {
		var activity *trackdata.Activity
		if err := json.Unmarshal([]byte(cachedValue), &activity); err == nil && activity != nil {
			return activity, nil
		}
	}

	activity, err := c.Store.GetActivity(ctx, identifier)
	if err != nil {
		return nil, err
	}

	activityJSON, _ := json.Marshal(activity)
	if err := c.Cache.Set(ctx, cacheKey, string(activityJSON)); err != nil {
		log.Warn().Err(err).Str("activity", identifier).Msg("Failed to cache activity")
	}
	if activity.DocumentID != "" {
		if err := c.Cache.Set(ctx, activityDocumentCacheKey(activity.DocumentID), activity.PrimaryIdentifier); err != nil {
			log.Warn().Err(err).Str("activity", identifier).Msg("Failed to cache activity document id")
		}
	}

	return activity, nil
}

func (c *ActivityCache) Invalidate(ctx context.Context, identifier string) error {
	return c.Cache.Delete(ctx, activityCacheKey(identifier))
}

// InvalidateDocument drops the cached activity stored under documentID. Returns the activity
// identifier it resolved to, empty when nothing was cached for that document.
func (c *ActivityCache) InvalidateDocument(ctx context.Context, documentID string) (string, error) {
	documentKey := activityDocumentCacheKey(documentID)

	identifier, err := c.Cache.Get(ctx, documentKey)
	if err != nil || identifier == "" {
		return "", nil
	}

	if err := c.Invalidate(ctx, identifier); err != nil {
		return identifier, err
	}

	return identifier, c.Cache.Delete(ctx, documentKey)
}

func (c *ActivityCache) GetLocations(ctx context.Context, identifier string) ([]trackdata.LocationSample, error) {
	return c.Store.GetLocations(ctx, identifier)
}

func (c *ActivityCache) GetMetrics(ctx context.Context, identifier string) ([]trackdata.MetricSample, error) {
	return c.Store.GetMetrics(ctx, identifier)
}
