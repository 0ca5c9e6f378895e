package cache

import (
	"context"
	"time"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/observability"
	"github.com/matzehuels/meshview/pkg/settings"
)

// Open creates the backend selected by s.Backend.
func Open(ctx context.Context, s settings.CacheSettings) (Cache, error) {
	switch s.Backend {
	case settings.CacheNone, "":
		return NewNullCache(), nil
	case settings.CacheFile:
		dir := s.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case settings.CacheRedis:
		c, err := NewRedisCache(ctx, RedisOptions{Addr: s.RedisAddr, DB: s.RedisDB})
		if err != nil {
			return nil, err
		}
		return c, nil
	case settings.CacheMongo:
		c, err := NewMongoCache(ctx, MongoOptions{
			URI:        s.MongoURI,
			Database:   s.MongoDatabase,
			Collection: s.MongoCollection,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown cache backend %q", s.Backend)
	}
}

// Lookup reads key and reports the outcome to the cache hooks. Backend
// errors are treated as misses.
func Lookup(ctx context.Context, c Cache, keyType, key string) ([]byte, bool) {
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// Store writes key and reports the write to the cache hooks.
func Store(ctx context.Context, c Cache, keyType, key string, data []byte, ttl time.Duration) error {
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
