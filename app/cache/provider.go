package cache

import (
	"context"
	"errors"
	"time"
	"unsafe"

	"blogd/app/config"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"

	redisKeyPrefix = "blogd:"
	redisTimeout   = 2 * time.Second
)

// CacheProviderInterface stores rendered responses keyed by request.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Clear()
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *config.Config, log *logrus.Logger) CacheProviderInterface {
	if !conf.Cache.Enabled {
		log.Info("Cache disabled")
		return &noopCache{}
	}

	ttl := max(int(conf.Cache.TTL.Seconds()), 1)

	if conf.Cache.Driver == DriverRedis {
		log.WithField("address", conf.Cache.RedisAddress).Info("Cache initialized: redis")
		return newRedisCache(conf.Cache, time.Duration(ttl)*time.Second, log)
	}

	if conf.Cache.Size <= 0 {
		log.Info("Cache disabled")
		return &noopCache{}
	}

	log.Infof("Cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(conf.Cache.Size * 1024 * 1024),
		ttl:   ttl,
	}
}

// unsafeStringToBytes converts without allocation. freecache copies keys.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(unsafeStringToBytes(key), value, c.ttl)
}

func (c *CacheProvider) Clear() {
	c.cache.Clear()
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func newRedisCache(conf config.CacheConfig, ttl time.Duration, log *logrus.Logger) *redisCache {
	client := redis.NewClient(&redis.Options{
		Addr:        conf.RedisAddress,
		Password:    conf.RedisPassword,
		DB:          conf.RedisDB,
		DialTimeout: redisTimeout,
	})
	return &redisCache{client: client, ttl: ttl, log: log}
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	} else if err != nil {
		r.log.WithError(err).WithField("key", key).Debug("Error reading from redis cache")
		return nil, false
	}
	return val, true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.client.Set(ctx, redisKeyPrefix+key, value, r.ttl).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Debug("Error writing to redis cache")
	}
}

// Clear deletes every key this process owns, leaving the rest of the database alone.
func (r *redisCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.WithError(err).Debug("Error clearing redis cache")
	}
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) Clear()                      {}

// NewNoopCache returns a cache that never stores anything.
func NewNoopCache() CacheProviderInterface {
	return &noopCache{}
}
