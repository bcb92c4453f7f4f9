package cache

import (
	"blogd/app/config"
	"blogd/app/metrics"

	"github.com/sirupsen/logrus"
)

// MetricsCacheProvider counts hits and misses of the wrapped cache.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics metrics.MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

func (c *MetricsCacheProvider) Clear() {
	c.inner.Clear()
}

// NewInstrumentedCacheProvider skips the wrapper when caching is off so
// that disabled caches report no misses.
func NewInstrumentedCacheProvider(conf *config.Config, log *logrus.Logger, m metrics.MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, log)
	if !conf.Cache.Enabled {
		return inner
	}
	return &MetricsCacheProvider{inner: inner, metrics: m}
}
