package marketdata

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// DefaultCacheTTL keeps a fetched history for one day.
const DefaultCacheTTL = 24 * time.Hour

// CachedSource memoises histories from an upstream Source per symbol.
// Entries expire after the configured TTL; failed fetches are not cached.
type CachedSource struct {
	upstream Source
	cache    *cache.Cache
}

func NewCachedSource(upstream Source, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{
		upstream: upstream,
		cache:    cache.New(ttl, 2*ttl),
	}
}

func (c *CachedSource) History(ctx context.Context, symbol string) (*Series, error) {
	key := strings.ToUpper(symbol)
	if v, found := c.cache.Get(key); found {
		log.WithField("symbol", key).Debug("price history cache hit")
		return v.(*Series), nil
	}

	series, err := c.upstream.History(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, series, cache.DefaultExpiration)
	return series, nil
}

func (c *CachedSource) Flush() {
	c.cache.Flush()
}

func (c *CachedSource) Len() int {
	return c.cache.ItemCount()
}
