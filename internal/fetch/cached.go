// Package fetch - cached.go wraps URL fetching with a shared page cache.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jonathan/brand-content-engine/internal/logger"
)

// DefaultPageCacheTTL is how long a fetched page is reused.
const DefaultPageCacheTTL = 24 * time.Hour

// PageCache stores fetch results by URL.
type PageCache interface {
	// Get reports false on a miss.
	Get(ctx context.Context, url string) (*Result, bool, error)
	Set(ctx context.Context, url string, result *Result, ttl time.Duration) error
}

// CachedFetcher wraps URL fetching with a page cache. Cache errors never
// fail a fetch.
type CachedFetcher struct {
	cache    PageCache
	options  *Options
	cacheTTL time.Duration
	extract  func(html string) (string, error)
	log      *logger.Logger
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL time.Duration
	Options  *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: DefaultPageCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher. A nil cache fetches every time.
func NewCachedFetcher(cache PageCache, config *CachedFetcherConfig, log *logger.Logger) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultPageCacheTTL
	}
	return &CachedFetcher{
		cache:    cache,
		options:  config.Options,
		cacheTTL: config.CacheTTL,
		extract:  SiteText,
		log:      logger.OrNop(log).With("component", "fetch"),
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
}

// Fetch retrieves a URL and its main text, using the cache when possible.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if f.cache != nil {
		cached, ok, err := f.cache.Get(ctx, urlStr)
		if err != nil {
			f.log.Warn("page cache read failed", "url", urlStr, "error", err)
		} else if ok {
			return &CachedResult{Result: cached, FromCache: true}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}
	text, err := f.extract(result.HTML)
	if err != nil {
		// Pages without usable text are returned but not cached.
		f.log.Debug("page text extraction failed", "url", urlStr, "error", err)
		return &CachedResult{Result: result}, nil
	}
	result.Text = text

	if f.cache != nil {
		if err := f.cache.Set(ctx, urlStr, result, f.cacheTTL); err != nil {
			f.log.Warn("page cache write failed", "url", urlStr, "error", err)
		}
	}
	return &CachedResult{Result: result}, nil
}

// RedisPageCache stores results as JSON under a key prefix.
type RedisPageCache struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisPageCache creates a RedisPageCache. An empty prefix uses "page:".
func NewRedisPageCache(rdb *goredis.Client, prefix string) *RedisPageCache {
	if prefix == "" {
		prefix = "page:"
	}
	return &RedisPageCache{rdb: rdb, prefix: prefix}
}

func (c *RedisPageCache) Get(ctx context.Context, url string) (*Result, bool, error) {
	data, err := c.rdb.Get(ctx, c.prefix+url).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, url string, result *Result, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+url, data, ttl).Err()
}

// MemoryPageCache is an in-process PageCache.
type MemoryPageCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryPage
}

type memoryPage struct {
	result    Result
	expiresAt time.Time
}

// NewMemoryPageCache creates an empty MemoryPageCache.
func NewMemoryPageCache() *MemoryPageCache {
	return &MemoryPageCache{now: time.Now, entries: make(map[string]memoryPage)}
}

func (c *MemoryPageCache) Get(_ context.Context, url string) (*Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok || !c.now().Before(e.expiresAt) {
		delete(c.entries, url)
		return nil, false, nil
	}
	r := e.result
	return &r, true, nil
}

func (c *MemoryPageCache) Set(_ context.Context, url string, result *Result, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = memoryPage{result: *result, expiresAt: c.now().Add(ttl)}
	return nil
}

var (
	_ PageCache = (*RedisPageCache)(nil)
	_ PageCache = (*MemoryPageCache)(nil)
)
