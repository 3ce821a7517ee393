package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/satheeshk50/web-crawler/internal/domain"
)

// PageCache keeps recently extracted pages in Redis under a TTL so the
// orchestrator can skip refetching a page it crawled moments ago. It is a
// bounded cache, not result storage; entries expire on their own.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPageCache(addr string, ttl time.Duration) *PageCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &PageCache{client: rdb, ttl: ttl}
}

func (c *PageCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func key(url string) string {
	return fmt.Sprintf("page:%s", url)
}

// Get returns the cached page for url, or nil when absent.
func (c *PageCache) Get(ctx context.Context, url string) (*domain.ExtractedPage, error) {
	data, err := c.client.Get(ctx, key(url)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var page domain.ExtractedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Set stores page under its URL with the cache TTL.
func (c *PageCache) Set(ctx context.Context, page *domain.ExtractedPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(page.URL), data, c.ttl).Err()
}
