package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/redis/go-redis/v9"
)

type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

func linkKey(slug string) string {
	return fmt.Sprintf("link:%s", slug)
}

func summaryKey(linkID string) string {
	return fmt.Sprintf("summary:%s", linkID)
}

// GetLink returns (nil, nil) on a cache miss.
func (c *LinkCache) GetLink(ctx context.Context, slug string) (*domain.Link, error) {
	var link domain.Link
	found, err := c.get(ctx, linkKey(slug), &link)
	if err != nil || !found {
		return nil, err
	}
	return &link, nil
}

func (c *LinkCache) SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	return c.set(ctx, linkKey(link.Slug), link, ttl)
}

func (c *LinkCache) DeleteLink(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, linkKey(slug))
	}

	return c.client.Del(ctx, keys...).Err()
}

// GetSummary returns (nil, nil) on a cache miss.
func (c *LinkCache) GetSummary(ctx context.Context, linkID string) (*domain.AnalyticsSummary, error) {
	var summary domain.AnalyticsSummary
	found, err := c.get(ctx, summaryKey(linkID), &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (c *LinkCache) SetSummary(ctx context.Context, linkID string, summary *domain.AnalyticsSummary, ttl time.Duration) error {
	return c.set(ctx, summaryKey(linkID), summary, ttl)
}

func (c *LinkCache) DeleteSummary(ctx context.Context, linkID string) error {
	return c.client.Del(ctx, summaryKey(linkID)).Err()
}

func (c *LinkCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *LinkCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}

	return true, nil
}

func (c *LinkCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}
