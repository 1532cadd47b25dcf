package service

import (
	"context"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
)

// LinkRepository is the persistent link store. Lookups return (nil, nil)
// when nothing matches; Create and Update report a duplicate slug as
// domain.ErrSlugTaken.
type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	GetByID(ctx context.Context, id string) (*domain.Link, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Link, error)
	Update(ctx context.Context, link *domain.Link) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Link, error)
	Top(ctx context.Context, n int) ([]domain.Link, error)
	Count(ctx context.Context) (int64, error)
}

// ClickRepository stores click events. Record must insert the click and
// bump the link's click_count atomically.
type ClickRepository interface {
	Record(ctx context.Context, click *domain.Click) error
	History(ctx context.Context, linkID string, limit int) ([]domain.Click, error)
	Recent(ctx context.Context, limit int) ([]domain.RecentClick, error)
	Count(ctx context.Context) (int64, error)
}

// CacheRepository is an optional read-through cache. Misses are (nil, nil).
type CacheRepository interface {
	GetLink(ctx context.Context, slug string) (*domain.Link, error)
	SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error
	DeleteLink(ctx context.Context, slugs ...string) error
	GetSummary(ctx context.Context, linkID string) (*domain.AnalyticsSummary, error)
	SetSummary(ctx context.Context, linkID string, summary *domain.AnalyticsSummary, ttl time.Duration) error
	DeleteSummary(ctx context.Context, linkID string) error
}

type noopCache struct{}

func (noopCache) GetLink(context.Context, string) (*domain.Link, error) { return nil, nil }

func (noopCache) SetLink(context.Context, *domain.Link, time.Duration) error { return nil }

func (noopCache) DeleteLink(context.Context, ...string) error { return nil }

func (noopCache) GetSummary(context.Context, string) (*domain.AnalyticsSummary, error) {
	return nil, nil
}

func (noopCache) SetSummary(context.Context, string, *domain.AnalyticsSummary, time.Duration) error {
	return nil
}

func (noopCache) DeleteSummary(context.Context, string) error { return nil }

func cacheOrNoop(cache CacheRepository) CacheRepository {
	if cache == nil {
		return noopCache{}
	}
	return cache
}
