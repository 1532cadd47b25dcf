package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gamassss/slinkr/internal/analytics"
	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/internal/logger"
	"golang.org/x/sync/errgroup"
)

const defaultSummaryTTL = 10 * time.Minute

type AnalyticsService struct {
	links      LinkRepository
	clicks     ClickRepository
	cache      CacheRepository
	summaryTTL time.Duration
}

func NewAnalyticsService(links LinkRepository, clicks ClickRepository, cache CacheRepository, summaryTTL time.Duration) *AnalyticsService {
	if summaryTTL <= 0 {
		summaryTTL = defaultSummaryTTL
	}

	return &AnalyticsService{
		links:      links,
		clicks:     clicks,
		cache:      cacheOrNoop(cache),
		summaryTTL: summaryTTL,
	}
}

// GetAnalytics returns the link, its full click history and the per-category
// summary. It returns (nil, nil) when the link does not exist.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, linkID string) (*domain.LinkAnalytics, error) {
	log := logger.FromContext(ctx)

	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		log.Error("failed to get link", "operation", "get_analytics", "link_id", linkID, "error", err)
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if link == nil {
		return nil, nil
	}

	clicks, err := s.clicks.History(ctx, linkID, 0)
	if err != nil {
		log.Error("failed to get click history", "operation", "get_analytics", "link_id", linkID, "error", err)
		return nil, fmt.Errorf("failed to get click history: %w", err)
	}
	if clicks == nil {
		clicks = []domain.Click{}
	}

	summary := s.summary(ctx, linkID, clicks)

	result := &domain.LinkAnalytics{
		Link:      link,
		Clicks:    clicks,
		Summary:   summary,
		Browsers:  analytics.Buckets(summary.Browsers, nil),
		Devices:   analytics.Buckets(summary.Devices, nil),
		Referrers: analytics.Buckets(summary.Referrers, analytics.ReferrerHost),
	}
	if len(clicks) > 0 {
		last := clicks[0].Timestamp
		result.LastClickAt = &last
	}

	return result, nil
}

// summary serves a cached summary only when it covers exactly the clicks
// just read, so the returned history and summary never disagree.
func (s *AnalyticsService) summary(ctx context.Context, linkID string, clicks []domain.Click) domain.AnalyticsSummary {
	log := logger.FromContext(ctx)

	cached, err := s.cache.GetSummary(ctx, linkID)
	if err != nil {
		log.Warn("cache lookup failed", "link_id", linkID, "error", err)
	}
	if cached != nil && total(cached.Browsers) == int64(len(clicks)) {
		return *cached
	}

	summary := analytics.Summarize(clicks)
	if err := s.cache.SetSummary(ctx, linkID, &summary, s.summaryTTL); err != nil {
		log.Warn("failed to cache summary", "link_id", linkID, "error", err)
	}
	return summary
}

// Dashboard aggregates totals, the five most clicked links and the ten most
// recent clicks across all links.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.links.Count(gctx)
		if err != nil {
			return fmt.Errorf("count links: %w", err)
		}
		stats.TotalLinks = n
		return nil
	})
	g.Go(func() error {
		n, err := s.clicks.Count(gctx)
		if err != nil {
			return fmt.Errorf("count clicks: %w", err)
		}
		stats.TotalClicks = n
		return nil
	})
	g.Go(func() error {
		top, err := s.links.Top(gctx, defaultTopN)
		if err != nil {
			return fmt.Errorf("top links: %w", err)
		}
		stats.TopLinks = top
		return nil
	})
	g.Go(func() error {
		recent, err := s.clicks.Recent(gctx, defaultRecentClicks)
		if err != nil {
			return fmt.Errorf("recent clicks: %w", err)
		}
		stats.RecentClicks = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("failed to build dashboard", "operation", "dashboard", "error", err)
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	if stats.TopLinks == nil {
		stats.TopLinks = []domain.Link{}
	}
	if stats.RecentClicks == nil {
		stats.RecentClicks = []domain.RecentClick{}
	}
	if stats.TotalLinks > 0 {
		stats.AvgClicksPerLink = int64(math.Round(float64(stats.TotalClicks) / float64(stats.TotalLinks)))
	}

	return stats, nil
}

func total(counts map[string]int64) int64 {
	var n int64
	for _, c := range counts {
		n += c
	}
	return n
}
