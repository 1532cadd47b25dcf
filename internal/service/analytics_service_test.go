package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	chromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

func sampleClicks() []domain.Click {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Click{
		{ID: "c3", LinkID: "link-1", Timestamp: now, UserAgent: chromeWindows, Referer: "https://news.example.com/post"},
		{ID: "c2", LinkID: "link-1", Timestamp: now.Add(-time.Minute), UserAgent: safariIPhone},
		{ID: "c1", LinkID: "link-1", Timestamp: now.Add(-time.Hour), UserAgent: chromeWindows},
	}
}

func TestGetAnalytics_NotFound(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	clickRepo := new(mocks.MockClickRepository)
	service := NewAnalyticsService(linkRepo, clickRepo, nil, 0)
	ctx := context.Background()

	linkRepo.On("GetByID", ctx, "missing").Return(nil, nil).Once()

	result, err := service.GetAnalytics(ctx, "missing")

	assert.NoError(t, err)
	assert.Nil(t, result)
	clickRepo.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAnalytics_ComputesSummary(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	clickRepo := new(mocks.MockClickRepository)
	cacheRepo := new(mocks.MockCacheRepository)
	service := NewAnalyticsService(linkRepo, clickRepo, cacheRepo, time.Minute)
	ctx := context.Background()

	link := &domain.Link{ID: "link-1", Slug: "docs", ClickCount: 3}
	clicks := sampleClicks()

	linkRepo.On("GetByID", ctx, "link-1").Return(link, nil).Once()
	clickRepo.On("History", ctx, "link-1", 0).Return(clicks, nil).Once()
	cacheRepo.On("GetSummary", ctx, "link-1").Return(nil, nil).Once()
	cacheRepo.On("SetSummary", ctx, "link-1", mock.AnythingOfType("*domain.AnalyticsSummary"), time.Minute).Return(nil).Once()

	result, err := service.GetAnalytics(ctx, "link-1")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, link, result.Link)
	assert.Len(t, result.Clicks, 3)
	assert.Equal(t, map[string]int64{"Chrome": 2, "Safari": 1}, result.Summary.Browsers)
	assert.Equal(t, map[string]int64{"Windows": 2, "iPhone": 1}, result.Summary.Devices)
	assert.Equal(t, map[string]int64{"Direct": 2, "https://news.example.com/post": 1}, result.Summary.Referrers)

	require.Len(t, result.Referrers, 2)
	assert.Equal(t, domain.Bucket{Name: "Direct", Label: "Direct", Count: 2}, result.Referrers[0])
	assert.Equal(t, "news.example.com", result.Referrers[1].Label)
	assert.Equal(t, "Chrome", result.Browsers[0].Name)

	require.NotNil(t, result.LastClickAt)
	assert.Equal(t, clicks[0].Timestamp, *result.LastClickAt)
	cacheRepo.AssertExpectations(t)
}

func TestGetAnalytics_UsesCachedSummaryWhenCurrent(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	clickRepo := new(mocks.MockClickRepository)
	cacheRepo := new(mocks.MockCacheRepository)
	service := NewAnalyticsService(linkRepo, clickRepo, cacheRepo, time.Minute)
	ctx := context.Background()

	cached := &domain.AnalyticsSummary{
		Browsers:  map[string]int64{"Chrome": 3},
		Devices:   map[string]int64{"Windows": 3},
		Referrers: map[string]int64{"Direct": 3},
	}

	linkRepo.On("GetByID", ctx, "link-1").Return(&domain.Link{ID: "link-1"}, nil).Once()
	clickRepo.On("History", ctx, "link-1", 0).Return(sampleClicks(), nil).Once()
	cacheRepo.On("GetSummary", ctx, "link-1").Return(cached, nil).Once()

	result, err := service.GetAnalytics(ctx, "link-1")

	require.NoError(t, err)
	assert.Equal(t, *cached, result.Summary)
	cacheRepo.AssertNotCalled(t, "SetSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAnalytics_StaleCachedSummaryIsRecomputed(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	clickRepo := new(mocks.MockClickRepository)
	cacheRepo := new(mocks.MockCacheRepository)
	service := NewAnalyticsService(linkRepo, clickRepo, cacheRepo, time.Minute)
	ctx := context.Background()

	stale := &domain.AnalyticsSummary{Browsers: map[string]int64{"Chrome": 1}}

	linkRepo.On("GetByID", ctx, "link-1").Return(&domain.Link{ID: "link-1"}, nil).Once()
	clickRepo.On("History", ctx, "link-1", 0).Return(sampleClicks(), nil).Once()
	cacheRepo.On("GetSummary", ctx, "link-1").Return(stale, nil).Once()
	cacheRepo.On("SetSummary", ctx, "link-1", mock.Anything, time.Minute).Return(nil).Once()

	result, err := service.GetAnalytics(ctx, "link-1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Summary.Browsers["Chrome"])
	cacheRepo.AssertExpectations(t)
}

func TestGetAnalytics_NoClicks(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	clickRepo := new(mocks.MockClickRepository)
	service := NewAnalyticsService(linkRepo, clickRepo, nil, 0)
	ctx := context.Background()

	linkRepo.On("GetByID", ctx, "link-1").Return(&domain.Link{ID: "link-1"}, nil).Once()
	clickRepo.On("History", ctx, "link-1", 0).Return(nil, nil).Once()

	result, err := service.GetAnalytics(ctx, "link-1")

	require.NoError(t, err)
	assert.NotNil(t, result.Clicks)
	assert.Empty(t, result.Summary.Browsers)
	assert.Empty(t, result.Summary.Devices)
	assert.Empty(t, result.Summary.Referrers)
	assert.Nil(t, result.LastClickAt)
}

func TestDashboard_Aggregates(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	clickRepo := new(mocks.MockClickRepository)
	service := NewAnalyticsService(linkRepo, clickRepo, nil, 0)

	top := []domain.Link{{ID: "a", ClickCount: 5}, {ID: "b", ClickCount: 2}}
	recent := []domain.RecentClick{{Click: domain.Click{ID: "c1"}, LinkSlug: "a", LinkTitle: "A"}}

	linkRepo.On("Count", mock.Anything).Return(int64(2), nil).Once()
	clickRepo.On("Count", mock.Anything).Return(int64(7), nil).Once()
	linkRepo.On("Top", mock.Anything, 5).Return(top, nil).Once()
	clickRepo.On("Recent", mock.Anything, 10).Return(recent, nil).Once()

	stats, err := service.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalLinks)
	assert.Equal(t, int64(7), stats.TotalClicks)
	assert.Equal(t, int64(4), stats.AvgClicksPerLink, "3.5 rounds up")
	assert.Equal(t, top, stats.TopLinks)
	assert.Equal(t, recent, stats.RecentClicks)
}

func TestDashboard_Empty(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	clickRepo := new(mocks.MockClickRepository)
	service := NewAnalyticsService(linkRepo, clickRepo, nil, 0)

	linkRepo.On("Count", mock.Anything).Return(int64(0), nil).Once()
	clickRepo.On("Count", mock.Anything).Return(int64(0), nil).Once()
	linkRepo.On("Top", mock.Anything, 5).Return(nil, nil).Once()
	clickRepo.On("Recent", mock.Anything, 10).Return(nil, nil).Once()

	stats, err := service.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.AvgClicksPerLink)
	assert.NotNil(t, stats.TopLinks)
	assert.NotNil(t, stats.RecentClicks)
}

func TestDashboard_Error(t *testing.T) {
	linkRepo := new(mocks.MockLinkRepository)
	clickRepo := new(mocks.MockClickRepository)
	service := NewAnalyticsService(linkRepo, clickRepo, nil, 0)

	linkRepo.On("Count", mock.Anything).Return(int64(0), errors.New("db down")).Maybe()
	clickRepo.On("Count", mock.Anything).Return(int64(0), nil).Maybe()
	linkRepo.On("Top", mock.Anything, 5).Return([]domain.Link{}, nil).Maybe()
	clickRepo.On("Recent", mock.Anything, 10).Return([]domain.RecentClick{}, nil).Maybe()

	stats, err := service.Dashboard(context.Background())

	assert.Nil(t, stats)
	assert.ErrorContains(t, err, "count links")
}
