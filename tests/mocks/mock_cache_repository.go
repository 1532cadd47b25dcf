package mocks

import (
	"context"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetLink(ctx context.Context, slug string) (*domain.Link, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockCacheRepository) SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	args := m.Called(ctx, link, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteLink(ctx context.Context, slugs ...string) error {
	args := m.Called(ctx, slugs)
	return args.Error(0)
}

func (m *MockCacheRepository) GetSummary(ctx context.Context, linkID string) (*domain.AnalyticsSummary, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticsSummary), args.Error(1)
}

func (m *MockCacheRepository) SetSummary(ctx context.Context, linkID string, summary *domain.AnalyticsSummary, ttl time.Duration) error {
	args := m.Called(ctx, linkID, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteSummary(ctx context.Context, linkID string) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}
