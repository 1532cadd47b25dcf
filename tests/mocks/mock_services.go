package mocks

import (
	"context"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) Create(ctx context.Context, req *domain.CreateLinkRequest) (*domain.Link, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) Get(ctx context.Context, id string) (*domain.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) List(ctx context.Context) ([]domain.Link, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Link), args.Error(1)
}

func (m *MockLinkService) Top(ctx context.Context, n int) ([]domain.Link, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Link), args.Error(1)
}

func (m *MockLinkService) Update(ctx context.Context, id string, req *domain.UpdateLinkRequest) (*domain.Link, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLinkService) Resolve(ctx context.Context, slug string) (*domain.Link, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

type MockClickService struct {
	mock.Mock
}

func (m *MockClickService) Record(ctx context.Context, req *domain.ClickRequest) (*domain.Click, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Click), args.Error(1)
}

func (m *MockClickService) History(ctx context.Context, linkID string, limit int) ([]domain.Click, error) {
	args := m.Called(ctx, linkID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Click), args.Error(1)
}

func (m *MockClickService) Recent(ctx context.Context, limit int) ([]domain.RecentClick, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecentClick), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetAnalytics(ctx context.Context, linkID string) (*domain.LinkAnalytics, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkAnalytics), args.Error(1)
}

func (m *MockAnalyticsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}
