package mocks

import (
	"context"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) Record(ctx context.Context, click *domain.Click) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

func (m *MockClickRepository) History(ctx context.Context, linkID string, limit int) ([]domain.Click, error) {
	args := m.Called(ctx, linkID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Click), args.Error(1)
}

func (m *MockClickRepository) Recent(ctx context.Context, limit int) ([]domain.RecentClick, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecentClick), args.Error(1)
}

func (m *MockClickRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
