package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/internal/logger"
	"github.com/gamassss/slinkr/pkg/detector"
	"github.com/google/uuid"
)

const (
	defaultRecentClicks = 10
	maxClickLimit       = 1000
)

type ClickService struct {
	clicks ClickRepository
	cache  CacheRepository
	now    func() time.Time
}

func NewClickService(clicks ClickRepository, cache CacheRepository) *ClickService {
	return &ClickService{
		clicks: clicks,
		cache:  cacheOrNoop(cache),
		now:    time.Now,
	}
}

// Record persists one click and increments the link's counter in the same
// transaction. The timestamp is assigned here, never taken from the caller.
func (s *ClickService) Record(ctx context.Context, req *domain.ClickRequest) (*domain.Click, error) {
	log := logger.FromContext(ctx)

	ip := req.IP
	if ip == "" {
		ip = detector.UnknownIP
	}

	click := &domain.Click{
		ID:        uuid.NewString(),
		LinkID:    req.LinkID,
		Timestamp: s.now().UTC(),
		UserAgent: req.UserAgent,
		Referer:   req.Referer,
		IP:        ip,
	}

	if err := s.clicks.Record(ctx, click); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		log.Error("failed to record click", "operation", "record_click", "link_id", req.LinkID, "error", err)
		return nil, fmt.Errorf("failed to record click: %w", err)
	}

	if err := s.cache.DeleteSummary(ctx, req.LinkID); err != nil {
		log.Warn("failed to invalidate cached summary", "link_id", req.LinkID, "error", err)
	}

	return click, nil
}

// History returns the link's clicks newest first. limit <= 0 returns all.
func (s *ClickService) History(ctx context.Context, linkID string, limit int) ([]domain.Click, error) {
	if limit > maxClickLimit {
		limit = maxClickLimit
	}

	clicks, err := s.clicks.History(ctx, linkID, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get click history", "operation", "click_history", "link_id", linkID, "error", err)
		return nil, fmt.Errorf("failed to get click history: %w", err)
	}
	return clicks, nil
}

func (s *ClickService) Recent(ctx context.Context, limit int) ([]domain.RecentClick, error) {
	if limit <= 0 {
		limit = defaultRecentClicks
	}
	if limit > maxClickLimit {
		limit = maxClickLimit
	}

	clicks, err := s.clicks.Recent(ctx, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get recent clicks", "operation", "recent_clicks", "error", err)
		return nil, fmt.Errorf("failed to get recent clicks: %w", err)
	}
	return clicks, nil
}
