package handler

import (
	"context"
	"strconv"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/pkg/response"
	"github.com/gin-gonic/gin"
)

type AnalyticsService interface {
	GetAnalytics(ctx context.Context, linkID string) (*domain.LinkAnalytics, error)
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

type ClickHistoryService interface {
	History(ctx context.Context, linkID string, limit int) ([]domain.Click, error)
	Recent(ctx context.Context, limit int) ([]domain.RecentClick, error)
}

type AnalyticsHandler struct {
	service AnalyticsService
	clicks  ClickHistoryService
}

func NewAnalyticsHandler(service AnalyticsService, clicks ClickHistoryService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, clicks: clicks}
}

func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.service.GetAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if analytics == nil {
		response.FromError(c, domain.ErrNotFound)
		return
	}

	response.OK(c, "Analytics retrieved successfully", analytics)
}

func (h *AnalyticsHandler) GetClickHistory(c *gin.Context) {
	clicks, err := h.clicks.History(c.Request.Context(), c.Param("id"), queryLimit(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if clicks == nil {
		clicks = []domain.Click{}
	}

	response.OK(c, "Click history retrieved successfully", clicks)
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", stats)
}

// RecentClicks lists the latest clicks across all links.
func (h *AnalyticsHandler) RecentClicks(c *gin.Context) {
	clicks, err := h.clicks.Recent(c.Request.Context(), queryLimit(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if clicks == nil {
		clicks = []domain.RecentClick{}
	}

	response.OK(c, "Recent clicks retrieved successfully", clicks)
}

func queryLimit(c *gin.Context) int {
	if limitParam := c.Query("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			return l
		}
	}
	return 0
}
