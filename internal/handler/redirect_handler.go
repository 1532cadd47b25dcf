package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/internal/logger"
	"github.com/gamassss/slinkr/pkg/detector"
	"github.com/gamassss/slinkr/pkg/response"
	"github.com/gin-gonic/gin"
)

type SlugResolver interface {
	Resolve(ctx context.Context, slug string) (*domain.Link, error)
}

type ClickRecorder interface {
	Record(ctx context.Context, req *domain.ClickRequest) (*domain.Click, error)
}

type ReservedChecker interface {
	IsReserved(slug string) bool
}

type RedirectHandler struct {
	links         SlugResolver
	clicks        ClickRecorder
	reserved      ReservedChecker
	recordTimeout time.Duration
}

func NewRedirectHandler(links SlugResolver, clicks ClickRecorder, reserved ReservedChecker, recordTimeout time.Duration) *RedirectHandler {
	if recordTimeout <= 0 {
		recordTimeout = 5 * time.Second
	}

	return &RedirectHandler{
		links:         links,
		clicks:        clicks,
		reserved:      reserved,
		recordTimeout: recordTimeout,
	}
}

// Redirect sends a 302 to the link's URL. The click is recorded after the
// response in a detached goroutine; a failed record never affects the
// redirect.
func (h *RedirectHandler) Redirect(c *gin.Context) {
	slug := c.Param("slug")

	if slug == "" || h.reserved.IsReserved(slug) {
		response.NotFound(c, "Link not found.")
		return
	}

	link, err := h.links.Resolve(c.Request.Context(), slug)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if link == nil {
		response.NotFound(c, "Link not found.")
		return
	}

	req := &domain.ClickRequest{
		LinkID:    link.ID,
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		IP:        detector.ClientIP(c.GetHeader("X-Forwarded-For"), c.GetHeader("X-Real-IP"), c.Request.RemoteAddr),
	}

	go h.record(logger.Detach(c.Request.Context()), req)

	c.Redirect(http.StatusFound, link.URL)
}

func (h *RedirectHandler) record(ctx context.Context, req *domain.ClickRequest) {
	ctx, cancel := context.WithTimeout(ctx, h.recordTimeout)
	defer cancel()

	if _, err := h.clicks.Record(ctx, req); err != nil {
		logger.FromContext(ctx).Error("failed to record click", "link_id", req.LinkID, "error", err)
	}
}
