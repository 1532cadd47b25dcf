package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/pkg/response"
	"github.com/gamassss/slinkr/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LinkService interface {
	Create(ctx context.Context, req *domain.CreateLinkRequest) (*domain.Link, error)
	Get(ctx context.Context, id string) (*domain.Link, error)
	List(ctx context.Context) ([]domain.Link, error)
	Top(ctx context.Context, n int) ([]domain.Link, error)
	Update(ctx context.Context, id string, req *domain.UpdateLinkRequest) (*domain.Link, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, slug string) (*domain.Link, error)
}

type LinkHandler struct {
	service LinkService
	baseURL string
}

type LinkResponse struct {
	*domain.Link
	ShortURL string `json:"short_url"`
}

func NewLinkHandler(service LinkService, baseURL string) *LinkHandler {
	return &LinkHandler{service: service, baseURL: baseURL}
}

func (h *LinkHandler) Create(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	link, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, "Link created successfully", h.present(link))
}

func (h *LinkHandler) List(c *gin.Context) {
	links, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "Links retrieved successfully", h.presentAll(links))
}

func (h *LinkHandler) Top(c *gin.Context) {
	n := 0
	if nParam := c.Query("n"); nParam != "" {
		if v, err := strconv.Atoi(nParam); err == nil && v > 0 {
			n = v
		}
	}

	links, err := h.service.Top(c.Request.Context(), n)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "Top links retrieved successfully", h.presentAll(links))
}

func (h *LinkHandler) Get(c *gin.Context) {
	link, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if link == nil {
		response.FromError(c, domain.ErrNotFound)
		return
	}

	response.OK(c, "Link retrieved successfully", h.present(link))
}

func (h *LinkHandler) Update(c *gin.Context) {
	var req domain.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if errs := validator.Validate(req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	link, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "Link updated successfully", h.present(link))
}

func (h *LinkHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *LinkHandler) present(link *domain.Link) LinkResponse {
	return LinkResponse{Link: link, ShortURL: h.baseURL + "/" + link.Slug}
}

func (h *LinkHandler) presentAll(links []domain.Link) []LinkResponse {
	out := make([]LinkResponse, 0, len(links))
	for i := range links {
		out = append(out, h.present(&links[i]))
	}
	return out
}
