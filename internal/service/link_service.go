package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/internal/logger"
	"github.com/gamassss/slinkr/pkg/slug"
	"github.com/google/uuid"
)

const (
	maxRetries     = 3
	defaultTopN    = 5
	maxTopN        = 100
	defaultLinkTTL = 24 * time.Hour
)

type LinkService struct {
	links   LinkRepository
	cache   CacheRepository
	codec   *slug.Codec
	linkTTL time.Duration
	now     func() time.Time
}

func NewLinkService(links LinkRepository, cache CacheRepository, codec *slug.Codec, linkTTL time.Duration) *LinkService {
	if linkTTL <= 0 {
		linkTTL = defaultLinkTTL
	}

	return &LinkService{
		links:   links,
		cache:   cacheOrNoop(cache),
		codec:   codec,
		linkTTL: linkTTL,
		now:     time.Now,
	}
}

// Create stores a new link. Without a requested slug one is generated and
// regenerated up to maxRetries times on collision; a requested slug is
// checked against the reserved words and existing links first.
func (s *LinkService) Create(ctx context.Context, req *domain.CreateLinkRequest) (*domain.Link, error) {
	log := logger.FromContext(ctx)

	target, err := normalizeURL(req.URL)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Slug) != "" {
		candidate, err := s.checkSlug(ctx, req.Slug, "")
		if err != nil {
			return nil, err
		}

		link := s.newLink(candidate, target, req.Title)
		if err := s.links.Create(ctx, link); err != nil {
			if errors.Is(err, domain.ErrSlugTaken) {
				return nil, domain.ErrSlugTaken
			}
			log.Error("failed to create link", "operation", "create_link", "slug", candidate, "error", err)
			return nil, fmt.Errorf("failed to create link: %w", err)
		}

		return link, nil
	}

	for i := 0; i < maxRetries; i++ {
		candidate, err := s.codec.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate slug: %w", err)
		}
		if s.codec.IsReserved(candidate) {
			continue
		}

		link := s.newLink(candidate, target, req.Title)
		err = s.links.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, domain.ErrSlugTaken) {
			log.Warn("generated slug collided, retrying", "slug", candidate, "attempt", i+1)
			continue
		}

		log.Error("failed to create link", "operation", "create_link", "slug", candidate, "error", err)
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return nil, fmt.Errorf("failed to generate slug after %d retries: %w", maxRetries, domain.ErrSlugTaken)
}

func (s *LinkService) Get(ctx context.Context, id string) (*domain.Link, error) {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get link", "operation", "get_link", "link_id", id, "error", err)
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

func (s *LinkService) List(ctx context.Context) ([]domain.Link, error) {
	links, err := s.links.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list links", "operation", "list_links", "error", err)
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// Top returns up to n links ordered by click count. n <= 0 means the
// dashboard default of 5.
func (s *LinkService) Top(ctx context.Context, n int) ([]domain.Link, error) {
	if n <= 0 {
		n = defaultTopN
	}
	if n > maxTopN {
		n = maxTopN
	}

	links, err := s.links.Top(ctx, n)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get top links", "operation", "top_links", "error", err)
		return nil, fmt.Errorf("failed to get top links: %w", err)
	}
	return links, nil
}

// Update replaces url, title and slug of an existing link. The slug is only
// validated against reserved words and other links when it changes.
func (s *LinkService) Update(ctx context.Context, id string, req *domain.UpdateLinkRequest) (*domain.Link, error) {
	log := logger.FromContext(ctx)

	current, err := s.links.GetByID(ctx, id)
	if err != nil {
		log.Error("failed to get link", "operation", "update_link", "link_id", id, "error", err)
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	target, err := normalizeURL(req.URL)
	if err != nil {
		return nil, err
	}

	candidate, err := s.codec.Normalize(req.Slug)
	if err != nil {
		return nil, err
	}
	if candidate != current.Slug {
		if candidate, err = s.checkSlug(ctx, candidate, current.ID); err != nil {
			return nil, err
		}
	}

	updated := *current
	updated.URL = target
	updated.Title = req.Title
	updated.Slug = candidate
	updated.UpdatedAt = s.now().UTC()

	if err := s.links.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		log.Error("failed to update link", "operation", "update_link", "link_id", id, "error", err)
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	if err := s.cache.DeleteLink(ctx, current.Slug, updated.Slug); err != nil {
		log.Warn("failed to invalidate cached link", "link_id", id, "error", err)
	}

	return &updated, nil
}

// Delete removes the link and every click recorded for it.
func (s *LinkService) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	current, err := s.links.GetByID(ctx, id)
	if err != nil {
		log.Error("failed to get link", "operation", "delete_link", "link_id", id, "error", err)
		return fmt.Errorf("failed to get link: %w", err)
	}
	if current == nil {
		return domain.ErrNotFound
	}

	if err := s.links.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		log.Error("failed to delete link", "operation", "delete_link", "link_id", id, "error", err)
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if err := s.cache.DeleteLink(ctx, current.Slug); err != nil {
		log.Warn("failed to invalidate cached link", "link_id", id, "error", err)
	}
	if err := s.cache.DeleteSummary(ctx, id); err != nil {
		log.Warn("failed to invalidate cached summary", "link_id", id, "error", err)
	}

	return nil
}

// Resolve looks a slug up for redirection, cache first. It returns
// (nil, nil) when no link has that slug.
func (s *LinkService) Resolve(ctx context.Context, slugValue string) (*domain.Link, error) {
	log := logger.FromContext(ctx)

	cached, err := s.cache.GetLink(ctx, slugValue)
	if err != nil {
		log.Warn("cache lookup failed", "slug", slugValue, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	link, err := s.links.GetBySlug(ctx, slugValue)
	if err != nil {
		log.Error("failed to resolve slug", "operation", "resolve", "slug", slugValue, "error", err)
		return nil, fmt.Errorf("failed to resolve slug: %w", err)
	}
	if link == nil {
		return nil, nil
	}

	if _, ok := s.cache.(noopCache); !ok {
		go s.fillCache(logger.Detach(ctx), *link)
	}

	return link, nil
}

// fillCache stores link under its slug, then reads the slug back from the
// store. An Update or Delete that committed while the entry was being written
// leaves a mismatch, and the entry is dropped again.
func (s *LinkService) fillCache(ctx context.Context, link domain.Link) {
	log := logger.FromContext(ctx)

	if err := s.cache.SetLink(ctx, &link, s.linkTTL); err != nil {
		log.Warn("failed to cache link", "slug", link.Slug, "error", err)
		return
	}

	current, err := s.links.GetBySlug(ctx, link.Slug)
	if err == nil && sameLink(current, &link) {
		return
	}

	if err := s.cache.DeleteLink(ctx, link.Slug); err != nil {
		log.Warn("failed to drop stale cached link", "slug", link.Slug, "error", err)
	}
}

func sameLink(current, cached *domain.Link) bool {
	return current != nil &&
		current.ID == cached.ID &&
		current.URL == cached.URL &&
		current.UpdatedAt.Equal(cached.UpdatedAt)
}

func (s *LinkService) checkSlug(ctx context.Context, raw, ownerID string) (string, error) {
	candidate, err := s.codec.Normalize(raw)
	if err != nil {
		return "", err
	}
	if s.codec.IsReserved(candidate) {
		return "", domain.ErrSlugReserved
	}

	existing, err := s.links.GetBySlug(ctx, candidate)
	if err != nil {
		logger.FromContext(ctx).Error("failed to check slug", "slug", candidate, "error", err)
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if existing != nil && existing.ID != ownerID {
		return "", domain.ErrSlugTaken
	}

	return candidate, nil
}

func (s *LinkService) newLink(slugValue, target, title string) *domain.Link {
	now := s.now().UTC()
	return &domain.Link{
		ID:        uuid.NewString(),
		Slug:      slugValue,
		URL:       target,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// normalizeURL trims the target and prefixes https:// when no http(s)
// scheme is present.
func normalizeURL(raw string) (string, error) {
	target := strings.TrimSpace(raw)
	if target == "" {
		return "", domain.ErrInvalidURL
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}
	return target, nil
}
