package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const linkColumns = `id, slug, url, title, click_count, created_at, updated_at`

type LinkRepository struct {
	db *pgxpool.Pool
}

func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	const op = "postgres.LinkRepository.Create"

	query := `
		INSERT INTO links (id, slug, url, title, click_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, link.ID, link.Slug, link.URL, link.Title, link.CreatedAt, link.UpdatedAt)
	if err != nil {
		if isSlugViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrSlugTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	link.ClickCount = 0
	return nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	const op = "postgres.LinkRepository.GetByID"

	if !validID(id) {
		return nil, nil
	}

	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`

	link, err := r.getOne(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return link, nil
}

func (r *LinkRepository) GetBySlug(ctx context.Context, slug string) (*domain.Link, error) {
	const op = "postgres.LinkRepository.GetBySlug"

	query := `SELECT ` + linkColumns + ` FROM links WHERE slug = $1`

	link, err := r.getOne(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return link, nil
}

func (r *LinkRepository) Update(ctx context.Context, link *domain.Link) error {
	const op = "postgres.LinkRepository.Update"

	if !validID(link.ID) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	query := `
		UPDATE links
		SET slug = $2, url = $3, title = $4, updated_at = $5
		WHERE id = $1
		RETURNING click_count, created_at
	`

	err := r.db.QueryRow(ctx, query, link.ID, link.Slug, link.URL, link.Title, link.UpdatedAt).
		Scan(&link.ClickCount, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		if isSlugViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrSlugTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Delete removes the link and its clicks in one transaction. The link row is
// locked first so a concurrent Record either commits before the delete or
// fails its foreign key check afterwards.
func (r *LinkRepository) Delete(ctx context.Context, id string) error {
	const op = "postgres.LinkRepository.Delete"

	if !validID(id) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx, `SELECT id FROM links WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM clicks WHERE link_id = $1`, id); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM links WHERE id = $1`, id); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *LinkRepository) List(ctx context.Context) ([]domain.Link, error) {
	const op = "postgres.LinkRepository.List"

	query := `SELECT ` + linkColumns + ` FROM links ORDER BY created_at DESC`

	links, err := r.getMany(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return links, nil
}

func (r *LinkRepository) Top(ctx context.Context, n int) ([]domain.Link, error) {
	const op = "postgres.LinkRepository.Top"

	query := `SELECT ` + linkColumns + ` FROM links ORDER BY click_count DESC, created_at DESC LIMIT $1`

	links, err := r.getMany(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return links, nil
}

func (r *LinkRepository) Count(ctx context.Context) (int64, error) {
	const op = "postgres.LinkRepository.Count"

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM links`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (r *LinkRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Link, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	link, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Link])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &link, nil
}

func (r *LinkRepository) getMany(ctx context.Context, query string, args ...any) ([]domain.Link, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[domain.Link])
}
