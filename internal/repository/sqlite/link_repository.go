package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/jmoiron/sqlx"
)

const linkColumns = `id, slug, url, title, click_count, created_at, updated_at`

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	const op = "sqlite.LinkRepository.Create"

	query := `
		INSERT INTO links (id, slug, url, title, click_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, link.ID, link.Slug, link.URL, link.Title, link.CreatedAt, link.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrSlugTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	link.ClickCount = 0
	return nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	const op = "sqlite.LinkRepository.GetByID"

	link, err := r.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return link, nil
}

func (r *LinkRepository) GetBySlug(ctx context.Context, slug string) (*domain.Link, error) {
	const op = "sqlite.LinkRepository.GetBySlug"

	link, err := r.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE slug = ?`, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return link, nil
}

func (r *LinkRepository) Update(ctx context.Context, link *domain.Link) error {
	const op = "sqlite.LinkRepository.Update"

	query := `UPDATE links SET slug = ?, url = ?, title = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, link.Slug, link.URL, link.Title, link.UpdatedAt, link.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrSlugTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	stored, err := r.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, link.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if stored != nil {
		link.ClickCount = stored.ClickCount
		link.CreatedAt = stored.CreatedAt
	}

	return nil
}

// Delete removes the link and its clicks in one transaction.
func (r *LinkRepository) Delete(ctx context.Context, id string) error {
	const op = "sqlite.LinkRepository.Delete"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clicks WHERE link_id = ?`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return nil
}

func (r *LinkRepository) List(ctx context.Context) ([]domain.Link, error) {
	const op = "sqlite.LinkRepository.List"

	links := []domain.Link{}
	if err := r.db.SelectContext(ctx, &links, `SELECT `+linkColumns+` FROM links ORDER BY created_at DESC, rowid DESC`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return links, nil
}

func (r *LinkRepository) Top(ctx context.Context, n int) ([]domain.Link, error) {
	const op = "sqlite.LinkRepository.Top"

	query := `SELECT ` + linkColumns + ` FROM links ORDER BY click_count DESC, created_at DESC, rowid DESC LIMIT ?`

	links := []domain.Link{}
	if err := r.db.SelectContext(ctx, &links, query, n); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return links, nil
}

func (r *LinkRepository) Count(ctx context.Context) (int64, error) {
	const op = "sqlite.LinkRepository.Count"

	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM links`); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (r *LinkRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Link, error) {
	var link domain.Link
	if err := r.db.GetContext(ctx, &link, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}
