package sqlite

import (
	"context"
	"fmt"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/jmoiron/sqlx"
)

const clickColumns = `id, link_id, timestamp, user_agent, referer, ip`

type ClickRepository struct {
	db *sqlx.DB
}

func NewClickRepository(db *sqlx.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

// Record inserts the click and increments the link's click_count in one
// transaction. Nothing is written when the link does not exist.
func (r *ClickRepository) Record(ctx context.Context, click *domain.Click) error {
	const op = "sqlite.ClickRepository.Record"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO clicks (id, link_id, timestamp, user_agent, referer, ip)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insert, click.ID, click.LinkID, click.Timestamp, click.UserAgent, click.Referer, click.IP)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE links SET click_count = click_count + 1 WHERE id = ?`, click.LinkID)
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

// History returns the link's clicks newest first. limit <= 0 means no limit.
func (r *ClickRepository) History(ctx context.Context, linkID string, limit int) ([]domain.Click, error) {
	const op = "sqlite.ClickRepository.History"

	query := `SELECT ` + clickColumns + ` FROM clicks WHERE link_id = ? ORDER BY timestamp DESC, rowid DESC`
	args := []any{linkID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	clicks := []domain.Click{}
	if err := r.db.SelectContext(ctx, &clicks, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return clicks, nil
}

func (r *ClickRepository) Recent(ctx context.Context, limit int) ([]domain.RecentClick, error) {
	const op = "sqlite.ClickRepository.Recent"

	query := `
		SELECT c.id, c.link_id, c.timestamp, c.user_agent, c.referer, c.ip,
			l.slug AS link_slug, l.title AS link_title
		FROM clicks c
		JOIN links l ON l.id = c.link_id
		ORDER BY c.timestamp DESC, c.rowid DESC
		LIMIT ?
	`

	clicks := []domain.RecentClick{}
	if err := r.db.SelectContext(ctx, &clicks, query, limit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return clicks, nil
}

func (r *ClickRepository) Count(ctx context.Context) (int64, error) {
	const op = "sqlite.ClickRepository.Count"

	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clicks`); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
