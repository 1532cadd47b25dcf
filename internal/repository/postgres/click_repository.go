package postgres

import (
	"context"
	"fmt"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clickColumns = `id, link_id, timestamp, user_agent, referer, ip`

type ClickRepository struct {
	db *pgxpool.Pool
}

func NewClickRepository(db *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{db: db}
}

// Record inserts the click and increments the link's click_count in one
// transaction. A missing link rolls back both writes and yields
// domain.ErrNotFound.
func (r *ClickRepository) Record(ctx context.Context, click *domain.Click) error {
	const op = "postgres.ClickRepository.Record"

	if !validID(click.LinkID) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO clicks (id, link_id, timestamp, user_agent, referer, ip)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.Exec(ctx, insert, click.ID, click.LinkID, click.Timestamp, click.UserAgent, click.Referer, click.IP)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return err
		}

		tag, err := tx.Exec(ctx, `UPDATE links SET click_count = click_count + 1 WHERE id = $1`, click.LinkID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// History returns the link's clicks newest first. limit <= 0 means no limit.
func (r *ClickRepository) History(ctx context.Context, linkID string, limit int) ([]domain.Click, error) {
	const op = "postgres.ClickRepository.History"

	if !validID(linkID) {
		return []domain.Click{}, nil
	}

	query := `SELECT ` + clickColumns + ` FROM clicks WHERE link_id = $1 ORDER BY timestamp DESC, seq DESC`
	args := []any{linkID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clicks, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Click])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return clicks, nil
}

func (r *ClickRepository) Recent(ctx context.Context, limit int) ([]domain.RecentClick, error) {
	const op = "postgres.ClickRepository.Recent"

	query := `
		SELECT c.id, c.link_id, c.timestamp, c.user_agent, c.referer, c.ip,
			l.slug AS link_slug, l.title AS link_title
		FROM clicks c
		JOIN links l ON l.id = c.link_id
		ORDER BY c.timestamp DESC, c.seq DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clicks, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.RecentClick])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return clicks, nil
}

func (r *ClickRepository) Count(ctx context.Context) (int64, error) {
	const op = "postgres.ClickRepository.Count"

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clicks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
