package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lapor/internal/domain"
	"lapor/pkg/e"
)

type HistoryRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewHistoryRepo(pool *pgxpool.Pool, logger *slog.Logger) *HistoryRepo {
	return &HistoryRepo{pool: pool, logger: logger}
}

// Save is idempotent on the change id, so a redelivered queue item is a no-op.
func (p *HistoryRepo) Save(ctx context.Context, c *domain.StatusChange) error {
	const op = "postgres.History.Save"

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.ChangedAt.IsZero() {
		c.ChangedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO status_changes (id, entity, entity_id, actor_id, from_status, to_status, response, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		c.ID,
		c.Entity,
		c.EntityID,
		c.ActorID,
		c.From,
		c.To,
		c.Response,
		c.ChangedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

// ListForEntity returns the trail of one entity, oldest change first.
func (p *HistoryRepo) ListForEntity(ctx context.Context, kind domain.EntityKind, id uuid.UUID) ([]*domain.StatusChange, error) {
	const op = "postgres.History.ListForEntity"

	const query = `
		SELECT id, entity, entity_id, actor_id, from_status, to_status, response, changed_at
		FROM status_changes
		WHERE entity = $1 AND entity_id = $2
		ORDER BY changed_at ASC
	`

	rows, err := p.pool.Query(ctx, query, kind, id)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]*domain.StatusChange, 0, 4)
	for rows.Next() {
		var c domain.StatusChange
		if err := rows.Scan(&c.ID, &c.Entity, &c.EntityID, &c.ActorID, &c.From, &c.To, &c.Response, &c.ChangedAt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return out, nil
}
