package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lapor/internal/domain"
	"lapor/pkg/e"
)

const suggestionColumns = `id, submitter_id, category, title, description, status, response, created_at`

var suggestionWritable = []string{"status", "response"}

type SuggestionRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewSuggestionRepo(pool *pgxpool.Pool, logger *slog.Logger) *SuggestionRepo {
	return &SuggestionRepo{pool: pool, logger: logger}
}

func (p *SuggestionRepo) Create(ctx context.Context, s *domain.Suggestion) error {
	const op = "postgres.Suggestion.Create"

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO suggestions (` + suggestionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		s.ID,
		s.SubmitterID,
		s.Category,
		s.Title,
		s.Description,
		s.Status,
		s.Response,
		s.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (p *SuggestionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Suggestion, error) {
	const op = "postgres.Suggestion.Get"

	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE id = $1`

	s, err := scanSuggestion(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return s, nil
}

func (p *SuggestionRepo) ListAll(ctx context.Context) ([]*domain.Suggestion, error) {
	const op = "postgres.Suggestion.ListAll"

	query := `SELECT ` + suggestionColumns + ` FROM suggestions ORDER BY created_at DESC`
	return p.list(ctx, op, query)
}

func (p *SuggestionRepo) ListBySubmitter(ctx context.Context, submitterID uuid.UUID) ([]*domain.Suggestion, error) {
	const op = "postgres.Suggestion.ListBySubmitter"

	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE submitter_id = $1 ORDER BY created_at DESC`
	return p.list(ctx, op, query, submitterID)
}

func (p *SuggestionRepo) ApplyFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Suggestion, error) {
	const op = "postgres.Suggestion.ApplyFields"

	query, args, err := buildUpdate("suggestions", suggestionWritable, id, fields, suggestionColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s, err := scanSuggestion(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return s, nil
}

func (p *SuggestionRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Suggestion, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]*domain.Suggestion, 0, 16)
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return out, nil
}

func scanSuggestion(row pgx.Row) (*domain.Suggestion, error) {
	var s domain.Suggestion
	if err := row.Scan(
		&s.ID,
		&s.SubmitterID,
		&s.Category,
		&s.Title,
		&s.Description,
		&s.Status,
		&s.Response,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
