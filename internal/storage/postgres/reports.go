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

const reportColumns = `id, reporter_id, category, title, description, photo_ref,
	latitude, longitude, address, status, response, assignee_id, created_at, updated_at`

var reportWritable = []string{"status", "response", "assignee_id", "updated_at"}

type ReportRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReportRepo(pool *pgxpool.Pool, logger *slog.Logger) *ReportRepo {
	return &ReportRepo{pool: pool, logger: logger}
}

func (p *ReportRepo) Create(ctx context.Context, r *domain.Report) error {
	const op = "postgres.Report.Create"

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}

	const query = `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := p.pool.Exec(ctx, query,
		r.ID,
		r.ReporterID,
		r.Category,
		r.Title,
		r.Description,
		r.PhotoRef,
		r.Location.Latitude,
		r.Location.Longitude,
		r.Location.Address,
		r.Status,
		r.Response,
		r.AssigneeID,
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *ReportRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	const op = "postgres.Report.Get"

	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	r, err := scanReport(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return r, nil
}

// ListAll returns every report, newest first.
func (p *ReportRepo) ListAll(ctx context.Context) ([]*domain.Report, error) {
	const op = "postgres.Report.ListAll"

	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC`
	return p.list(ctx, op, query)
}

func (p *ReportRepo) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*domain.Report, error) {
	const op = "postgres.Report.ListByReporter"

	query := `SELECT ` + reportColumns + ` FROM reports WHERE reporter_id = $1 ORDER BY created_at DESC`
	return p.list(ctx, op, query, reporterID)
}

// ApplyFields writes a transition mutation and returns the stored row.
func (p *ReportRepo) ApplyFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Report, error) {
	const op = "postgres.Report.ApplyFields"

	query, args, err := buildUpdate("reports", reportWritable, id, fields, reportColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r, err := scanReport(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return r, nil
}

func (p *ReportRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Report, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	reports := make([]*domain.Report, 0, 16)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return reports, nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var r domain.Report
	err := row.Scan(
		&r.ID,
		&r.ReporterID,
		&r.Category,
		&r.Title,
		&r.Description,
		&r.PhotoRef,
		&r.Location.Latitude,
		&r.Location.Longitude,
		&r.Location.Address,
		&r.Status,
		&r.Response,
		&r.AssigneeID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
