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

const profileColumns = `id, email, full_name, phone, role, created_at`

type ProfileRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewProfileRepo(pool *pgxpool.Pool, logger *slog.Logger) *ProfileRepo {
	return &ProfileRepo{pool: pool, logger: logger}
}

// Create stores a profile issued by the identity provider. New profiles are
// citizens unless a role is given.
func (p *ProfileRepo) Create(ctx context.Context, pr *domain.Profile) error {
	const op = "postgres.Profile.Create"

	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	if pr.Role == "" {
		pr.Role = domain.RoleCitizen
	}
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query, pr.ID, pr.Email, pr.FullName, pr.Phone, pr.Role, pr.CreatedAt)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (p *ProfileRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	const op = "postgres.Profile.Get"

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	pr, err := scanProfile(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return pr, nil
}

// List returns profiles ordered by creation time, newest first. An empty
// role returns every profile.
func (p *ProfileRepo) List(ctx context.Context, role domain.Role) ([]*domain.Profile, error) {
	const op = "postgres.Profile.List"

	var (
		rows pgx.Rows
		err  error
	)
	if role == "" {
		rows, err = p.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	} else {
		rows, err = p.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY created_at DESC`, role)
	}
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]*domain.Profile, 0, 16)
	for rows.Next() {
		pr, err := scanProfile(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	return out, nil
}

func (p *ProfileRepo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.Profile, error) {
	const op = "postgres.Profile.UpdateRole"

	query := `UPDATE profiles SET role = $2 WHERE id = $1 RETURNING ` + profileColumns

	pr, err := scanProfile(p.pool.QueryRow(ctx, query, id, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return pr, nil
}

// UpdateDetails overwrites the self-editable contact fields. A nil phone
// clears it.
func (p *ProfileRepo) UpdateDetails(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*domain.Profile, error) {
	const op = "postgres.Profile.UpdateDetails"

	query := `UPDATE profiles SET full_name = $2, phone = $3 WHERE id = $1 RETURNING ` + profileColumns

	pr, err := scanProfile(p.pool.QueryRow(ctx, query, id, fullName, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	return pr, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var pr domain.Profile
	if err := row.Scan(&pr.ID, &pr.Email, &pr.FullName, &pr.Phone, &pr.Role, &pr.CreatedAt); err != nil {
		return nil, err
	}
	return &pr, nil
}
