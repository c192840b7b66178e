package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"lapor/internal/config"
	"lapor/pkg/e"
)

type Postgres struct {
	Pool        *pgxpool.Pool
	Report      *ReportRepo
	Suggestion  *SuggestionRepo
	Profile     *ProfileRepo
	StatusTrail *HistoryRepo
}

func NewPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.SSLMode,
	)

	logger.Info("Connecting to Postgres",
		slog.String("host", cfg.Postgres.Host),
		slog.Int("port", cfg.Postgres.Port),
		slog.String("db", cfg.Postgres.Database))

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("Failed to parse pgx config", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.ParseConfig", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}
	if cfg.Postgres.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Failed to create pgx pool", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.NewWithConfig", err)
	}

	logger.Info("Pinging Postgres database")
	if err := pool.Ping(ctx); err != nil {
		logger.Error("Failed to ping Postgres database", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Ping", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		logger.Error("Failed to apply schema", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Migrate", err)
	}
	logger.Info("Connected to Postgres successfully")

	return New(pool, logger), nil
}

// New builds the repositories on an existing pool.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	return &Postgres{
		Pool:        pool,
		Report:      NewReportRepo(pool, logger),
		Suggestion:  NewSuggestionRepo(pool, logger),
		Profile:     NewProfileRepo(pool, logger),
		StatusTrail: NewHistoryRepo(pool, logger),
	}
}

func (p *Postgres) Close() {
	p.Pool.Close()
}
