package postgres

import (
	"context"

	"github.com/google/uuid"

	"lapor/internal/domain"
)

type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListAll(ctx context.Context) ([]*domain.Report, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*domain.Report, error)
	ApplyFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Report, error)
}

type SuggestionRepository interface {
	Create(ctx context.Context, s *domain.Suggestion) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Suggestion, error)
	ListAll(ctx context.Context) ([]*domain.Suggestion, error)
	ListBySubmitter(ctx context.Context, submitterID uuid.UUID) ([]*domain.Suggestion, error)
	ApplyFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Suggestion, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context, role domain.Role) ([]*domain.Profile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.Profile, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, fullName string, phone *string) (*domain.Profile, error)
}

type HistoryRepository interface {
	Save(ctx context.Context, c *domain.StatusChange) error
	ListForEntity(ctx context.Context, kind domain.EntityKind, id uuid.UUID) ([]*domain.StatusChange, error)
}

func (p *Postgres) Reports() ReportRepository         { return p.Report }
func (p *Postgres) Suggestions() SuggestionRepository { return p.Suggestion }
func (p *Postgres) Profiles() ProfileRepository       { return p.Profile }
func (p *Postgres) History() HistoryRepository        { return p.StatusTrail }
