package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lapor/internal/domain"
	"lapor/internal/lifecycle"
	"lapor/internal/metrics"
	"lapor/pkg/e"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
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
	ListForEntity(ctx context.Context, kind domain.EntityKind, id uuid.UUID) ([]*domain.StatusChange, error)
}

// ReportCache holds the unfiltered report list served to officers and admins.
// Get reports a generation on a miss; Set drops the write when an
// invalidation happened since.
type ReportCache interface {
	Get(ctx context.Context) ([]*domain.Report, int64, bool, error)
	Set(ctx context.Context, gen int64, items []*domain.Report) error
	Invalidate(ctx context.Context) error
}

type SuggestionCache interface {
	Get(ctx context.Context) ([]*domain.Suggestion, int64, bool, error)
	Set(ctx context.Context, gen int64, items []*domain.Suggestion) error
	Invalidate(ctx context.Context) error
}

type AuditPublisher interface {
	Enqueue(ctx context.Context, change domain.StatusChange) error
}

type Service struct {
	Reports     *ReportService
	Suggestions *SuggestionService
	Profiles    *ProfileService
}

func NewService(reports *ReportService, suggestions *SuggestionService, profiles *ProfileService) *Service {
	return &Service{
		Reports:     reports,
		Suggestions: suggestions,
		Profiles:    profiles,
	}
}

// deps is what the report and suggestion services share besides their
// repository and engine.
type deps struct {
	logger  *slog.Logger
	history HistoryRepository
	audit   AuditPublisher
	metrics *metrics.Metrics
	now     func() time.Time
}

// publish hands an accepted change to the audit writer. The transition is
// already stored, so a queue failure is only logged.
func (d *deps) publish(ctx context.Context, change domain.StatusChange) {
	if err := d.audit.Enqueue(ctx, change); err != nil {
		d.logger.Error("audit enqueue failed",
			slog.String("entity", string(change.Entity)),
			slog.String("entity_id", change.EntityID.String()),
			slog.String("to", change.To),
			slog.Any("error", err))
	}
}

func (d *deps) rejected(kind domain.EntityKind, err error) {
	reason := rejectionReason(err)
	d.metrics.RecordRejection(string(kind), reason)
	if reason == "malformed" {
		d.logger.Error("entity snapshot rejected by engine", slog.String("entity", string(kind)), slog.Any("error", err))
	}
}

func (d *deps) invalidate(ctx context.Context, kind domain.EntityKind, invalidate func(context.Context) error) {
	if err := invalidate(ctx); err != nil {
		d.logger.Warn("list cache invalidate failed", slog.String("entity", string(kind)), slog.Any("error", err))
	}
}

func rejectionReason(err error) string {
	switch {
	case lifecycle.IsNoOp(err):
		return "no_op"
	case errors.Is(err, e.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, e.ErrTerminalState):
		return "terminal_state"
	case errors.Is(err, e.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, e.ErrResponseRequired):
		return "response_required"
	case errors.Is(err, e.ErrMalformed):
		return "malformed"
	}
	return "other"
}

func responsePtr(u lifecycle.Update[string]) *string {
	if u.Op != lifecycle.Set {
		return nil
	}
	v := u.Value
	return &v
}
