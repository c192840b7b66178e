package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"lapor/internal/access"
	"lapor/internal/domain"
	"lapor/internal/lifecycle"
	"lapor/internal/listing"
	"lapor/internal/metrics"
	"lapor/pkg/e"
)

type ReportService struct {
	deps
	repo   ReportRepository
	cache  ReportCache
	engine *lifecycle.ReportEngine
}

func NewReportService(
	logger *slog.Logger,
	repo ReportRepository,
	history HistoryRepository,
	cache ReportCache,
	audit AuditPublisher,
	engine *lifecycle.ReportEngine,
	m *metrics.Metrics,
) *ReportService {
	return &ReportService{
		deps: deps{
			logger:  logger.With(slog.String("service", "reports")),
			history: history,
			audit:   audit,
			metrics: m,
			now:     func() time.Time { return time.Now().UTC() },
		},
		repo:   repo,
		cache:  cache,
		engine: engine,
	}
}

func (s *ReportService) Create(ctx context.Context, actor domain.Actor, req domain.CreateReportRequest) (*domain.Report, error) {
	const op = "service.Report.Create"

	if !access.Allowed(actor.Role, domain.EntityReport, domain.ActionCreate) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}
	if req.Location == nil {
		return nil, fmt.Errorf("%s: location required: %w", op, e.ErrInvalidInput)
	}

	now := s.now()
	r := &domain.Report{
		ID:          uuid.New(),
		ReporterID:  actor.ID,
		Category:    req.Category,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		PhotoRef:    req.PhotoRef,
		Location:    *req.Location,
		Status:      s.engine.Initial(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.invalidate(ctx, domain.EntityReport, s.cache.Invalidate)
	s.logger.Info("report created", slog.String("id", r.ID.String()), slog.String("category", string(r.Category)))
	return r, nil
}

func (s *ReportService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Report, error) {
	const op = "service.Report.Get"

	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanRead(actor, domain.EntityReport, r.ReporterID) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}
	return r, nil
}

// List returns the reports visible to actor after filtering, searching and
// sorting by q. Officers and admins read through the list cache.
func (s *ReportService) List(ctx context.Context, actor domain.Actor, q listing.Query) ([]*domain.Report, error) {
	const op = "service.Report.List"

	var (
		items []*domain.Report
		err   error
	)
	switch {
	case access.ReadsAll(actor, domain.EntityReport):
		items, err = s.listAll(ctx)
	case actor.Role == domain.RoleCitizen:
		items, err = s.repo.ListByReporter(ctx, actor.ID)
	default:
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	return listing.Apply(items, q), nil
}

func (s *ReportService) listAll(ctx context.Context) ([]*domain.Report, error) {
	cached, gen, ok, cacheErr := s.cache.Get(ctx)
	if cacheErr != nil {
		s.logger.Warn("report cache read failed", slog.Any("error", cacheErr))
	}
	if ok {
		return cached, nil
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if cacheErr == nil {
		if err := s.cache.Set(ctx, gen, items); err != nil {
			s.logger.Warn("report cache write failed", slog.Any("error", err))
		}
	}
	return items, nil
}

// Transition validates the request against the stored report, persists the
// resulting mutation and returns the updated report.
func (s *ReportService) Transition(ctx context.Context, actor domain.Actor, id uuid.UUID, req domain.ReportTransitionRequest) (*domain.Report, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m, err := lifecycle.TransitionReport(s.engine, r, actor, req.Status, req.Response)
	if err != nil {
		s.rejected(domain.EntityReport, err)
		return nil, err
	}

	updated, err := s.repo.ApplyFields(ctx, id, m.Fields())
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(domain.EntityReport), string(r.Status), string(m.Status))
	s.publish(ctx, domain.StatusChange{
		ID:        uuid.New(),
		Entity:    domain.EntityReport,
		EntityID:  id,
		ActorID:   actor.ID,
		From:      string(r.Status),
		To:        string(m.Status),
		Response:  responsePtr(m.Response),
		ChangedAt: s.now(),
	})
	s.invalidate(ctx, domain.EntityReport, s.cache.Invalidate)

	s.logger.Info("report transitioned",
		slog.String("id", id.String()),
		slog.String("from", string(r.Status)),
		slog.String("to", string(m.Status)),
		slog.String("actor", actor.ID.String()))
	return updated, nil
}

// AllowedTransitions lists the statuses actor may move the report to. Roles
// without transition rights get an empty list.
func (s *ReportService) AllowedTransitions(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]domain.ReportStatus, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !access.CanTransition(actor.Role, domain.EntityReport) {
		return []domain.ReportStatus{}, nil
	}
	return s.engine.AllowedNext(r.Status), nil
}

func (s *ReportService) History(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]*domain.StatusChange, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.history.ListForEntity(ctx, domain.EntityReport, id)
}
