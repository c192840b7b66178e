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

type SuggestionService struct {
	deps
	repo   SuggestionRepository
	cache  SuggestionCache
	engine *lifecycle.SuggestionEngine
}

func NewSuggestionService(
	logger *slog.Logger,
	repo SuggestionRepository,
	history HistoryRepository,
	cache SuggestionCache,
	audit AuditPublisher,
	engine *lifecycle.SuggestionEngine,
	m *metrics.Metrics,
) *SuggestionService {
	return &SuggestionService{
		deps: deps{
			logger:  logger.With(slog.String("service", "suggestions")),
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

func (s *SuggestionService) Create(ctx context.Context, actor domain.Actor, req domain.CreateSuggestionRequest) (*domain.Suggestion, error) {
	const op = "service.Suggestion.Create"

	if !access.Allowed(actor.Role, domain.EntitySuggestion, domain.ActionCreate) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}
	desc := strings.TrimSpace(req.Description)
	if len([]rune(desc)) < domain.SuggestionMinDescription {
		return nil, fmt.Errorf("%s: description shorter than %d: %w", op, domain.SuggestionMinDescription, e.ErrInvalidInput)
	}

	sg := &domain.Suggestion{
		ID:          uuid.New(),
		SubmitterID: actor.ID,
		Category:    req.Category,
		Title:       strings.TrimSpace(req.Title),
		Description: desc,
		Status:      s.engine.Initial(),
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, sg); err != nil {
		return nil, err
	}

	s.invalidate(ctx, domain.EntitySuggestion, s.cache.Invalidate)
	s.logger.Info("suggestion created", slog.String("id", sg.ID.String()), slog.String("category", string(sg.Category)))
	return sg, nil
}

func (s *SuggestionService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Suggestion, error) {
	const op = "service.Suggestion.Get"

	sg, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanRead(actor, domain.EntitySuggestion, sg.SubmitterID) {
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}
	return sg, nil
}

// List ignores q.Category: suggestion lists are filtered by status and
// search only.
func (s *SuggestionService) List(ctx context.Context, actor domain.Actor, q listing.Query) ([]*domain.Suggestion, error) {
	const op = "service.Suggestion.List"

	var (
		items []*domain.Suggestion
		err   error
	)
	switch {
	case access.ReadsAll(actor, domain.EntitySuggestion):
		items, err = s.listAll(ctx)
	case actor.Role == domain.RoleCitizen:
		items, err = s.repo.ListBySubmitter(ctx, actor.ID)
	default:
		return nil, fmt.Errorf("%s: %w", op, e.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	q.Category = ""
	return listing.Apply(items, q), nil
}

func (s *SuggestionService) listAll(ctx context.Context) ([]*domain.Suggestion, error) {
	cached, gen, ok, cacheErr := s.cache.Get(ctx)
	if cacheErr != nil {
		s.logger.Warn("suggestion cache read failed", slog.Any("error", cacheErr))
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
			s.logger.Warn("suggestion cache write failed", slog.Any("error", err))
		}
	}
	return items, nil
}

func (s *SuggestionService) Transition(ctx context.Context, actor domain.Actor, id uuid.UUID, req domain.SuggestionTransitionRequest) (*domain.Suggestion, error) {
	sg, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m, err := lifecycle.TransitionSuggestion(s.engine, sg, actor, req.Status, req.Response)
	if err != nil {
		s.rejected(domain.EntitySuggestion, err)
		return nil, err
	}

	updated, err := s.repo.ApplyFields(ctx, id, m.Fields())
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(domain.EntitySuggestion), string(sg.Status), string(m.Status))
	s.publish(ctx, domain.StatusChange{
		ID:        uuid.New(),
		Entity:    domain.EntitySuggestion,
		EntityID:  id,
		ActorID:   actor.ID,
		From:      string(sg.Status),
		To:        string(m.Status),
		Response:  responsePtr(m.Response),
		ChangedAt: s.now(),
	})
	s.invalidate(ctx, domain.EntitySuggestion, s.cache.Invalidate)

	s.logger.Info("suggestion transitioned",
		slog.String("id", id.String()),
		slog.String("from", string(sg.Status)),
		slog.String("to", string(m.Status)),
		slog.String("actor", actor.ID.String()))
	return updated, nil
}

func (s *SuggestionService) AllowedTransitions(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]domain.SuggestionStatus, error) {
	sg, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !access.CanTransition(actor.Role, domain.EntitySuggestion) {
		return []domain.SuggestionStatus{}, nil
	}
	return s.engine.AllowedNext(sg.Status), nil
}

func (s *SuggestionService) History(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]*domain.StatusChange, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.history.ListForEntity(ctx, domain.EntitySuggestion, id)
}
