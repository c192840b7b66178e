package suggestions

import (
	"context"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"lapor/internal/domain"
	"lapor/internal/listing"
	"lapor/internal/middleware"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Suggestions interface {
	Create(ctx context.Context, actor domain.Actor, req domain.CreateSuggestionRequest) (*domain.Suggestion, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Suggestion, error)
	List(ctx context.Context, actor domain.Actor, q listing.Query) ([]*domain.Suggestion, error)
	Transition(ctx context.Context, actor domain.Actor, id uuid.UUID, req domain.SuggestionTransitionRequest) (*domain.Suggestion, error)
	AllowedTransitions(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]domain.SuggestionStatus, error)
	History(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]*domain.StatusChange, error)
}

type Handler struct {
	logger      *slog.Logger
	Suggestions Suggestions
}

func NewHandler(logger *slog.Logger, suggestions Suggestions) *Handler {
	return &Handler{
		logger:      logger,
		Suggestions: suggestions,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) SuggestionCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("SuggestionCreate", slog.String("remote", r.RemoteAddr))

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req := middleware.Body[domain.CreateSuggestionRequest](r.Context())
	if req == nil {
		h.badRequest(w, r, "missing body")
		return
	}

	sg, err := h.Suggestions.Create(r.Context(), actor, *req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("suggestion created", slog.String("id", sg.ID.String()))
	h.writeJSON(w, r, http.StatusCreated, sg)
}

func (h *Handler) SuggestionList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("SuggestionList", slog.String("query", r.URL.RawQuery))

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	q, ok := h.listQuery(w, r)
	if !ok {
		return
	}

	items, err := h.Suggestions.List(r.Context(), actor, q)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

func (h *Handler) SuggestionGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	sg, err := h.Suggestions.Get(r.Context(), actor, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, sg)
}

func (h *Handler) SuggestionTransitions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	next, err := h.Suggestions.AllowedTransitions(r.Context(), actor, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"allowed": next})
}

func (h *Handler) SuggestionTransition(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	req := middleware.Body[domain.SuggestionTransitionRequest](r.Context())
	if req == nil {
		h.badRequest(w, r, "missing body")
		return
	}

	l.Info("suggestion transition requested",
		slog.String("id", id.String()),
		slog.String("to", string(req.Status)),
		slog.String("actor", actor.ID.String()))

	sg, err := h.Suggestions.Transition(r.Context(), actor, id, *req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, sg)
}

func (h *Handler) SuggestionHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	trail, err := h.Suggestions.History(r.Context(), actor, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"items": trail})
}
