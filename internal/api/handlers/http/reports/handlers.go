package reports

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
type Reports interface {
	Create(ctx context.Context, actor domain.Actor, req domain.CreateReportRequest) (*domain.Report, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Report, error)
	List(ctx context.Context, actor domain.Actor, q listing.Query) ([]*domain.Report, error)
	Transition(ctx context.Context, actor domain.Actor, id uuid.UUID, req domain.ReportTransitionRequest) (*domain.Report, error)
	AllowedTransitions(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]domain.ReportStatus, error)
	History(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]*domain.StatusChange, error)
}

type Handler struct {
	logger  *slog.Logger
	Reports Reports
}

func NewHandler(logger *slog.Logger, reports Reports) *Handler {
	return &Handler{
		logger:  logger,
		Reports: reports,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) ReportCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("ReportCreate", slog.String("remote", r.RemoteAddr))

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req := middleware.Body[domain.CreateReportRequest](r.Context())
	if req == nil {
		h.badRequest(w, r, "missing body")
		return
	}

	report, err := h.Reports.Create(r.Context(), actor, *req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("report created", slog.String("id", report.ID.String()))
	h.writeJSON(w, r, http.StatusCreated, report)
}

func (h *Handler) ReportList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("ReportList", slog.String("query", r.URL.RawQuery))

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	q, ok := h.listQuery(w, r)
	if !ok {
		return
	}

	items, err := h.Reports.List(r.Context(), actor, q)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

func (h *Handler) ReportGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	report, err := h.Reports.Get(r.Context(), actor, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, report)
}

func (h *Handler) ReportTransitions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	next, err := h.Reports.AllowedTransitions(r.Context(), actor, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"allowed": next})
}

func (h *Handler) ReportTransition(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	req := middleware.Body[domain.ReportTransitionRequest](r.Context())
	if req == nil {
		h.badRequest(w, r, "missing body")
		return
	}

	l.Info("report transition requested",
		slog.String("id", id.String()),
		slog.String("to", string(req.Status)),
		slog.String("actor", actor.ID.String()))

	report, err := h.Reports.Transition(r.Context(), actor, id, *req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, report)
}

func (h *Handler) ReportHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	trail, err := h.Reports.History(r.Context(), actor, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"items": trail})
}
