package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"lapor/internal/domain"
	"lapor/internal/middleware"
	"lapor/internal/render"
	"lapor/pkg/e"
	"lapor/pkg/validator"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Profiles interface {
	List(ctx context.Context, actor domain.Actor, role string) ([]*domain.Profile, error)
	ChangeRole(ctx context.Context, actor domain.Actor, target uuid.UUID, role domain.Role) (*domain.Profile, error)
	Me(ctx context.Context, actor domain.Actor) (*domain.Profile, error)
	UpdateOwn(ctx context.Context, actor domain.Actor, req domain.UpdateProfileRequest) (*domain.Profile, error)
}

type Handler struct {
	logger   *slog.Logger
	Profiles Profiles
}

func NewHandler(logger *slog.Logger, profiles Profiles) *Handler {
	return &Handler{logger: logger, Profiles: profiles}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) UserList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		render.Error(w, r, l, e.ErrUnauthenticated)
		return
	}

	req := domain.ListProfilesRequest{Role: r.URL.Query().Get("role")}
	if err := validator.ValidateStruct(req); err != nil {
		render.Fail(w, l, http.StatusBadRequest, "validation_failed", "invalid role filter", validator.Fields(err))
		return
	}

	profiles, err := h.Profiles.List(r.Context(), actor, req.Role)
	if err != nil {
		render.Error(w, r, l, err)
		return
	}

	render.JSON(w, l, http.StatusOK, map[string]any{
		"items": profiles,
		"count": len(profiles),
	})
}

func (h *Handler) UserChangeRole(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		render.Error(w, r, l, e.ErrUnauthenticated)
		return
	}

	idStr := chi.URLParam(r, "id")
	target, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		render.Fail(w, l, http.StatusBadRequest, "invalid_input", "invalid id", nil)
		return
	}

	req := middleware.Body[domain.ChangeRoleRequest](r.Context())
	if req == nil {
		render.Fail(w, l, http.StatusBadRequest, "invalid_input", "missing body", nil)
		return
	}

	profile, err := h.Profiles.ChangeRole(r.Context(), actor, target, req.Role)
	if err != nil {
		render.Error(w, r, l, err)
		return
	}

	l.Info("role changed", slog.String("target", target.String()), slog.String("role", string(req.Role)))
	render.JSON(w, l, http.StatusOK, profile)
}

func (h *Handler) ProfileGet(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		render.Error(w, r, l, e.ErrUnauthenticated)
		return
	}

	profile, err := h.Profiles.Me(r.Context(), actor)
	if err != nil {
		render.Error(w, r, l, err)
		return
	}
	render.JSON(w, l, http.StatusOK, profile)
}

func (h *Handler) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		render.Error(w, r, l, e.ErrUnauthenticated)
		return
	}

	req := middleware.Body[domain.UpdateProfileRequest](r.Context())
	if req == nil {
		render.Fail(w, l, http.StatusBadRequest, "invalid_input", "missing body", nil)
		return
	}

	profile, err := h.Profiles.UpdateOwn(r.Context(), actor, *req)
	if err != nil {
		render.Error(w, r, l, err)
		return
	}

	l.Info("profile updated", slog.String("id", actor.ID.String()))
	render.JSON(w, l, http.StatusOK, profile)
}
