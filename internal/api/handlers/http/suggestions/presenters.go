package suggestions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lapor/internal/domain"
	"lapor/internal/listing"
	"lapor/internal/middleware"
	"lapor/internal/render"
	"lapor/pkg/e"
	"lapor/pkg/validator"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	render.Error(w, r, h.log(r), err)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	render.JSON(w, h.log(r), code, v)
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Fail(w, h.log(r), http.StatusBadRequest, "invalid_input", msg, nil)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		h.handleError(w, r, e.ErrUnauthenticated)
	}
	return a, ok
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log(r).Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.badRequest(w, r, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) listQuery(w http.ResponseWriter, r *http.Request) (listing.Query, bool) {
	v := r.URL.Query()
	req := domain.ListRequest{
		Status:   v.Get("status"),
		Category: v.Get("category"),
		Query:    v.Get("q"),
		Sort:     v.Get("sort"),
	}
	if err := validator.ValidateStruct(req); err != nil {
		render.Fail(w, h.log(r), http.StatusBadRequest, "validation_failed", "invalid list query", validator.Fields(err))
		return listing.Query{}, false
	}
	return listing.QueryFrom(req), true
}
