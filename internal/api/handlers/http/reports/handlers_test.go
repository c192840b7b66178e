package reports_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"lapor/internal/api/handlers/http/reports"
	mock_reports "lapor/internal/api/handlers/http/reports/mocks"
	"lapor/internal/domain"
	"lapor/internal/lifecycle"
	"lapor/internal/listing"
	"lapor/internal/middleware"
	"lapor/pkg/e"
	"lapor/pkg/logger"
)

func newRouter(h *reports.Handler, actor *domain.Actor) http.Handler {
	r := chi.NewRouter()
	if actor != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithActor(req.Context(), *actor)))
			})
		})
	}
	r.With(middleware.BindJSON[domain.CreateReportRequest]()).Post("/reports", h.ReportCreate)
	r.Get("/reports", h.ReportList)
	r.Get("/reports/{id}", h.ReportGet)
	r.Get("/reports/{id}/transitions", h.ReportTransitions)
	r.With(middleware.BindJSON[domain.ReportTransitionRequest]()).Patch("/reports/{id}/status", h.ReportTransition)
	r.Get("/reports/{id}/history", h.ReportHistory)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

type errBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestReportCreate_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}

	svc.EXPECT().
		Create(gomock.Any(), actor, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Actor, req domain.CreateReportRequest) (*domain.Report, error) {
			if req.Category != domain.ReportInfrastructure || req.Location == nil || req.Location.Latitude != -6.2 {
				t.Errorf("unexpected request: %+v", req)
			}
			return &domain.Report{ID: uuid.New(), ReporterID: actor.ID, Status: domain.ReportPending, CreatedAt: time.Now()}, nil
		})

	body := `{"category":"infrastructure","title":"Jembatan retak","description":"Retak di sisi timur",
		"photo_ref":"photos/9.jpg","location":{"latitude":-6.2,"longitude":106.8}}`
	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodPost, "/reports", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeJSON[domain.Report](t, rec)
	if got.Status != domain.ReportPending {
		t.Fatalf("unexpected status %q", got.Status)
	}
}

func TestReportCreate_ValidationFailed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}

	// location missing, latitude out of range in the second body
	for _, body := range []string{
		`{"category":"infrastructure","title":"a","description":"b","photo_ref":"c"}`,
		`{"category":"infrastructure","title":"a","description":"b","photo_ref":"c","location":{"latitude":91,"longitude":0}}`,
	} {
		rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodPost, "/reports", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	}
}

func TestReportList_PassesQuery(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer}

	want := listing.Query{Status: "pending", Category: "health", Search: "banjir", Order: listing.Oldest}
	svc.EXPECT().List(gomock.Any(), actor, want).Return([]*domain.Report{{ID: uuid.New()}}, nil)

	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodGet,
		"/reports?status=pending&category=health&q=banjir&sort=oldest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeJSON[struct {
		Count int `json:"count"`
	}](t, rec)
	if got.Count != 1 {
		t.Fatalf("expected count 1, got %d", got.Count)
	}
}

func TestReportList_BadSort(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer}

	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodGet, "/reports?sort=random", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReportGet_InvalidID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodGet, "/reports/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReportGet_NoActor(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)

	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), nil), http.MethodGet, "/reports/"+uuid.NewString(), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestReportGet_NotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}
	id := uuid.New()
	svc.EXPECT().Get(gomock.Any(), actor, id).Return(nil, e.ErrNotFound)

	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodGet, "/reports/"+id.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestReportTransition_ErrorMapping(t *testing.T) {
	t.Parallel()

	rejection := func(err error, noop bool) error {
		return &lifecycle.TransitionError{Entity: domain.EntityReport, From: "pending", To: "resolved", NoOp: noop, Err: err}
	}

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", rejection(e.ErrUnauthorized, false), http.StatusForbidden, "unauthorized"},
		{"terminal", rejection(e.ErrTerminalState, false), http.StatusConflict, "terminal_state"},
		{"invalid", rejection(e.ErrInvalidTransition, false), http.StatusConflict, "invalid_transition"},
		{"noop", rejection(e.ErrInvalidTransition, true), http.StatusConflict, "no_changes"},
		{"response", rejection(e.ErrResponseRequired, false), http.StatusUnprocessableEntity, "response_required"},
		{"malformed", rejection(e.ErrMalformed, false), http.StatusInternalServerError, "internal"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mock_reports.NewMockReports(ctrl)
			actor := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer}
			id := uuid.New()

			svc.EXPECT().
				Transition(gomock.Any(), actor, id, domain.ReportTransitionRequest{Status: domain.ReportResolved, Response: "x"}).
				Return(nil, c.err)

			rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodPatch,
				"/reports/"+id.String()+"/status", `{"status":"resolved","response":"x"}`)
			if rec.Code != c.status {
				t.Fatalf("expected %d, got %d", c.status, rec.Code)
			}
			if got := decodeJSON[errBody](t, rec); got.Code != c.code {
				t.Fatalf("expected code %q, got %q", c.code, got.Code)
			}
		})
	}
}

func TestReportTransition_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer}
	id := uuid.New()
	resp := "Sedang dikerjakan"

	svc.EXPECT().
		Transition(gomock.Any(), actor, id, domain.ReportTransitionRequest{Status: domain.ReportInProgress, Response: resp}).
		Return(&domain.Report{ID: id, Status: domain.ReportInProgress, Response: &resp, AssigneeID: &actor.ID}, nil)

	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodPatch,
		"/reports/"+id.String()+"/status", `{"status":"in_progress","response":"Sedang dikerjakan"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeJSON[domain.Report](t, rec)
	if got.AssigneeID == nil || *got.AssigneeID != actor.ID {
		t.Fatalf("assignee not returned")
	}
}

func TestReportTransitions_List(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleOfficer}
	id := uuid.New()

	svc.EXPECT().AllowedTransitions(gomock.Any(), actor, id).
		Return([]domain.ReportStatus{domain.ReportResolved, domain.ReportRejected}, nil)

	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodGet, "/reports/"+id.String()+"/transitions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"allowed":["resolved","rejected"]`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestReportHistory_Forbidden(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_reports.NewMockReports(ctrl)
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleCitizen}
	id := uuid.New()

	svc.EXPECT().History(gomock.Any(), actor, id).Return(nil, e.ErrUnauthorized)

	rec := do(t, newRouter(reports.NewHandler(logger.Discard(), svc), &actor), http.MethodGet, "/reports/"+id.String()+"/history", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
