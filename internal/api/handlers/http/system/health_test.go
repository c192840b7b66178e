package system_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lapor/internal/api/handlers/http/system"
	"lapor/pkg/logger"
)

func TestSystemHealth(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	system.NewHandler(logger.Discard()).SystemHealth(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestSystemReady(t *testing.T) {
	t.Parallel()

	up := system.Checker{Name: "postgres", Ping: func(context.Context) error { return nil }}
	down := system.Checker{Name: "redis", Ping: func(context.Context) error { return errors.New("refused") }}

	rec := httptest.NewRecorder()
	system.NewHandler(logger.Discard(), up).SystemReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	system.NewHandler(logger.Discard(), up, down).SystemReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
